package flow

import (
	"context"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

// Singleton[T] holds exactly one (eventually settled) value of T at a
// location (spec §3.2 "Singleton<T,L,B>").
type Singleton[T any] struct {
	h handle
}

func (s Singleton[T]) Location() handle { return s.h }

// Clone shares the underlying subgraph through a Tee (spec §3.5).
func (s Singleton[T]) Clone() Singleton[T] {
	t := tee(s.h, s.h.node.Metadata().CollectionKind)
	return Singleton[T]{h: handle{fs: s.h.fs, loc: s.h.loc, g: s.h.g, node: t}}
}

// Value builds a Singleton[T] directly from a settled expression (spec
// §3.3 SingletonSource{value}).
func Value[T any](loc location.ID, f *Flow, label string, value T) Singleton[T] {
	e := expr.NewClosure(label, span(), value)
	ck := ir.Singleton(guarantee.Bounded, typeOf[T]())
	n := ir.NewSingletonSource(loc, ck, e)
	return Singleton[T]{h: handle{fs: f.fs, loc: loc, g: ck.Guarantees, node: n}}
}

// ForEach consumes the eventually-settled value, terminating the
// pipeline.
func (s Singleton[T]) ForEach(label string, f func(T)) {
	e := expr.NewClosure(label, span(), f)
	root := ir.NewForEach(s.h.loc, s.h.node, e)
	s.h.fs.AddRoot(s.h.loc.Root(), root)
	recordRootBuilt(context.Background(), "for_each", s.h.loc.String())
}
