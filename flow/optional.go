package flow

import (
	"context"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/ir"
)

// Optional[T] holds zero or one (eventually settled) value of T at a
// location (spec §3.2 "Optional<T,L,B>").
type Optional[T any] struct {
	h handle
}

func (o Optional[T]) Location() handle { return o.h }

// Clone shares the underlying subgraph through a Tee (spec §3.5).
func (o Optional[T]) Clone() Optional[T] {
	t := tee(o.h, o.h.node.Metadata().CollectionKind)
	return Optional[T]{h: handle{fs: o.h.fs, loc: o.h.loc, g: o.h.g, node: t}}
}

// ForEach consumes the value if present, terminating the pipeline.
func (o Optional[T]) ForEach(label string, f func(T)) {
	e := expr.NewClosure(label, span(), f)
	root := ir.NewForEach(o.h.loc, o.h.node, e)
	o.h.fs.AddRoot(o.h.loc.Root(), root)
	recordRootBuilt(context.Background(), "for_each", o.h.loc.String())
}
