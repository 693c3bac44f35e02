package flow

import (
	"github.com/hydroflow-go/hydro/cycle"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

// CycleHandle[T] is a forward reference to a Stream[T] that does not yet
// exist (spec §4.3): declare it, build the rest of the loop body using
// Source(), then call Complete once the real collection is known.
type CycleHandle[T any] struct {
	h      *cycle.Handle
	source Stream[T]
}

// DeclareTickCycle opens a TickCycle forward reference at loc — a
// back-edge fully resolved within one tick, permitting arbitrary
// feedback (spec §4.3).
func DeclareTickCycle[T any](f *Flow, loc location.ID, g guarantee.Triple) CycleHandle[T] {
	return declareCycle[T](f, loc, cycle.TickCycle, g)
}

// DeclareForwardRef opens a ForwardRef forward reference at loc — a
// forward reference across async locations that must be initialised
// before first use (spec §4.3).
func DeclareForwardRef[T any](f *Flow, loc location.ID, g guarantee.Triple) CycleHandle[T] {
	return declareCycle[T](f, loc, cycle.ForwardRef, g)
}

func declareCycle[T any](f *Flow, loc location.ID, flavor cycle.Flavor, g guarantee.Triple) CycleHandle[T] {
	ck := ir.Stream(g, typeOf[T]())
	src, h := cycle.Declare(f.fs, loc, flavor, ck)
	return CycleHandle[T]{h: h, source: Stream[T]{h: handle{fs: f.fs, loc: loc, g: g, node: src}}}
}

// Source returns the placeholder Stream[T] usable inside the loop body
// before Complete is called.
func (c CycleHandle[T]) Source() Stream[T] { return c.source }

// Complete binds the forward reference to its real producer (spec §4.3
// "appends a CycleSink(n, input) root"). Must be called exactly once.
func (c CycleHandle[T]) Complete(actual Stream[T]) {
	c.h.Complete(actual.h.node)
}
