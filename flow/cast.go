package flow

import (
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
)

// Weaken widens s's guarantees to g (spec §4.1 Cast(inner) — a no-op at
// runtime, just a metadata relabelling); panics if s's current
// guarantees do not dominate g, since that would be a strengthening in
// disguise and those require an explicit NonDet witness instead.
func Weaken[T any](s Stream[T], g guarantee.Triple) Stream[T] {
	if !s.h.g.Dominates(g) {
		panic("flow: Weaken must only widen guarantees, use a NonDet-witnessed combinator to strengthen")
	}
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewCast(s.h.loc, ck, s.h.node)
	return Stream[T]{h: handle{fs: s.h.fs, loc: s.h.loc, g: g, node: n}}
}

// Trust asserts, under a witnessed rationale, that s's elements actually
// satisfy a stronger guarantee than the builder tracked (spec §4.1
// ObserveNonDet(inner, trusted=true)) — e.g. externally known ordering.
func Trust[T any](s Stream[T], g guarantee.Triple, w NonDetWitness) Stream[T] {
	w.require("Trust")
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewObserveNonDet(s.h.loc, ck, s.h.node, true, w.rationale)
	return Stream[T]{h: handle{fs: s.h.fs, loc: s.h.loc, g: g, node: n}}
}
