package flow

import (
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

// Tick wraps a location in a discrete-time stratum (spec §3.1 "Tick"),
// the location every Batch/DeferTick/Fold-with-static-lifetime lives at.
type Tick struct {
	f   *Flow
	loc location.ID
}

// NewTick opens a fresh tick stratum over outer.
func NewTick(f *Flow, outer location.ID) Tick {
	return Tick{f: f, loc: location.Tick(outer)}
}

func (t Tick) ID() location.ID { return t.loc }

// Atomic wraps a location in a synchronous execution boundary (spec
// §3.1 "Atomic").
type Atomic struct {
	f   *Flow
	loc location.ID
}

// NewAtomic opens a fresh atomic boundary over outer.
func NewAtomic(f *Flow, outer location.ID) Atomic {
	return Atomic{f: f, loc: location.Atomic(outer)}
}

func (a Atomic) ID() location.ID { return a.loc }

// Batch moves an Unbounded stream into tick, yielding Bounded<Tick>
// (spec §4.2). Introducing tick boundaries over an unbounded source is
// an intrinsic non-determinism (which elements land in which tick), so
// it requires a witness.
func Batch[T any](s Stream[T], t Tick, w NonDetWitness) Stream[T] {
	w.require("Batch")
	g := s.h.g
	g.Bound = guarantee.Bounded
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewBatch(t.loc, ck, s.h.node, w.toIR())
	return Stream[T]{h: handle{fs: s.h.fs, loc: t.loc, g: g, node: n}}
}

// AllTicks concatenates every tick's Bounded<Tick> batch back into an
// Unbounded stream at the enclosing location (spec §4.2 all_ticks).
func AllTicks[T any](s Stream[T]) Stream[T] {
	outer := s.h.loc.Inner()
	g := s.h.g
	g.Bound = guarantee.Unbounded
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewYieldConcat(outer, ck, s.h.node, false)
	return Stream[T]{h: handle{fs: s.h.fs, loc: outer, g: g, node: n}}
}

// AllTicksAtomic is AllTicks but additionally marks the concatenation as
// an atomic boundary crossing (spec §4.2 all_ticks_atomic).
func AllTicksAtomic[T any](s Stream[T]) Stream[T] {
	outer := s.h.loc.Inner()
	g := s.h.g
	g.Bound = guarantee.Unbounded
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewYieldConcat(outer, ck, s.h.node, true)
	return Stream[T]{h: handle{fs: s.h.fs, loc: outer, g: g, node: n}}
}

// DeferTick delays a Bounded<Tick> stream's elements to the following
// tick (spec §4.2 defer_tick).
func DeferTick[T any](s Stream[T]) Stream[T] {
	ck := ir.Stream(s.h.g, typeOf[T]())
	n := ir.NewDeferTick(s.h.loc, ck, s.h.node)
	return Stream[T]{h: handle{fs: s.h.fs, loc: s.h.loc, g: s.h.g, node: n}}
}

// Persist carries a Bounded<Tick> stream's accumulated state across tick
// boundaries (spec §4.2 persist), the building block behind Fold's
// static lifetime. Its public exposure intentionally excludes Unpersist:
// per SPEC_FULL §11 Open Question #2 that marker is optimiser-internal
// and eliminated by ir.Normalize.
func Persist[T any](s Stream[T]) Stream[T] {
	ck := ir.Stream(s.h.g, typeOf[T]())
	n := ir.NewPersist(s.h.loc, ck, s.h.node)
	return Stream[T]{h: handle{fs: s.h.fs, loc: s.h.loc, g: s.h.g, node: n}}
}

// EnterAtomic moves a stream into an atomic execution boundary (spec
// §3.1, §4.2 BeginAtomic(inner)).
func EnterAtomic[T any](s Stream[T], a Atomic) Stream[T] {
	ck := ir.Stream(s.h.g, typeOf[T]())
	n := ir.NewBeginAtomic(a.loc, ck, s.h.node)
	return Stream[T]{h: handle{fs: s.h.fs, loc: a.loc, g: s.h.g, node: n}}
}

// ExitAtomic leaves an atomic execution boundary, returning to the
// enclosing location (spec §4.2 EndAtomic(inner)).
func ExitAtomic[T any](s Stream[T]) Stream[T] {
	outer := s.h.loc.Inner()
	ck := ir.Stream(s.h.g, typeOf[T]())
	n := ir.NewEndAtomic(outer, ck, s.h.node)
	return Stream[T]{h: handle{fs: s.h.fs, loc: outer, g: s.h.g, node: n}}
}

// SampleEvery marks s as sampled at non-deterministic instants: it wraps
// s in an ObserveNonDet node carrying w's witness and lowers the order
// guarantee to NoOrder. It takes no interval expression and drops no
// elements itself; the node only records the non-determinism in the IR.
func SampleEvery[T any](s Stream[T], w NonDetWitness) Stream[T] {
	w.require("SampleEvery")
	g := s.h.g
	g.Order = guarantee.NoOrder
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewObserveNonDet(s.h.loc, ck, s.h.node, w.set, w.rationale)
	return Stream[T]{h: handle{fs: s.h.fs, loc: s.h.loc, g: g, node: n}}
}

// Timeout marks s as subject to a non-deterministic wall-clock deadline:
// it wraps s in an ObserveNonDet node carrying w's witness and leaves the
// guarantees unchanged. It carries no deadline value and drops no
// elements itself; the node only records the non-determinism in the IR.
func Timeout[T any](s Stream[T], w NonDetWitness) Stream[T] {
	w.require("Timeout")
	g := s.h.g
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewObserveNonDet(s.h.loc, ck, s.h.node, w.set, w.rationale)
	return Stream[T]{h: handle{fs: s.h.fs, loc: s.h.loc, g: g, node: n}}
}
