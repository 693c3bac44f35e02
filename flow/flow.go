// Package flow is the Builder API (spec §4 component table "Builder
// API"): the typed live-collection façade (Stream, KeyedStream,
// Singleton, Optional, KeyedSingleton) whose combinator methods append
// nodes to the IR and propagate guarantees through runtime-checked
// location/type combination rules, since Go's type system cannot carry
// the spec's phantom L/B/O/R type parameters the way the original does.
package flow

import (
	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

// NonDetWitness documents an intentionally introduced non-determinism,
// required by every combinator that batches or strengthens a guarantee
// without an intrinsic reason (spec §4.6 "Determinism witness", GLOSSARY
// "NonDet witness"). The zero value is invalid — use NonDet(rationale).
type NonDetWitness struct {
	rationale string
	set       bool
}

// NonDet constructs a witness carrying a human-readable rationale for
// why introducing non-determinism here is acceptable.
func NonDet(rationale string) NonDetWitness {
	if rationale == "" {
		panic("flow: NonDet witness requires a non-empty rationale")
	}
	return NonDetWitness{rationale: rationale, set: true}
}

func (w NonDetWitness) require(op string) {
	if !w.set {
		panic("flow: " + op + " requires a NonDet witness documenting the rationale")
	}
}

func (w NonDetWitness) toIR() ir.NonDetWitness { return ir.NonDetWitness{Rationale: w.rationale} }

// Flow is the process-wide build context: the typed façade over
// ir.FlowState (spec §3.6 "FlowState holds every root until the compile
// phase"). All live collections created from the same Flow share one
// FlowState, matching the "single cooperative thread" build model of
// spec §5.
type Flow struct {
	fs *ir.FlowState
}

// New returns an empty Flow ready to accept sources.
func New() *Flow { return &Flow{fs: ir.NewFlowState()} }

// State exposes the underlying ir.FlowState, e.g. for network.Compile /
// network.Connect / lower.Emit / render.
func (f *Flow) State() *ir.FlowState { return f.fs }

// handle is the shared bookkeeping embedded by every live-collection
// type: its IR node, its location, and its current guarantee triple.
// Guarantee checks here are the runtime substitute for the spec's
// compile-time phantom type parameters.
type handle struct {
	fs   *ir.FlowState
	loc  location.ID
	g    guarantee.Triple
	node ir.Node
}

func (h handle) requireSameLocation(other location.ID, op string) {
	if !h.loc.Equal(other) {
		panic("flow: " + op + " requires both sides at the same location, got " + h.loc.String() + " and " + other.String())
	}
}

// tee shares this handle's IR node behind a single Tee, so repeated use
// (the Go equivalent of .clone()) never duplicates the underlying
// subgraph (spec §3.5, §4.6 "Tee safety", §8 property 3).
func tee(h handle, ck ir.CollectionKind) ir.Node {
	if existing, ok := h.node.(*ir.TeeNode); ok {
		return existing
	}
	t := ir.NewTee(h.loc, ck, h.node)
	return t
}

func span() expr.Span { return expr.Span{} }
