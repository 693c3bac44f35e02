package ir

import (
	"github.com/hydroflow-go/hydro/location"
)

// FlowState accumulates every root for a program, in construction order,
// grouped by top-level location (spec §3.4: "All roots for a program are
// accumulated in process-wide FlowState for each top-level location, in
// construction order."). It is not safe for concurrent use: build time
// runs on a single cooperative thread (spec §5).
type FlowState struct {
	order []location.ID
	roots map[location.ID][]Root

	cycleSources map[cycleKey]*CycleSourceNode
	cycleSinks   map[cycleKey]*CycleSinkRoot

	nextExternalID uint64
}

type cycleKey struct {
	ident string
	loc   string
}

// NewFlowState returns an empty FlowState.
func NewFlowState() *FlowState {
	return &FlowState{
		roots:        map[location.ID][]Root{},
		cycleSources: map[cycleKey]*CycleSourceNode{},
		cycleSinks:   map[cycleKey]*CycleSinkRoot{},
	}
}

// AddRoot appends root to the top-level location's root list, recording
// first-seen location order.
func (fs *FlowState) AddRoot(topLevel location.ID, r Root) {
	if _, ok := fs.roots[topLevel]; !ok {
		fs.order = append(fs.order, topLevel)
	}
	fs.roots[topLevel] = append(fs.roots[topLevel], r)
}

// Locations returns the top-level locations in first-seen order.
func (fs *FlowState) Locations() []location.ID {
	out := make([]location.ID, len(fs.order))
	copy(out, fs.order)
	return out
}

// Roots returns the roots recorded for a top-level location, in
// construction order.
func (fs *FlowState) Roots(topLevel location.ID) []Root {
	return fs.roots[topLevel]
}

// AllRoots returns every root across every location, in the order their
// locations were first seen, then construction order within a location.
func (fs *FlowState) AllRoots() []Root {
	var out []Root
	for _, loc := range fs.order {
		out = append(out, fs.roots[loc]...)
	}
	return out
}

// RegisterCycleSource records a CycleSource placeholder for later
// completeness checking (spec §8 property 6).
func (fs *FlowState) RegisterCycleSource(n *CycleSourceNode) {
	fs.cycleSources[cycleKey{ident: n.Ident, loc: n.Metadata().LocationKind.String()}] = n
}

// RegisterCycleSink records a CycleSink completion.
func (fs *FlowState) RegisterCycleSink(r *CycleSinkRoot) {
	fs.cycleSinks[cycleKey{ident: r.Ident, loc: r.Metadata().LocationKind.String()}] = r
}

// CheckCycleCompleteness verifies that every registered CycleSource has
// exactly one matching CycleSink at the same location (spec §4.3, §8
// property 6). It returns a Diagnostic naming the first mismatch found.
func (fs *FlowState) CheckCycleCompleteness() error {
	for key, src := range fs.cycleSources {
		if _, ok := fs.cycleSinks[key]; !ok {
			return &Diagnostic{
				NodeKind: "CycleSource",
				Location: src.Metadata().LocationKind,
				Message:  "cycle '" + src.Ident + "' has no matching CycleSink at the same location",
			}
		}
	}
	for key, sink := range fs.cycleSinks {
		if _, ok := fs.cycleSources[key]; !ok {
			return &Diagnostic{
				NodeKind: "CycleSink",
				Location: sink.Metadata().LocationKind,
				Message:  "cycle '" + sink.Ident + "' has no matching CycleSource at the same location",
			}
		}
	}
	return nil
}

// NextExternalID allocates a fresh external endpoint id.
func (fs *FlowState) NextExternalID() uint64 {
	id := fs.nextExternalID
	fs.nextExternalID++
	return id
}
