// Package cycle implements the name-based back-edge facility for
// fixed-point dataflows (spec §4.3, §6.3): a forward reference declared
// for a name produces a CycleSource placeholder, and completing it later
// appends a matching CycleSink root.
package cycle

import (
	"fmt"
	"sync/atomic"

	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

// Flavor distinguishes the two cycle kinds from spec §4.3.
type Flavor int

const (
	// TickCycle is a back-edge bounded within a tick, permitting
	// arbitrary feedback.
	TickCycle Flavor = iota
	// ForwardRef is a forward reference across async locations;
	// initialisation is required.
	ForwardRef
)

var counter uint64

// FreshIdent returns a fresh identifier scoped to one forward reference,
// per spec §6.3 ("a fresh identifier per forward reference").
func FreshIdent(prefix string) string {
	n := atomic.AddUint64(&counter, 1)
	return fmt.Sprintf("%s_%d", prefix, n)
}

// Handle is returned when a forward reference is declared; Complete must
// be called exactly once before the FlowState's cycle completeness check
// (spec §8 property 6) will pass.
type Handle struct {
	Ident  string
	Flavor Flavor
	Loc    location.ID
	fs     *ir.FlowState
	done   bool
}

// Declare registers a CycleSource(ident, loc) placeholder of kind ck and
// returns both the placeholder node and a Handle used to later Complete
// the cycle (spec §4.3).
func Declare(fs *ir.FlowState, loc location.ID, flavor Flavor, ck ir.CollectionKind) (*ir.CycleSourceNode, *Handle) {
	ident := FreshIdent("cycle")
	src := ir.NewCycleSource(loc, ck, ident)
	fs.RegisterCycleSource(src)
	return src, &Handle{Ident: ident, Flavor: flavor, Loc: loc, fs: fs}
}

// Complete appends a CycleSink(ident, input) root bound to the handle's
// location (spec §4.3: "The user eventually calls complete(collection),
// which appends a CycleSink(n, input=collection.ir_node) root bound to
// L."). Calling Complete twice on the same handle is a compiler bug.
func (h *Handle) Complete(input ir.Node) {
	if h.done {
		panic("cycle: Complete called twice for cycle '" + h.Ident + "'")
	}
	h.done = true
	sink := ir.NewCycleSink(h.Loc, h.Ident, input)
	h.fs.RegisterCycleSink(sink)
	h.fs.AddRoot(h.Loc.Root(), sink)
}
