package ir

import (
	"sync"

	"github.com/hydroflow-go/hydro/expr"
)

// ConnectFn is a one-shot closure that performs the side-effectful
// wiring of a network edge (spec §4.7: "each connect_fn is consumed on
// use"). The func type itself does not guard reuse: Instantiation.Consume
// runs it and panics if called a second time.
type ConnectFn func() error

// Instantiation is the Network/ExternalInput/SendExternal state machine
// from spec §3.6: Building -> Finalized(sink, source, connect_fn) ->
// (connect_fn consumed). Cloning a Finalized instantiation is forbidden
// and panics, matching spec's "Cloning a Finalized is forbidden and
// panics."
type Instantiation struct {
	mu          sync.Mutex
	finalized   bool
	consumed    bool
	sink        expr.Expr
	source      expr.Expr
	connect     ConnectFn
}

// NewInstantiation returns a fresh Building-state instantiation.
func NewInstantiation() *Instantiation { return &Instantiation{} }

// Finalize transitions Building -> Finalized. Finalizing an already
// finalized instantiation is a compiler bug (spec §7: "re-finalising a
// network edge").
func (i *Instantiation) Finalize(sink, source expr.Expr, connect ConnectFn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.finalized {
		panic("ir: re-finalising an already-Finalized network edge")
	}
	i.finalized = true
	i.sink, i.source, i.connect = sink, source, connect
}

// IsFinalized reports whether Finalize has been called.
func (i *Instantiation) IsFinalized() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.finalized
}

// SinkSource returns the finalized sink/source expression tokens. It
// panics (an "access to a Placeholder node" class error, spec §7) if
// called before Finalize.
func (i *Instantiation) SinkSource() (sink, source expr.Expr) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.finalized {
		panic("ir: accessed sink/source of a network edge still in the Building state")
	}
	return i.sink, i.source
}

// Consume invokes the connect_fn exactly once (spec §4.7: "a second
// pass calls each connect_fn exactly once"). A second call panics.
func (i *Instantiation) Consume() error {
	i.mu.Lock()
	if !i.finalized {
		i.mu.Unlock()
		panic("ir: Consume called before the network edge was Finalized")
	}
	if i.consumed {
		i.mu.Unlock()
		panic("ir: connect_fn consumed more than once")
	}
	i.consumed = true
	fn := i.connect
	i.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn()
}

// Consumed reports whether Consume has run (spec §8 property 7).
func (i *Instantiation) Consumed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.consumed
}

// CloneGuard panics if called on a Finalized instantiation, matching
// spec §3.6 ("Cloning a Finalized is forbidden and panics") — callers
// that deep-clone an IR subgraph containing a network edge must call
// this before copying the struct.
func (i *Instantiation) CloneGuard() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.finalized {
		panic("ir: attempted to clone a Finalized network instantiation")
	}
}
