// Package inprocess is the one concrete network.Deploy backend the
// core ships (spec §2 "deployment backends", §6.1): every edge is a
// buffered Go channel inside this process, letting a whole flow be
// compiled, connected, and exercised in a single test binary without a
// real cluster.
package inprocess

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
	"github.com/hydroflow-go/hydro/network"
)

// Message is what flows over every in-process channel: an opaque
// payload plus the sender's location, mirroring the sink/source pairing
// the spec's Deploy trait establishes.
type Message struct {
	From    location.ID
	Payload interface{}
}

// Backend is an in-process network.Deploy: ports are just channel keys,
// and every Connect hook's side effect is registering the channel (idempotent,
// since Consume already guarantees each connect_fn runs at most once).
type Backend struct {
	mu       sync.Mutex
	chans    map[string]chan Message
	nextPort uint64

	members     map[string][]location.ID
	membership  map[string]chan network.MemberEvent

	externalSources map[string]expr.Expr
	externalSinks   map[string]expr.Expr
}

// New returns an empty in-process backend.
func New() *Backend {
	return &Backend{
		chans:           map[string]chan Message{},
		members:         map[string][]location.ID{},
		membership:      map[string]chan network.MemberEvent{},
		externalSources: map[string]expr.Expr{},
		externalSinks:   map[string]expr.Expr{},
	}
}

// RegisterExternalSource binds a real external endpoint (e.g. the
// closures deploy/kafka's Source builds) as the source hook for every
// ExternalInput over this external location, in place of the default
// in-process channel. Connector packages call this before Compile.
func (b *Backend) RegisterExternalSource(external location.ID, source expr.Expr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.externalSources[external.String()] = source
}

// RegisterExternalSink binds a real external endpoint (e.g. deploy/kafka's
// Sink) as the sink hook for every SendExternal into this external
// location, in place of the default in-process channel.
func (b *Backend) RegisterExternalSink(external location.ID, sink expr.Expr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.externalSinks[external.String()] = sink
}

// SetClusterMembers registers the static member list for a cluster id
// (tests and deploy/config wiring call this before Compile).
func (b *Backend) SetClusterMembers(cluster location.ID, members []location.ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.members[cluster.String()] = members
}

// Chan returns (creating if needed) the buffered channel for key.
func (b *Backend) Chan(key string) chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.chans[key]; ok {
		return ch
	}
	ch := make(chan Message, 64)
	b.chans[key] = ch
	return ch
}

func (b *Backend) allocatePort(prefix string) network.Port {
	n := atomic.AddUint64(&b.nextPort, 1)
	return network.Port(fmt.Sprintf("%s-%d", prefix, n))
}

func (b *Backend) AllocateProcessPort(location.ID) network.Port  { return b.allocatePort("proc") }
func (b *Backend) AllocateClusterPort(location.ID) network.Port  { return b.allocatePort("cluster") }
func (b *Backend) AllocateExternalPort(location.ID) network.Port { return b.allocatePort("ext") }

func channelKey(from location.ID, fromPort network.Port, to location.ID, toPort network.Port) string {
	return fmt.Sprintf("%s/%s->%s/%s", from, fromPort, to, toPort)
}

func (b *Backend) sinkSourceFor(key string) (sink, source expr.Expr) {
	send := func(from location.ID, v interface{}) { b.Chan(key) <- Message{From: from, Payload: v} }
	recv := func() Message { return <-b.Chan(key) }
	return expr.NewClosure("inprocess_sink:"+key, expr.Span{}, send),
		expr.NewClosure("inprocess_source:"+key, expr.Span{}, recv)
}

func (b *Backend) connectFor(key string) ir.ConnectFn {
	return func() error {
		b.Chan(key) // idempotent: ensure the channel exists once wiring runs
		return nil
	}
}

// externalSinkSourceFor builds the boundary shape connector packages
// also speak: func() (interface{}, bool) to read, func(interface{}) error
// to write — no location tagging, since an external peer isn't one of
// this flow's own locations.
func (b *Backend) externalSinkSourceFor(key string) (sink, source expr.Expr) {
	ch := b.Chan(key)
	send := func(v interface{}) error {
		ch <- Message{Payload: v}
		return nil
	}
	recv := func() (interface{}, bool) {
		m, ok := <-ch
		return m.Payload, ok
	}
	return expr.NewClosure("inprocess_external_sink:"+key, expr.Span{}, send),
		expr.NewClosure("inprocess_external_source:"+key, expr.Span{}, recv)
}

func (b *Backend) O2OSinkSource(from location.ID, fp network.Port, to location.ID, tp network.Port) (expr.Expr, expr.Expr) {
	return b.sinkSourceFor(channelKey(from, fp, to, tp))
}
func (b *Backend) O2OConnect(from location.ID, fp network.Port, to location.ID, tp network.Port) ir.ConnectFn {
	return b.connectFor(channelKey(from, fp, to, tp))
}
func (b *Backend) O2MSinkSource(from location.ID, fp network.Port, to location.ID, tp network.Port) (expr.Expr, expr.Expr) {
	return b.sinkSourceFor(channelKey(from, fp, to, tp))
}
func (b *Backend) O2MConnect(from location.ID, fp network.Port, to location.ID, tp network.Port) ir.ConnectFn {
	return b.connectFor(channelKey(from, fp, to, tp))
}
func (b *Backend) M2OSinkSource(from location.ID, fp network.Port, to location.ID, tp network.Port) (expr.Expr, expr.Expr) {
	return b.sinkSourceFor(channelKey(from, fp, to, tp))
}
func (b *Backend) M2OConnect(from location.ID, fp network.Port, to location.ID, tp network.Port) ir.ConnectFn {
	return b.connectFor(channelKey(from, fp, to, tp))
}
func (b *Backend) M2MSinkSource(from location.ID, fp network.Port, to location.ID, tp network.Port) (expr.Expr, expr.Expr) {
	return b.sinkSourceFor(channelKey(from, fp, to, tp))
}
func (b *Backend) M2MConnect(from location.ID, fp network.Port, to location.ID, tp network.Port) ir.ConnectFn {
	return b.connectFor(channelKey(from, fp, to, tp))
}

func (b *Backend) E2OSource(external location.ID, to location.ID, tp network.Port) (expr.Expr, ir.ConnectFn) {
	b.mu.Lock()
	registered, ok := b.externalSources[external.String()]
	b.mu.Unlock()
	if ok {
		return registered, func() error { return nil }
	}
	key := channelKey(external, "external", to, tp)
	_, source := b.externalSinkSourceFor(key)
	return source, b.connectFor(key)
}
func (b *Backend) E2OManySource(external location.ID, to location.ID, tp network.Port) (expr.Expr, ir.ConnectFn) {
	return b.E2OSource(external, to, tp)
}
func (b *Backend) O2ESink(from location.ID, fp network.Port, external location.ID) (expr.Expr, ir.ConnectFn) {
	b.mu.Lock()
	registered, ok := b.externalSinks[external.String()]
	b.mu.Unlock()
	if ok {
		return registered, func() error { return nil }
	}
	key := channelKey(from, fp, external, "external")
	sink, _ := b.externalSinkSourceFor(key)
	return sink, b.connectFor(key)
}
func (b *Backend) O2EManySink(from location.ID, fp network.Port, external location.ID) (expr.Expr, ir.ConnectFn) {
	return b.O2ESink(from, fp, external)
}

func (b *Backend) ClusterIDs(cluster location.ID) []location.ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]location.ID(nil), b.members[cluster.String()]...)
}

func (b *Backend) ClusterSelfID(cluster location.ID) location.ID {
	ids := b.ClusterIDs(cluster)
	if len(ids) == 0 {
		return cluster
	}
	return ids[0]
}

func (b *Backend) ClusterMembershipStream(cluster location.ID) <-chan network.MemberEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := cluster.String()
	if ch, ok := b.membership[key]; ok {
		return ch
	}
	ch := make(chan network.MemberEvent, 16)
	b.membership[key] = ch
	return ch
}

// PublishMembership sends a membership change once on cluster's single
// shared stream channel (the one ClusterMembershipStream returns), so
// each event reaches one receiver; it blocks until the buffered send
// succeeds or ctx is done — used by tests and by a config-driven
// topology loader to simulate scale-out/scale-in.
func (b *Backend) PublishMembership(ctx context.Context, cluster location.ID, ev network.MemberEvent) {
	b.mu.Lock()
	key := cluster.String()
	ch, ok := b.membership[key]
	if !ok {
		ch = make(chan network.MemberEvent, 16)
		b.membership[key] = ch
	}
	b.mu.Unlock()

	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}

var _ network.Deploy = (*Backend)(nil)
