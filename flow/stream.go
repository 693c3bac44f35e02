package flow

import (
	"context"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

// Stream[T] is an ordered (or unordered, per its Order guarantee)
// sequence of T, live at a single location (spec §3.2 "Stream<T,L,B,O,R>").
// The guarantee triple is tracked as a runtime field rather than a type
// parameter: Go has no const/phantom generics to carry B/O/R the way
// the original does, so combinators panic instead of failing to compile
// when a combination is invalid.
type Stream[T any] struct {
	h handle
}

func (s Stream[T]) node() ir.Node           { return s.h.node }
func (s Stream[T]) guarantees() guarantee.Triple { return s.h.g }

// Location returns the location this stream lives at.
func (s Stream[T]) Location() handle { return s.h }

// Clone returns an independent handle to the same live collection,
// sharing the underlying IR subgraph through a Tee (spec §3.5, §4.6).
// Equivalent to the original's .clone().
func (s Stream[T]) Clone() Stream[T] {
	t := tee(s.h, s.h.node.Metadata().CollectionKind)
	return Stream[T]{h: handle{fs: s.h.fs, loc: s.h.loc, g: s.h.g, node: t}}
}

func (s Stream[T]) next(n ir.Node, g guarantee.Triple) Stream[T] {
	return Stream[T]{h: handle{fs: s.h.fs, loc: s.h.loc, g: g, node: n}}
}

// Filter keeps only elements for which f returns true (spec §3.3
// filter(f)); transparent to every guarantee.
func (s Stream[T]) Filter(label string, f func(T) bool) Stream[T] {
	e := expr.NewClosure(label, span(), f)
	ck := ir.Stream(s.h.g, typeOf[T]())
	n := ir.NewFilter(s.h.loc, ck, s.h.node, e)
	return s.next(n, s.h.g)
}

// Inspect runs f on every element for a side effect, passing elements
// through unchanged (spec §3.3 inspect(f)).
func (s Stream[T]) Inspect(label string, f func(T)) Stream[T] {
	e := expr.NewClosure(label, span(), f)
	ck := ir.Stream(s.h.g, typeOf[T]())
	n := ir.NewInspect(s.h.loc, ck, s.h.node, e)
	return s.next(n, s.h.g)
}

// Enumerate pairs every element with its zero-based index (spec §3.3
// enumerate); requires TotalOrder since the index is only meaningful
// under a fixed order.
func (s Stream[T]) Enumerate() Stream[Pair[uint64, T]] {
	if s.h.g.Order != guarantee.TotalOrder {
		panic("flow: Enumerate requires TotalOrder")
	}
	ck := ir.Stream(s.h.g, expr.NewType(pairTypeName[uint64, T]()))
	n := ir.NewEnumerate(s.h.loc, ck, s.h.node)
	return Stream[Pair[uint64, T]]{h: handle{fs: s.h.fs, loc: s.h.loc, g: s.h.g, node: n}}
}

// Sort materialises elements in a canonical total order (spec §3.3
// sort); strengthens Order to TotalOrder unconditionally — this is an
// intrinsic strengthening and needs no NonDet witness (spec §8 property 5).
func (s Stream[T]) Sort() Stream[T] {
	g := s.h.g
	g.Order = guarantee.TotalOrder
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewSort(s.h.loc, ck, s.h.node)
	return s.next(n, g)
}

// Unique deduplicates elements (spec §3.3 unique); strengthens Retry to
// ExactlyOnce unconditionally.
func (s Stream[T]) Unique() Stream[T] {
	g := s.h.g
	g.Retry = guarantee.ExactlyOnce
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewUnique(s.h.loc, ck, s.h.node)
	return s.next(n, g)
}

// Chain concatenates this stream then other, both at the same location
// and of the same element type (spec §3.3 Chain{first,second}); its
// Order result follows spec §4.1's "Chain requires TotalOrder on both
// sides to remain TotalOrder" rule, otherwise it degrades to NoOrder.
func (s Stream[T]) Chain(other Stream[T]) Stream[T] {
	s.h.requireSameLocation(other.h.loc, "Chain")
	g := s.h.g.Min(other.h.g)
	if s.h.g.Order != guarantee.TotalOrder || other.h.g.Order != guarantee.TotalOrder {
		g.Order = guarantee.NoOrder
	}
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewChain(s.h.loc, ck, s.h.node, other.h.node)
	return s.next(n, g)
}

// Interleave concatenates without any ordering guarantee between the
// two sides (spec §3.3 ChainFirst / §4.1 "interleave(a,b) (unbounded)"),
// used when both inputs are already unbounded and order across them is
// meaningless.
func (s Stream[T]) Interleave(other Stream[T]) Stream[T] {
	s.h.requireSameLocation(other.h.loc, "Interleave")
	g := s.h.g.Min(other.h.g)
	g.Order = guarantee.NoOrder
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewChainFirst(s.h.loc, ck, s.h.node, other.h.node)
	return s.next(n, g)
}

// ResolveFutures awaits every in-flight future without preserving
// submission order (spec §3.3 resolve_futures); degrades Order to
// NoOrder.
func ResolveFutures[T any](s Stream[T]) Stream[T] {
	g := s.h.g
	g.Order = guarantee.NoOrder
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewResolveFutures(s.h.loc, ck, s.h.node)
	return s.next(n, g)
}

// ResolveFuturesOrdered awaits every in-flight future, preserving
// submission order (spec §3.3 resolve_futures_ordered).
func ResolveFuturesOrdered[T any](s Stream[T]) Stream[T] {
	ck := ir.Stream(s.h.g, typeOf[T]())
	n := ir.NewResolveFuturesOrdered(s.h.loc, ck, s.h.node)
	return s.next(n, s.h.g)
}

// Counter threads a debug throughput counter into the pipeline,
// transparent to every guarantee (spec §3.3 Counter{tag,duration,prefix}).
func (s Stream[T]) Counter(tag, prefix string, duration expr.Expr) Stream[T] {
	ck := ir.Stream(s.h.g, typeOf[T]())
	n := ir.NewCounter(s.h.loc, ck, s.h.node, tag, prefix, duration)
	return s.next(n, s.h.g)
}

// ForEach consumes every element for a side effect, terminating the
// pipeline (spec §3.4 ForEach{f,input}).
func (s Stream[T]) ForEach(label string, f func(T)) {
	e := expr.NewClosure(label, span(), f)
	root := ir.NewForEach(s.h.loc, s.h.node, e)
	s.h.fs.AddRoot(s.h.loc.Root(), root)
	recordRootBuilt(context.Background(), "for_each", s.h.loc.String())
}

// DestSink writes every element to an opaque sink expression,
// terminating the pipeline (spec §3.4 DestSink{sink,input}).
func (s Stream[T]) DestSink(sink expr.Expr) {
	root := ir.NewDestSink(s.h.loc, s.h.node, sink)
	s.h.fs.AddRoot(s.h.loc.Root(), root)
	recordRootBuilt(context.Background(), "dest_sink", s.h.loc.String())
}

// SendOverNetwork relocates a Stream[T] onto another process or cluster
// (spec §3.4 Network{input,to}, §4.7's Process/Cluster shape table,
// scenario S5): the result is a new Stream[T] whose location is `to`,
// ready for combinators that require sibling location equality.
// Serialisation is opaque to the core (spec §9); network.Compile fills
// in the sink/source/connect_fn triple once a Deploy backend is chosen.
func SendOverNetwork[T any](s Stream[T], to location.ID, serialize, deserialize expr.Expr) Stream[T] {
	ck := ir.Stream(s.h.g, typeOf[T]())
	n := ir.NewNetwork(to, ck, s.h.node, to, serialize, deserialize)
	return Stream[T]{h: handle{fs: s.h.fs, loc: to, g: s.h.g, node: n}}
}

// SendExternal ships every element to an external endpoint, terminating
// the pipeline (spec §3.4 SendExternal, §4.7 Process -> External).
// toMany selects the one-to-many fan-out variant of the backend.
func (s Stream[T]) SendExternal(ext External, key string, toMany bool, serialize expr.Expr) {
	root := ir.NewSendExternal(s.h.loc, s.h.node, ext.loc.Raw(), key, toMany, false, serialize)
	s.h.fs.AddRoot(s.h.loc.Root(), root)
	recordRootBuilt(context.Background(), "send_external", s.h.loc.String())
}
