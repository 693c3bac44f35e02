package flow

import (
	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
)

// Map transforms every element of s with f, preserving every guarantee
// (spec §3.3 map(f)). Go lacks generic methods, so element-type-changing
// combinators are package-level functions rather than Stream[T] methods.
func Map[T, U any](s Stream[T], label string, f func(T) U) Stream[U] {
	e := expr.NewClosure(label, span(), f)
	ck := ir.Stream(s.h.g, typeOf[U]())
	n := ir.NewMap(s.h.loc, ck, s.h.node, e)
	return Stream[U]{h: handle{fs: s.h.fs, loc: s.h.loc, g: s.h.g, node: n}}
}

// FlatMapOrdered expands every element into zero or more U, preserving
// order by concatenating each element's expansion in sequence (spec §3.3
// flat_map_ordered(f)).
func FlatMapOrdered[T, U any](s Stream[T], label string, f func(T) []U) Stream[U] {
	return flatMap[T, U](s, label, f, true)
}

// FlatMapUnordered expands every element into zero or more U with no
// ordering guarantee across or within expansions (spec §3.3
// flat_map_unordered(f)); degrades Order to NoOrder.
func FlatMapUnordered[T, U any](s Stream[T], label string, f func(T) []U) Stream[U] {
	return flatMap[T, U](s, label, f, false)
}

func flatMap[T, U any](s Stream[T], label string, f func(T) []U, ordered bool) Stream[U] {
	e := expr.NewClosure(label, span(), f)
	g := s.h.g
	if !ordered {
		g.Order = guarantee.NoOrder
	}
	ck := ir.Stream(g, typeOf[U]())
	n := ir.NewFlatMap(s.h.loc, ck, s.h.node, e, ordered)
	return Stream[U]{h: handle{fs: s.h.fs, loc: s.h.loc, g: g, node: n}}
}

// FilterMap combines Filter and Map: f returns (value, true) to keep a
// mapped element or (_, false) to drop it (spec §3.3 filter_map(f)).
func FilterMap[T, U any](s Stream[T], label string, f func(T) (U, bool)) Stream[U] {
	e := expr.NewClosure(label, span(), f)
	ck := ir.Stream(s.h.g, typeOf[U]())
	n := ir.NewFilterMap(s.h.loc, ck, s.h.node, e)
	return Stream[U]{h: handle{fs: s.h.fs, loc: s.h.loc, g: s.h.g, node: n}}
}

// CrossProduct pairs every element of a with every element of b (spec
// §3.3 CrossProduct{left,right}); both inputs must share a location.
func CrossProduct[A, B any](a Stream[A], b Stream[B]) Stream[Pair[A, B]] {
	a.h.requireSameLocation(b.h.loc, "CrossProduct")
	g := a.h.g.Min(b.h.g)
	g.Order = guarantee.NoOrder
	ck := ir.Stream(g, expr.NewType(pairTypeName[A, B]()))
	n := ir.NewCrossProduct(a.h.loc, ck, a.h.node, b.h.node)
	return Stream[Pair[A, B]]{h: handle{fs: a.h.fs, loc: a.h.loc, g: g, node: n}}
}

// CrossSingleton pairs every element of s with the (eventually-settled)
// value of single (spec §3.3 CrossSingleton{left,right}).
func CrossSingleton[A, B any](s Stream[A], single Singleton[B]) Stream[Pair[A, B]] {
	s.h.requireSameLocation(single.h.loc, "CrossSingleton")
	g := s.h.g
	g.Bound = g.Bound.Min(single.h.g.Bound)
	ck := ir.Stream(g, expr.NewType(pairTypeName[A, B]()))
	n := ir.NewCrossSingleton(s.h.loc, ck, s.h.node, single.h.node)
	return Stream[Pair[A, B]]{h: handle{fs: s.h.fs, loc: s.h.loc, g: g, node: n}}
}

// Difference keeps elements of pos that are absent from neg (spec §3.3
// Difference{pos,neg}).
func Difference[T comparable](pos, neg Stream[T]) Stream[T] {
	pos.h.requireSameLocation(neg.h.loc, "Difference")
	g := pos.h.g
	ck := ir.Stream(g, typeOf[T]())
	n := ir.NewDifference(pos.h.loc, ck, pos.h.node, neg.h.node)
	return Stream[T]{h: handle{fs: pos.h.fs, loc: pos.h.loc, g: g, node: n}}
}

// Scan threads an accumulator across the stream, emitting one output
// per input and optionally terminating the stream when acc reports done
// (spec §3.3 Scan{init,acc}, §9 "Scan-with-termination").
func Scan[T, A any](s Stream[T], label string, init func() A, acc func(A, T) (A, bool), terminating bool) Stream[A] {
	ie := expr.NewClosure(label+"_init", span(), init)
	ae := expr.NewClosure(label+"_acc", span(), acc)
	ck := ir.Stream(s.h.g, typeOf[A]())
	n := ir.NewScan(s.h.loc, ck, s.h.node, ie, ae, terminating)
	return Stream[A]{h: handle{fs: s.h.fs, loc: s.h.loc, g: s.h.g, node: n}}
}

// IntoKeyed reinterprets a Stream[Pair[K,V]] as a KeyedStream[K,V] (spec
// §8 property 4 round trip).
func IntoKeyed[K, V any](s Stream[Pair[K, V]]) KeyedStream[K, V] {
	ck := ir.KeyedStream(s.h.g, typeOf[K](), typeOf[V]())
	n := ir.NewMap(s.h.loc, ck, s.h.node, expr.NewClosure("into_keyed", span(), func(p Pair[K, V]) Pair[K, V] { return p }))
	return KeyedStream[K, V]{h: handle{fs: s.h.fs, loc: s.h.loc, g: s.h.g, node: n}}
}

// Entries reinterprets a KeyedStream[K,V] as a Stream[Pair[K,V]] (spec
// §8 property 4 round trip, the inverse of IntoKeyed).
func Entries[K, V any](ks KeyedStream[K, V]) Stream[Pair[K, V]] {
	ck := ir.Stream(ks.h.g, expr.NewType(pairTypeName[K, V]()))
	n := ir.NewMap(ks.h.loc, ck, ks.h.node, expr.NewClosure("entries", span(), func(p Pair[K, V]) Pair[K, V] { return p }))
	return Stream[Pair[K, V]]{h: handle{fs: ks.h.fs, loc: ks.h.loc, g: ks.h.g, node: n}}
}
