package flow

import (
	"cmp"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
)

// Values reinterprets a KeyedStream[K,V] as a Stream[V], dropping the key
// (spec §4.6's combinator list, the value-only counterpart to Entries).
func Values[K, V any](ks KeyedStream[K, V]) Stream[V] {
	ck := ir.Stream(ks.h.g, typeOf[V]())
	n := ir.NewMap(ks.h.loc, ck, ks.h.node, expr.NewClosure("values", span(), func(p Pair[K, V]) V { return p.Second }))
	return Stream[V]{h: handle{fs: ks.h.fs, loc: ks.h.loc, g: ks.h.g, node: n}}
}

// First computes the first element of s (spec §4.6 first), empty until
// an element arrives. Requires TotalOrder: under any other order the
// "first" element is arbitrary, not well-defined, mirroring the
// original's reduce_idempotent under a TotalOrder, ExactlyOnce bound
// (hydro_lang/.../stream/mod.rs:1416-1438).
func First[T any](s Stream[T]) Optional[T] {
	if s.h.g.Order != guarantee.TotalOrder {
		panic("flow: First requires TotalOrder")
	}
	return Reduce(s, "first", func(a, _ T) T { return a })
}

// Last computes the last element of s (spec §4.6 last), empty until an
// element arrives. Requires TotalOrder for the same reason as First
// (mod.rs:1440-1462).
func Last[T any](s Stream[T]) Optional[T] {
	if s.h.g.Order != guarantee.TotalOrder {
		panic("flow: Last requires TotalOrder")
	}
	return Reduce(s, "last", func(_, b T) T { return b })
}

// Count computes the number of elements in s as a Singleton (spec §4.6
// count). Order never affects the final count, so it is built on the
// commutative fold gate (mod.rs:1324-1345) rather than requiring
// TotalOrder.
func Count[T any](s Stream[T]) Singleton[uint64] {
	return FoldCommutative(s, "count", func() uint64 { return 0 }, func(acc uint64, _ T) uint64 { return acc + 1 })
}

// Min computes the minimum element of s as an Optional (spec §4.6 min),
// empty until an element arrives. Commutative and idempotent: re-running
// the comparison on a duplicate or reordered delivery never changes the
// result (mod.rs:1242-1251).
func Min[T cmp.Ordered](s Stream[T]) Optional[T] {
	return Reduce(s, "min", func(a, b T) T {
		if b < a {
			return b
		}
		return a
	})
}

// Max computes the maximum element of s as an Optional (spec §4.6 max),
// empty until an element arrives. Commutative and idempotent, mirroring
// Min (mod.rs:1214-1223).
func Max[T cmp.Ordered](s Stream[T]) Optional[T] {
	return Reduce(s, "max", func(a, b T) T {
		if b > a {
			return b
		}
		return a
	})
}
