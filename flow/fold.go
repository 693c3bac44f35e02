package flow

import (
	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
)

// Fold accumulates a Stream[T] into a Singleton[A] using an arbitrary
// (non-commutative, non-idempotent) combining function (spec §3.3
// Fold{init,acc}, §9 "fold / fold_commutative / fold_idempotent /
// fold_commutative_idempotent gates").
func Fold[T, A any](s Stream[T], label string, init func() A, acc func(A, T) A) Singleton[A] {
	return foldGated[T, A](s, label, init, acc, ir.AlgebraGate{})
}

// FoldCommutative is Fold gated as commutative, permitting the lowering
// pass to reorder partial accumulations across a sharded cluster (spec
// §9).
func FoldCommutative[T, A any](s Stream[T], label string, init func() A, acc func(A, T) A) Singleton[A] {
	return foldGated[T, A](s, label, init, acc, ir.AlgebraGate{Commutative: true})
}

// FoldIdempotent is Fold gated as idempotent, permitting the lowering
// pass to drop duplicate deliveries without re-applying acc (spec §9).
func FoldIdempotent[T, A any](s Stream[T], label string, init func() A, acc func(A, T) A) Singleton[A] {
	return foldGated[T, A](s, label, init, acc, ir.AlgebraGate{Idempotent: true})
}

// FoldCommutativeIdempotent combines both gates.
func FoldCommutativeIdempotent[T, A any](s Stream[T], label string, init func() A, acc func(A, T) A) Singleton[A] {
	return foldGated[T, A](s, label, init, acc, ir.AlgebraGate{Commutative: true, Idempotent: true})
}

func foldGated[T, A any](s Stream[T], label string, init func() A, acc func(A, T) A, gate ir.AlgebraGate) Singleton[A] {
	ie := expr.NewClosure(label+"_init", span(), init)
	ae := expr.NewClosure(label+"_acc", span(), acc)
	g := guarantee.Triple{Bound: s.h.g.Bound}
	ck := ir.Singleton(g.Bound, typeOf[A]())
	n := ir.NewFold(s.h.loc, ck, s.h.node, ie, ae, gate)
	return Singleton[A]{h: handle{fs: s.h.fs, loc: s.h.loc, g: g, node: n}}
}

// FoldKeyed accumulates a KeyedStream[K,V] into a KeyedSingleton[K,A]
// per key (spec §3.3 FoldKeyed{init,acc}).
func FoldKeyed[K, V, A any](ks KeyedStream[K, V], label string, init func() A, acc func(A, V) A) KeyedSingleton[K, A] {
	return foldKeyedGated[K, V, A](ks, label, init, acc, ir.AlgebraGate{})
}

// FoldKeyedCommutative is FoldKeyed gated as commutative (spec §9).
func FoldKeyedCommutative[K, V, A any](ks KeyedStream[K, V], label string, init func() A, acc func(A, V) A) KeyedSingleton[K, A] {
	return foldKeyedGated[K, V, A](ks, label, init, acc, ir.AlgebraGate{Commutative: true})
}

func foldKeyedGated[K, V, A any](ks KeyedStream[K, V], label string, init func() A, acc func(A, V) A, gate ir.AlgebraGate) KeyedSingleton[K, A] {
	ie := expr.NewClosure(label+"_init", span(), init)
	ae := expr.NewClosure(label+"_acc", span(), acc)
	bound := ir.KeyedSingletonUnbounded
	if ks.h.g.Bound == guarantee.Bounded {
		bound = ir.KeyedSingletonBounded
	}
	ck := ir.KeyedSingleton(bound, typeOf[K](), typeOf[A]())
	n := ir.NewFoldKeyed(ks.h.loc, ck, ks.h.node, ie, ae, gate)
	return KeyedSingleton[K, A]{h: handle{fs: ks.h.fs, loc: ks.h.loc, g: guarantee.Triple{Bound: ks.h.g.Bound}, node: n}}
}

// Reduce folds a non-empty Stream[T] pairwise into an Optional[T] (spec
// §3.3 Reduce{f}) — empty if the stream never produced an element.
func Reduce[T any](s Stream[T], label string, f func(T, T) T) Optional[T] {
	e := expr.NewClosure(label, span(), f)
	ck := ir.Optional(s.h.g.Bound, typeOf[T]())
	n := ir.NewReduce(s.h.loc, ck, s.h.node, e)
	return Optional[T]{h: handle{fs: s.h.fs, loc: s.h.loc, g: guarantee.Triple{Bound: s.h.g.Bound}, node: n}}
}

// ReduceKeyed folds each key's values pairwise into a KeyedSingleton[K,V]
// (spec §3.3 ReduceKeyed{f}).
func ReduceKeyed[K, V any](ks KeyedStream[K, V], label string, f func(V, V) V) KeyedSingleton[K, V] {
	e := expr.NewClosure(label, span(), f)
	bound := ir.KeyedSingletonUnbounded
	if ks.h.g.Bound == guarantee.Bounded {
		bound = ir.KeyedSingletonBounded
	}
	ck := ir.KeyedSingleton(bound, typeOf[K](), typeOf[V]())
	n := ir.NewReduceKeyed(ks.h.loc, ck, ks.h.node, e)
	return KeyedSingleton[K, V]{h: handle{fs: ks.h.fs, loc: ks.h.loc, g: guarantee.Triple{Bound: ks.h.g.Bound}, node: n}}
}

// ReduceKeyedWatermark is ReduceKeyed gated by a watermark Singleton
// that marks a key's value final once reached (spec §3.3
// ReduceKeyed{f,watermark}, scenario S6). Per SPEC_FULL Open Question
// #3, watermark must not itself be a KeyedSingleton — the constructor
// panics if it is.
func ReduceKeyedWatermark[K, V, W any](ks KeyedStream[K, V], watermark Singleton[W], label string, f func(V, V) V) KeyedSingleton[K, V] {
	e := expr.NewClosure(label, span(), f)
	bound := ir.KeyedSingletonBoundedValue
	ck := ir.KeyedSingleton(bound, typeOf[K](), typeOf[V]())
	n := ir.NewReduceKeyedWatermark(ks.h.loc, ck, ks.h.node, watermark.h.node, e)
	return KeyedSingleton[K, V]{h: handle{fs: ks.h.fs, loc: ks.h.loc, g: guarantee.Triple{Bound: guarantee.Bounded}, node: n}}
}
