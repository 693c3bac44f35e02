package flow

import (
	"context"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
)

// KeyedStream[K,V] groups values by key; Order/Retry apply within each
// key's value sequence, not across keys (spec §3.2 "KeyedStream").
type KeyedStream[K, V any] struct {
	h handle
}

func (ks KeyedStream[K, V]) Location() handle { return ks.h }

// Clone shares the underlying subgraph through a Tee (spec §3.5).
func (ks KeyedStream[K, V]) Clone() KeyedStream[K, V] {
	t := tee(ks.h, ks.h.node.Metadata().CollectionKind)
	return KeyedStream[K, V]{h: handle{fs: ks.h.fs, loc: ks.h.loc, g: ks.h.g, node: t}}
}

// Filter keeps only (key,value) pairs for which f returns true.
func (ks KeyedStream[K, V]) Filter(label string, f func(K, V) bool) KeyedStream[K, V] {
	e := expr.NewClosure(label, span(), f)
	ck := ir.KeyedStream(ks.h.g, typeOf[K](), typeOf[V]())
	n := ir.NewFilter(ks.h.loc, ck, ks.h.node, e)
	return KeyedStream[K, V]{h: handle{fs: ks.h.fs, loc: ks.h.loc, g: ks.h.g, node: n}}
}

// ForEach consumes every (key,value) pair, terminating the pipeline.
func (ks KeyedStream[K, V]) ForEach(label string, f func(K, V)) {
	e := expr.NewClosure(label, span(), f)
	root := ir.NewForEach(ks.h.loc, ks.h.node, e)
	ks.h.fs.AddRoot(ks.h.loc.Root(), root)
	recordRootBuilt(context.Background(), "for_each", ks.h.loc.String())
}

// MapValues transforms every value while leaving keys untouched (spec
// §3.3 map(f) specialised to the (K,V) element shape of KeyedStream).
func MapValues[K, V, W any](ks KeyedStream[K, V], label string, f func(V) W) KeyedStream[K, W] {
	e := expr.NewClosure(label, span(), func(p Pair[K, V]) Pair[K, W] { return Pair[K, W]{First: p.First, Second: f(p.Second)} })
	ck := ir.KeyedStream(ks.h.g, typeOf[K](), typeOf[W]())
	n := ir.NewMap(ks.h.loc, ck, ks.h.node, e)
	return KeyedStream[K, W]{h: handle{fs: ks.h.fs, loc: ks.h.loc, g: ks.h.g, node: n}}
}

// Join inner-joins two keyed streams sharing key type K (spec §3.3
// Join{left,right}); both inputs must share a location.
func Join[K, V1, V2 any](l KeyedStream[K, V1], r KeyedStream[K, V2]) KeyedStream[K, Pair[V1, V2]] {
	l.h.requireSameLocation(r.h.loc, "Join")
	g := l.h.g.Min(r.h.g)
	g.Order = guarantee.NoOrder
	ck := ir.KeyedStream(g, typeOf[K](), expr.NewType(pairTypeName[V1, V2]()))
	n := ir.NewJoin(l.h.loc, ck, l.h.node, r.h.node)
	return KeyedStream[K, Pair[V1, V2]]{h: handle{fs: l.h.fs, loc: l.h.loc, g: g, node: n}}
}

// AntiJoin keeps (key,value) pairs from pos whose key is absent from
// negKeys (spec §3.3 AntiJoin{pos,neg}).
func AntiJoin[K, V any](pos KeyedStream[K, V], negKeys Stream[K]) KeyedStream[K, V] {
	pos.h.requireSameLocation(negKeys.h.loc, "AntiJoin")
	g := pos.h.g
	ck := ir.KeyedStream(g, typeOf[K](), typeOf[V]())
	n := ir.NewAntiJoin(pos.h.loc, ck, pos.h.node, negKeys.h.node)
	return KeyedStream[K, V]{h: handle{fs: pos.h.fs, loc: pos.h.loc, g: g, node: n}}
}
