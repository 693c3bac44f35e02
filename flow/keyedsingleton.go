package flow

import (
	"context"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/ir"
)

// KeyedSingleton[K,V] holds one eventually-settled value per key (spec
// §3.2 "KeyedSingleton<K,V,L,B>"), with its own three-state boundedness
// rather than the shared Triple the other collection kinds carry.
type KeyedSingleton[K, V any] struct {
	h handle
}

func (ks KeyedSingleton[K, V]) Location() handle { return ks.h }

// Clone shares the underlying subgraph through a Tee (spec §3.5).
func (ks KeyedSingleton[K, V]) Clone() KeyedSingleton[K, V] {
	t := tee(ks.h, ks.h.node.Metadata().CollectionKind)
	return KeyedSingleton[K, V]{h: handle{fs: ks.h.fs, loc: ks.h.loc, g: ks.h.g, node: t}}
}

// ForEach consumes every (key,value) settled pair, terminating the
// pipeline.
func (ks KeyedSingleton[K, V]) ForEach(label string, f func(K, V)) {
	e := expr.NewClosure(label, span(), f)
	root := ir.NewForEach(ks.h.loc, ks.h.node, e)
	ks.h.fs.AddRoot(ks.h.loc.Root(), root)
	recordRootBuilt(context.Background(), "for_each", ks.h.loc.String())
}
