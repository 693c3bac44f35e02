// Package ir implements the dataflow intermediate representation: the
// HydroNode/HydroRoot sum types, Tee sharing, and the traversals used to
// validate and lower a flow graph (spec §3.3-§3.6, §4.4).
package ir

import (
	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/location"
)

// NodeKind discriminates the operator variants of Node (spec §3.3).
type NodeKind int

const (
	KindSource NodeKind = iota
	KindSingletonSource
	KindCycleSource
	KindExternalInput
	KindPlaceholder

	KindTee
	KindCast
	KindObserveNonDet
	KindBeginAtomic
	KindEndAtomic
	KindBatch
	KindYieldConcat
	KindDeferTick
	KindPersist
	KindUnpersist

	KindMap
	KindFlatMap
	KindFilter
	KindFilterMap
	KindInspect
	KindResolveFutures
	KindResolveFuturesOrdered
	KindEnumerate
	KindSort
	KindUnique
	KindCounter

	KindChain
	KindChainFirst
	KindCrossProduct
	KindCrossSingleton
	KindJoin
	KindDifference
	KindAntiJoin

	KindFold
	KindFoldKeyed
	KindScan
	KindReduce
	KindReduceKeyed
	KindReduceKeyedWatermark

	KindNetwork
)

var nodeKindNames = map[NodeKind]string{
	KindSource: "Source", KindSingletonSource: "SingletonSource",
	KindCycleSource: "CycleSource", KindExternalInput: "ExternalInput",
	KindPlaceholder: "Placeholder",
	KindTee:         "Tee", KindCast: "Cast", KindObserveNonDet: "ObserveNonDet",
	KindBeginAtomic: "BeginAtomic", KindEndAtomic: "EndAtomic", KindBatch: "Batch",
	KindYieldConcat: "YieldConcat", KindDeferTick: "DeferTick", KindPersist: "Persist",
	KindUnpersist: "Unpersist",
	KindMap:       "Map", KindFlatMap: "FlatMap", KindFilter: "Filter",
	KindFilterMap: "FilterMap", KindInspect: "Inspect", KindResolveFutures: "ResolveFutures",
	KindResolveFuturesOrdered: "ResolveFuturesOrdered", KindEnumerate: "Enumerate",
	KindSort: "Sort", KindUnique: "Unique", KindCounter: "Counter",
	KindChain: "Chain", KindChainFirst: "ChainFirst", KindCrossProduct: "CrossProduct",
	KindCrossSingleton: "CrossSingleton", KindJoin: "Join", KindDifference: "Difference",
	KindAntiJoin: "AntiJoin",
	KindFold:     "Fold", KindFoldKeyed: "FoldKeyed", KindScan: "Scan", KindReduce: "Reduce",
	KindReduceKeyed: "ReduceKeyed", KindReduceKeyedWatermark: "ReduceKeyedWatermark",
	KindNetwork: "Network",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return "?"
}

// Node is the common interface of every IR operator variant (spec §3.3).
// Sharing in the DAG happens by aliasing a Node pointer across more than
// one parent's child slot; by discipline that only ever happens through
// a Tee (spec §3.5), so traversals only need to memoise on Tee identity.
type Node interface {
	Kind() NodeKind
	Metadata() *Metadata
	// Children returns this node's direct operand nodes in canonical
	// visit order (first/left before second/right, per spec §4.4).
	Children() []Node
	// SetChildren replaces this node's direct operands in place; len
	// must match Children(). Used by rewriting traversals.
	SetChildren([]Node)
}

type base struct {
	meta Metadata
}

func (b *base) Metadata() *Metadata { return &b.meta }

func newBase(loc location.ID, ck CollectionKind, op string) base {
	return base{meta: Metadata{LocationKind: loc, CollectionKind: ck, Op: OpMetadata{OpName: op}}}
}

// ---- Sources ----

// HydroSourceTag discriminates HydroSource (spec §3.3).
type HydroSourceTag int

const (
	HydroSourceStream HydroSourceTag = iota
	HydroSourceIter
	HydroSourceSpin
	HydroSourceExternalNetwork
	HydroSourceClusterMembers
)

// HydroSource is the payload of a Source node.
type HydroSource struct {
	Tag     HydroSourceTag
	Expr    expr.Expr   // Stream, Iter
	Cluster location.ID // ClusterMembers
}

// SourceNode is Source{HydroSource} (spec §3.3).
type SourceNode struct {
	base
	Source HydroSource
}

func NewSource(loc location.ID, ck CollectionKind, src HydroSource) *SourceNode {
	n := &SourceNode{base: newBase(loc, ck, "source"), Source: src}
	return n
}
func (n *SourceNode) Kind() NodeKind       { return KindSource }
func (n *SourceNode) Children() []Node     { return nil }
func (n *SourceNode) SetChildren([]Node)   {}

// SingletonSourceNode is SingletonSource{value} (spec §3.3).
type SingletonSourceNode struct {
	base
	Value expr.Expr
}

func NewSingletonSource(loc location.ID, ck CollectionKind, value expr.Expr) *SingletonSourceNode {
	return &SingletonSourceNode{base: newBase(loc, ck, "singleton_source"), Value: value}
}
func (n *SingletonSourceNode) Kind() NodeKind     { return KindSingletonSource }
func (n *SingletonSourceNode) Children() []Node   { return nil }
func (n *SingletonSourceNode) SetChildren([]Node) {}

// CycleSourceNode is CycleSource{ident} — a name-based forward-reference
// placeholder (spec §3.3, §4.3).
type CycleSourceNode struct {
	base
	Ident string
}

func NewCycleSource(loc location.ID, ck CollectionKind, ident string) *CycleSourceNode {
	return &CycleSourceNode{base: newBase(loc, ck, "cycle_source"), Ident: ident}
}
func (n *CycleSourceNode) Kind() NodeKind     { return KindCycleSource }
func (n *CycleSourceNode) Children() []Node   { return nil }
func (n *CycleSourceNode) SetChildren([]Node) {}

// ExternalInputNode is ExternalInput{external_id,key} (spec §3.3).
type ExternalInputNode struct {
	base
	ExternalID uint64
	Key        string
	Inst       *Instantiation
}

func NewExternalInput(loc location.ID, ck CollectionKind, externalID uint64, key string) *ExternalInputNode {
	return &ExternalInputNode{base: newBase(loc, ck, "external_input"), ExternalID: externalID, Key: key, Inst: NewInstantiation()}
}
func (n *ExternalInputNode) Kind() NodeKind     { return KindExternalInput }
func (n *ExternalInputNode) Children() []Node   { return nil }
func (n *ExternalInputNode) SetChildren([]Node) {}

// PlaceholderNode marks builder-internal incomplete state (e.g. a
// forward reference awaiting its cycle source). Accessing one after
// build time is a compiler bug (spec §7).
type PlaceholderNode struct {
	base
	Reason string
}

func NewPlaceholder(loc location.ID, ck CollectionKind, reason string) *PlaceholderNode {
	return &PlaceholderNode{base: newBase(loc, ck, "placeholder"), Reason: reason}
}
func (n *PlaceholderNode) Kind() NodeKind     { return KindPlaceholder }
func (n *PlaceholderNode) Children() []Node   { return nil }
func (n *PlaceholderNode) SetChildren([]Node) {}

// ---- unary helper ----

type unary struct {
	base
	Input Node
}

func (u *unary) Children() []Node { return []Node{u.Input} }
func (u *unary) SetChildren(c []Node) {
	if len(c) != 1 {
		panic("ir: unary node requires exactly one child")
	}
	u.Input = c[0]
}

// ---- Shape / guarantees ----

// TeeNode is the shared fan-out node (spec §3.5). Multiple parents hold
// the same *TeeNode pointer; the traversal memoises on that identity so
// the interior is visited at most once per pass.
type TeeNode struct {
	unary
}

func NewTee(loc location.ID, ck CollectionKind, interior Node) *TeeNode {
	t := &TeeNode{unary{base: newBase(loc, ck, "tee"), Input: interior}}
	return t
}
func (n *TeeNode) Kind() NodeKind { return KindTee }

// CastNode is Cast(inner) — a no-op weakening (spec §4.1).
type CastNode struct{ unary }

func NewCast(loc location.ID, ck CollectionKind, input Node) *CastNode {
	return &CastNode{unary{base: newBase(loc, ck, "cast"), Input: input}}
}
func (n *CastNode) Kind() NodeKind { return KindCast }

// ObserveNonDetNode is ObserveNonDet(inner, trusted) — a user- or
// internally-witnessed guarantee strengthening (spec §4.1).
type ObserveNonDetNode struct {
	unary
	Trusted  bool
	Rationale string
}

func NewObserveNonDet(loc location.ID, ck CollectionKind, input Node, trusted bool, rationale string) *ObserveNonDetNode {
	return &ObserveNonDetNode{unary: unary{base: newBase(loc, ck, "observe_non_det"), Input: input}, Trusted: trusted, Rationale: rationale}
}
func (n *ObserveNonDetNode) Kind() NodeKind { return KindObserveNonDet }

// BeginAtomicNode is BeginAtomic(inner) (spec §3.3).
type BeginAtomicNode struct{ unary }

func NewBeginAtomic(loc location.ID, ck CollectionKind, input Node) *BeginAtomicNode {
	return &BeginAtomicNode{unary{base: newBase(loc, ck, "begin_atomic"), Input: input}}
}
func (n *BeginAtomicNode) Kind() NodeKind { return KindBeginAtomic }

// EndAtomicNode is EndAtomic(inner) (spec §3.3).
type EndAtomicNode struct{ unary }

func NewEndAtomic(loc location.ID, ck CollectionKind, input Node) *EndAtomicNode {
	return &EndAtomicNode{unary{base: newBase(loc, ck, "end_atomic"), Input: input}}
}
func (n *EndAtomicNode) Kind() NodeKind { return KindEndAtomic }

// BatchNode is Batch(inner): Unbounded -> Bounded<Tick> (spec §4.2).
type BatchNode struct {
	unary
	Witness NonDetWitness
}

func NewBatch(loc location.ID, ck CollectionKind, input Node, w NonDetWitness) *BatchNode {
	return &BatchNode{unary: unary{base: newBase(loc, ck, "batch"), Input: input}, Witness: w}
}
func (n *BatchNode) Kind() NodeKind { return KindBatch }

// YieldConcatNode is all_ticks: Bounded<Tick> -> Unbounded (spec §4.2).
type YieldConcatNode struct {
	unary
	Atomic bool // true for all_ticks_atomic
}

func NewYieldConcat(loc location.ID, ck CollectionKind, input Node, atomic bool) *YieldConcatNode {
	return &YieldConcatNode{unary: unary{base: newBase(loc, ck, "all_ticks"), Input: input}, Atomic: atomic}
}
func (n *YieldConcatNode) Kind() NodeKind { return KindYieldConcat }

// DeferTickNode is defer_tick (spec §4.2).
type DeferTickNode struct{ unary }

func NewDeferTick(loc location.ID, ck CollectionKind, input Node) *DeferTickNode {
	return &DeferTickNode{unary{base: newBase(loc, ck, "defer_tick"), Input: input}}
}
func (n *DeferTickNode) Kind() NodeKind { return KindDeferTick }

// PersistNode is persist: concatenates batches across ticks (spec §4.2).
type PersistNode struct{ unary }

func NewPersist(loc location.ID, ck CollectionKind, input Node) *PersistNode {
	return &PersistNode{unary{base: newBase(loc, ck, "persist"), Input: input}}
}
func (n *PersistNode) Kind() NodeKind { return KindPersist }

// UnpersistNode is an optimiser-only marker (SPEC_FULL §11 Open Question
// #2) eliminated by ir.Normalize before emit.
type UnpersistNode struct{ unary }

func NewUnpersist(loc location.ID, ck CollectionKind, input Node) *UnpersistNode {
	return &UnpersistNode{unary{base: newBase(loc, ck, "unpersist"), Input: input}}
}
func (n *UnpersistNode) Kind() NodeKind { return KindUnpersist }

// ---- Unary element-wise ----

// MapNode is map(f) (spec §3.3).
type MapNode struct {
	unary
	F expr.Expr
}

func NewMap(loc location.ID, ck CollectionKind, input Node, f expr.Expr) *MapNode {
	return &MapNode{unary: unary{base: newBase(loc, ck, "map"), Input: input}, F: f}
}
func (n *MapNode) Kind() NodeKind { return KindMap }

// FlatMapNode is flat_map_ordered/flat_map_unordered(f); Ordered records
// which guarantee rule from spec §4.1 applies.
type FlatMapNode struct {
	unary
	F       expr.Expr
	Ordered bool
}

func NewFlatMap(loc location.ID, ck CollectionKind, input Node, f expr.Expr, ordered bool) *FlatMapNode {
	op := "flat_map_unordered"
	if ordered {
		op = "flat_map_ordered"
	}
	return &FlatMapNode{unary: unary{base: newBase(loc, ck, op), Input: input}, F: f, Ordered: ordered}
}
func (n *FlatMapNode) Kind() NodeKind { return KindFlatMap }

// FilterNode is filter(f) (spec §3.3).
type FilterNode struct {
	unary
	F expr.Expr
}

func NewFilter(loc location.ID, ck CollectionKind, input Node, f expr.Expr) *FilterNode {
	return &FilterNode{unary: unary{base: newBase(loc, ck, "filter"), Input: input}, F: f}
}
func (n *FilterNode) Kind() NodeKind { return KindFilter }

// FilterMapNode is filter_map(f) (spec §3.3).
type FilterMapNode struct {
	unary
	F expr.Expr
}

func NewFilterMap(loc location.ID, ck CollectionKind, input Node, f expr.Expr) *FilterMapNode {
	return &FilterMapNode{unary: unary{base: newBase(loc, ck, "filter_map"), Input: input}, F: f}
}
func (n *FilterMapNode) Kind() NodeKind { return KindFilterMap }

// InspectNode is inspect(f) (spec §3.3).
type InspectNode struct {
	unary
	F expr.Expr
}

func NewInspect(loc location.ID, ck CollectionKind, input Node, f expr.Expr) *InspectNode {
	return &InspectNode{unary: unary{base: newBase(loc, ck, "inspect"), Input: input}, F: f}
}
func (n *InspectNode) Kind() NodeKind { return KindInspect }

// ResolveFuturesNode is resolve_futures (spec §3.3).
type ResolveFuturesNode struct{ unary }

func NewResolveFutures(loc location.ID, ck CollectionKind, input Node) *ResolveFuturesNode {
	return &ResolveFuturesNode{unary{base: newBase(loc, ck, "resolve_futures"), Input: input}}
}
func (n *ResolveFuturesNode) Kind() NodeKind { return KindResolveFutures }

// ResolveFuturesOrderedNode is resolve_futures_ordered (spec §3.3).
type ResolveFuturesOrderedNode struct{ unary }

func NewResolveFuturesOrdered(loc location.ID, ck CollectionKind, input Node) *ResolveFuturesOrderedNode {
	return &ResolveFuturesOrderedNode{unary{base: newBase(loc, ck, "resolve_futures_ordered"), Input: input}}
}
func (n *ResolveFuturesOrderedNode) Kind() NodeKind { return KindResolveFuturesOrdered }

// EnumerateNode is enumerate (spec §3.3).
type EnumerateNode struct{ unary }

func NewEnumerate(loc location.ID, ck CollectionKind, input Node) *EnumerateNode {
	return &EnumerateNode{unary{base: newBase(loc, ck, "enumerate"), Input: input}}
}
func (n *EnumerateNode) Kind() NodeKind { return KindEnumerate }

// SortNode is sort (spec §3.3); strengthens Order to TotalOrder (spec §8
// property 5).
type SortNode struct{ unary }

func NewSort(loc location.ID, ck CollectionKind, input Node) *SortNode {
	return &SortNode{unary{base: newBase(loc, ck, "sort"), Input: input}}
}
func (n *SortNode) Kind() NodeKind { return KindSort }

// UniqueNode is unique (spec §3.3); strengthens Retry to ExactlyOnce.
type UniqueNode struct{ unary }

func NewUnique(loc location.ID, ck CollectionKind, input Node) *UniqueNode {
	return &UniqueNode{unary{base: newBase(loc, ck, "unique"), Input: input}}
}
func (n *UniqueNode) Kind() NodeKind { return KindUnique }

// CounterNode is Counter{tag,duration,prefix} (spec §3.3) — a debug
// throughput counter, transparent to guarantees.
type CounterNode struct {
	unary
	Tag      string
	Duration expr.Expr
	Prefix   string
}

func NewCounter(loc location.ID, ck CollectionKind, input Node, tag, prefix string, duration expr.Expr) *CounterNode {
	return &CounterNode{unary: unary{base: newBase(loc, ck, "counter"), Input: input}, Tag: tag, Duration: duration, Prefix: prefix}
}
func (n *CounterNode) Kind() NodeKind { return KindCounter }

// ---- binary helper ----

type binary struct {
	base
	First  Node
	Second Node
}

func (b *binary) Children() []Node { return []Node{b.First, b.Second} }
func (b *binary) SetChildren(c []Node) {
	if len(c) != 2 {
		panic("ir: binary node requires exactly two children")
	}
	b.First, b.Second = c[0], c[1]
}

// ChainNode is Chain{first,second} (spec §3.3).
type ChainNode struct{ binary }

func NewChain(loc location.ID, ck CollectionKind, first, second Node) *ChainNode {
	return &ChainNode{binary{base: newBase(loc, ck, "chain"), First: first, Second: second}}
}
func (n *ChainNode) Kind() NodeKind { return KindChain }

// ChainFirstNode is ChainFirst{first,second} — interleave (spec §3.3,
// §4.1 "interleave(a,b) (unbounded)").
type ChainFirstNode struct{ binary }

func NewChainFirst(loc location.ID, ck CollectionKind, first, second Node) *ChainFirstNode {
	return &ChainFirstNode{binary{base: newBase(loc, ck, "interleave"), First: first, Second: second}}
}
func (n *ChainFirstNode) Kind() NodeKind { return KindChainFirst }

// CrossProductNode is CrossProduct{left,right} (spec §3.3).
type CrossProductNode struct{ binary }

func NewCrossProduct(loc location.ID, ck CollectionKind, left, right Node) *CrossProductNode {
	return &CrossProductNode{binary{base: newBase(loc, ck, "cross_product"), First: left, Second: right}}
}
func (n *CrossProductNode) Kind() NodeKind { return KindCrossProduct }

// CrossSingletonNode is CrossSingleton{left,right} (spec §3.3).
type CrossSingletonNode struct{ binary }

func NewCrossSingleton(loc location.ID, ck CollectionKind, left, right Node) *CrossSingletonNode {
	return &CrossSingletonNode{binary{base: newBase(loc, ck, "cross_singleton"), First: left, Second: right}}
}
func (n *CrossSingletonNode) Kind() NodeKind { return KindCrossSingleton }

// JoinNode is Join{left,right} (spec §3.3).
type JoinNode struct{ binary }

func NewJoin(loc location.ID, ck CollectionKind, left, right Node) *JoinNode {
	return &JoinNode{binary{base: newBase(loc, ck, "join"), First: left, Second: right}}
}
func (n *JoinNode) Kind() NodeKind { return KindJoin }

// DifferenceNode is Difference{pos,neg} (spec §3.3).
type DifferenceNode struct{ binary }

func NewDifference(loc location.ID, ck CollectionKind, pos, neg Node) *DifferenceNode {
	return &DifferenceNode{binary{base: newBase(loc, ck, "difference"), First: pos, Second: neg}}
}
func (n *DifferenceNode) Kind() NodeKind { return KindDifference }

// AntiJoinNode is AntiJoin{pos,neg} (spec §3.3).
type AntiJoinNode struct{ binary }

func NewAntiJoin(loc location.ID, ck CollectionKind, pos, neg Node) *AntiJoinNode {
	return &AntiJoinNode{binary{base: newBase(loc, ck, "anti_join"), First: pos, Second: neg}}
}
func (n *AntiJoinNode) Kind() NodeKind { return KindAntiJoin }

// ---- Stateful ----

// Lifetime is the runtime state-lifetime selected during lowering (spec
// §4.5): "static" persists across ticks, "tick" resets each tick.
type Lifetime int

const (
	LifetimeUnset Lifetime = iota
	LifetimeStatic
	LifetimeTick
)

func (l Lifetime) String() string {
	switch l {
	case LifetimeStatic:
		return "static"
	case LifetimeTick:
		return "tick"
	default:
		return "unset"
	}
}

// FoldNode is Fold{init,acc} (spec §3.3).
type FoldNode struct {
	unary
	Init, Acc expr.Expr
	Lifetime  Lifetime
	Gate      AlgebraGate
}

func NewFold(loc location.ID, ck CollectionKind, input Node, init, acc expr.Expr, gate AlgebraGate) *FoldNode {
	return &FoldNode{unary: unary{base: newBase(loc, ck, "fold"), Input: input}, Init: init, Acc: acc, Gate: gate}
}
func (n *FoldNode) Kind() NodeKind { return KindFold }

// FoldKeyedNode is FoldKeyed{init,acc} (spec §3.3).
type FoldKeyedNode struct {
	unary
	Init, Acc expr.Expr
	Lifetime  Lifetime
	Gate      AlgebraGate
}

func NewFoldKeyed(loc location.ID, ck CollectionKind, input Node, init, acc expr.Expr, gate AlgebraGate) *FoldKeyedNode {
	return &FoldKeyedNode{unary: unary{base: newBase(loc, ck, "fold_keyed"), Input: input}, Init: init, Acc: acc, Gate: gate}
}
func (n *FoldKeyedNode) Kind() NodeKind { return KindFoldKeyed }

// ScanNode is Scan{init,acc} (spec §3.3, §9 "Scan-with-termination").
type ScanNode struct {
	unary
	Init, Acc   expr.Expr
	Terminating bool
}

func NewScan(loc location.ID, ck CollectionKind, input Node, init, acc expr.Expr, terminating bool) *ScanNode {
	return &ScanNode{unary: unary{base: newBase(loc, ck, "scan"), Input: input}, Init: init, Acc: acc, Terminating: terminating}
}
func (n *ScanNode) Kind() NodeKind { return KindScan }

// ReduceNode is Reduce{f} (spec §3.3).
type ReduceNode struct {
	unary
	F        expr.Expr
	Lifetime Lifetime
}

func NewReduce(loc location.ID, ck CollectionKind, input Node, f expr.Expr) *ReduceNode {
	return &ReduceNode{unary: unary{base: newBase(loc, ck, "reduce"), Input: input}, F: f}
}
func (n *ReduceNode) Kind() NodeKind { return KindReduce }

// ReduceKeyedNode is ReduceKeyed{f} (spec §3.3).
type ReduceKeyedNode struct {
	unary
	F        expr.Expr
	Lifetime Lifetime
}

func NewReduceKeyed(loc location.ID, ck CollectionKind, input Node, f expr.Expr) *ReduceKeyedNode {
	return &ReduceKeyedNode{unary: unary{base: newBase(loc, ck, "reduce_keyed"), Input: input}, F: f}
}
func (n *ReduceKeyedNode) Kind() NodeKind { return KindReduceKeyed }

// ReduceKeyedWatermarkNode is ReduceKeyed{f,watermark} (spec §3.3, S6).
// Watermark is a Singleton node supplying the watermark value; per
// SPEC_FULL §11 Open Question #3 it must not itself be a KeyedSingleton.
type ReduceKeyedWatermarkNode struct {
	unary
	F         expr.Expr
	Watermark Node
}

func NewReduceKeyedWatermark(loc location.ID, ck CollectionKind, input, watermark Node, f expr.Expr) *ReduceKeyedWatermarkNode {
	if watermark.Metadata().CollectionKind.Tag == KindKeyedSingleton {
		Panic(watermark, "reduce_keyed_watermark: watermark input must not be a KeyedSingleton (unsupported per SPEC_FULL Open Question #3)")
	}
	return &ReduceKeyedWatermarkNode{unary: unary{base: newBase(loc, ck, "reduce_keyed_watermark"), Input: input}, F: f, Watermark: watermark}
}
func (n *ReduceKeyedWatermarkNode) Kind() NodeKind   { return KindReduceKeyedWatermark }
func (n *ReduceKeyedWatermarkNode) Children() []Node { return []Node{n.Input, n.Watermark} }
func (n *ReduceKeyedWatermarkNode) SetChildren(c []Node) {
	if len(c) != 2 {
		panic("ir: ReduceKeyedWatermarkNode requires exactly two children")
	}
	n.Input, n.Watermark = c[0], c[1]
}

// AlgebraGate records which of the fold/fold_commutative/fold_idempotent/
// fold_commutative_idempotent variants a Fold/FoldKeyed was constructed
// through (spec §4.1, §9 "Commutativity / idempotence gates").
type AlgebraGate struct {
	Commutative bool
	Idempotent  bool
}

// NonDetWitness documents an intentionally introduced non-determinism
// (spec GLOSSARY "NonDet witness").
type NonDetWitness struct {
	Rationale string
}

// ---- Network ----

// NetworkNode is Network{serialize?,deserialize?,instantiate_fn,input}
// (spec §3.3, §4.7).
type NetworkNode struct {
	unary
	Serialize   expr.Expr
	Deserialize expr.Expr
	To          location.ID
	Inst        *Instantiation
}

func NewNetwork(loc location.ID, ck CollectionKind, input Node, to location.ID, serialize, deserialize expr.Expr) *NetworkNode {
	return &NetworkNode{
		unary:       unary{base: newBase(loc, ck, "network"), Input: input},
		Serialize:   serialize,
		Deserialize: deserialize,
		To:          to,
		Inst:        NewInstantiation(),
	}
}
func (n *NetworkNode) Kind() NodeKind { return KindNetwork }
