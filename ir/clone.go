package ir

// shallowCopy duplicates a node's own fields (not its children, which
// the caller re-links) into a fresh pointer, so the clone is a distinct
// value that can later be mutated independently of the original — except
// where both deliberately point at the same *TeeNode, which DeepClone's
// caller handles by routing through the shared clone memo.
func shallowCopy(n Node) Node {
	switch x := n.(type) {
	case *SourceNode:
		cp := *x
		return &cp
	case *SingletonSourceNode:
		cp := *x
		return &cp
	case *CycleSourceNode:
		cp := *x
		return &cp
	case *ExternalInputNode:
		x.Inst.CloneGuard()
		cp := *x
		cp.Inst = NewInstantiation()
		return &cp
	case *PlaceholderNode:
		cp := *x
		return &cp
	case *TeeNode:
		cp := *x
		return &cp
	case *CastNode:
		cp := *x
		return &cp
	case *ObserveNonDetNode:
		cp := *x
		return &cp
	case *BeginAtomicNode:
		cp := *x
		return &cp
	case *EndAtomicNode:
		cp := *x
		return &cp
	case *BatchNode:
		cp := *x
		return &cp
	case *YieldConcatNode:
		cp := *x
		return &cp
	case *DeferTickNode:
		cp := *x
		return &cp
	case *PersistNode:
		cp := *x
		return &cp
	case *UnpersistNode:
		cp := *x
		return &cp
	case *MapNode:
		cp := *x
		return &cp
	case *FlatMapNode:
		cp := *x
		return &cp
	case *FilterNode:
		cp := *x
		return &cp
	case *FilterMapNode:
		cp := *x
		return &cp
	case *InspectNode:
		cp := *x
		return &cp
	case *ResolveFuturesNode:
		cp := *x
		return &cp
	case *ResolveFuturesOrderedNode:
		cp := *x
		return &cp
	case *EnumerateNode:
		cp := *x
		return &cp
	case *SortNode:
		cp := *x
		return &cp
	case *UniqueNode:
		cp := *x
		return &cp
	case *CounterNode:
		cp := *x
		return &cp
	case *ChainNode:
		cp := *x
		return &cp
	case *ChainFirstNode:
		cp := *x
		return &cp
	case *CrossProductNode:
		cp := *x
		return &cp
	case *CrossSingletonNode:
		cp := *x
		return &cp
	case *JoinNode:
		cp := *x
		return &cp
	case *DifferenceNode:
		cp := *x
		return &cp
	case *AntiJoinNode:
		cp := *x
		return &cp
	case *FoldNode:
		cp := *x
		return &cp
	case *FoldKeyedNode:
		cp := *x
		return &cp
	case *ScanNode:
		cp := *x
		return &cp
	case *ReduceNode:
		cp := *x
		return &cp
	case *ReduceKeyedNode:
		cp := *x
		return &cp
	case *ReduceKeyedWatermarkNode:
		cp := *x
		return &cp
	case *NetworkNode:
		x.Inst.CloneGuard()
		cp := *x
		cp.Inst = NewInstantiation()
		return &cp
	default:
		Panic(n, "deep_clone: unhandled node kind")
		return nil
	}
}

func shallowCopyRoot(r Root) Root {
	switch x := r.(type) {
	case *ForEachRoot:
		cp := *x
		return &cp
	case *DestSinkRoot:
		cp := *x
		return &cp
	case *CycleSinkRoot:
		cp := *x
		return &cp
	case *SendExternalRoot:
		x.Inst.CloneGuard()
		cp := *x
		cp.Inst = NewInstantiation()
		return &cp
	default:
		panic("deep_clone: unhandled root kind")
	}
}
