package ir

// NodeFunc rewrites a single node after its children have already been
// rewritten; it returns the (possibly new) node to use in its place.
type NodeFunc func(Node) Node

// RootFunc is invoked once per root after its input subgraph has been
// transformed.
type RootFunc func(Root)

// TransformBottomUp implements spec §4.4.1: visits each node's children
// first (Tee sharing honoured via pointer-identity memoisation), then
// invokes nodeFn. When checkWellFormed, it verifies for every node other
// than Network/ExternalInput that each child's root location equals the
// node's root location, panicking with a Diagnostic otherwise (spec §8
// property 2).
func TransformBottomUp(roots []Root, nodeFn NodeFunc, rootFn RootFunc, checkWellFormed bool) {
	memo := map[Node]Node{}
	for _, r := range roots {
		if r.Input() != nil {
			r.SetInput(transformNode(r.Input(), nodeFn, memo, checkWellFormed))
		}
		if rootFn != nil {
			rootFn(r)
		}
		if checkWellFormed && r.Input() != nil {
			if !r.Input().Metadata().LocationKind.Root().Equal(r.Metadata().LocationKind.Root()) {
				Panic(r.Input(), "root %s expects input at %s but got %s", r.Kind(), r.Metadata().LocationKind.Root(), r.Input().Metadata().LocationKind.Root())
			}
		}
	}
}

func transformNode(n Node, nodeFn NodeFunc, memo map[Node]Node, checkWellFormed bool) Node {
	if cached, ok := memo[n]; ok {
		return cached
	}

	children := n.Children()
	if len(children) > 0 {
		newChildren := make([]Node, len(children))
		for i, c := range children {
			newChildren[i] = transformNode(c, nodeFn, memo, checkWellFormed)
		}
		n.SetChildren(newChildren)
	}

	if checkWellFormed && n.Kind() != KindNetwork && n.Kind() != KindExternalInput {
		self := n.Metadata().LocationKind.Root()
		for _, c := range n.Children() {
			if !c.Metadata().LocationKind.Root().Equal(self) {
				Panic(n, "child %s is at location %s but parent is at %s", c.Kind(), c.Metadata().LocationKind.Root(), self)
			}
		}
	}

	out := n
	if nodeFn != nil {
		out = nodeFn(n)
	}
	memo[n] = out
	return out
}

// TransformChildren applies f to every direct child of n in place,
// without recursing further (spec §4.4 "transform_children").
func TransformChildren(n Node, f func(Node) Node) {
	children := n.Children()
	if len(children) == 0 {
		return
	}
	out := make([]Node, len(children))
	for i, c := range children {
		out[i] = f(c)
	}
	n.SetChildren(out)
}

// VisitDebugExpr walks every Expr-carrying field reachable from roots
// and invokes f on each, honouring Tee memoisation (spec §4.4 "visit_debug_expr").
// It is intentionally conservative: node kinds are dispatched by a type
// switch so new Expr-carrying fields are easy to add alongside new node
// variants.
func VisitDebugExpr(roots []Root, f func(Node, string, interface{})) {
	visited := map[Node]bool{}
	var walk func(Node)
	walk = func(n Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		switch x := n.(type) {
		case *SourceNode:
			f(n, "source", x.Source)
		case *SingletonSourceNode:
			f(n, "value", x.Value)
		case *MapNode:
			f(n, "f", x.F)
		case *FlatMapNode:
			f(n, "f", x.F)
		case *FilterNode:
			f(n, "f", x.F)
		case *FilterMapNode:
			f(n, "f", x.F)
		case *InspectNode:
			f(n, "f", x.F)
		case *FoldNode:
			f(n, "init", x.Init)
			f(n, "acc", x.Acc)
		case *FoldKeyedNode:
			f(n, "init", x.Init)
			f(n, "acc", x.Acc)
		case *ScanNode:
			f(n, "init", x.Init)
			f(n, "acc", x.Acc)
		case *ReduceNode:
			f(n, "f", x.F)
		case *ReduceKeyedNode:
			f(n, "f", x.F)
		case *ReduceKeyedWatermarkNode:
			f(n, "f", x.F)
		case *CounterNode:
			f(n, "duration", x.Duration)
		case *NetworkNode:
			f(n, "serialize", x.Serialize)
			f(n, "deserialize", x.Deserialize)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	for _, r := range roots {
		if r.Input() != nil {
			walk(r.Input())
		}
	}
}

// DeepClone performs a structural copy of the graph reachable from
// roots (spec §4.4.2). A Tee -> clone memo table preserves sharing:
// every parent that pointed at the same *TeeNode points at the same
// cloned node in the output. Finalized network instantiations are
// never cloned (spec §3.6 / §7); DeepClone panics if one is reachable.
func DeepClone(roots []Root) []Root {
	memo := map[Node]Node{}
	var clone func(Node) Node
	clone = func(n Node) Node {
		if cached, ok := memo[n]; ok {
			return cached
		}
		cp := shallowCopy(n)
		memo[n] = cp
		children := n.Children()
		if len(children) > 0 {
			newChildren := make([]Node, len(children))
			for i, c := range children {
				newChildren[i] = clone(c)
			}
			cp.SetChildren(newChildren)
		}
		return cp
	}

	out := make([]Root, len(roots))
	for i, r := range roots {
		rc := shallowCopyRoot(r)
		if r.Input() != nil {
			rc.SetInput(clone(r.Input()))
		}
		out[i] = rc
	}
	return out
}
