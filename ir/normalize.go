package ir

// Normalize eliminates optimiser-only markers before emit (SPEC_FULL §11
// Open Question #2): every Unpersist(Persist(x)) rewrites to x. An
// Unpersist that survives normalisation over anything else is a
// Diagnostic-level compiler bug, since the builder API never constructs
// one any other way.
func Normalize(roots []Root) {
	TransformBottomUp(roots, func(n Node) Node {
		up, ok := n.(*UnpersistNode)
		if !ok {
			return n
		}
		if p, ok := up.Input.(*PersistNode); ok {
			return p.Input
		}
		Panic(up, "Unpersist must wrap Persist; found %s", up.Input.Kind())
		return n
	}, nil, false)
}
