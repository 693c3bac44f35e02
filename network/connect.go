package network

import "github.com/hydroflow-go/hydro/ir"

// Connect is the second pass from spec §4.7: "a second pass calls each
// connect_fn exactly once to establish runtime connectivity." It must
// run strictly after Compile has finalized every network edge.
func Connect(fs *ir.FlowState) error {
	roots := fs.AllRoots()
	var connectErr error

	ir.TransformBottomUp(roots, func(n ir.Node) ir.Node {
		if connectErr != nil {
			return n
		}
		var inst *ir.Instantiation
		switch x := n.(type) {
		case *ir.NetworkNode:
			inst = x.Inst
		case *ir.ExternalInputNode:
			inst = x.Inst
		}
		if inst != nil && inst.IsFinalized() && !inst.Consumed() {
			if err := inst.Consume(); err != nil {
				connectErr = err
			}
		}
		return n
	}, func(r ir.Root) {
		if connectErr != nil {
			return
		}
		if se, ok := r.(*ir.SendExternalRoot); ok && se.Inst.IsFinalized() && !se.Inst.Consumed() {
			if err := se.Inst.Consume(); err != nil {
				connectErr = err
			}
		}
	}, false)

	return connectErr
}
