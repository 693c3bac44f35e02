package network

import (
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

// Compile is compile_network from spec §2/§4.7: it visits every
// Network/ExternalInput/SendExternal node across all roots and replaces
// each Building instantiation with a Finalized{sink,source,connect_fn}
// computed from the backend, per the from->to shape table in spec §4.7.
//
// Per SPEC_FULL §11 Open Question #1, Cluster->External and any shape
// not named in the table (including Cluster<->Cluster via an external
// endpoint) is treated as unsupported: Compile returns a Diagnostic
// naming the offending node rather than guessing a fallback shape.
func Compile(fs *ir.FlowState, backend Deploy) error {
	var compileErr error
	fail := func(n ir.Node, msg string) {
		if compileErr == nil {
			compileErr = ir.NewDiagnostic(n, msg)
		}
	}

	roots := fs.AllRoots()

	ir.TransformBottomUp(roots, func(n ir.Node) ir.Node {
		switch x := n.(type) {
		case *ir.NetworkNode:
			if compileErr == nil {
				compileNetwork(x, backend, fail)
			}
		case *ir.ExternalInputNode:
			if compileErr == nil {
				compileExternalInput(x, backend, fail)
			}
		}
		return n
	}, func(r ir.Root) {
		if se, ok := r.(*ir.SendExternalRoot); ok && compileErr == nil {
			compileSendExternal(se, backend, fail)
		}
	}, false)

	return compileErr
}

func compileNetwork(n *ir.NetworkNode, backend Deploy, fail func(ir.Node, string)) {
	if n.Inst.IsFinalized() {
		return
	}
	from := n.Input.Metadata().LocationKind.Root()
	to := n.To.Root()

	switch {
	case from.Kind() == location.KindProcess && to.Kind() == location.KindProcess:
		fp := backend.AllocateProcessPort(from)
		tp := backend.AllocateProcessPort(to)
		sink, source := backend.O2OSinkSource(from, fp, to, tp)
		n.Inst.Finalize(sink, source, backend.O2OConnect(from, fp, to, tp))
	case from.Kind() == location.KindProcess && to.Kind() == location.KindCluster:
		fp := backend.AllocateProcessPort(from)
		tp := backend.AllocateClusterPort(to)
		sink, source := backend.O2MSinkSource(from, fp, to, tp)
		n.Inst.Finalize(sink, source, backend.O2MConnect(from, fp, to, tp))
	case from.Kind() == location.KindCluster && to.Kind() == location.KindProcess:
		fp := backend.AllocateClusterPort(from)
		tp := backend.AllocateProcessPort(to)
		sink, source := backend.M2OSinkSource(from, fp, to, tp)
		n.Inst.Finalize(sink, source, backend.M2OConnect(from, fp, to, tp))
	case from.Kind() == location.KindCluster && to.Kind() == location.KindCluster:
		fp := backend.AllocateClusterPort(from)
		tp := backend.AllocateClusterPort(to)
		sink, source := backend.M2MSinkSource(from, fp, to, tp)
		n.Inst.Finalize(sink, source, backend.M2MConnect(from, fp, to, tp))
	default:
		fail(n, "unsupported network shape "+from.Kind().String()+" -> "+to.Kind().String()+" (see SPEC_FULL Open Question #1)")
	}
}

func compileExternalInput(n *ir.ExternalInputNode, backend Deploy, fail func(ir.Node, string)) {
	if n.Inst.IsFinalized() {
		return
	}
	to := n.Metadata().LocationKind.Root()
	if to.Kind() != location.KindProcess {
		fail(n, "ExternalInput only supports External -> Process (see SPEC_FULL Open Question #1)")
		return
	}
	external := location.External(n.ExternalID)
	tp := backend.AllocateProcessPort(to)
	source, connect := backend.E2OSource(external, to, tp)
	n.Inst.Finalize(source, source, connect)
}

func compileSendExternal(r *ir.SendExternalRoot, backend Deploy, fail func(ir.Node, string)) {
	if r.Inst.IsFinalized() {
		return
	}
	from := r.Metadata().LocationKind.Root()
	if from.Kind() != location.KindProcess {
		fail(r.Input(), "SendExternal only supports Process -> External (see SPEC_FULL Open Question #1)")
		return
	}
	external := location.External(r.ExternalID)
	fp := backend.AllocateProcessPort(from)

	var (
		sinkExpr = r.Serialize
		connect  ir.ConnectFn
	)
	if r.ToMany {
		sinkExpr, connect = backend.O2EManySink(from, fp, external)
	} else {
		sinkExpr, connect = backend.O2ESink(from, fp, external)
	}
	r.Inst.Finalize(sinkExpr, sinkExpr, connect)
}
