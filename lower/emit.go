package lower

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"

	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

var (
	meter           = global.Meter("hydro/lower")
	statementsEmitted = metric.Must(meter).NewInt64Counter("hydro_lower_statements_emitted")
)

// FlatGraphBuilder accumulates Statements as Emit walks a flow's roots
// (spec §6.2): one entry per distinct IR node, Tee interiors counted
// once via pointer-identity memoisation (the same discipline as
// ir.TransformBottomUp).
type FlatGraphBuilder struct {
	stmts   []Statement
	ids     map[ir.Node]StmtID
	counter uint64
}

func newBuilder() *FlatGraphBuilder {
	return &FlatGraphBuilder{ids: map[ir.Node]StmtID{}}
}

// nextID assigns the next emit-order counter value (spec.md line
// 398-399: statement ids are "derived from the emit-order counter" so
// rewrite passes can correlate statements by the order Emit visited
// them in, not just by identity).
func (b *FlatGraphBuilder) nextID() StmtID {
	id := StmtID(fmt.Sprintf("s%d", b.counter))
	b.counter++
	return id
}

// Emit flattens every root in fs into a Program (spec §4.4.3, §6.2):
// roots must already have passed ir.Normalize and
// ir.TransformBottomUp(..., checkWellFormed=true) and network.Compile/
// Connect, so every Network/ExternalInput/SendExternal instantiation is
// already finalized and every Unpersist marker already eliminated.
func Emit(ctx context.Context, fs *ir.FlowState) *Program {
	b := newBuilder()
	roots := fs.AllRoots()

	var bindings []RootBinding
	for _, r := range roots {
		var input StmtID
		if r.Input() != nil {
			input = b.visit(ctx, r.Input())
		}
		bindings = append(bindings, RootBinding{
			RootKind: r.Kind(),
			Location: r.Metadata().LocationKind.String(),
			Input:    input,
		})
	}

	byID := make(map[StmtID]*Statement, len(b.stmts))
	for i := range b.stmts {
		byID[b.stmts[i].ID] = &b.stmts[i]
	}

	return &Program{Statements: b.stmts, ByID: byID, Roots: bindings}
}

func (b *FlatGraphBuilder) visit(ctx context.Context, n ir.Node) StmtID {
	if id, ok := b.ids[n]; ok {
		return id
	}

	children := n.Children()
	inputs := make([]StmtID, len(children))
	for i, c := range children {
		inputs[i] = b.visit(ctx, c)
	}

	id := b.nextID()
	b.ids[n] = id

	stmt := Statement{
		ID:       id,
		Op:       n.Metadata().Op.OpName,
		Location: n.Metadata().LocationKind.String(),
		Lifetime: selectLifetime(n),
		Inputs:   inputs,
		Node:     n,
		Tag:      n.Metadata().Tag,
	}
	b.stmts = append(b.stmts, stmt)

	statementsEmitted.Add(ctx, 1, attribute.String("op", stmt.Op), attribute.String("lifetime", stmt.Lifetime.String()))

	return id
}

// selectLifetime picks static vs tick state lifetime for the stateful
// node kinds (spec §4.5): a stateful op whose location sits inside a
// Tick keeps per-tick state (reset every tick); one at a top-level
// location keeps static state persisted across the run's whole
// lifetime. Non-stateful nodes report LifetimeUnset.
func selectLifetime(n ir.Node) ir.Lifetime {
	switch x := n.(type) {
	case *ir.FoldNode:
		x.Lifetime = tickOrStatic(n)
		return x.Lifetime
	case *ir.FoldKeyedNode:
		x.Lifetime = tickOrStatic(n)
		return x.Lifetime
	case *ir.ReduceNode:
		x.Lifetime = tickOrStatic(n)
		return x.Lifetime
	case *ir.ReduceKeyedNode:
		x.Lifetime = tickOrStatic(n)
		return x.Lifetime
	case *ir.ReduceKeyedWatermarkNode:
		return ir.LifetimeStatic
	default:
		return ir.LifetimeUnset
	}
}

func tickOrStatic(n ir.Node) ir.Lifetime {
	if n.Metadata().LocationKind.Kind() == location.KindTick {
		return ir.LifetimeTick
	}
	return ir.LifetimeStatic
}
