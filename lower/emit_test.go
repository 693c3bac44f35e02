package lower

import (
	"context"
	"testing"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

func TestEmitSharesTeeAsOneStatement(t *testing.T) {
	fs := ir.NewFlowState()
	p := location.Process(0)
	ck := ir.Stream(guarantee.Triple{}, expr.NewType("int"))

	src := ir.NewSource(p, ck, ir.HydroSource{Tag: ir.HydroSourceIter})
	teeNode := ir.NewTee(p, ck, src)

	left := ir.NewMap(p, ck, teeNode, expr.NewExpr("f1", expr.Span{}))
	right := ir.NewMap(p, ck, teeNode, expr.NewExpr("f2", expr.Span{}))

	fs.AddRoot(p, ir.NewForEach(p, left, expr.NewExpr("sink1", expr.Span{})))
	fs.AddRoot(p, ir.NewForEach(p, right, expr.NewExpr("sink2", expr.Span{})))

	prog := Emit(context.Background(), fs)

	teeStmts := 0
	for _, s := range prog.Statements {
		if s.Op == "tee" {
			teeStmts++
		}
	}
	if teeStmts != 1 {
		t.Fatalf("expected the shared Tee to be emitted exactly once, got %d", teeStmts)
	}
	if len(prog.Roots) != 2 {
		t.Fatalf("expected 2 root bindings, got %d", len(prog.Roots))
	}
}

func TestEmitSelectsTickLifetimeInsideTick(t *testing.T) {
	fs := ir.NewFlowState()
	p := location.Process(0)
	tick := location.Tick(p)
	ck := ir.Stream(guarantee.Triple{}, expr.NewType("int"))

	src := ir.NewSource(tick, ck, ir.HydroSource{Tag: ir.HydroSourceIter})
	fold := ir.NewFold(tick, ir.Singleton(guarantee.Bounded, expr.NewType("int")), src,
		expr.NewExpr("init", expr.Span{}), expr.NewExpr("acc", expr.Span{}), ir.AlgebraGate{})
	fs.AddRoot(p, ir.NewForEach(tick, fold, expr.NewExpr("sink", expr.Span{})))

	prog := Emit(context.Background(), fs)

	var found bool
	for _, s := range prog.Statements {
		if s.Op == "fold" {
			found = true
			if s.Lifetime != ir.LifetimeTick {
				t.Fatalf("expected fold inside a Tick to get LifetimeTick, got %v", s.Lifetime)
			}
		}
	}
	if !found {
		t.Fatal("expected a fold statement to be emitted")
	}
}
