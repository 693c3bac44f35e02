package inprocess

import (
	"testing"

	"github.com/hydroflow-go/hydro/expr"
)

func TestEvaluatorPrefersStagedClosure(t *testing.T) {
	e := expr.NewClosure("double", expr.Span{}, func(x int) int { return x * 2 })
	ev := NewEvaluator("Double")

	resolved, err := ev.Resolve(e)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	fn, ok := resolved.(func(int) int)
	if !ok {
		t.Fatalf("unexpected resolved type: %T", resolved)
	}
	if fn(21) != 42 {
		t.Fatalf("expected 42, got %d", fn(21))
	}
}

func TestEvaluatorFallsBackToYaegi(t *testing.T) {
	source := `package main
func Double(x int) int { return x * 2 }`
	e := expr.NewExpr(source, expr.Span{})
	ev := NewEvaluator("Double")

	resolved, err := ev.Resolve(e)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	fn, ok := resolved.(func(int) int)
	if !ok {
		t.Fatalf("unexpected resolved type: %T", resolved)
	}
	if fn(21) != 42 {
		t.Fatalf("expected 42, got %d", fn(21))
	}
}
