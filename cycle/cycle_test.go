package cycle

import (
	"testing"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

func TestCompleteMakesCycleCompletenessPass(t *testing.T) {
	fs := ir.NewFlowState()
	loc := location.Tick(location.Process(0))
	ck := ir.Stream(guarantee.Triple{}, expr.NewType("int"))

	src, handle := Declare(fs, loc, TickCycle, ck)
	if err := fs.CheckCycleCompleteness(); err == nil {
		t.Fatal("expected incompleteness before Complete is called")
	}

	body := ir.NewMap(loc, ck, src, expr.NewExpr("f", expr.Span{}))
	handle.Complete(body)

	if err := fs.CheckCycleCompleteness(); err != nil {
		t.Fatalf("expected completeness after Complete, got %v", err)
	}
}

func TestCompleteTwicePanics(t *testing.T) {
	fs := ir.NewFlowState()
	loc := location.Process(0)
	ck := ir.Stream(guarantee.Triple{}, expr.NewType("int"))
	src, handle := Declare(fs, loc, ForwardRef, ck)

	handle.Complete(src)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic completing the same cycle twice")
		}
	}()
	handle.Complete(src)
}
