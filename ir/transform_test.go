package ir

import (
	"testing"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/location"
)

func streamKind() CollectionKind {
	return Stream(guarantee.Triple{}, expr.NewType("int"))
}

func TestTransformBottomUpVisitsChildrenFirst(t *testing.T) {
	loc := location.Process(0)
	src := NewSource(loc, streamKind(), HydroSource{Tag: HydroSourceIter})
	m1 := NewMap(loc, streamKind(), src, expr.NewExpr("f1", expr.Span{}))
	m2 := NewMap(loc, streamKind(), m1, expr.NewExpr("f2", expr.Span{}))
	root := NewForEach(loc, m2, expr.NewExpr("sink", expr.Span{}))

	var visitOrder []NodeKind
	TransformBottomUp([]Root{root}, func(n Node) Node {
		visitOrder = append(visitOrder, n.Kind())
		return n
	}, nil, true)

	want := []NodeKind{KindSource, KindMap, KindMap}
	if len(visitOrder) != len(want) {
		t.Fatalf("visit order = %v, want %v", visitOrder, want)
	}
	for i := range want {
		if visitOrder[i] != want[i] {
			t.Fatalf("visit order = %v, want %v", visitOrder, want)
		}
	}
}

func TestTransformBottomUpVisitsSharedTeeOnce(t *testing.T) {
	loc := location.Process(0)
	src := NewSource(loc, streamKind(), HydroSource{Tag: HydroSourceIter})
	tee := NewTee(loc, streamKind(), src)

	left := NewMap(loc, streamKind(), tee, expr.NewExpr("left", expr.Span{}))
	right := NewMap(loc, streamKind(), tee, expr.NewExpr("right", expr.Span{}))

	r1 := NewForEach(loc, left, expr.NewExpr("s1", expr.Span{}))
	r2 := NewForEach(loc, right, expr.NewExpr("s2", expr.Span{}))

	teeVisits := 0
	TransformBottomUp([]Root{r1, r2}, func(n Node) Node {
		if n.Kind() == KindTee {
			teeVisits++
		}
		return n
	}, nil, true)

	if teeVisits != 1 {
		t.Fatalf("expected Tee interior visited exactly once, got %d", teeVisits)
	}
}

func TestWellFormedPanicsOnLocationMismatch(t *testing.T) {
	p0 := location.Process(0)
	p1 := location.Process(1)
	src := NewSource(p0, streamKind(), HydroSource{Tag: HydroSourceIter})
	// Force a mismatched location directly on a Map built "at" p1 but
	// fed from a p0 source, without going through Network/ExternalInput.
	m := NewMap(p1, streamKind(), src, expr.NewExpr("f", expr.Span{}))
	root := NewForEach(p1, m, expr.NewExpr("sink", expr.Span{}))

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for mismatched sibling locations")
		}
	}()
	TransformBottomUp([]Root{root}, nil, nil, true)
}

func TestDeepClonePreservesTeeSharing(t *testing.T) {
	loc := location.Process(0)
	src := NewSource(loc, streamKind(), HydroSource{Tag: HydroSourceIter})
	tee := NewTee(loc, streamKind(), src)
	left := NewMap(loc, streamKind(), tee, expr.NewExpr("l", expr.Span{}))
	right := NewMap(loc, streamKind(), tee, expr.NewExpr("r", expr.Span{}))
	r1 := NewForEach(loc, left, expr.NewExpr("s1", expr.Span{}))
	r2 := NewForEach(loc, right, expr.NewExpr("s2", expr.Span{}))

	cloned := DeepClone([]Root{r1, r2})

	clonedLeft := cloned[0].Input().(*MapNode)
	clonedRight := cloned[1].Input().(*MapNode)

	if clonedLeft.Input != clonedRight.Input {
		t.Fatal("expected cloned graph to still share a single Tee instance")
	}
	if clonedLeft.Input == tee {
		t.Fatal("expected the clone to be a distinct Tee, not alias the original")
	}
}

func TestNormalizeEliminatesUnpersistOverPersist(t *testing.T) {
	loc := location.Tick(location.Process(0))
	src := NewSource(loc, streamKind(), HydroSource{Tag: HydroSourceIter})
	persisted := NewPersist(loc, streamKind(), src)
	unpersisted := NewUnpersist(loc, streamKind(), persisted)
	root := NewForEach(loc, unpersisted, expr.NewExpr("sink", expr.Span{}))

	Normalize([]Root{root})

	if root.Input() != src {
		t.Fatalf("expected Unpersist(Persist(x)) to normalise to x, got %s", root.Input().Kind())
	}
}
