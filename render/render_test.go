package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

func sampleRoots() []ir.Root {
	p := location.Process(0)
	ck := ir.Stream(guarantee.Triple{}, expr.NewType("int"))
	src := ir.NewSource(p, ck, ir.HydroSource{Tag: ir.HydroSourceIter})
	tee := ir.NewTee(p, ck, src)
	left := ir.NewMap(p, ck, tee, expr.NewExpr("f1", expr.Span{}))
	right := ir.NewMap(p, ck, tee, expr.NewExpr("f2", expr.Span{}))
	return []ir.Root{
		ir.NewForEach(p, left, expr.NewExpr("sink1", expr.Span{})),
		ir.NewForEach(p, right, expr.NewExpr("sink2", expr.Span{})),
	}
}

func TestMermaidSharesTeeAsOneNode(t *testing.T) {
	out := Mermaid(sampleRoots())
	if strings.Count(out, "\"tee\"") != 1 {
		t.Fatalf("expected exactly one tee node rendered, got:\n%s", out)
	}
}

func TestDOTContainsClusterPerLocation(t *testing.T) {
	out := DOT(sampleRoots())
	if !strings.Contains(out, "cluster_0") {
		t.Fatalf("expected a location cluster in DOT output, got:\n%s", out)
	}
}

func TestJSONRoundTripsShape(t *testing.T) {
	raw, err := JSON(sampleRoots())
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	var g JSONGraph
	if err := json.Unmarshal(raw, &g); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	teeCount := 0
	for _, n := range g.Nodes {
		if n.Kind == "Tee" {
			teeCount++
		}
	}
	if teeCount != 1 {
		t.Fatalf("expected exactly one Tee node in JSON graph, got %d", teeCount)
	}
}
