package expr

import "testing"

func TestExprHashStableForSameSource(t *testing.T) {
	a := NewExpr("x + 1", Span{File: "f.go", Line: 1, Col: 1})
	b := NewExpr("x + 1", Span{File: "g.go", Line: 9, Col: 2})

	if a.Hash() != b.Hash() {
		t.Fatalf("expected identical source to hash identically, got %s vs %s", a.Hash(), b.Hash())
	}
}

func TestExprHashDiffersForDifferentSource(t *testing.T) {
	a := NewExpr("x + 1", Span{})
	b := NewExpr("x + 2", Span{})

	if a.Hash() == b.Hash() {
		t.Fatal("expected different source to hash differently")
	}
}

func TestTypeEqual(t *testing.T) {
	if !NewType("int").Equal(NewType("int")) {
		t.Fatal("expected same type name to be equal")
	}
	if NewType("int").Equal(NewType("string")) {
		t.Fatal("expected different type names to differ")
	}
}
