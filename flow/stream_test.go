package flow

import (
	"testing"

	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
)

func TestIterSourceMapFilterForEach(t *testing.T) {
	f := New()
	p := NewProcess(f, 0)

	s := IterSource[int](p.ID(), f, "nums", []int{1, 2, 3})
	doubled := Map(s, "double", func(x int) int { return x * 2 })
	even := doubled.Filter("even", func(x int) bool { return x%2 == 0 })

	var seen []int
	even.ForEach("collect", func(x int) { seen = append(seen, x) })

	roots := f.State().Roots(p.ID())
	if len(roots) != 1 {
		t.Fatalf("expected exactly one root, got %d", len(roots))
	}
	if roots[0].Kind() != ir.RootForEach {
		t.Fatalf("expected ForEach root, got %v", roots[0].Kind())
	}
}

func TestCloneSharesUnderlyingTee(t *testing.T) {
	f := New()
	p := NewProcess(f, 0)

	s := IterSource[int](p.ID(), f, "nums", []int{1, 2, 3})
	a := s.Clone()
	b := s.Clone()

	if a.node() != b.node() {
		t.Fatal("expected both clones to alias the same Tee node")
	}
	if _, ok := a.node().(*ir.TeeNode); !ok {
		t.Fatalf("expected Clone to produce a *ir.TeeNode, got %T", a.node())
	}
}

func TestIntoKeyedEntriesRoundTrip(t *testing.T) {
	f := New()
	p := NewProcess(f, 0)

	s := IterSource[Pair[string, int]](p.ID(), f, "pairs", []Pair[string, int]{{First: "a", Second: 1}})
	keyed := IntoKeyed[string, int](s)
	back := Entries[string, int](keyed)

	if back.h.loc.Kind() != s.h.loc.Kind() {
		t.Fatal("expected Entries to restore the original location")
	}
}

func TestWeakenPanicsOnStrengthening(t *testing.T) {
	f := New()
	p := NewProcess(f, 0)
	s := StreamSource[int](p.ID(), f, "nums", func() (int, bool) { return 0, false })

	defer func() {
		if recover() == nil {
			t.Fatal("expected Weaken to panic when asked to strengthen a guarantee")
		}
	}()

	Weaken(s, guarantee.Triple{Bound: guarantee.Bounded, Order: s.h.g.Order, Retry: s.h.g.Retry})
}

func TestChainRequiresSameLocation(t *testing.T) {
	f := New()
	p0 := NewProcess(f, 0)
	p1 := NewProcess(f, 1)

	a := IterSource[int](p0.ID(), f, "a", []int{1})
	b := IterSource[int](p1.ID(), f, "b", []int{2})

	defer func() {
		if recover() == nil {
			t.Fatal("expected Chain across different locations to panic")
		}
	}()
	a.Chain(b)
}
