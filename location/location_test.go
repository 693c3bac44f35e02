package location

import "testing"

func TestRootStripsTickAndAtomic(t *testing.T) {
	p := Process(3)
	for _, wrapped := range []ID{Tick(p), Atomic(p)} {
		if !wrapped.Root().Equal(p) {
			t.Fatalf("Root() = %s, want %s", wrapped.Root(), p)
		}
	}
}

func TestEqualIsStructural(t *testing.T) {
	a := Tick(Cluster(1))
	b := Tick(Cluster(1))
	c := Tick(Cluster(2))

	if !a.Equal(b) {
		t.Fatalf("expected %s to equal %s", a, b)
	}
	if a.Equal(c) {
		t.Fatalf("expected %s to differ from %s", a, c)
	}
}

func TestIsTopLevel(t *testing.T) {
	if !Process(0).IsTopLevel() {
		t.Fatal("Process should be top level")
	}
	if Tick(Process(0)).IsTopLevel() {
		t.Fatal("Tick should not be top level")
	}
	if Atomic(Process(0)).IsTopLevel() {
		t.Fatal("Atomic should not be top level")
	}
}

func TestTickRejectsNestedTickOrAtomic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic wrapping a Tick in a Tick")
		}
	}()
	Tick(Tick(Process(0)))
}
