package network

import (
	"testing"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

type fakeBackend struct {
	connects int
}

func (f *fakeBackend) AllocateProcessPort(location.ID) Port { return "p" }
func (f *fakeBackend) AllocateClusterPort(location.ID) Port { return "c" }
func (f *fakeBackend) AllocateExternalPort(location.ID) Port { return "e" }

func (f *fakeBackend) O2OSinkSource(location.ID, Port, location.ID, Port) (expr.Expr, expr.Expr) {
	return expr.NewExpr("sink", expr.Span{}), expr.NewExpr("source", expr.Span{})
}
func (f *fakeBackend) O2OConnect(location.ID, Port, location.ID, Port) ir.ConnectFn {
	return func() error { f.connects++; return nil }
}
func (f *fakeBackend) O2MSinkSource(location.ID, Port, location.ID, Port) (expr.Expr, expr.Expr) {
	return expr.Expr{}, expr.Expr{}
}
func (f *fakeBackend) O2MConnect(location.ID, Port, location.ID, Port) ir.ConnectFn { return func() error { return nil } }
func (f *fakeBackend) M2OSinkSource(location.ID, Port, location.ID, Port) (expr.Expr, expr.Expr) {
	return expr.Expr{}, expr.Expr{}
}
func (f *fakeBackend) M2OConnect(location.ID, Port, location.ID, Port) ir.ConnectFn { return func() error { return nil } }
func (f *fakeBackend) M2MSinkSource(location.ID, Port, location.ID, Port) (expr.Expr, expr.Expr) {
	return expr.Expr{}, expr.Expr{}
}
func (f *fakeBackend) M2MConnect(location.ID, Port, location.ID, Port) ir.ConnectFn { return func() error { return nil } }
func (f *fakeBackend) E2OSource(location.ID, location.ID, Port) (expr.Expr, ir.ConnectFn) {
	return expr.NewExpr("e2o", expr.Span{}), func() error { return nil }
}
func (f *fakeBackend) E2OManySource(location.ID, location.ID, Port) (expr.Expr, ir.ConnectFn) {
	return expr.Expr{}, func() error { return nil }
}
func (f *fakeBackend) O2ESink(location.ID, Port, location.ID) (expr.Expr, ir.ConnectFn) {
	return expr.NewExpr("o2e", expr.Span{}), func() error { return nil }
}
func (f *fakeBackend) O2EManySink(location.ID, Port, location.ID) (expr.Expr, ir.ConnectFn) {
	return expr.Expr{}, func() error { return nil }
}
func (f *fakeBackend) ClusterIDs(location.ID) []location.ID        { return nil }
func (f *fakeBackend) ClusterSelfID(location.ID) location.ID       { return location.Cluster(0) }
func (f *fakeBackend) ClusterMembershipStream(location.ID) <-chan MemberEvent {
	return nil
}

func TestCompileThenConnectFinalizesAndConsumesOnce(t *testing.T) {
	fs := ir.NewFlowState()
	p0 := location.Process(0)
	p1 := location.Process(1)
	ck := ir.Stream(guarantee.Triple{}, expr.NewType("int"))

	src := ir.NewSource(p0, ck, ir.HydroSource{Tag: ir.HydroSourceIter})
	netNode := ir.NewNetwork(p0, ck, src, p1, expr.Expr{}, expr.Expr{})
	root := ir.NewForEach(p1, netNode, expr.NewExpr("sink", expr.Span{}))
	fs.AddRoot(p1, root)

	backend := &fakeBackend{}
	if err := Compile(fs, backend); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !netNode.Inst.IsFinalized() {
		t.Fatal("expected network node to be finalized")
	}

	if err := Connect(fs); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if backend.connects != 1 {
		t.Fatalf("expected connect_fn invoked exactly once, got %d", backend.connects)
	}

	// A second Connect pass must not re-invoke connect_fn.
	if err := Connect(fs); err != nil {
		t.Fatalf("second Connect failed: %v", err)
	}
	if backend.connects != 1 {
		t.Fatalf("expected connect_fn still invoked exactly once, got %d", backend.connects)
	}
}

func TestCompileRejectsClusterToExternalShape(t *testing.T) {
	fs := ir.NewFlowState()
	c0 := location.Cluster(0)
	ck := ir.Stream(guarantee.Triple{}, expr.NewType("int"))
	src := ir.NewSource(c0, ck, ir.HydroSource{Tag: ir.HydroSourceIter})
	root := ir.NewSendExternal(c0, src, 0, "", false, false, expr.Expr{})
	fs.AddRoot(c0, root)

	if err := Compile(fs, &fakeBackend{}); err == nil {
		t.Fatal("expected Cluster -> External to be rejected per Open Question #1")
	}
}
