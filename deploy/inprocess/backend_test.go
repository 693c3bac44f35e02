package inprocess

import (
	"testing"

	"github.com/hydroflow-go/hydro/location"
	"github.com/hydroflow-go/hydro/network"
)

func TestO2OSinkSourceRoundTrips(t *testing.T) {
	b := New()
	from := location.Process(0)
	to := location.Process(1)
	fp := b.AllocateProcessPort(from)
	tp := b.AllocateProcessPort(to)

	sink, source := b.O2OSinkSource(from, fp, to, tp)
	connect := b.O2OConnect(from, fp, to, tp)
	if err := connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}

	sinkFn, ok := sink.Fn()
	if !ok {
		t.Fatal("sink has no staged closure")
	}
	send, ok := sinkFn.(func(location.ID, interface{}))
	if !ok {
		t.Fatalf("unexpected sink closure type: %T", sinkFn)
	}

	sourceFn, ok := source.Fn()
	if !ok {
		t.Fatal("source has no staged closure")
	}
	recv, ok := sourceFn.(func() Message)
	if !ok {
		t.Fatalf("unexpected source closure type: %T", sourceFn)
	}

	send(from, 42)
	msg := recv()
	if msg.Payload.(int) != 42 || msg.From != from {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestClusterMembership(t *testing.T) {
	b := New()
	cluster := location.Cluster(0)
	members := []location.ID{location.Process(1), location.Process(2)}
	b.SetClusterMembers(cluster, members)

	if got := b.ClusterIDs(cluster); len(got) != 2 {
		t.Fatalf("expected 2 members, got %d", len(got))
	}
	if b.ClusterSelfID(cluster) != members[0] {
		t.Fatalf("expected self id to default to first member")
	}
}

var _ network.Deploy = (*Backend)(nil)
