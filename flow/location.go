package flow

import (
	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

// Proc is a handle to a single process location (spec §3.1 "Process").
type Proc struct {
	f   *Flow
	loc location.ID
}

// NewProcess registers a fresh process with the flow and returns a
// handle to it.
func NewProcess(f *Flow, id uint64) Proc {
	return Proc{f: f, loc: location.Process(id)}
}

func (p Proc) ID() location.ID { return p.loc }
func (p Proc) Flow() *Flow     { return p.f }

// Cluster is a handle to a cluster-of-processes location (spec §3.1
// "Cluster").
type Cluster struct {
	f   *Flow
	loc location.ID
}

// NewCluster registers a fresh cluster with the flow and returns a
// handle to it.
func NewCluster(f *Flow, id uint64) Cluster {
	return Cluster{f: f, loc: location.Cluster(id)}
}

func (c Cluster) ID() location.ID { return c.loc }
func (c Cluster) Flow() *Flow     { return c.f }

// External is a handle to an endpoint outside the compiled program
// (spec §3.1 "External").
type External struct {
	f   *Flow
	loc location.ID
}

// NewExternal allocates a fresh external endpoint id from the flow.
func NewExternal(f *Flow) External {
	return External{f: f, loc: location.External(f.fs.NextExternalID())}
}

func (e External) ID() location.ID { return e.loc }

// IterSource builds a Stream[T] at loc from a finite in-memory sequence,
// staged so deploy/inprocess can execute it directly (spec §3.3
// HydroSource::Iter).
func IterSource[T any](loc location.ID, f *Flow, label string, values []T) Stream[T] {
	src := expr.NewClosure(label, span(), values)
	n := ir.NewSource(loc, ir.Stream(guarantee.Triple{Bound: guarantee.Bounded, Order: guarantee.TotalOrder, Retry: guarantee.ExactlyOnce}, typeOf[T]()), ir.HydroSource{Tag: ir.HydroSourceIter, Expr: src})
	return Stream[T]{h: handle{fs: f.fs, loc: loc, g: n.Metadata().CollectionKind.Guarantees, node: n}}
}

// StreamSource builds a Stream[T] at loc from an externally-driven
// source closure (spec §3.3 HydroSource::Stream), e.g. a channel reader
// wired up by a Deploy backend.
func StreamSource[T any](loc location.ID, f *Flow, label string, fn func() (T, bool)) Stream[T] {
	src := expr.NewClosure(label, span(), fn)
	n := ir.NewSource(loc, ir.Stream(guarantee.Triple{Bound: guarantee.Unbounded, Order: guarantee.TotalOrder, Retry: guarantee.ExactlyOnce}, typeOf[T]()), ir.HydroSource{Tag: ir.HydroSourceStream, Expr: src})
	return Stream[T]{h: handle{fs: f.fs, loc: loc, g: n.Metadata().CollectionKind.Guarantees, node: n}}
}

// SpinSource builds an unbounded Stream[struct{}] that fires once per
// scheduler poll (spec §3.3 HydroSource::Spin) — the usual way to drive
// a periodic tick.
func SpinSource(loc location.ID, f *Flow) Stream[struct{}] {
	n := ir.NewSource(loc, ir.Stream(guarantee.Triple{Bound: guarantee.Unbounded, Order: guarantee.TotalOrder, Retry: guarantee.AtLeastOnce}, typeOf[struct{}]()), ir.HydroSource{Tag: ir.HydroSourceSpin})
	return Stream[struct{}]{h: handle{fs: f.fs, loc: loc, g: n.Metadata().CollectionKind.Guarantees, node: n}}
}

// ClusterMembersSource streams membership-change events for c (spec
// §3.3 HydroSource::ClusterMembers), observed from a process.
func ClusterMembersSource[T any](onProc Proc, c Cluster) Stream[T] {
	n := ir.NewSource(onProc.loc, ir.Stream(guarantee.Triple{Bound: guarantee.Unbounded, Order: guarantee.NoOrder, Retry: guarantee.AtLeastOnce}, typeOf[T]()), ir.HydroSource{Tag: ir.HydroSourceClusterMembers, Cluster: c.loc})
	return Stream[T]{h: handle{fs: onProc.f.fs, loc: onProc.loc, g: n.Metadata().CollectionKind.Guarantees, node: n}}
}

// ExternalInput receives a single external endpoint's traffic as a
// Stream[T] at a process (spec §3.3 ExternalInput, §4.7 External ->
// Process). inst is left Building until network.Compile finalizes it.
func ExternalInput[T any](onProc Proc, ext External, key string) Stream[T] {
	n := ir.NewExternalInput(onProc.loc, ir.Stream(guarantee.Triple{Bound: guarantee.Unbounded, Order: guarantee.TotalOrder, Retry: guarantee.AtLeastOnce}, typeOf[T]()), ext.loc.Raw(), key)
	return Stream[T]{h: handle{fs: onProc.f.fs, loc: onProc.loc, g: n.Metadata().CollectionKind.Guarantees, node: n}}
}
