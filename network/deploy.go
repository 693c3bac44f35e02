// Package network implements the two-phase network-instantiation
// protocol (spec §4.7, §6.1): Network/ExternalInput/SendExternal nodes
// start life as placeholders and are rewritten into concrete
// (sink, source, connect_fn) triples supplied by a deployment backend,
// then wired by calling each connect_fn exactly once.
package network

import (
	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/ir"
	"github.com/hydroflow-go/hydro/location"
)

// Port is an opaque, backend-allocated network port identifier.
type Port string

// MemberEvent reports a cluster membership change (spec §6.1
// "cluster_membership_stream").
type MemberEvent struct {
	Member location.ID
	Joined bool
}

// Deploy is the deployment-backend trait consumed by the core (spec
// §6.1). Every method is a pure data-plane hook; none of them perform
// I/O themselves except the ConnectFn values they return, which are
// consumed exactly once by Connect.
type Deploy interface {
	AllocateProcessPort(process location.ID) Port
	AllocateClusterPort(cluster location.ID) Port
	AllocateExternalPort(external location.ID) Port

	O2OSinkSource(fromProc location.ID, fromPort Port, toProc location.ID, toPort Port) (sink, source expr.Expr)
	O2OConnect(fromProc location.ID, fromPort Port, toProc location.ID, toPort Port) ir.ConnectFn

	O2MSinkSource(fromProc location.ID, fromPort Port, toCluster location.ID, toPort Port) (sink, source expr.Expr)
	O2MConnect(fromProc location.ID, fromPort Port, toCluster location.ID, toPort Port) ir.ConnectFn

	M2OSinkSource(fromCluster location.ID, fromPort Port, toProc location.ID, toPort Port) (sink, source expr.Expr)
	M2OConnect(fromCluster location.ID, fromPort Port, toProc location.ID, toPort Port) ir.ConnectFn

	M2MSinkSource(fromCluster location.ID, fromPort Port, toCluster location.ID, toPort Port) (sink, source expr.Expr)
	M2MConnect(fromCluster location.ID, fromPort Port, toCluster location.ID, toPort Port) ir.ConnectFn

	// E2OSource / E2OManySource supply the External -> Process hook;
	// E2OManySource is the fan-in variant for several external peers.
	// Compile calls E2OSource for every ExternalInput, which carries no
	// fan-in flag.
	E2OSource(external location.ID, toProc location.ID, toPort Port) (source expr.Expr, connect ir.ConnectFn)
	E2OManySource(external location.ID, toProc location.ID, toPort Port) (source expr.Expr, connect ir.ConnectFn)

	// O2ESink / O2EManySink supply the Process -> External hook; Many is
	// used for fan-out to several external peers.
	O2ESink(fromProc location.ID, fromPort Port, external location.ID) (sink expr.Expr, connect ir.ConnectFn)
	O2EManySink(fromProc location.ID, fromPort Port, external location.ID) (sink expr.Expr, connect ir.ConnectFn)

	ClusterIDs(cluster location.ID) []location.ID
	ClusterSelfID(cluster location.ID) location.ID
	ClusterMembershipStream(cluster location.ID) <-chan MemberEvent
}
