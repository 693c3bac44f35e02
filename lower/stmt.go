// Package lower implements the final compiler stage (spec §4.4.3, §6.2):
// walking the validated, network-compiled IR into a flat list of
// low-level dataflow statements, assigning each a stable statement id
// and a state lifetime (static vs tick-scoped, spec §4.5).
package lower

import "github.com/hydroflow-go/hydro/ir"

// Statement is one entry of the flattened low-level DSL (spec §6.2): an
// operator applied to the outputs of earlier statements, identified by
// StmtID so later statements (and CycleSink completions) can reference
// it without re-walking the tree.
type Statement struct {
	ID       StmtID
	Op       string
	Location string
	Lifetime ir.Lifetime
	Inputs   []StmtID
	Node     ir.Node
	Tag      string
}

// StmtID is a run-scoped statement correlation id (spec §6.2
// "next_stmt_id counter"), derived from FlatGraphBuilder's emit-order
// counter (spec.md line 398-399) rather than carrying any identity of
// its own: two statements' ids compare in visit order, which is what
// lets a downstream rewrite pass correlate statements by when Emit
// produced them. Scoped to a single Emit call — a fresh FlatGraphBuilder
// restarts the counter from zero, so ids are not stable across runs.
type StmtID string

// Program is the flattened output of Emit: one Statement per distinct
// IR node (Tee interiors counted once), in dependency order, plus the
// terminal statement ids reachable from each root.
type Program struct {
	Statements []Statement
	ByID       map[StmtID]*Statement
	Roots      []RootBinding
}

// RootBinding records which statement a given IR root terminates on.
type RootBinding struct {
	RootKind ir.RootKind
	Location string
	Input    StmtID
}
