package ir

import (
	"fmt"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/location"
)

// OpMetadata carries operator-specific debug information that doesn't
// participate in IR shape (e.g. a human-readable combinator name).
type OpMetadata struct {
	// OpName is the builder method that produced this node, e.g. "map",
	// "fold_commutative" — used only for diagnostics and rendering.
	OpName string
}

// Metadata is HydroIrMetadata from spec §3.3: carried by every node, but
// explicitly excluded from hashing/equality ("Metadata does not
// participate in hashing or equality (IR equality is structural by
// shape + children)").
type Metadata struct {
	LocationKind   location.ID
	CollectionKind CollectionKind
	Backtrace      expr.Span
	Op             OpMetadata

	// Cardinality is a best-effort element-count estimate used by the
	// renderer and by the lowering pass's diagnostics; nil when unknown.
	Cardinality *int

	// Tag is an optional user-supplied label (spec §3.3 "tag?"),
	// surfaced by the renderer.
	Tag string
}

// Diagnostic is the single fatal-error type for compiler bugs (spec §7):
// invariant violations, backend failures, and similar unrecoverable
// conditions. It always names the offending node's location and
// operator kind, as §7 requires.
type Diagnostic struct {
	NodeKind string
	Location location.ID
	Message  string
	At       expr.Span
}

func (d *Diagnostic) Error() string {
	if d.At.File != "" {
		return fmt.Sprintf("%s at %s (%s): %s", d.NodeKind, d.Location, d.At, d.Message)
	}
	return fmt.Sprintf("%s at %s: %s", d.NodeKind, d.Location, d.Message)
}

// NewDiagnostic builds a Diagnostic for node n.
func NewDiagnostic(n Node, message string) *Diagnostic {
	return &Diagnostic{
		NodeKind: n.Kind().String(),
		Location: n.Metadata().LocationKind,
		Message:  message,
		At:       n.Metadata().Backtrace,
	}
}

// Panic raises a Diagnostic as a panic, matching spec §7's "fatal; panic
// with a diagnostic identifying the offending IR node" for the
// compiler-bug error class.
func Panic(n Node, format string, args ...interface{}) {
	panic(NewDiagnostic(n, fmt.Sprintf(format, args...)))
}
