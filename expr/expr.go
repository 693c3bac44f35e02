// Package expr provides opaque, hashable, cheaply-cloneable wrappers
// over user expressions and types (spec §9: "the core treats user
// closures as opaque, hashable expression tokens"). The quoted-code
// facility itself — parsing, free-variable capture, codegen — is an
// external concern; this package only carries enough of a token to let
// the IR hash, compare, clone, and render it.
package expr

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Span is a source-code location captured for diagnostics (spec §7:
// "a best-effort user-level backtrace may be attached").
type Span struct {
	File string
	Line int
	Col  int
}

func (s Span) String() string {
	if s.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// token is the shared reference-counted payload behind an Expr, so that
// cloning an Expr is cheap (a pointer copy) as spec §9 requires.
type token struct {
	source string
	span   Span
	hash   string
	// staged is an optional, already-staged Go closure carried alongside
	// the opaque source text. The core never calls it; it exists purely
	// so a local evaluator (deploy/inprocess, via yaegi for anything
	// without one) can run the expression without re-parsing source.
	staged interface{}
}

// Expr is an opaque user expression: a closure body, a literal, or a
// quoted snippet of the surface language. The core never evaluates it;
// it only needs Hash (for dedup/memoisation), Clone (cheap, shared), and
// String (for rendering).
type Expr struct {
	t *token
}

// NewExpr wraps literal source text (e.g. a quoted closure body) captured
// at the given span. The source is hashed once at construction.
func NewExpr(source string, span Span) Expr {
	sum := sha256.Sum256([]byte(source))
	return Expr{t: &token{source: source, span: span, hash: hex.EncodeToString(sum[:8])}}
}

// NewClosure wraps a Go closure together with a human-readable source
// label, so the in-process simulator can execute it directly without
// falling back to a textual evaluator. The core still treats the result
// as opaque: Fn is reached only by an external evaluator, never by ir/
// flow/ network/ lower/ themselves.
func NewClosure(label string, span Span, fn interface{}) Expr {
	sum := sha256.Sum256([]byte(label))
	return Expr{t: &token{source: label, span: span, hash: hex.EncodeToString(sum[:8]), staged: fn}}
}

// Fn returns the staged Go closure, if any, and whether one was present.
func (e Expr) Fn() (interface{}, bool) {
	if e.t == nil || e.t.staged == nil {
		return nil, false
	}
	return e.t.staged, true
}

// Source returns the literal text carried by the token. The core never
// interprets this; only an external evaluator (e.g. deploy/inprocess's
// yaegi-backed one) does.
func (e Expr) Source() string {
	if e.t == nil {
		return ""
	}
	return e.t.source
}

// Span returns the captured source location.
func (e Expr) Span() Span {
	if e.t == nil {
		return Span{}
	}
	return e.t.span
}

// Hash returns a short, stable content hash suitable for deduplicating
// structurally-identical IR subtrees and for the Tee debug-table (spec
// §9 "thread-local dedup table").
func (e Expr) Hash() string {
	if e.t == nil {
		return ""
	}
	return e.t.hash
}

// IsZero reports whether this Expr was never assigned a token.
func (e Expr) IsZero() bool { return e.t == nil }

func (e Expr) String() string {
	if e.t == nil {
		return "<empty expr>"
	}
	return fmt.Sprintf("%s@%s", e.t.hash, e.t.span)
}

// Type is an opaque wrapper over a user type token, hashable and
// cloneable the same way as Expr, used for the element_type/key_type/
// value_type fields carried by collection kinds (spec §3.2).
type Type struct {
	name string
	hash string
}

// NewType wraps a canonical type name (e.g. a mangled generic
// instantiation name from the surface language).
func NewType(name string) Type {
	sum := sha256.Sum256([]byte(name))
	return Type{name: name, hash: hex.EncodeToString(sum[:8])}
}

// Name returns the canonical type name.
func (t Type) Name() string { return t.name }

// Hash returns a short stable content hash.
func (t Type) Hash() string { return t.hash }

func (t Type) String() string { return t.name }

// Equal compares two Types by their canonical name.
func (t Type) Equal(other Type) bool { return t.name == other.name }
