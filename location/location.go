// Package location identifies where a live collection is materialized:
// a process, a cluster of processes, an external endpoint, a logical
// tick (discrete-time sub-location), or an atomic (synchronous) section.
package location

import "fmt"

// Kind discriminates the variants of ID.
type Kind int

const (
	// KindProcess identifies a single addressable process.
	KindProcess Kind = iota
	// KindCluster identifies a group of identical worker processes.
	KindCluster
	// KindExternal identifies an endpoint outside the compiled program.
	KindExternal
	// KindTick wraps an inner location with a discrete-time stratum.
	KindTick
	// KindAtomic wraps an inner location with a synchronous boundary.
	KindAtomic
)

func (k Kind) String() string {
	switch k {
	case KindProcess:
		return "process"
	case KindCluster:
		return "cluster"
	case KindExternal:
		return "external"
	case KindTick:
		return "tick"
	case KindAtomic:
		return "atomic"
	default:
		return "unknown"
	}
}

// ID is a location in the sense of spec §3.1: Process(u64) | Cluster(u64) |
// External(u64) | Tick(depth, inner) | Atomic(inner). It is a closed,
// immutable value type compared structurally via Equal.
type ID struct {
	kind  Kind
	id    uint64
	depth uint32
	inner *ID
}

// Process constructs a Process(id) location.
func Process(id uint64) ID { return ID{kind: KindProcess, id: id} }

// Cluster constructs a Cluster(id) location.
func Cluster(id uint64) ID { return ID{kind: KindCluster, id: id} }

// External constructs an External(id) location.
func External(id uint64) ID { return ID{kind: KindExternal, id: id} }

// Tick wraps inner in a discrete-time stratum of depth 1 (NestedTick
// sets any other depth). Tick(Tick(...)), Tick(Atomic(...)) and
// Atomic(Tick(...)) are all rejected: Tick and Atomic each wrap a
// non-Tick/non-Atomic root per spec §3.1.
func Tick(inner ID) ID {
	if inner.kind == KindTick || inner.kind == KindAtomic {
		panic(fmt.Sprintf("location: Tick must wrap a root location, got %s", inner))
	}
	return ID{kind: KindTick, depth: 1, inner: &inner}
}

// NestedTick wraps inner in a tick of exactly the given depth, for a
// fixed point built within an already-ticked location (spec §4.2 tick
// stratification); the caller passes the deeper depth it wants.
func NestedTick(depth uint32, inner ID) ID {
	if inner.kind == KindTick || inner.kind == KindAtomic {
		panic(fmt.Sprintf("location: Tick must wrap a root location, got %s", inner))
	}
	return ID{kind: KindTick, depth: depth, inner: &inner}
}

// Atomic wraps inner in a synchronous execution boundary.
func Atomic(inner ID) ID {
	if inner.kind == KindTick || inner.kind == KindAtomic {
		panic(fmt.Sprintf("location: Atomic must wrap a root location, got %s", inner))
	}
	return ID{kind: KindAtomic, inner: &inner}
}

// Kind reports which variant this ID is.
func (l ID) Kind() Kind { return l.kind }

// Raw returns the numeric id for Process/Cluster/External locations; it
// panics for Tick/Atomic, which carry no id of their own.
func (l ID) Raw() uint64 {
	if l.kind != KindProcess && l.kind != KindCluster && l.kind != KindExternal {
		panic("location: Raw called on a non-leaf location")
	}
	return l.id
}

// TickDepth returns the nesting depth of a Tick location; it is 0 for
// non-Tick locations.
func (l ID) TickDepth() uint32 {
	if l.kind != KindTick {
		return 0
	}
	return l.depth
}

// Inner returns the wrapped location of a Tick or Atomic; it panics for
// leaf locations.
func (l ID) Inner() ID {
	if l.inner == nil {
		panic("location: Inner called on a leaf location")
	}
	return *l.inner
}

// Root strips every Tick/Atomic wrapper, returning the underlying
// Process/Cluster/External location (spec §3.1: "root() strips them").
func (l ID) Root() ID {
	for l.inner != nil {
		l = *l.inner
	}
	return l
}

// IsTopLevel reports whether this location is not stratified by a Tick
// or Atomic wrapper — used by lowering (spec §4.5) to decide "static" vs
// "tick" state lifetime.
func (l ID) IsTopLevel() bool {
	return l.kind != KindTick && l.kind != KindAtomic
}

// Equal performs the deep structural comparison required by spec §3.1:
// "Two collections may be combined only if their locations are equal by
// deep structural comparison."
func (l ID) Equal(other ID) bool {
	if l.kind != other.kind {
		return false
	}
	switch l.kind {
	case KindProcess, KindCluster, KindExternal:
		return l.id == other.id
	case KindTick:
		return l.depth == other.depth && l.inner.Equal(*other.inner)
	case KindAtomic:
		return l.inner.Equal(*other.inner)
	default:
		return false
	}
}

// String renders a debug form such as "Tick<1,Process(0)>" or
// "Atomic<Cluster(2)>".
func (l ID) String() string {
	switch l.kind {
	case KindProcess:
		return fmt.Sprintf("Process(%d)", l.id)
	case KindCluster:
		return fmt.Sprintf("Cluster(%d)", l.id)
	case KindExternal:
		return fmt.Sprintf("External(%d)", l.id)
	case KindTick:
		return fmt.Sprintf("Tick<%d,%s>", l.depth, l.inner)
	case KindAtomic:
		return fmt.Sprintf("Atomic<%s>", l.inner)
	default:
		return "?"
	}
}
