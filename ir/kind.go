package ir

import (
	"fmt"

	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/guarantee"
)

// CollectionKindTag discriminates the variants of CollectionKind (spec §3.2).
type CollectionKindTag int

const (
	// KindStream tags Stream collections.
	KindStream CollectionKindTag = iota
	// KindKeyedStream tags KeyedStream collections.
	KindKeyedStream
	// KindSingleton tags Singleton collections.
	KindSingleton
	// KindOptional tags Optional collections.
	KindOptional
	// KindKeyedSingleton tags KeyedSingleton collections.
	KindKeyedSingleton
)

func (k CollectionKindTag) String() string {
	switch k {
	case KindStream:
		return "Stream"
	case KindKeyedStream:
		return "KeyedStream"
	case KindSingleton:
		return "Singleton"
	case KindOptional:
		return "Optional"
	case KindKeyedSingleton:
		return "KeyedSingleton"
	default:
		return "?"
	}
}

// KeyedSingletonBound is the three-state boundedness specific to
// KeyedSingleton (spec §3.2: "{Unbounded|BoundedValue|Bounded}").
type KeyedSingletonBound int

const (
	// KeyedSingletonUnbounded means neither keys nor values are bounded.
	KeyedSingletonUnbounded KeyedSingletonBound = iota
	// KeyedSingletonBoundedValue means the value per key is bounded but
	// the key set itself may still grow.
	KeyedSingletonBoundedValue
	// KeyedSingletonBounded means both the key set and each value are
	// bounded.
	KeyedSingletonBounded
)

// CollectionKind is the static type carried by every IR node's metadata
// (spec §3.2). Exactly one of the Stream/KeyedStream/Singleton/Optional/
// KeyedSingleton fields is meaningful, selected by Tag.
type CollectionKind struct {
	Tag CollectionKindTag

	// Stream / KeyedStream value-guarantees, Singleton / Optional.
	Guarantees guarantee.Triple

	// KeyedSingleton's distinct three-state boundedness; unused otherwise.
	KeyedSingletonBound KeyedSingletonBound

	ElementType expr.Type // Stream, Singleton, Optional
	KeyType     expr.Type // KeyedStream, KeyedSingleton
	ValueType   expr.Type // KeyedStream, KeyedSingleton
}

// Stream constructs a Stream collection kind.
func Stream(g guarantee.Triple, elem expr.Type) CollectionKind {
	return CollectionKind{Tag: KindStream, Guarantees: g, ElementType: elem}
}

// KeyedStream constructs a KeyedStream collection kind. Its Bound
// applies to the stream as a whole; Order/Retry apply within each key
// group per spec §3.2.
func KeyedStream(g guarantee.Triple, key, value expr.Type) CollectionKind {
	return CollectionKind{Tag: KindKeyedStream, Guarantees: g, KeyType: key, ValueType: value}
}

// Singleton constructs a Singleton collection kind.
func Singleton(bound guarantee.Bound, elem expr.Type) CollectionKind {
	return CollectionKind{Tag: KindSingleton, Guarantees: guarantee.Triple{Bound: bound}, ElementType: elem}
}

// Optional constructs an Optional collection kind.
func Optional(bound guarantee.Bound, elem expr.Type) CollectionKind {
	return CollectionKind{Tag: KindOptional, Guarantees: guarantee.Triple{Bound: bound}, ElementType: elem}
}

// KeyedSingleton constructs a KeyedSingleton collection kind with its
// own three-state boundedness.
func KeyedSingleton(bound KeyedSingletonBound, key, value expr.Type) CollectionKind {
	return CollectionKind{Tag: KindKeyedSingleton, KeyedSingletonBound: bound, KeyType: key, ValueType: value}
}

func (c CollectionKind) String() string {
	switch c.Tag {
	case KindStream:
		return fmt.Sprintf("Stream<%s,%s>", c.ElementType, c.Guarantees)
	case KindKeyedStream:
		return fmt.Sprintf("KeyedStream<%s,%s,%s>", c.KeyType, c.ValueType, c.Guarantees)
	case KindSingleton:
		return fmt.Sprintf("Singleton<%s,%s>", c.ElementType, c.Guarantees.Bound)
	case KindOptional:
		return fmt.Sprintf("Optional<%s,%s>", c.ElementType, c.Guarantees.Bound)
	case KindKeyedSingleton:
		return fmt.Sprintf("KeyedSingleton<%s,%s,%d>", c.KeyType, c.ValueType, c.KeyedSingletonBound)
	default:
		return "?"
	}
}

// Equal compares collection kinds structurally; used by the metadata
// consistency property (spec §8 property 1) and by Tee (spec §3.5:
// "A Tee and its interior always have the same metadata.collection_kind").
func (c CollectionKind) Equal(other CollectionKind) bool {
	if c.Tag != other.Tag {
		return false
	}
	switch c.Tag {
	case KindStream:
		return c.Guarantees == other.Guarantees && c.ElementType.Equal(other.ElementType)
	case KindKeyedStream:
		return c.Guarantees == other.Guarantees && c.KeyType.Equal(other.KeyType) && c.ValueType.Equal(other.ValueType)
	case KindSingleton, KindOptional:
		return c.Guarantees.Bound == other.Guarantees.Bound && c.ElementType.Equal(other.ElementType)
	case KindKeyedSingleton:
		return c.KeyedSingletonBound == other.KeyedSingletonBound && c.KeyType.Equal(other.KeyType) && c.ValueType.Equal(other.ValueType)
	default:
		return false
	}
}
