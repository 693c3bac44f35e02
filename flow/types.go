package flow

import (
	"fmt"
	"reflect"

	"github.com/hydroflow-go/hydro/expr"
)

// typeOf derives an expr.Type token from a Go type parameter's zero
// value. The core only ever needs a stable, hashable name for a type
// (spec §3.2); reflect's canonical name is a convenient, idiomatic
// source for one.
func typeOf[T any]() expr.Type {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	return expr.NewType(t.String())
}

// Pair is the element type produced by CrossProduct/CrossSingleton/Join
// (spec §3.3 "(k, (v1, v2))" style tupling), since Go has no anonymous
// tuple type.
type Pair[A, B any] struct {
	First  A
	Second B
}

func pairTypeName[A, B any]() string {
	return fmt.Sprintf("Pair[%s,%s]", typeOf[A](), typeOf[B]())
}
