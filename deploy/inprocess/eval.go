package inprocess

import (
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/hydroflow-go/hydro/expr"
)

// Evaluator resolves expr.Expr tokens to callable Go values: it prefers
// the staged closure an Expr may already carry (expr.Expr.Fn, the path
// used by Backend's own sink/source tokens) and falls back to
// interpreting the token's literal source via yaegi for anything that
// arrived as quoted surface-language text only (grounded on the
// teacher's loader.go Serialization.loadSymbol).
type Evaluator struct {
	symbol string
}

// NewEvaluator builds an Evaluator that, for the yaegi fallback path,
// looks up symbol after evaluating the expression's source as a Go
// program (the teacher's loader.go convention: script defines the
// symbol, Symbol names it).
func NewEvaluator(symbol string) *Evaluator {
	return &Evaluator{symbol: symbol}
}

// Resolve returns a callable value for e: its staged closure if present,
// else the result of interpreting e.Source() as a Go program and
// extracting the named symbol.
func (ev *Evaluator) Resolve(e expr.Expr) (interface{}, error) {
	if fn, ok := e.Fn(); ok {
		return fn, nil
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("inprocess: yaegi stdlib: %w", err)
	}

	if _, err := i.Eval(e.Source()); err != nil {
		return nil, fmt.Errorf("inprocess: evaluating expr %s: %w", e, err)
	}

	sym, err := i.Eval(ev.symbol)
	if err != nil {
		return nil, fmt.Errorf("inprocess: resolving symbol %q: %w", ev.symbol, err)
	}
	if sym.Kind() != reflect.Func {
		return nil, fmt.Errorf("inprocess: symbol %q is not a func", ev.symbol)
	}
	return sym.Interface(), nil
}
