// Package eval walks internal/ast trees against internal/value runtime
// values, implementing the expression/statement semantics of spec sections
// 4.2-4.4: arithmetic across the three domains, the format-preference
// resolver, block-scoped environments, and the statement table (loops, if,
// function declarations, pitch/up/lift declarations).
package eval

import (
	"fmt"

	"github.com/sonicweave-lang/sonicweave/internal/ast"
	"github.com/sonicweave-lang/sonicweave/internal/context"
	"github.com/sonicweave-lang/sonicweave/internal/monzo"
	"github.com/sonicweave-lang/sonicweave/internal/value"
)

// Value is a local alias so every file in this package can write Value
// instead of value.Value.
type Value = value.Value

// Interp is the evaluator: it owns the root Context and the scale being
// built by top-level expression statements (spec 4.3's implicit "$").
type Interp struct {
	Ctx   *context.Context
	Scale []Value
}

// New builds an Interp over a fresh Context with the global environment
// populated by internal/stdlib (left for the caller to call Install on).
func New(ctx *context.Context) *Interp {
	return &Interp{Ctx: ctx}
}

// RunProgram executes every statement of prog in order against env,
// returning the first error encountered, per spec 4.3's linear top-level
// execution model.
func (in *Interp) RunProgram(prog []ast.Stmt, env *Env) error {
	for _, s := range prog {
		sig, err := in.Exec(s, env)
		if err != nil {
			return err
		}
		if sig.kind == sigThrow {
			return fmt.Errorf("sonicweave: uncaught throw: %s", describe(sig.value))
		}
		if sig.kind == sigReturn {
			return fmt.Errorf("sonicweave: return outside of a function")
		}
	}
	return nil
}

func describe(v Value) string {
	if v == nil {
		return "niente"
	}
	if s, ok := v.(value.StringVal); ok {
		return string(s)
	}
	return v.Kind()
}

// ---- Expression evaluation ----

// Eval evaluates an expression node to a runtime Value.
func (in *Interp) Eval(e ast.Expr, env *Env) (Value, error) {
	switch n := e.(type) {
	case ast.IntegerLit, ast.FractionLit, ast.DecimalLit, ast.RadicalLit,
		ast.NedjiLit, ast.CentsLit, ast.HertzLit, ast.SecondLit, ast.StepLit,
		ast.SquareSuperparticularLit, ast.FJSLit, ast.AbsoluteFJSLit:
		return in.evalLiteral(e)
	case ast.MonzoLit:
		return in.evalMonzoLit(n)
	case ast.ValLit:
		return in.evalValLit(n)
	case ast.WartsLit:
		return in.evalWartsLit(n)
	case ast.SparseOffsetLit:
		return in.evalSparseOffsetLit(n)
	case ast.TrueLit:
		return value.BoolVal(true), nil
	case ast.FalseLit:
		return value.BoolVal(false), nil
	case ast.NoneLit:
		return value.NoneVal{}, nil
	case ast.StringLit:
		return value.StringVal(n.Value), nil
	case ast.Identifier:
		if n.Name == "$" || n.Name == "$$" {
			return in.currentScaleValue(), nil
		}
		v, ok := env.Get(n.Name)
		if !ok {
			return nil, fmt.Errorf("eval: %q is not defined", n.Name)
		}
		return v, nil
	case ast.BinaryExpr:
		return in.evalBinary(n, env)
	case ast.UnaryExpr:
		return in.evalUnary(n, env)
	case ast.PostfixExpr:
		return in.evalPostfix(n, env)
	case ast.CallExpr:
		return in.evalCall(n, env)
	case ast.ArrowFunc:
		return &value.Function{Params: convertParams(n.Params), Rest: n.Rest, Body: n.Body, Closure: env, IsArrow: true}, nil
	case ast.ArrayLit:
		return in.evalArrayLit(n, env)
	case ast.RecordLit:
		return in.evalRecordLit(n, env)
	case ast.RangeExpr:
		return in.evalRange(n, env)
	case ast.IndexExpr:
		return in.evalIndex(n, env)
	case ast.SliceExpr:
		return in.evalSlice(n, env)
	case ast.ComprehensionExpr:
		return in.evalComprehension(n, env)
	case ast.MembershipExpr:
		return in.evalMembership(n, env)
	case ast.LestExpr:
		v, err := in.Eval(n.Try, env)
		if err != nil {
			return in.Eval(n.Fallback, env)
		}
		return v, nil
	case ast.ConditionalExpr:
		cond, err := in.Eval(n.Cond, env)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return in.Eval(n.Then, env)
		}
		return in.Eval(n.Else, env)
	case ast.HarmonicSegmentExpr:
		return in.evalHarmonicSegment(n, env)
	}
	return nil, fmt.Errorf("eval: unhandled expression node %T", e)
}

func (in *Interp) currentScaleValue() Value {
	items := make([]Value, len(in.Scale))
	copy(items, in.Scale)
	return value.ArrayVal{Items: items}
}

func truthy(v Value) bool {
	switch t := v.(type) {
	case value.BoolVal:
		return bool(t)
	case value.NoneVal:
		return false
	case value.Interval:
		return t.ValueOf() != 0
	case value.ArrayVal:
		return len(t.Items) > 0
	case value.StringVal:
		return t != ""
	}
	return true
}

func primes(in *Interp) *monzo.PrimeTable { return in.Ctx.Primes }
