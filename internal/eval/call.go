package eval

import (
	"fmt"

	"github.com/sonicweave-lang/sonicweave/internal/ast"
	"github.com/sonicweave-lang/sonicweave/internal/value"
)

func convertParams(params []ast.ParamNode) []value.Param {
	out := make([]value.Param, len(params))
	for i, p := range params {
		out[i] = value.Param{Name: p.Name, Default: p.Default}
	}
	return out
}

func (in *Interp) evalCall(n ast.CallExpr, env *Env) (Value, error) {
	callee, err := in.Eval(n.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*value.Function)
	if !ok {
		return nil, fmt.Errorf("eval: %s is not callable", callee.Kind())
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := in.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return in.callFunction(fn, args)
}

// callFunction invokes fn with already-evaluated args, binding named
// parameters (with defaults evaluated in the closure scope when an argument
// is missing), an optional rest parameter, and running the body — a block
// for a riff/fn, a single expression for an arrow function.
func (in *Interp) callFunction(fn *value.Function, args []Value) (Value, error) {
	if err := in.Ctx.Spend(1); err != nil {
		return nil, err
	}
	if fn.Builtin != nil {
		return fn.Builtin(args)
	}
	closure, _ := fn.Closure.(*Env)
	if closure == nil {
		closure = NewEnv()
	}
	callEnv := closure.Child()
	for i, p := range fn.Params {
		var v Value
		if i < len(args) {
			v = args[i]
		} else if p.Default != nil {
			defExpr, ok := p.Default.(ast.Expr)
			if !ok {
				return nil, fmt.Errorf("eval: malformed default for parameter %q", p.Name)
			}
			dv, err := in.Eval(defExpr, callEnv)
			if err != nil {
				return nil, err
			}
			v = dv
		} else {
			v = value.NoneVal{}
		}
		if err := callEnv.Define(p.Name, v, false); err != nil {
			return nil, err
		}
	}
	if fn.Rest != "" {
		var rest []Value
		if len(args) > len(fn.Params) {
			rest = args[len(fn.Params):]
		}
		if err := callEnv.Define(fn.Rest, value.ArrayVal{Items: rest}, false); err != nil {
			return nil, err
		}
	}
	if fn.IsArrow {
		body, ok := fn.Body.(ast.Expr)
		if !ok {
			return nil, fmt.Errorf("eval: malformed arrow function body")
		}
		return in.Eval(body, callEnv)
	}
	body, ok := fn.Body.(*ast.BlockStmt)
	if !ok {
		return nil, fmt.Errorf("eval: malformed function body")
	}
	sig, err := in.execBlock(body, callEnv)
	if err != nil {
		return nil, err
	}
	if sig.kind == sigThrow {
		return nil, fmt.Errorf("sonicweave: uncaught throw: %s", describe(sig.value))
	}
	if sig.kind == sigReturn {
		if sig.value == nil {
			return value.NoneVal{}, nil
		}
		return sig.value, nil
	}
	return value.NoneVal{}, nil
}
