package eval

import (
	"fmt"

	"github.com/sonicweave-lang/sonicweave/internal/ast"
	"github.com/sonicweave-lang/sonicweave/internal/value"
)

type signalKind int

const (
	sigNone signalKind = iota
	sigReturn
	sigThrow
)

type signal struct {
	kind  signalKind
	value Value
}

var noSignal = signal{}

// Exec executes one statement against env, returning a control signal that
// propagates return/throw up through enclosing blocks and loops per spec 4.3.
func (in *Interp) Exec(s ast.Stmt, env *Env) (signal, error) {
	switch n := s.(type) {
	case ast.ExprStmt:
		return in.execExprStmt(n, env)
	case ast.LetStmt:
		v, err := in.Eval(n.Value, env)
		if err != nil {
			return noSignal, err
		}
		if err := env.Define(n.Name, v, n.Const); err != nil {
			return noSignal, err
		}
		return noSignal, nil
	case ast.AssignStmt:
		return in.execAssign(n, env)
	case ast.PitchDeclStmt:
		return in.execPitchDecl(n, env)
	case ast.UpDeclStmt:
		v, err := in.Eval(n.Value, env)
		if err != nil {
			return noSignal, err
		}
		iv, ok := v.(value.Interval)
		if !ok {
			return noSignal, fmt.Errorf("eval: up/lift declaration requires an interval")
		}
		if n.IsLift {
			in.Ctx.LiftStep = iv.Exact
		} else {
			in.Ctx.UpStep = iv.Exact
		}
		return noSignal, nil
	case *ast.BlockStmt:
		return in.execBlock(n, env.Child())
	case ast.BlockStmt:
		return in.execBlock(&n, env.Child())
	case ast.WhileStmt:
		return in.execWhile(n, env)
	case ast.ForOfStmt:
		return in.execForOf(n, env)
	case ast.IfStmt:
		cond, err := in.Eval(n.Cond, env)
		if err != nil {
			return noSignal, err
		}
		if truthy(cond) {
			return in.Exec(n.Then, env.Child())
		}
		if n.Else != nil {
			return in.Exec(n.Else, env.Child())
		}
		return noSignal, nil
	case ast.ReturnStmt:
		if n.Value == nil {
			return signal{kind: sigReturn}, nil
		}
		v, err := in.Eval(n.Value, env)
		if err != nil {
			return noSignal, err
		}
		return signal{kind: sigReturn, value: v}, nil
	case ast.ThrowStmt:
		v, err := in.Eval(n.Value, env)
		if err != nil {
			return noSignal, err
		}
		return signal{kind: sigThrow, value: v}, nil
	case ast.FuncDeclStmt:
		fn := &value.Function{Name: n.Name, Params: convertParams(n.Params), Rest: n.Rest, Body: n.Body, Closure: env}
		if err := env.Define(n.Name, fn, true); err != nil {
			return noSignal, err
		}
		return noSignal, nil
	}
	return noSignal, fmt.Errorf("eval: unhandled statement node %T", s)
}

func (in *Interp) execBlock(b *ast.BlockStmt, env *Env) (signal, error) {
	for _, s := range b.Stmts {
		sig, err := in.Exec(s, env)
		if err != nil {
			return noSignal, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return noSignal, nil
}

// execExprStmt evaluates a bare expression statement. Per spec 4.3, a
// top-level Interval expression pushes onto the current scale; a bare
// String or Color instead labels/colors the most recently pushed interval.
func (in *Interp) execExprStmt(n ast.ExprStmt, env *Env) (signal, error) {
	v, err := in.Eval(n.X, env)
	if err != nil {
		return noSignal, err
	}
	switch t := v.(type) {
	case value.Interval:
		in.Scale = append(in.Scale, t)
	case value.StringVal:
		in.labelLastScaleEntry(string(t), nil)
	case value.Color:
		c := t
		in.labelLastScaleEntry("", &c)
	case value.NoneVal:
		// bare niente; no effect on the scale
	}
	return noSignal, nil
}

func (in *Interp) labelLastScaleEntry(label string, color *value.Color) {
	if len(in.Scale) == 0 {
		return
	}
	last := in.Scale[len(in.Scale)-1]
	iv, ok := last.(value.Interval)
	if !ok {
		return
	}
	if label != "" {
		iv = iv.WithLabelColor(label, iv.Color)
	}
	if color != nil {
		iv = iv.WithLabelColor(iv.Label, color)
	}
	in.Scale[len(in.Scale)-1] = iv
}

func (in *Interp) execAssign(n ast.AssignStmt, env *Env) (signal, error) {
	v, err := in.Eval(n.Value, env)
	if err != nil {
		return noSignal, err
	}
	switch target := n.Target.(type) {
	case ast.Identifier:
		if err := env.Set(target.Name, v); err != nil {
			return noSignal, err
		}
		return noSignal, nil
	case ast.IndexExpr:
		return noSignal, in.assignIndex(target, v, env)
	}
	return noSignal, fmt.Errorf("eval: invalid assignment target %T", n.Target)
}

func (in *Interp) assignIndex(target ast.IndexExpr, v Value, env *Env) error {
	container, err := in.Eval(target.Target, env)
	if err != nil {
		return err
	}
	idx, err := in.Eval(target.Index, env)
	if err != nil {
		return err
	}
	switch t := container.(type) {
	case value.ArrayVal:
		i, err := intIndex(idx, len(t.Items))
		if err != nil {
			return err
		}
		t.Items[i] = v
		return nil
	case value.RecordVal:
		s, ok := idx.(value.StringVal)
		if !ok {
			return fmt.Errorf("eval: record index must be a string")
		}
		t.Set(string(s), v)
		return nil
	}
	return fmt.Errorf("eval: cannot assign into a %s", container.Kind())
}

// execPitchDecl handles "1/1 = 440 Hz"-style declarations (spec 4.3): the
// left side is a relative interval anchored to the right side's absolute
// frequency, so the unison itself becomes freq/reference.
func (in *Interp) execPitchDecl(n ast.PitchDeclStmt, env *Env) (signal, error) {
	ref, err := in.Eval(n.Reference, env)
	if err != nil {
		return noSignal, err
	}
	freq, err := in.Eval(n.Frequency, env)
	if err != nil {
		return noSignal, err
	}
	ri, ok := ref.(value.Interval)
	if !ok {
		return noSignal, fmt.Errorf("eval: pitch declaration left side must be an interval")
	}
	fi, ok := freq.(value.Interval)
	if !ok {
		return noSignal, fmt.Errorf("eval: pitch declaration right side must be an interval")
	}
	rv := ri.ValueOf()
	if rv == 0 {
		return noSignal, fmt.Errorf("eval: pitch declaration reference cannot be zero")
	}
	in.Ctx.SetReferenceHz(fi.ValueOf() / rv)
	return noSignal, nil
}

func (in *Interp) execWhile(n ast.WhileStmt, env *Env) (signal, error) {
	for {
		cond, err := in.Eval(n.Cond, env)
		if err != nil {
			return noSignal, err
		}
		if !truthy(cond) {
			return noSignal, nil
		}
		if err := in.Ctx.Spend(1); err != nil {
			return noSignal, err
		}
		sig, err := in.Exec(n.Body, env.Child())
		if err != nil {
			return noSignal, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
}

func (in *Interp) execForOf(n ast.ForOfStmt, env *Env) (signal, error) {
	src, err := in.Eval(n.Source, env)
	if err != nil {
		return noSignal, err
	}
	arr, ok := src.(value.ArrayVal)
	if !ok {
		return noSignal, fmt.Errorf("eval: for-of source must be an array")
	}
	for _, item := range arr.Items {
		if err := in.Ctx.Spend(1); err != nil {
			return noSignal, err
		}
		child := env.Child()
		if err := child.Define(n.Var, item, false); err != nil {
			return noSignal, err
		}
		sig, err := in.Exec(n.Body, child)
		if err != nil {
			return noSignal, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return noSignal, nil
}
