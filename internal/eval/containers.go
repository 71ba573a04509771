package eval

import (
	"fmt"

	"github.com/sonicweave-lang/sonicweave/internal/ast"
	"github.com/sonicweave-lang/sonicweave/internal/monzo"
	"github.com/sonicweave-lang/sonicweave/internal/value"
)

func (in *Interp) evalArrayLit(n ast.ArrayLit, env *Env) (Value, error) {
	var items []Value
	for i, it := range n.Items {
		v, err := in.Eval(it, env)
		if err != nil {
			return nil, err
		}
		if len(n.Spreads) > i && n.Spreads[i] {
			arr, ok := v.(value.ArrayVal)
			if !ok {
				return nil, fmt.Errorf("eval: cannot spread a %s", v.Kind())
			}
			items = append(items, arr.Items...)
			continue
		}
		items = append(items, v)
	}
	return value.ArrayVal{Items: items}, nil
}

func (in *Interp) evalRecordLit(n ast.RecordLit, env *Env) (Value, error) {
	r := value.NewRecord()
	for i, k := range n.Keys {
		v, err := in.Eval(n.Values[i], env)
		if err != nil {
			return nil, err
		}
		r.Set(k, v)
	}
	return r, nil
}

func (in *Interp) evalRange(n ast.RangeExpr, env *Env) (Value, error) {
	start, err := in.Eval(n.Start, env)
	if err != nil {
		return nil, err
	}
	end, err := in.Eval(n.End, env)
	if err != nil {
		return nil, err
	}
	si, ok1 := start.(value.Interval)
	ei, ok2 := end.(value.Interval)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("eval: range bounds must be intervals")
	}
	step := 1.0
	if n.HasStep {
		sv, err := in.Eval(n.Step, env)
		if err != nil {
			return nil, err
		}
		svi, ok := sv.(value.Interval)
		if !ok {
			return nil, fmt.Errorf("eval: range step must be an interval")
		}
		step = svi.ValueOf() - si.ValueOf()
		if step == 0 {
			return nil, fmt.Errorf("eval: range step cannot be zero")
		}
	}
	var items []Value
	lo, hi := si.ValueOf(), ei.ValueOf()
	if err := in.Ctx.Spend(1); err != nil {
		return nil, err
	}
	pt := primes(in)
	if step > 0 {
		for v := lo; v <= hi+1e-9; v += step {
			if err := in.Ctx.Spend(1); err != nil {
				return nil, err
			}
			items = append(items, value.NewExact(monzo.FromFloat(pt, v), value.Linear))
		}
	} else {
		for v := lo; v >= hi-1e-9; v += step {
			if err := in.Ctx.Spend(1); err != nil {
				return nil, err
			}
			items = append(items, value.NewExact(monzo.FromFloat(pt, v), value.Linear))
		}
	}
	return value.ArrayVal{Items: items}, nil
}

func (in *Interp) evalHarmonicSegment(n ast.HarmonicSegmentExpr, env *Env) (Value, error) {
	bounds := make([]value.Interval, len(n.Bounds))
	for i, b := range n.Bounds {
		v, err := in.Eval(b, env)
		if err != nil {
			return nil, err
		}
		iv, ok := v.(value.Interval)
		if !ok {
			return nil, fmt.Errorf("eval: harmonic segment bounds must be intervals")
		}
		bounds[i] = iv
	}
	if len(bounds) < 2 {
		return nil, fmt.Errorf("eval: harmonic segment needs at least two bounds")
	}
	var items []Value
	pt := primes(in)
	for i := 0; i < len(bounds)-1; i++ {
		lo := int64(bounds[i].ValueOf())
		hi := int64(bounds[i+1].ValueOf())
		for h := lo; h <= hi; h++ {
			if err := in.Ctx.Spend(1); err != nil {
				return nil, err
			}
			items = append(items, value.NewExact(monzo.FromRatio(pt, h, lo), value.Linear))
		}
	}
	return value.ArrayVal{Items: items}, nil
}

func (in *Interp) evalIndex(n ast.IndexExpr, env *Env) (Value, error) {
	target, err := in.Eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	if n.Nullish {
		if _, isNone := target.(value.NoneVal); isNone {
			return value.NoneVal{}, nil
		}
	}
	idx, err := in.Eval(n.Index, env)
	if err != nil {
		return nil, err
	}
	switch t := target.(type) {
	case value.ArrayVal:
		i, err := intIndex(idx, len(t.Items))
		if err != nil {
			return nil, err
		}
		return t.Items[i], nil
	case value.RecordVal:
		s, ok := idx.(value.StringVal)
		if !ok {
			return nil, fmt.Errorf("eval: record index must be a string")
		}
		v, ok := t.Get(string(s))
		if !ok {
			return nil, fmt.Errorf("eval: record has no key %q", string(s))
		}
		return v, nil
	}
	return nil, fmt.Errorf("eval: cannot index a %s", target.Kind())
}

func intIndex(v Value, n int) (int, error) {
	iv, ok := v.(value.Interval)
	if !ok {
		return 0, fmt.Errorf("eval: index must be an interval")
	}
	i := int(iv.ValueOf())
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("eval: index %d out of range (len %d)", i, n)
	}
	return i, nil
}

func (in *Interp) evalSlice(n ast.SliceExpr, env *Env) (Value, error) {
	target, err := in.Eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	arr, ok := target.(value.ArrayVal)
	if !ok {
		return nil, fmt.Errorf("eval: cannot slice a %s", target.Kind())
	}
	start, step, err := in.sliceStartStep(n, env)
	if err != nil {
		return nil, err
	}
	end := len(arr.Items) - 1
	if n.End != nil {
		ev, err := in.Eval(n.End, env)
		if err != nil {
			return nil, err
		}
		end, err = intIndex(ev, len(arr.Items))
		if err != nil {
			end = len(arr.Items) - 1
		}
	}
	var out []Value
	if step > 0 {
		for i := start; i <= end && i < len(arr.Items); i += step {
			out = append(out, arr.Items[i])
		}
	} else if step < 0 {
		for i := start; i >= end && i >= 0; i += step {
			out = append(out, arr.Items[i])
		}
	}
	return value.ArrayVal{Items: out}, nil
}

func (in *Interp) sliceStartStep(n ast.SliceExpr, env *Env) (start, step int, err error) {
	step = 1
	if n.Start == nil {
		return 0, step, nil
	}
	sv, err := in.Eval(n.Start, env)
	if err != nil {
		return 0, 0, err
	}
	si, ok := sv.(value.Interval)
	if !ok {
		return 0, 0, fmt.Errorf("eval: slice bound must be an interval")
	}
	start = int(si.ValueOf())
	if n.HasSecond {
		sv2, err := in.Eval(n.Second, env)
		if err != nil {
			return 0, 0, err
		}
		si2, ok := sv2.(value.Interval)
		if !ok {
			return 0, 0, fmt.Errorf("eval: slice bound must be an interval")
		}
		step = int(si2.ValueOf()) - start
		if step == 0 {
			step = 1
		}
	}
	return start, step, nil
}

func (in *Interp) evalComprehension(n ast.ComprehensionExpr, env *Env) (Value, error) {
	src, err := in.Eval(n.Source, env)
	if err != nil {
		return nil, err
	}
	arr, ok := src.(value.ArrayVal)
	if !ok {
		return nil, fmt.Errorf("eval: comprehension source must be an array")
	}
	var out []Value
	for _, item := range arr.Items {
		if err := in.Ctx.Spend(1); err != nil {
			return nil, err
		}
		child := env.Child()
		_ = child.Define(n.Var, item, true)
		if n.Cond != nil {
			cv, err := in.Eval(n.Cond, child)
			if err != nil {
				return nil, err
			}
			if !truthy(cv) {
				continue
			}
		}
		rv, err := in.Eval(n.Result, child)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return value.ArrayVal{Items: out}, nil
}

func (in *Interp) evalMembership(n ast.MembershipExpr, env *Env) (Value, error) {
	elem, err := in.Eval(n.Elem, env)
	if err != nil {
		return nil, err
	}
	set, err := in.Eval(n.Set, env)
	if err != nil {
		return nil, err
	}
	arr, ok := set.(value.ArrayVal)
	if !ok {
		return nil, fmt.Errorf("eval: membership right-hand side must be an array")
	}
	found := false
	for _, item := range arr.Items {
		if intervalsEqual(elem, item, n.Op) {
			found = true
			break
		}
	}
	if n.Not {
		found = !found
	}
	return value.BoolVal(found), nil
}

func intervalsEqual(a, b Value, op string) bool {
	ai, aok := a.(value.Interval)
	bi, bok := b.(value.Interval)
	if aok && bok {
		if op == "of" || op == "in" {
			return monzo.Equals(ai.Exact, bi.Exact, true)
		}
		return ai.ValueOf() == bi.ValueOf()
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
