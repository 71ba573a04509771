package eval

import (
	"fmt"
	"math"
	"math/big"

	"github.com/sonicweave-lang/sonicweave/internal/ast"
	"github.com/sonicweave-lang/sonicweave/internal/monzo"
	"github.com/sonicweave-lang/sonicweave/internal/value"
)

func (in *Interp) evalBinary(n ast.BinaryExpr, env *Env) (Value, error) {
	switch n.Op {
	case "and":
		l, err := in.Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		if !truthy(l) {
			return value.BoolVal(false), nil
		}
		r, err := in.Eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		return value.BoolVal(truthy(r)), nil
	case "or":
		l, err := in.Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		if truthy(l) {
			return value.BoolVal(true), nil
		}
		r, err := in.Eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		return value.BoolVal(truthy(r)), nil
	}

	l, err := in.Eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := in.Eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=":
		return evalCompare(n.Op, l, r)
	}

	li, lok := l.(value.Interval)
	ri, rok := r.(value.Interval)
	if !lok || !rok {
		return nil, fmt.Errorf("eval: operator %q requires intervals, got %s and %s", n.Op, l.Kind(), r.Kind())
	}
	computed, err := combineIntervals(in, n.Op, li, ri)
	if err != nil {
		return nil, err
	}
	return resolvePreference(n.Op, n.Pref, li, ri, computed), nil
}

// domainCrossingOps always resolve to the domain combineIntervals already
// picked (Linear for "dot"/"/_") regardless of preference form: spec 4.2.2's
// table marks these "domain-crossing" and exempts them from the plain/
// left/right/wings domain rule.
var domainCrossingOps = map[string]bool{
	"dot": true, "/_": true,
}

// resolvePreference implements spec 4.2.2/4.2.3: a "~"-decorated operator
// asks for the operand's own domain, formatting node, label and color to
// survive onto the computed result instead of the arithmetic deriving a
// fresh one. The four preference forms (plain, "~op" left, "op~" right,
// "~op~" wings) each pick domain/node/label/color by a different rule from
// the same table; resolvePreference is the single place that applies it.
func resolvePreference(op string, pref ast.Pref, left, right, computed value.Interval) Value {
	if !domainCrossingOps[op] {
		computed.Domain = domainForPref(pref, left, right)
	}
	computed.Node = nodeForPref(pref, left, right, computed)
	computed.Label = chooseLabel(pref, left.Label, right.Label)
	computed.Color = chooseColor(pref, left.Color, right.Color)
	return computed
}

// domainForPref implements spec 4.2.2's Result-domain column: plain keeps
// whichever domain dominates (cologarithmic > logarithmic > linear);
// left/right preference pin the result to that operand's own domain; wings
// is linear if either operand is linear, else left's.
func domainForPref(pref ast.Pref, left, right value.Interval) value.Domain {
	switch pref {
	case ast.LeftPref:
		return left.Domain
	case ast.RightPref:
		return right.Domain
	case ast.Wings:
		if left.Domain == value.Linear || right.Domain == value.Linear {
			return value.Linear
		}
		return left.Domain
	}
	return domainOf(left, right)
}

// nodeForPref implements spec 4.2.2's Result-formatting-node column:
// left/right preference rewrite that operand's node to the computed value
// when the shapes are compatible, else drop to no node; wings uses left's
// node under the same rule. Plain form carries no node by default, but when
// both operands share a compatible nedji denominator the notation survives
// anyway (spec's "none (reprinting will re-derive)" — the only notation
// left to re-derive from is the one the operands agreed on).
func nodeForPref(pref ast.Pref, left, right, computed value.Interval) value.Node {
	switch pref {
	case ast.LeftPref, ast.Wings:
		return rewriteNodeForValue(left.Node, computed)
	case ast.RightPref:
		return rewriteNodeForValue(right.Node, computed)
	}
	if left.Node.Kind == value.NedjiLiteral && right.Node.Kind == value.NedjiLiteral &&
		!left.Node.NedjiHasEquave && !right.Node.NedjiHasEquave &&
		left.Node.NedjiDivisions == right.Node.NedjiDivisions {
		return rewriteNodeForValue(left.Node, computed)
	}
	return value.Node{}
}

// rewriteNodeForValue rewrites a literal-shape node to reflect computed's
// actual value, reporting it as incompatible (a plain value.Node{}, i.e.
// NoNode) when the shape can no longer represent that value exactly.
func rewriteNodeForValue(n value.Node, computed value.Interval) value.Node {
	if computed.Real {
		return value.Node{}
	}
	switch n.Kind {
	case value.IntegerLiteral, value.FractionLiteral:
		rat, ok := monzo.AsExactRatio(computed.Exact)
		if !ok {
			return value.Node{}
		}
		if n.Kind == value.IntegerLiteral && rat.Denom().Cmp(oneInt) != 0 {
			return value.Node{}
		}
		n.Numerator, n.Denominator = rat.Num().Int64(), rat.Denom().Int64()
		return n
	case value.NedjiLiteral:
		if n.NedjiHasEquave {
			return value.Node{}
		}
		exp, ok := monzo.PureExponent(computed.Exact, 0)
		if !ok {
			return value.Node{}
		}
		num := new(big.Int).Mul(exp.Num(), big.NewInt(n.NedjiDivisions))
		rem := new(big.Int).Mod(num, exp.Denom())
		if rem.Sign() != 0 {
			return value.Node{}
		}
		n.NedjiNumerator = new(big.Int).Quo(num, exp.Denom()).Int64()
		return n
	}
	return value.Node{}
}

var oneInt = big.NewInt(1)

// chooseLabel implements spec 4.2.3's label "infection" rules: if exactly
// one side carries a label, it propagates regardless of preference (rule
// 1); if both do, the preferred side wins, with plain/wings defaulting to
// the left (rule 2).
func chooseLabel(pref ast.Pref, left, right string) string {
	if left == "" {
		return right
	}
	if right == "" {
		return left
	}
	if pref == ast.RightPref {
		return right
	}
	return left
}

// chooseColor mirrors chooseLabel for the Color attribute (spec 4.2.3 rule
// 3: "color follows the same rule as label, independently").
func chooseColor(pref ast.Pref, left, right *value.Color) *value.Color {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	if pref == ast.RightPref {
		return right
	}
	return left
}

func combineIntervals(in *Interp, op string, l, r value.Interval) (value.Interval, error) {
	switch op {
	case "+":
		return arithExactOrReal(l, r, monzo.Mul, func(a, b float64) float64 { return a * b }), nil
	case "-":
		return arithExactOrReal(l, r, monzo.Div, func(a, b float64) float64 { return a / b }), nil
	case "*", "×":
		return scaleInterval(l, r, false), nil
	case "/", "÷", "∕", "%":
		return scaleInterval(l, r, true), nil
	case "dot":
		d := monzo.Dot(l.Exact, r.Exact)
		f, _ := d.Float64()
		return value.NewReal(f, big.NewRat(0, 1), value.Linear), nil
	case "max":
		if l.ValueOf() >= r.ValueOf() {
			return l, nil
		}
		return r, nil
	case "min":
		if l.ValueOf() <= r.ValueOf() {
			return l, nil
		}
		return r, nil
	case "red", "rd":
		return reduceInterval(l, r, false), nil
	case "rdc":
		return reduceInterval(l, r, true), nil
	case "mod":
		return reduceInterval(l, r, false), nil
	case "modc":
		return reduceInterval(l, r, true), nil
	case "/+", "lensAdd":
		return value.NewExact(monzo.LensAdd(l.Exact, r.Exact), l.Domain), nil
	case "/-", "lensSub":
		return value.NewExact(monzo.LensSub(l.Exact, r.Exact), l.Domain), nil
	case "to":
		return r, nil
	case "by":
		return scaleInterval(l, r, true), nil
	case "/^":
		return powInterval(l, r)
	case "/_":
		lv, rv := l.ValueOf(), r.ValueOf()
		if lv <= 0 || rv <= 0 {
			return value.Interval{}, fmt.Errorf("eval: /_ requires positive intervals")
		}
		f := math.Log(lv) / math.Log(rv)
		return value.NewReal(f, big.NewRat(0, 1), value.Linear), nil
	}
	return value.Interval{}, fmt.Errorf("eval: unsupported binary operator %q", op)
}

func arithExactOrReal(l, r value.Interval, exactOp func(a, b monzo.Monzo) monzo.Monzo, realOp func(a, b float64) float64) value.Interval {
	if !l.Real && !r.Real {
		m := exactOp(l.Exact, r.Exact)
		return value.NewExact(m, domainOf(l, r))
	}
	return value.NewReal(realOp(l.ValueOf(), r.ValueOf()), timeExpOf(l), domainOf(l, r))
}

// scaleInterval implements "*" (divide=false) and "/" (divide=true) between
// two intervals: elementwise monzo multiply/divide when both are exact,
// falling back to float64 multiply/divide once either side has escaped.
func scaleInterval(l, r value.Interval, divide bool) value.Interval {
	if !l.Real && !r.Real {
		rhs := r.Exact
		if divide {
			rhs = monzo.Inverse(rhs)
		}
		return value.NewExact(monzo.Mul(l.Exact, rhs), domainOf(l, r))
	}
	rv := r.ValueOf()
	lv := l.ValueOf()
	f := lv * rv
	if divide {
		f = lv / rv
	}
	return value.NewReal(f, timeExpOf(l), domainOf(l, r))
}

func domainOf(l, r value.Interval) value.Domain {
	if l.Domain == value.Cologarithmic || r.Domain == value.Cologarithmic {
		return value.Cologarithmic
	}
	if l.Domain == value.Logarithmic || r.Domain == value.Logarithmic {
		return value.Logarithmic
	}
	return value.Linear
}

func timeExpOf(l value.Interval) *big.Rat {
	if l.Real && l.RealTimeExp != nil {
		return l.RealTimeExp
	}
	return big.NewRat(0, 1)
}

func reduceInterval(l, r value.Interval, inclusive bool) value.Interval {
	m := monzo.Reduce(l.Exact, r.Exact)
	if inclusive {
		m = monzo.Mmod(l.Exact, r.Exact)
	}
	return value.NewExact(m, l.Domain)
}

func powInterval(l, r value.Interval) (value.Interval, error) {
	if l.Real || r.Real {
		f := math.Pow(l.ValueOf(), r.ValueOf())
		return value.NewReal(f, big.NewRat(0, 1), l.Domain), nil
	}
	rv, ok := monzo.AsExactRatio(r.Exact)
	if ok {
		if m, ok := monzo.PowOk(l.Exact, rv); ok {
			return value.NewExact(m, l.Domain), nil
		}
	}
	f := math.Pow(l.ValueOf(), r.ValueOf())
	return value.NewReal(f, big.NewRat(0, 1), l.Domain), nil
}

func evalCompare(op string, l, r Value) (Value, error) {
	li, lok := l.(value.Interval)
	ri, rok := r.(value.Interval)
	if lok && rok {
		switch op {
		case "==":
			return value.BoolVal(monzo.Equals(li.Exact, ri.Exact, false) || li.ValueOf() == ri.ValueOf()), nil
		case "!=":
			return value.BoolVal(!(li.ValueOf() == ri.ValueOf())), nil
		case "===":
			return value.BoolVal(li.Domain == ri.Domain && monzo.Equals(li.Exact, ri.Exact, true)), nil
		case "!==":
			return value.BoolVal(!(li.Domain == ri.Domain && monzo.Equals(li.Exact, ri.Exact, true))), nil
		case "<":
			return value.BoolVal(li.ValueOf() < ri.ValueOf()), nil
		case ">":
			return value.BoolVal(li.ValueOf() > ri.ValueOf()), nil
		case "<=":
			return value.BoolVal(li.ValueOf() <= ri.ValueOf()), nil
		case ">=":
			return value.BoolVal(li.ValueOf() >= ri.ValueOf()), nil
		}
	}
	switch op {
	case "==":
		return value.BoolVal(fmt.Sprint(l) == fmt.Sprint(r)), nil
	case "!=":
		return value.BoolVal(fmt.Sprint(l) != fmt.Sprint(r)), nil
	}
	return nil, fmt.Errorf("eval: cannot compare %s and %s with %q", l.Kind(), r.Kind(), op)
}

func (in *Interp) evalUnary(n ast.UnaryExpr, env *Env) (Value, error) {
	v, err := in.Eval(n.Operand, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "not":
		return value.BoolVal(!truthy(v)), nil
	case "++", "--":
		iv, ok := v.(value.Interval)
		if !ok {
			return nil, fmt.Errorf("eval: %q requires an interval", n.Op)
		}
		delta := int64(1)
		if n.Op == "--" {
			delta = -1
		}
		result, err := incrementInterval(in, iv, delta)
		if err != nil {
			return nil, err
		}
		if id, ok := n.Operand.(ast.Identifier); ok {
			_ = env.Set(id.Name, result)
		}
		return result, nil
	}
	iv, ok := v.(value.Interval)
	if !ok {
		return nil, fmt.Errorf("eval: unary %q requires an interval", n.Op)
	}
	switch n.Op {
	case "+":
		return iv, nil
	case "-":
		return negateInterval(iv), nil
	case "%", "÷":
		one := value.NewExact(monzo.FromRatio(primes(in), 1, 1), value.Linear)
		return combineIntervals(in, "/", one, iv)
	case "^":
		return combineIntervals(in, "+", iv, value.NewExact(in.Ctx.UpStep, value.Logarithmic))
	case "∨":
		return combineIntervals(in, "-", iv, value.NewExact(in.Ctx.UpStep, value.Logarithmic))
	case "/":
		return combineIntervals(in, "+", iv, value.NewExact(in.Ctx.LiftStep, value.Logarithmic))
	case "\\":
		return combineIntervals(in, "-", iv, value.NewExact(in.Ctx.LiftStep, value.Logarithmic))
	}
	return nil, fmt.Errorf("eval: unsupported unary operator %q", n.Op)
}

// incrementInterval implements "++"/"--" (spec 4.6: "linear increment/
// decrement — requires linear domain"), a scalar +1/-1 distinct from "+"/"-"
// itself, which stack intervals multiplicatively. Counting in SonicWeave
// (loop variables, array indices) must go through this operator rather than
// "+ 1", since "+" on two linear values multiplies their ratios.
func incrementInterval(in *Interp, iv value.Interval, delta int64) (value.Interval, error) {
	if iv.Domain != value.Linear {
		return value.Interval{}, fmt.Errorf("eval: domain error: ++/-- requires a linear-domain value, got %s", iv.Domain)
	}
	if iv.Real {
		iv.RealValue += float64(delta)
		return iv, nil
	}
	rat, ok := monzo.AsExactRatio(iv.Exact)
	if !ok {
		iv.Real = true
		iv.RealValue = iv.ValueOf() + float64(delta)
		iv.RealTimeExp = big.NewRat(0, 1)
		return iv, nil
	}
	rat = new(big.Rat).Add(rat, big.NewRat(delta, 1))
	out := iv
	out.Exact = monzo.FromBigRatio(primes(in), rat.Num(), rat.Denom())
	return out, nil
}

func negateInterval(iv value.Interval) value.Interval {
	if iv.Real {
		iv.RealValue = -iv.RealValue
		return iv
	}
	iv.Exact = monzo.Neg(iv.Exact)
	return iv
}

func (in *Interp) evalPostfix(n ast.PostfixExpr, env *Env) (Value, error) {
	v, err := in.Eval(n.Operand, env)
	if err != nil {
		return nil, err
	}
	iv, ok := v.(value.Interval)
	if !ok {
		return nil, fmt.Errorf("eval: postfix %q requires an interval", n.Op)
	}
	delta := int64(1)
	if n.Op == "--" {
		delta = -1
	}
	resultIv, err := incrementInterval(in, iv, delta)
	if err != nil {
		return nil, err
	}
	result := Value(resultIv)
	if id, ok := n.Operand.(ast.Identifier); ok {
		_ = env.Set(id.Name, result)
	}
	return iv, nil
}
