package value

import (
	"math"
	"math/big"

	"github.com/sonicweave-lang/sonicweave/internal/monzo"
)

// Interval is the central runtime value of spec 3.3: a pitch quantity with a
// domain, an integer step count, optional formatting node, color and label.
//
// A value is either exact (Exact != nil, Real=false) or has escaped to the
// float64 fallback (Real=true, RealValue holds timeExponent+value per spec
// 3.2's "real form"). Exactly one of the two is meaningful at a time; they
// are never silently mixed (spec 9 "Real fallback").
type Interval struct {
	Exact monzo.Monzo
	Real  bool

	// RealValue is only meaningful when Real is true: a single IEEE-754
	// double (with an attached time exponent) for values that cannot be
	// expressed as a rational timed monzo (pi, log of an arbitrary real).
	RealValue     float64
	RealTimeExp   *big.Rat

	Domain Domain
	Steps  int64

	Node  Node
	Color *Color
	Label string

	TrackingIDs []string

	// Fragile marks an Interval whose formatting depends on the context's
	// current up/lift values (spec 3.3 "fragile" intervals). No evaluator
	// path sets it, and such intervals are not registered with the Context,
	// so a re-print does not follow a later "^ = ..."/"/ = ..." statement.
	Fragile bool
}

// NewExact builds a purely-rational Interval from a monzo value.
func NewExact(m monzo.Monzo, domain Domain) Interval {
	return Interval{Exact: m, Domain: domain}
}

// NewReal builds an Interval that has already escaped to the float fallback.
func NewReal(v float64, timeExp *big.Rat, domain Domain) Interval {
	return Interval{Real: true, RealValue: v, RealTimeExp: timeExp, Domain: domain}
}

// IsAbsolute reports whether the interval carries a nonzero time exponent
// (spec 3.3: "absolute echelon"), requiring the context's unison frequency
// to convert to/from the relative echelon.
func (iv Interval) IsAbsolute() bool {
	if iv.Real {
		return iv.RealTimeExp != nil && iv.RealTimeExp.Sign() != 0
	}
	return iv.Exact.Time != nil && iv.Exact.Time.Sign() != 0
}

// ValueOf returns the interval's scalar value (frequency ratio if relative,
// hertz if absolute), regardless of exact/real representation.
func (iv Interval) ValueOf() float64 {
	if iv.Real {
		return iv.RealValue
	}
	v, ok := monzo.ValueOf(iv.Exact)
	if ok {
		return v
	}
	// Fractional exponents have no rational value; evaluate them in float64.
	f, _ := iv.Exact.Residual.Float64()
	for i, e := range iv.Exact.Exponents {
		ef, _ := e.Float64()
		pf, _ := new(big.Float).SetInt(iv.Exact.Primes.Nth(i)).Float64()
		f *= math.Pow(pf, ef)
	}
	if iv.Exact.Negative {
		f = -f
	}
	return f
}

// WithNode returns a copy of iv with its formatting node replaced.
func (iv Interval) WithNode(n Node) Interval {
	iv.Node = n
	return iv
}

// WithLabelColor returns a copy of iv with label/color set (used by the
// statement visitor's `expr;` handling when a bare string/color statement
// follows an Interval push: spec 4.3).
func (iv Interval) WithLabelColor(label string, color *Color) Interval {
	iv.Label = label
	iv.Color = color
	return iv
}

// StepsOnly reports whether this interval is a pure step count (no monzo
// content at all) — used by the generic equal-step arithmetic fast path.
func (iv Interval) StepsOnly() bool {
	if iv.Real {
		return false
	}
	v, ok := monzo.AsExactRatio(iv.Exact)
	return ok && v.Cmp(big.NewRat(1, 1)) == 0
}
