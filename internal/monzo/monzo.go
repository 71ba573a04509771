// Package monzo implements the timed-monzo algebra of spec section 4.1: an
// exact rational vector of prime exponents plus a rational time exponent and
// residual, with a real (float64) fallback for values that escape the
// rational world.
package monzo

import (
	"fmt"
	"math"
	"math/big"

	"github.com/sonicweave-lang/sonicweave/internal/bigq"
)

// Monzo is a rational timed monzo (t, e[], r): see spec section 3.2.
//
// Invariant: Residual is coprime to the first len(Exponents) primes, and is
// always positive — Negative carries the sign of the whole value so
// Residual.Num() stays a clean positive coprime part.
type Monzo struct {
	Time       *big.Rat   // 0 dimensionless, 1 seconds, -1 hertz
	Exponents  []*big.Rat // one per prime 2, 3, 5, 7, ...
	Residual   *big.Rat   // leftover integer ratio, always positive
	Negative   bool       // sign of the value as a whole
	Primes     *PrimeTable
}

// Zero is the additive identity in the logarithmic domain / multiplicative
// identity (1/1) in the linear domain: no exponents, residual 1.
func Zero(primes *PrimeTable) Monzo {
	return Monzo{Time: bigq.New(0, 1), Residual: bigq.New(1, 1), Primes: primes}
}

// FromRatio builds an exact monzo for the ratio n/d (both positive), fully
// factoring it against the prime table, growing it as needed.
func FromRatio(primes *PrimeTable, n, d int64) Monzo {
	return FromBigRatio(primes, big.NewInt(n), big.NewInt(d))
}

// FromBigRatio is FromRatio for arbitrary-precision numerator/denominator.
func FromBigRatio(primes *PrimeTable, n, d *big.Int) Monzo {
	neg := n.Sign() < 0
	num := new(big.Int).Abs(n)
	den := new(big.Int).Abs(d)

	maxIdx := primes.Len() - 1
	numExps, numRes := primes.Factor(num, maxIdx)
	denExps, denRes := primes.Factor(den, maxIdx)

	exps := make([]*big.Rat, len(numExps))
	for i := range exps {
		exps[i] = new(big.Rat).SetInt64(numExps[i] - denExps[i])
	}
	res := new(big.Rat).SetFrac(numRes, denRes)
	m := Monzo{
		Time:      bigq.New(0, 1),
		Exponents: exps,
		Residual:  res,
		Negative:  neg,
		Primes:    primes,
	}
	return m.normalize()
}

// normalize trims trailing zero exponents and attempts to absorb any prime
// factors of Residual that now fall within the (possibly grown) prime table,
// per spec 3.2's "trailing zeros are semantically irrelevant" and "residual
// is coprime to the first len(e) primes" invariants.
func (m Monzo) normalize() Monzo {
	for len(m.Exponents) > 0 && bigq.IsZero(m.Exponents[len(m.Exponents)-1]) {
		m.Exponents = m.Exponents[:len(m.Exponents)-1]
	}
	if m.Residual == nil {
		m.Residual = bigq.New(1, 1)
	}
	if m.Primes == nil {
		return m
	}
	maxIdx := m.Primes.Len() - 1
	if maxIdx < 0 {
		return m
	}
	numExps, numRes := m.Primes.Factor(m.Residual.Num(), maxIdx)
	denExps, denRes := m.Primes.Factor(m.Residual.Denom(), maxIdx)
	if numRes.Cmp(m.Residual.Num()) == 0 && denRes.Cmp(m.Residual.Denom()) == 0 {
		return m
	}
	for len(m.Exponents) < len(numExps) {
		m.Exponents = append(m.Exponents, bigq.New(0, 1))
	}
	for i := range numExps {
		m.Exponents[i] = bigq.Add(m.Exponents[i], new(big.Rat).SetInt64(numExps[i]-denExps[i]))
	}
	m.Residual = new(big.Rat).SetFrac(numRes, denRes)
	for len(m.Exponents) > 0 && bigq.IsZero(m.Exponents[len(m.Exponents)-1]) {
		m.Exponents = m.Exponents[:len(m.Exponents)-1]
	}
	return m
}

func (m Monzo) exp(i int) *big.Rat {
	if i < len(m.Exponents) {
		return m.Exponents[i]
	}
	return bigq.Zero
}

func widthOf(a, b Monzo) int {
	if len(a.Exponents) > len(b.Exponents) {
		return len(a.Exponents)
	}
	return len(b.Exponents)
}

// Mul is elementwise add of exponents, multiply of residuals (with sign
// composed), add of time exponents: spec 4.1 "mul(a,b)".
func Mul(a, b Monzo) Monzo {
	n := widthOf(a, b)
	exps := make([]*big.Rat, n)
	for i := 0; i < n; i++ {
		exps[i] = bigq.Add(a.exp(i), b.exp(i))
	}
	out := Monzo{
		Time:      bigq.Add(a.Time, b.Time),
		Exponents: exps,
		Residual:  bigq.Mul(a.Residual, b.Residual),
		Negative:  a.Negative != b.Negative,
		Primes:    primesOf(a, b),
	}
	return out.normalize()
}

// Div is elementwise subtract, divide of residuals, subtract of time
// exponents: spec 4.1 "div(a,b)".
func Div(a, b Monzo) Monzo {
	return Mul(a, Inverse(b))
}

// Inverse negates t and e[], reciprocates r: spec 4.1 "inverse".
func Inverse(a Monzo) Monzo {
	exps := make([]*big.Rat, len(a.Exponents))
	for i, e := range a.Exponents {
		exps[i] = bigq.Neg(e)
	}
	return Monzo{
		Time:      bigq.Neg(a.Time),
		Exponents: exps,
		Residual:  bigq.Inv(a.Residual),
		Negative:  a.Negative,
		Primes:    a.Primes,
	}
}

// Neg multiplies the residual by -1: spec 4.1 "neg". This flips the sign
// flag but leaves magnitude untouched, matching the additive (logarithmic)
// reading of negation as well as the linear one (a monzo never stores a
// negative rational directly; Negative is the carrier).
func Neg(a Monzo) Monzo {
	out := a
	out.Negative = !a.Negative
	return out
}

// PowOk raises a to the rational power q elementwise; residual is raised to
// q if the result is exactly representable, else ok is false and the caller
// must escape to the real fallback: spec 4.1 "pow(a,q)".
func PowOk(a Monzo, q *big.Rat) (Monzo, bool) {
	if a.Negative && !bigq.IsInteger(q) {
		return Monzo{}, false
	}
	resPow, ok := bigq.Pow(a.Residual, q)
	if !ok {
		return Monzo{}, false
	}
	exps := make([]*big.Rat, len(a.Exponents))
	for i, e := range a.Exponents {
		exps[i] = bigq.Mul(e, q)
	}
	neg := a.Negative
	if bigq.IsInteger(q) && q.Num().Bit(0) == 0 {
		neg = false // even integer power of a negative value is positive
	}
	out := Monzo{
		Time:      bigq.Mul(a.Time, q),
		Exponents: exps,
		Residual:  resPow,
		Negative:  neg,
		Primes:    a.Primes,
	}
	return out.normalize(), true
}

// Dot sums pairwise exponent products over the prime table: spec 4.1
// "dot(a,b)". The residuals are not included, so a prime factor left in
// either residual contributes nothing to the sum.
func Dot(a, b Monzo) *big.Rat {
	sum := new(big.Rat)
	n := widthOf(a, b)
	for i := 0; i < n; i++ {
		sum = bigq.Add(sum, bigq.Mul(a.exp(i), b.exp(i)))
	}
	return sum
}

// Equals implements both the strict and weak equality of spec 3.2. Strict
// compares the canonical (t, e[], r) triple; weak compares the numeric
// value via ValueOf.
func Equals(a, b Monzo, strict bool) bool {
	if !strict {
		af, aok := ValueOf(a)
		bf, bok := ValueOf(b)
		if aok && bok {
			return af == bf
		}
		return false
	}
	an, bn := a.normalize(), b.normalize()
	if an.Negative != bn.Negative || an.Time.Cmp(bn.Time) != 0 {
		return false
	}
	n := widthOf(an, bn)
	for i := 0; i < n; i++ {
		if an.exp(i).Cmp(bn.exp(i)) != 0 {
			return false
		}
	}
	return an.Residual.Cmp(bn.Residual) == 0
}

// ValueOf collapses a monzo to its scalar rational value (ignoring Time),
// returning ok=false if any exponent is non-integer (so the value cannot be
// expressed as a plain rational and the real fallback must be consulted
// instead).
func ValueOf(m Monzo) (float64, bool) {
	acc := new(big.Rat).Set(m.Residual)
	for i, e := range m.Exponents {
		if bigq.IsZero(e) {
			continue
		}
		if !bigq.IsInteger(e) {
			return 0, false
		}
		p := m.Primes.Nth(i)
		pr := new(big.Rat).SetInt(p)
		acc.Mul(acc, bigq.IntPow(pr, e.Num().Int64()))
	}
	f := bigq.Float64(acc)
	if m.Negative {
		f = -f
	}
	return f, true
}

// AsExactRatio returns the scalar value as an exact big.Rat when every
// exponent is an integer (the common case for sums/products of ratios),
// and false otherwise.
func AsExactRatio(m Monzo) (*big.Rat, bool) {
	acc := new(big.Rat).Set(m.Residual)
	for i, e := range m.Exponents {
		if bigq.IsZero(e) {
			continue
		}
		if !bigq.IsInteger(e) {
			return nil, false
		}
		p := m.Primes.Nth(i)
		pr := new(big.Rat).SetInt(p)
		acc.Mul(acc, bigq.IntPow(pr, e.Num().Int64()))
	}
	if m.Negative {
		acc.Neg(acc)
	}
	return acc, true
}

// PureExponent reports whether m is exactly prime[idx]^e for a single prime
// index — every other exponent zero, residual 1/1, not negative — returning
// e. This is the structural shape a NEDJI literal's monzo always has against
// its equave prime (spec 3.4's "n\d" notation), and lets the printer
// re-derive that notation from a value whose literal node was lost to
// arithmetic.
func PureExponent(m Monzo, idx int) (*big.Rat, bool) {
	if m.Negative {
		return nil, false
	}
	if m.Residual == nil || m.Residual.Cmp(bigq.One) != 0 {
		return nil, false
	}
	for i, e := range m.Exponents {
		if i == idx || bigq.IsZero(e) {
			continue
		}
		return nil, false
	}
	return m.exp(idx), true
}

// Cents returns the logarithmic value of m in cents of its (multiplicative)
// ratio, using float64 math — used for reduce/round and FJS comma fitting
// where exactness is not required.
func Cents(m Monzo) float64 {
	v, _ := ValueOf(m)
	if v <= 0 {
		return 0
	}
	return 1200 * log2(v)
}

func log2(x float64) float64 {
	return math.Log2(x)
}

func primesOf(a, b Monzo) *PrimeTable {
	if a.Primes != nil {
		return a.Primes
	}
	return b.Primes
}

func (m Monzo) String() string {
	v, ok := AsExactRatio(m)
	if ok {
		return fmt.Sprintf("%s/%s", v.Num().String(), v.Denom().String())
	}
	f, _ := ValueOf(m)
	return fmt.Sprintf("%g", f)
}
