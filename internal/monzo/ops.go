package monzo

import (
	"math"
	"math/big"

	"github.com/sonicweave-lang/sonicweave/internal/bigq"
)

// Reduce returns a * b^k with integer k chosen so that 1 <= valueOf(result)
// < valueOf(b) (exclusive upper bound): spec 4.1 "reduce(a,b)".
func Reduce(a, b Monzo) Monzo {
	return reduceBy(a, b, false)
}

// Mmod is Reduce's inclusive-upper-bound sibling: 1 <= result <= b: spec 4.1
// "mmod(a,b)".
func Mmod(a, b Monzo) Monzo {
	return reduceBy(a, b, true)
}

func reduceBy(a, b Monzo, inclusive bool) Monzo {
	av, aok := ValueOf(a)
	bv, bok := ValueOf(b)
	if !aok || !bok || bv <= 1 {
		return a
	}
	k := math.Floor(math.Log(av) / math.Log(bv))
	result := Mul(a, mustPowInt(b, -int64(k)))
	rv, _ := ValueOf(result)
	// Float log can be off by one at the boundary; nudge with integer steps.
	// The inclusive variant lifts an exact 1/1 up to b.
	for rv < 1 || (inclusive && rv == 1) {
		result = Mul(result, b)
		rv, _ = ValueOf(result)
	}
	for rv > bv || (!inclusive && rv >= bv) {
		if inclusive && rv == bv {
			break
		}
		result = Mul(result, Inverse(b))
		rv, _ = ValueOf(result)
	}
	return result
}

func mustPowInt(m Monzo, k int64) Monzo {
	out, ok := PowOk(m, new(big.Rat).SetInt64(k))
	if !ok {
		// k is always an integer here, and an integer power of a rational
		// monzo is always exactly representable, so this cannot happen.
		panic("monzo: integer power unexpectedly escaped to real")
	}
	return out
}

// RoundTo performs the "multiply-round" operation: the nearest k*b in the
// linear domain, i.e. round(a/b) * b: spec 4.1 "roundTo(a,b)".
func RoundTo(a, b Monzo) Monzo {
	av, aok := ValueOf(a)
	bv, bok := ValueOf(b)
	if !aok || !bok || bv == 0 {
		return a
	}
	k := math.Round(av / bv)
	return FromBigRatio(a.Primes, big.NewInt(int64(k)), big.NewInt(1)).timesRatio(b)
}

func (m Monzo) timesRatio(b Monzo) Monzo {
	return Mul(m, b)
}

// PitchRoundTo performs the logarithmic-round sibling of RoundTo: the
// nearest b^k: spec 4.1 "pitchRoundTo(a,b)".
func PitchRoundTo(a, b Monzo) Monzo {
	av, aok := ValueOf(a)
	bv, bok := ValueOf(b)
	if !aok || !bok || bv <= 0 || bv == 1 {
		return a
	}
	k := math.Round(math.Log(av) / math.Log(bv))
	return mustPowInt(b, int64(k))
}

// Project reinterprets a as a fraction of b's equave: it returns a value v
// such that v has the same logarithmic position within [1, b) as a has
// within [1, equaveOf(a)): spec 4.1 "project(a,b)". Concretely this raises b
// to the log_equave(a) power.
func Project(a, equave, b Monzo) Monzo {
	av, aok := ValueOf(a)
	ev, eok := ValueOf(equave)
	if !aok || !eok || ev <= 1 {
		return a
	}
	exponent := math.Log(av) / math.Log(ev)
	return PowReal(b, exponent)
}

// PowReal raises m to a real (non-rational) exponent in float64 and returns
// the result's rational approximation as a monzo (via FromFloat); the monzo
// carries no "escaped" marker of its own. Project is its caller.
func PowReal(m Monzo, exponent float64) Monzo {
	v, ok := ValueOf(m)
	if !ok || v <= 0 {
		return m
	}
	result := math.Pow(v, exponent)
	return FromFloat(m.Primes, result)
}

// FromFloat builds a monzo whose residual carries the float's best rational
// approximation at limited precision; used only for values that are known
// to have escaped rational arithmetic upstream (the caller is responsible
// for flagging the result as "real" in the Value layer).
func FromFloat(primes *PrimeTable, f float64) Monzo {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		return Zero(primes)
	}
	neg := r.Sign() < 0
	abs := new(big.Rat).Abs(r)
	m := FromBigRatio(primes, abs.Num(), abs.Denom())
	m.Negative = neg
	return m
}

// LensAdd computes the harmonic sum 1/(1/a + 1/b): spec 4.1 "lensAdd".
func LensAdd(a, b Monzo) Monzo {
	return lensCombine(a, b, true)
}

// LensSub computes the harmonic difference 1/(1/a - 1/b): spec 4.1
// "lensSub".
func LensSub(a, b Monzo) Monzo {
	return lensCombine(a, b, false)
}

// lensCombine computes 1/(1/a +- 1/b) directly in scalar rational space,
// since Monzo has no native "add" operator of its own (its "mul" is the
// linear-domain addition; the lens sum needs true arithmetic addition of
// reciprocals) and refits the result into a fresh monzo.
func lensCombine(a, b Monzo, add bool) Monzo {
	ia, aok := AsExactRatio(Inverse(a))
	ib, bok := AsExactRatio(Inverse(b))
	if !aok || !bok {
		return a
	}
	var sum *big.Rat
	if add {
		sum = bigq.Add(ia, ib)
	} else {
		sum = bigq.Sub(ia, ib)
	}
	if bigq.IsZero(sum) {
		return Zero(a.Primes)
	}
	neg := sum.Sign() < 0
	abs := new(big.Rat).Abs(sum)
	out := FromBigRatio(a.Primes, abs.Denom(), abs.Num())
	out.Negative = neg
	return out
}
