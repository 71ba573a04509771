package monzo

import (
	"math"
	"math/big"
)

// Val is a linear map from intervals to integers (spec 3.4 / 4.5),
// represented dually as a monzo-shaped vector of per-prime mapping steps,
// together with the equave it normalizes against (usually the octave).
type Val struct {
	Mapping Monzo // integer-valued in the common case; rational in general
	Equave  Monzo
}

// AddVals sums two vals' per-prime maps: spec 4.5 "+ between two vals".
func AddVals(a, b Val) Val {
	n := widthOf(a.Mapping, b.Mapping)
	exps := make([]*big.Rat, n)
	for i := 0; i < n; i++ {
		exps[i] = addRat(a.Mapping.exp(i), b.Mapping.exp(i))
	}
	return Val{Mapping: Monzo{Time: a.Mapping.Time, Exponents: exps, Residual: a.Mapping.Residual, Primes: a.Mapping.Primes}, Equave: a.Equave}
}

// SubVals is AddVals' counterpart: spec 4.5 "- between two vals".
func SubVals(a, b Val) Val {
	return AddVals(a, negateVal(b))
}

func negateVal(v Val) Val {
	exps := make([]*big.Rat, len(v.Mapping.Exponents))
	for i, e := range v.Mapping.Exponents {
		exps[i] = new(big.Rat).Neg(e)
	}
	return Val{Mapping: Monzo{Time: v.Mapping.Time, Exponents: exps, Residual: v.Mapping.Residual, Primes: v.Mapping.Primes}, Equave: v.Equave}
}

func addRat(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Add(a, b)
}

// ScaleMul multiplies a val by a linear scalar count: spec 4.5 "x between val
// and linear interval".
func ScaleMul(v Val, k *big.Rat) Val {
	exps := make([]*big.Rat, len(v.Mapping.Exponents))
	for i, e := range v.Mapping.Exponents {
		exps[i] = new(big.Rat).Mul(e, k)
	}
	return Val{Mapping: Monzo{Time: v.Mapping.Time, Exponents: exps, Residual: v.Mapping.Residual, Primes: v.Mapping.Primes}, Equave: v.Equave}
}

// ScaleDiv divides a val by a linear scalar count: spec 4.5 "/ between val
// and linear interval".
func ScaleDiv(v Val, k *big.Rat) Val {
	return ScaleMul(v, new(big.Rat).Inv(k))
}

// MapInterval evaluates the val's map against an interval monzo, returning
// the rational step count: spec 4.5 "dot between val and interval".
func MapInterval(v Val, i Monzo) *big.Rat {
	return Dot(v.Mapping, i)
}

// DotVals computes the inner product of two vals: spec 4.5 "dot between two
// vals".
func DotVals(a, b Val) *big.Rat {
	return Dot(a.Mapping, b.Mapping)
}

// Temper projects an interval to the nearest integer multiple of the val's
// step size within its equave: spec 4.5 "tmpr".
func Temper(v Val, i Monzo) Monzo {
	equaveCents := Cents(v.Equave)
	if equaveCents <= 0 {
		return i
	}
	stepsPerEquave, _ := MapInterval(v, v.Equave).Float64()
	if stepsPerEquave == 0 {
		return i
	}
	stepSize := equaveCents / stepsPerEquave
	targetCents := Cents(i)
	steps := math.Round(targetCents / stepSize)
	ratio := math.Pow(2, steps*stepSize/1200)
	return FromFloat(i.Primes, ratio)
}

// PatentVal returns the val that maps every prime currently in the table to
// the nearest integer number of steps of edo-per-equave, i.e. the
// ordinary patent val used as the base for warts adjustments.
func PatentVal(primes *PrimeTable, edo int, equave Monzo) Val {
	n := primes.Len()
	exps := make([]*big.Rat, n)
	equaveCents := Cents(equave)
	for i := 0; i < n; i++ {
		p := FromBigRatio(primes, primes.Nth(i), big.NewInt(1))
		pc := Cents(p)
		steps := math.Round(float64(edo) * pc / equaveCents)
		exps[i] = new(big.Rat).SetInt64(int64(steps))
	}
	return Val{
		Mapping: Monzo{Time: bigq0(), Exponents: exps, Residual: bigq1(), Primes: primes},
		Equave:  equave,
	}
}

func bigq0() *big.Rat { return big.NewRat(0, 1) }
func bigq1() *big.Rat { return big.NewRat(1, 1) }

// WartsToVal constructs a Val from the warts literal syntax (e.g. "17c@7"):
// edo is the base division count, and each letter of wartLetters names a
// prime by its table position ('a' = 2, 'b' = 3, 'c' = 5, ...). A prime whose
// letter occurs an odd number of times maps to one step more than its patent
// value; an even number of occurrences leaves the patent value. Every prime
// currently in the table is mapped; no subgroup basis is applied.
func WartsToVal(primes *PrimeTable, edo int, equave Monzo, wartLetters string) Val {
	base := PatentVal(primes, edo, equave)
	counts := make(map[byte]int)
	for i := 0; i < len(wartLetters); i++ {
		c := wartLetters[i]
		if c >= 'A' && c <= 'Z' {
			c = c - 'A' + 'a'
		}
		counts[c]++
	}
	for i := range base.Mapping.Exponents {
		letter := byte('a' + i)
		n, ok := counts[letter]
		if !ok || n == 0 {
			continue
		}
		// Each occurrence of a letter shifts its prime's mapped step by one
		// away from the patent value; an even number of occurrences cancels
		// back out, matching the usual warts convention.
		var delta int64
		if n%2 != 0 {
			delta = 1
		}
		base.Mapping.Exponents[i] = new(big.Rat).Add(base.Mapping.Exponents[i], big.NewRat(delta, 1))
	}
	return base
}

// SparseOffsetToVal constructs a Val from the "17[^5,-3]@2.3.5" sparse-offset
// syntax: edo is the base division, offsets maps a prime-table index to an
// explicit integer step offset from the patent value.
func SparseOffsetToVal(primes *PrimeTable, edo int, equave Monzo, offsets map[int]int64) Val {
	base := PatentVal(primes, edo, equave)
	for idx, off := range offsets {
		for len(base.Mapping.Exponents) <= idx {
			base.Mapping.Exponents = append(base.Mapping.Exponents, big.NewRat(0, 1))
		}
		base.Mapping.Exponents[idx] = new(big.Rat).Add(base.Mapping.Exponents[idx], big.NewRat(off, 1))
	}
	return base
}
