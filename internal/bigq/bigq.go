// Package bigq adds the small set of rational-arithmetic helpers the monzo
// and value packages need on top of math/big.Rat: exact integer powers,
// integer-ness tests and a few constructors that show up on every call site.
package bigq

import "math/big"

var (
	Zero = big.NewRat(0, 1)
	One  = big.NewRat(1, 1)
)

// New is a convenience constructor for a small-integer rational.
func New(n, d int64) *big.Rat {
	return big.NewRat(n, d)
}

// IsZero reports whether r is exactly 0.
func IsZero(r *big.Rat) bool {
	return r.Sign() == 0
}

// IsInteger reports whether r has denominator 1.
func IsInteger(r *big.Rat) bool {
	return r.IsInt()
}

// Add returns a+b without mutating either argument.
func Add(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Add(a, b)
}

// Sub returns a-b without mutating either argument.
func Sub(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Sub(a, b)
}

// Mul returns a*b without mutating either argument.
func Mul(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Mul(a, b)
}

// Quo returns a/b without mutating either argument. Panics if b is zero,
// same as math/big.Rat.Quo.
func Quo(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Quo(a, b)
}

// Neg returns -a.
func Neg(a *big.Rat) *big.Rat {
	return new(big.Rat).Neg(a)
}

// Inv returns 1/a.
func Inv(a *big.Rat) *big.Rat {
	return new(big.Rat).Inv(a)
}

// IntPow raises a to the integer power n (n may be negative). It never
// escapes: an integer power of a rational is always a rational.
func IntPow(a *big.Rat, n int64) *big.Rat {
	if n == 0 {
		return new(big.Rat).Set(One)
	}
	neg := n < 0
	if neg {
		n = -n
	}
	num := new(big.Int).Set(a.Num())
	den := new(big.Int).Set(a.Denom())
	rn := new(big.Int).Exp(num, big.NewInt(n), nil)
	rd := new(big.Int).Exp(den, big.NewInt(n), nil)
	out := new(big.Rat).SetFrac(rn, rd)
	if neg {
		out.Inv(out)
	}
	return out
}

// Pow raises a to a rational power exp. Integer powers, any power of 1/1 and
// square roots that come out even are exact; every other case returns
// ok=false so the caller can escape to the real fallback instead of
// silently truncating.
func Pow(a *big.Rat, exp *big.Rat) (result *big.Rat, ok bool) {
	if IsInteger(exp) {
		return IntPow(a, exp.Num().Int64()), true
	}
	if a.Cmp(One) == 0 {
		return new(big.Rat).Set(One), true
	}
	if exp.Denom().Int64() != 2 {
		// Only square roots are attempted exactly; higher roots almost
		// never land on an exact rational for the ratios this language
		// manipulates, so they escape directly.
		return nil, false
	}
	// a^(k/2): try an exact integer square root of num^k and den^k.
	whole := IntPow(a, exp.Num().Int64())
	sqrtNum, okN := isqrt(whole.Num())
	sqrtDen, okD := isqrt(whole.Denom())
	if !okN || !okD {
		return nil, false
	}
	return new(big.Rat).SetFrac(sqrtNum, sqrtDen), true
}

func isqrt(n *big.Int) (*big.Int, bool) {
	if n.Sign() < 0 {
		return nil, false
	}
	r := new(big.Int).Sqrt(n)
	check := new(big.Int).Mul(r, r)
	if check.Cmp(n) != 0 {
		return nil, false
	}
	return r, true
}

// Float64 converts r to a float64, same helper spelled out at every call
// site that needs the real fallback.
func Float64(r *big.Rat) float64 {
	f, _ := new(big.Float).SetRat(r).Float64()
	return f
}
