package monzo

import "math/big"

// PrimeTable is the process-wide, append-only list of primes backing every
// monzo's exponent vector. It grows on demand (Nth) and never shrinks:
// once a monzo has been built against N primes, index N-1 stays valid for
// the lifetime of the process.
type PrimeTable struct {
	primes []*big.Int
	limit  int
}

// DefaultLimit caps how many table indices IndexOf and Factor walk; Nth
// itself is not bounded by it.
const DefaultLimit = 10000

// NewPrimeTable returns a table seeded with the first 2/3/5/7 primes, which
// covers the overwhelming majority of just-intonation subgroups used in
// practice, growing further only when asked.
func NewPrimeTable() *PrimeTable {
	t := &PrimeTable{limit: DefaultLimit}
	t.primes = []*big.Int{
		big.NewInt(2), big.NewInt(3), big.NewInt(5), big.NewInt(7),
	}
	return t
}

// Len returns how many primes have been computed so far.
func (t *PrimeTable) Len() int { return len(t.primes) }

// Nth returns the i-th prime (0-indexed: Nth(0) == 2), growing the table if
// needed.
func (t *PrimeTable) Nth(i int) *big.Int {
	for len(t.primes) <= i {
		t.primes = append(t.primes, nextPrime(t.primes[len(t.primes)-1]))
	}
	return t.primes[i]
}

// IndexOf returns the index of prime p in the table, extending the table to
// find it, and false if p exceeds the configured search limit.
func (t *PrimeTable) IndexOf(p *big.Int) (int, bool) {
	for i := 0; i < t.limit; i++ {
		if t.Nth(i).Cmp(p) == 0 {
			return i, true
		}
		if t.Nth(i).Cmp(p) > 0 {
			return 0, false
		}
	}
	return 0, false
}

func nextPrime(after *big.Int) *big.Int {
	n := new(big.Int).Add(after, big.NewInt(1))
	if n.Bit(0) == 0 {
		n.Add(n, big.NewInt(1))
	}
	for !n.ProbablyPrime(20) {
		n.Add(n, big.NewInt(2))
	}
	return n
}

// Factor decomposes n (n > 0) into exponents over the table's primes up to
// maxPrimeIndex (extending the table as needed) and a residual that could
// not be factored within that window. Used by Monzo.normalize to push newly
// discovered prime factors of the residual into e[].
//
// n == 0 has no prime factorization (trial division never terminates, since
// 0 is divisible by every prime arbitrarily many times); it is carried
// through as a zero residual with all-zero exponents instead.
func (t *PrimeTable) Factor(n *big.Int, maxPrimeIndex int) (exps []int64, residual *big.Int) {
	if n.Sign() == 0 {
		return make([]int64, maxPrimeIndex+1), big.NewInt(0)
	}
	rem := new(big.Int).Abs(n)
	exps = make([]int64, 0, maxPrimeIndex+1)
	for i := 0; i <= maxPrimeIndex && i < t.limit; i++ {
		p := t.Nth(i)
		count := int64(0)
		for {
			q, r := new(big.Int).QuoRem(rem, p, new(big.Int))
			if r.Sign() != 0 {
				break
			}
			rem = q
			count++
		}
		exps = append(exps, count)
	}
	return exps, rem
}
