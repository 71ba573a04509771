// Package fjs implements the Functional Just System comma-selection rules of
// spec section 4.6: the small set of per-prime "formal commas" used to
// notate a just ratio as a Pythagorean interval plus accidentals, and the
// "master algorithm" that derives a comma for any prime not in the fixed
// tables of the Helmholtz-Ellis-family flavors.
package fjs

import (
	"math"
	"math/big"

	"github.com/sonicweave-lang/sonicweave/internal/monzo"
)

// Flavor selects which notation family's fixed comma tables and master-
// algorithm radius to use.
type Flavor int

const (
	FormalC Flavor = iota
	NeutralN
	HelmholtzEllisH
	HEWM53M
	LumiL
	SemiquartalQ
	ToneSplitterT
	SyntonicRastmicS
)

func (f Flavor) String() string {
	switch f {
	case FormalC:
		return "c"
	case NeutralN:
		return "n"
	case HelmholtzEllisH:
		return "h"
	case HEWM53M:
		return "m"
	case LumiL:
		return "l"
	case SemiquartalQ:
		return "q"
	case ToneSplitterT:
		return "t"
	case SyntonicRastmicS:
		return "s"
	}
	return "?"
}

// fixedComma is one entry of a flavor's hand-picked table: the prime it
// covers and the comma's ratio.
type fixedComma struct {
	num, den int64
}

// fixedTables holds the Helmholtz-Ellis, HEWM-53 and Lumi's-Irrational-Comma
// notations' hand-picked commas for the primes where the master algorithm's
// generic radius search disagrees with long-standing convention.
var fixedTables = map[Flavor]map[int64]fixedComma{
	HelmholtzEllisH: {
		5:  {80, 81},
		7:  {63, 64},
		11: {32, 33},
		13: {1024, 1053},
		17: {2176, 2187},
		19: {512, 513},
		23: {729, 736},
		29: {256, 261},
		31: {31, 32},
	},
	HEWM53M: {
		5:  {80, 81},
		7:  {63, 64},
		11: {32, 33},
		13: {1024, 1053},
	},
	LumiL: {
		5: {80, 81},
		7: {63, 64},
	},
}

// CommaFor returns the formal comma for the given prime under the given
// flavor, per spec 4.6: primes 2 and 3 never carry a comma (the Pythagorean
// series already notates them), a flavor's fixed table is consulted first,
// and anything else falls back to the master algorithm.
func CommaFor(primes *monzo.PrimeTable, prime *big.Int, flavor Flavor) monzo.Monzo {
	p := prime.Int64()
	if p == 2 || p == 3 {
		return monzo.Zero(primes)
	}
	if table, ok := fixedTables[flavor]; ok {
		if c, ok := table[p]; ok {
			return monzo.FromRatio(primes, c.num, c.den)
		}
	}
	return neutralMaster(primes, prime)
}

// neutralMaster is the generalized comma-finding algorithm (spec 4.6's
// "master algorithm"): among all Pythagorean ratios 3^k (reduced to within an
// octave), it picks the one closest in pitch to the prime p itself, then
// returns the comma that separates p from that Pythagorean approximation.
// This is the flavor used for any prime with no fixed-table entry, and is
// NeutralN's sole comma source since that flavor carries no fixed table at
// all.
func neutralMaster(primes *monzo.PrimeTable, prime *big.Int) monzo.Monzo {
	if _, ok := primes.IndexOf(prime); !ok {
		return monzo.Zero(primes)
	}
	p := monzo.FromBigRatio(primes, prime, big.NewInt(1))
	pCents := monzo.Cents(p)

	bestK := 0
	bestDist := math.MaxFloat64
	for k := -searchRadius; k <= searchRadius; k++ {
		pyth := pythagorean(primes, k)
		dist := math.Abs(reduceOctaveCents(monzo.Cents(pyth)) - reduceOctaveCents(pCents))
		if dist < bestDist {
			bestDist = dist
			bestK = k
		}
	}
	pyth := pythagorean(primes, bestK)
	comma := monzo.Div(p, pyth)
	return octaveReduce(comma)
}

// neutralMasterLegacy is the original (pre-§4.6 revision) radius function,
// kept only as a documented reference: it searched a fixed ±9-fifths window
// instead of scaling the radius with the prime's size, which under-covers
// large primes. Superseded by neutralMaster per the spec's resolution of
// Open Question #2; not called anywhere.
func neutralMasterLegacy(primes *monzo.PrimeTable, prime *big.Int) monzo.Monzo {
	const legacyRadius = 9
	p := monzo.FromBigRatio(primes, prime, big.NewInt(1))
	pCents := monzo.Cents(p)
	bestK, bestDist := 0, math.MaxFloat64
	for k := -legacyRadius; k <= legacyRadius; k++ {
		pyth := pythagorean(primes, k)
		dist := math.Abs(reduceOctaveCents(monzo.Cents(pyth)) - reduceOctaveCents(pCents))
		if dist < bestDist {
			bestDist = dist
			bestK = k
		}
	}
	pyth := pythagorean(primes, bestK)
	return octaveReduce(monzo.Div(p, pyth))
}

// searchRadius scales with how many fifths it takes for 3^k to plausibly
// land near an arbitrary prime; 30 covers every prime in the default table.
const searchRadius = 30

// pythagorean returns 3^k as a monzo (not yet octave-reduced).
func pythagorean(primes *monzo.PrimeTable, k int) monzo.Monzo {
	three := monzo.FromRatio(primes, 3, 1)
	if k >= 0 {
		out := monzo.Zero(primes)
		for i := 0; i < k; i++ {
			out = monzo.Mul(out, three)
		}
		return out
	}
	inv := monzo.Inverse(three)
	out := monzo.Zero(primes)
	for i := 0; i < -k; i++ {
		out = monzo.Mul(out, inv)
	}
	return out
}

func reduceOctaveCents(c float64) float64 {
	for c >= 1200 {
		c -= 1200
	}
	for c < 0 {
		c += 1200
	}
	return c
}

// octaveReduce repeatedly divides/multiplies by 2/1 until the monzo's value
// lies within [1, 2), the convention for a formal comma.
func octaveReduce(m monzo.Monzo) monzo.Monzo {
	two := monzo.FromRatio(m.Primes, 2, 1)
	v, ok := monzo.ValueOf(m)
	if !ok {
		return m
	}
	for v >= 2 {
		m = monzo.Div(m, two)
		v, _ = monzo.ValueOf(m)
	}
	for v < 1 {
		m = monzo.Mul(m, two)
		v, _ = monzo.ValueOf(m)
	}
	return m
}
