package fjs

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sonicweave-lang/sonicweave/internal/monzo"
)

func TestCommaForPythagoreanPrimes(t *testing.T) {
	primes := monzo.NewPrimeTable()
	for _, p := range []int64{2, 3} {
		c := CommaFor(primes, big.NewInt(p), NeutralN)
		v, ok := monzo.ValueOf(c)
		assert.True(t, ok)
		assert.InDelta(t, 1.0, v, 1e-9)
	}
}

func TestCommaForFixedTable(t *testing.T) {
	primes := monzo.NewPrimeTable()
	c := CommaFor(primes, big.NewInt(5), HelmholtzEllisH)
	v, ok := monzo.AsExactRatio(c)
	assert.True(t, ok)
	assert.Equal(t, 0, v.Cmp(big.NewRat(80, 81)))
}

func TestCommaForNeutralMasterIsOctaveReduced(t *testing.T) {
	primes := monzo.NewPrimeTable()
	c := CommaFor(primes, big.NewInt(5), NeutralN)
	v, ok := monzo.ValueOf(c)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, v, 1.0)
	assert.Less(t, v, 2.0)
}

func TestFlavorString(t *testing.T) {
	tests := []struct {
		f    Flavor
		want string
	}{
		{FormalC, "c"},
		{NeutralN, "n"},
		{HelmholtzEllisH, "h"},
		{SyntonicRastmicS, "s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.f.String())
	}
}
