package monzo

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRatioValueOf(t *testing.T) {
	tests := []struct {
		name string
		n, d int64
		want float64
	}{
		{"octave", 2, 1, 2.0},
		{"perfect fifth", 3, 2, 1.5},
		{"syntonic comma", 81, 80, 81.0 / 80.0},
		{"unison", 1, 1, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromRatio(NewPrimeTable(), tt.n, tt.d)
			got, ok := ValueOf(m)
			assert.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestMulDivInverse(t *testing.T) {
	primes := NewPrimeTable()
	fifth := FromRatio(primes, 3, 2)
	fourth := FromRatio(primes, 4, 3)

	octave := Mul(fifth, fourth)
	v, ok := ValueOf(octave)
	assert.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-9)

	back := Div(octave, fourth)
	assert.True(t, Equals(back, fifth, true))

	unison := Mul(fifth, Inverse(fifth))
	uv, ok := ValueOf(unison)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, uv, 1e-9)
}

func TestPowOk(t *testing.T) {
	primes := NewPrimeTable()
	fifth := FromRatio(primes, 3, 2)

	squared, ok := PowOk(fifth, big.NewRat(2, 1))
	assert.True(t, ok)
	v, _ := ValueOf(squared)
	assert.InDelta(t, 2.25, v, 1e-9)

	// 11 lies outside the 2.3.5.7 table and stays in the residual, which is
	// not a perfect square, so a half power must escape to the real fallback
	// rather than silently truncate.
	_, ok = PowOk(FromRatio(primes, 11, 1), big.NewRat(1, 2))
	assert.False(t, ok)

	ninth := FromRatio(primes, 9, 4)
	root, ok := PowOk(ninth, big.NewRat(1, 2))
	assert.True(t, ok)
	assert.True(t, Equals(root, fifth, true))
}

func TestEqualsStrictVsWeak(t *testing.T) {
	primes := NewPrimeTable()
	a := FromRatio(primes, 3, 2)
	b := FromRatio(primes, 3, 2)
	assert.True(t, Equals(a, b, true))
	assert.True(t, Equals(a, b, false))

	c := FromRatio(primes, 6, 4)
	assert.True(t, Equals(a, c, true))
}

func TestAsExactRatio(t *testing.T) {
	primes := NewPrimeTable()
	m := FromRatio(primes, 10, 1)
	r, ok := AsExactRatio(m)
	assert.True(t, ok)
	assert.Equal(t, 0, r.Cmp(big.NewRat(10, 1)))
}

func TestCents(t *testing.T) {
	primes := NewPrimeTable()
	octave := FromRatio(primes, 2, 1)
	assert.InDelta(t, 1200.0, Cents(octave), 1e-6)

	unison := FromRatio(primes, 1, 1)
	assert.InDelta(t, 0.0, Cents(unison), 1e-9)
}

func TestPrimeTableGrowsAndIndexes(t *testing.T) {
	primes := NewPrimeTable()
	assert.Equal(t, big.NewInt(2), primes.Nth(0))
	assert.Equal(t, big.NewInt(11), primes.Nth(4))

	idx, ok := primes.IndexOf(big.NewInt(7))
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = primes.IndexOf(big.NewInt(4))
	assert.False(t, ok)
}

func TestFactor(t *testing.T) {
	primes := NewPrimeTable()
	exps, residual := primes.Factor(big.NewInt(360), 3) // 360 = 2^3 * 3^2 * 5
	assert.Equal(t, []int64{3, 2, 1, 0}, exps)
	assert.Equal(t, 0, residual.Cmp(big.NewInt(1)))
}
