package monzo

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatentVal12edo(t *testing.T) {
	primes := NewPrimeTable()
	octave := FromRatio(primes, 2, 1)
	v := PatentVal(primes, 12, octave)

	// 2/1 maps to exactly 12 steps, 3/2 (fifth) to the nearest of 7.
	two := FromRatio(primes, 2, 1)
	assert.Equal(t, 0, MapInterval(v, two).Cmp(big.NewRat(12, 1)))

	fifth := FromRatio(primes, 3, 2)
	assert.Equal(t, 0, MapInterval(v, fifth).Cmp(big.NewRat(7, 1)))
}

func TestMapIntervalAndDotVals(t *testing.T) {
	primes := NewPrimeTable()
	octave := FromRatio(primes, 2, 1)
	v12 := PatentVal(primes, 12, octave)
	v19 := PatentVal(primes, 19, octave)

	dot := DotVals(v12, v19)
	assert.NotNil(t, dot)

	sum := AddVals(v12, v19)
	fifth := FromRatio(primes, 3, 2)
	got := MapInterval(sum, fifth)
	want := new(big.Rat).Add(MapInterval(v12, fifth), MapInterval(v19, fifth))
	assert.Equal(t, 0, got.Cmp(want))
}

func TestScaleMulDiv(t *testing.T) {
	primes := NewPrimeTable()
	octave := FromRatio(primes, 2, 1)
	v := PatentVal(primes, 12, octave)

	doubled := ScaleMul(v, big.NewRat(2, 1))
	fifth := FromRatio(primes, 3, 2)
	got := MapInterval(doubled, fifth)
	want := new(big.Rat).Mul(MapInterval(v, fifth), big.NewRat(2, 1))
	assert.Equal(t, 0, got.Cmp(want))

	back := ScaleDiv(doubled, big.NewRat(2, 1))
	assert.Equal(t, 0, MapInterval(back, fifth).Cmp(MapInterval(v, fifth)))
}

func TestWartsToVal(t *testing.T) {
	primes := NewPrimeTable()
	octave := FromRatio(primes, 2, 1)
	patent := PatentVal(primes, 12, octave)
	warty := WartsToVal(primes, 12, octave, "b") // "b" bumps the 2nd mapped prime (3)

	assert.NotEqual(t, patent.Mapping.Exponents[1].String(), warty.Mapping.Exponents[1].String())
}
