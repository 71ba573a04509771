package monzo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceAndMmod(t *testing.T) {
	primes := NewPrimeTable()
	threeOverOne := FromRatio(primes, 3, 1)
	octave := FromRatio(primes, 2, 1)

	reduced := Reduce(threeOverOne, octave)
	v, ok := ValueOf(reduced)
	assert.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-9)

	exactlyOctave := FromRatio(primes, 2, 1)
	mmod := Mmod(exactlyOctave, octave)
	mv, _ := ValueOf(mmod)
	assert.InDelta(t, 2.0, mv, 1e-9) // inclusive upper bound keeps 2/1 at 2/1
}

func TestRoundTo(t *testing.T) {
	primes := NewPrimeTable()
	a := FromRatio(primes, 7, 2) // 3.5
	step := FromRatio(primes, 1, 1)
	got := RoundTo(a, step)
	v, _ := ValueOf(got)
	assert.InDelta(t, 4.0, v, 1e-9)
}

func TestPitchRoundTo(t *testing.T) {
	primes := NewPrimeTable()
	a := FromRatio(primes, 5, 1) // log2(5) ~= 2.32
	octave := FromRatio(primes, 2, 1)
	got := PitchRoundTo(a, octave)
	v, _ := ValueOf(got)
	assert.InDelta(t, 4.0, v, 1e-9) // rounds to 2^2
}

func TestFromFloat(t *testing.T) {
	primes := NewPrimeTable()
	m := FromFloat(primes, 1.5)
	v, ok := ValueOf(m)
	assert.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-6)
}

func TestLensAdd(t *testing.T) {
	primes := NewPrimeTable()
	a := FromRatio(primes, 1, 2)
	b := FromRatio(primes, 1, 3)

	sum := LensAdd(a, b)
	sv, ok := AsExactRatio(sum)
	assert.True(t, ok)
	f, _ := sv.Float64()
	assert.InDelta(t, 1.0/5.0, f, 1e-9)
}
