package value

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sonicweave-lang/sonicweave/internal/monzo"
)

func TestIntervalValueOf(t *testing.T) {
	primes := monzo.NewPrimeTable()
	fifth := NewExact(monzo.FromRatio(primes, 3, 2), Linear)
	assert.InDelta(t, 1.5, fifth.ValueOf(), 1e-9)

	real := NewReal(3.14159, nil, Linear)
	assert.InDelta(t, 3.14159, real.ValueOf(), 1e-9)
}

func TestIntervalIsAbsolute(t *testing.T) {
	primes := monzo.NewPrimeTable()
	rel := NewExact(monzo.FromRatio(primes, 3, 2), Linear)
	assert.False(t, rel.IsAbsolute())

	hz := monzo.FromRatio(primes, 440, 1)
	hz.Time = big.NewRat(-1, 1)
	abs := NewExact(hz, Linear)
	assert.True(t, abs.IsAbsolute())
}

func TestIntervalStepsOnly(t *testing.T) {
	primes := monzo.NewPrimeTable()
	unison := NewExact(monzo.FromRatio(primes, 1, 1), Linear)
	assert.True(t, unison.StepsOnly())

	fifth := NewExact(monzo.FromRatio(primes, 3, 2), Linear)
	assert.False(t, fifth.StepsOnly())
}

func TestWithLabelColor(t *testing.T) {
	primes := monzo.NewPrimeTable()
	iv := NewExact(monzo.FromRatio(primes, 5, 4), Linear)
	c := Color{Raw: "#ff0000"}
	labeled := iv.WithLabelColor("major third", &c)
	assert.Equal(t, "major third", labeled.Label)
	assert.Equal(t, &c, labeled.Color)
	// original is untouched (value receiver copy)
	assert.Equal(t, "", iv.Label)
}

func TestBoolValToInt(t *testing.T) {
	assert.Equal(t, int64(1), BoolVal(true).ToInt())
	assert.Equal(t, int64(0), BoolVal(false).ToInt())
}

func TestRecordValOrderPreserved(t *testing.T) {
	r := NewRecord()
	r.Set("b", StringVal("2"))
	r.Set("a", StringVal("1"))
	r.Set("b", StringVal("2-updated"))
	assert.Equal(t, []string{"b", "a"}, r.Keys)
	v, ok := r.Get("b")
	assert.True(t, ok)
	assert.Equal(t, StringVal("2-updated"), v)
}
