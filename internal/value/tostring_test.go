package value

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sonicweave-lang/sonicweave/internal/monzo"
)

func TestStringFallbackRatio(t *testing.T) {
	primes := monzo.NewPrimeTable()
	fifth := NewExact(monzo.FromRatio(primes, 3, 2), Linear)
	assert.Equal(t, "3/2", fifth.String())

	whole := NewExact(monzo.FromRatio(primes, 4, 1), Linear)
	assert.Equal(t, "4", whole.String())
}

func TestStringFractionNode(t *testing.T) {
	primes := monzo.NewPrimeTable()
	iv := NewExact(monzo.FromRatio(primes, 5, 4), Linear)
	iv = iv.WithNode(Node{Kind: FractionLiteral, Numerator: 5, Denominator: 4})
	assert.Equal(t, "5/4", iv.String())
}

func TestStringNedjiNode(t *testing.T) {
	iv := Interval{Domain: Logarithmic}
	iv = iv.WithNode(Node{Kind: NedjiLiteral, NedjiNumerator: 7, NedjiDivisions: 12})
	assert.Equal(t, "7\\12", iv.String())

	iv2 := iv.WithNode(Node{
		Kind: NedjiLiteral, NedjiNumerator: 7, NedjiDivisions: 12,
		NedjiHasEquave: true, NedjiEquaveNumerator: 3, NedjiEquaveDenom: 1,
	})
	assert.Equal(t, "7\\12<3/1>", iv2.String())
}

func TestStringLabelAndColor(t *testing.T) {
	primes := monzo.NewPrimeTable()
	c := Color{Raw: "#ff0000"}
	iv := NewExact(monzo.FromRatio(primes, 3, 2), Linear).WithLabelColor("fifth", &c)
	assert.Equal(t, `3/2 "fifth" #ff0000`, iv.String())
}

func TestAsExactRatioHelper(t *testing.T) {
	primes := monzo.NewPrimeTable()
	iv := NewExact(monzo.FromRatio(primes, 6, 4), Linear) // normalizes to 3/2
	s, ok := AsExactRatioHelper(iv)
	assert.True(t, ok)
	assert.Equal(t, "3/2", s)

	real := NewReal(1.5, nil, Linear)
	_, ok = AsExactRatioHelper(real)
	assert.False(t, ok)
}
