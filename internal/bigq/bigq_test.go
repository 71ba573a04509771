package bigq

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntPow(t *testing.T) {
	tests := []struct {
		name string
		a    *big.Rat
		n    int64
		want *big.Rat
	}{
		{"3/2 squared", New(3, 2), 2, New(9, 4)},
		{"2/1 to the zero", New(2, 1), 0, One},
		{"3/2 to the negative one", New(3, 2), -1, New(2, 3)},
		{"4/1 to the negative two", New(4, 1), -2, New(1, 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntPow(tt.a, tt.n)
			assert.Equal(t, 0, tt.want.Cmp(got))
		})
	}
}

func TestPow(t *testing.T) {
	tests := []struct {
		name   string
		a      *big.Rat
		exp    *big.Rat
		want   *big.Rat
		wantOk bool
	}{
		{"9/4 to the 1/2 is exact", New(9, 4), New(1, 2), New(3, 2), true},
		{"2/1 to the 1/2 is inexact", New(2, 1), New(1, 2), nil, false},
		{"3/2 to the 1/3 is inexact", New(3, 2), New(1, 3), nil, false},
		{"5/1 to the 2/1 is exact integer power", New(5, 1), New(2, 1), New(25, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pow(tt.a, tt.exp)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, 0, tt.want.Cmp(got))
			}
		})
	}
}

func TestIsIntegerAndIsZero(t *testing.T) {
	assert.True(t, IsInteger(New(4, 1)))
	assert.False(t, IsInteger(New(3, 2)))
	assert.True(t, IsZero(New(0, 1)))
	assert.False(t, IsZero(New(1, 1)))
}

func TestFloat64(t *testing.T) {
	assert.InDelta(t, 1.5, Float64(New(3, 2)), 1e-9)
}
