package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantRaw string
		wantErr bool
	}{
		{"empty is niente", "", "niente", false},
		{"explicit niente", "niente", "niente", false},
		{"hex", "#ff0000", "#ff0000", false},
		{"named", "red", "#ff0000", false},
		{"garbage", "not-a-color", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantRaw, c.Raw)
		})
	}
}

func TestIsNiente(t *testing.T) {
	assert.True(t, Niente.IsNiente())
	assert.True(t, Color{}.IsNiente())
	assert.False(t, Color{Raw: "#000000"}.IsNiente())
}

func TestBlend(t *testing.T) {
	a := Color{Raw: "#000000"}
	b := Color{Raw: "#ffffff"}
	mid, err := Blend(a, b, 0.5)
	assert.NoError(t, err)
	assert.NotEqual(t, "", mid.Raw)

	start, err := Blend(a, b, 0)
	assert.NoError(t, err)
	assert.Equal(t, "#000000", start.Raw)
}
