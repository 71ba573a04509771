package value

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque CSS color string (spec 3.1), validated and normalized
// through go-colorful the same way internal/views/mixer.go parses level-
// meter gradient stops in the teacher.
type Color struct {
	Raw string
}

// Niente clears a color (spec 4.2.3 "Explicit color niente clears the
// color").
var Niente = Color{Raw: "niente"}

// IsNiente reports whether c represents the cleared-color sentinel.
func (c Color) IsNiente() bool { return c.Raw == "" || c.Raw == "niente" }

// ParseColor validates s as "niente", a hex color go-colorful can parse, or
// one of a handful of named colors (stored as their hex form), returning an
// error for anything else; "rgb(...)" and other CSS color functions are not
// accepted.
func ParseColor(s string) (Color, error) {
	if s == "" || s == "niente" {
		return Niente, nil
	}
	if _, err := colorful.Hex(s); err == nil {
		return Color{Raw: s}, nil
	}
	// go-colorful only parses #hex directly; a handful of named CSS colors
	// are looked up in a fixed table of hex values.
	if hex, ok := namedColors[s]; ok {
		return Color{Raw: hex}, nil
	}
	return Color{}, fmt.Errorf("color: %q is not a recognized color", s)
}

// Blend linearly interpolates two colors in Lab space at t in [0,1], backing
// the "interpolateColor" standard-library builtin.
func Blend(a, b Color, t float64) (Color, error) {
	ca, err := colorful.Hex(a.Raw)
	if err != nil {
		return Color{}, err
	}
	cb, err := colorful.Hex(b.Raw)
	if err != nil {
		return Color{}, err
	}
	return Color{Raw: ca.BlendLab(cb, t).Hex()}, nil
}

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"gray":    "#808080",
	"grey":    "#808080",
	"orange":  "#ffa500",
	"purple":  "#800080",
}
