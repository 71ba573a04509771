package value

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/sonicweave-lang/sonicweave/internal/monzo"
)

var oneBig = big.NewInt(1)

// String implements spec 4.4's toString: it dispatches on the Node that
// produced the interval (so a value keeps the notation the user wrote it
// in, except that a relative FJS node prints as a "<fjs value>" placeholder
// rather than its FJS spelling), falling back to a canonical ratio or
// decimal printout once the node has been erased by arithmetic
// (Node.Kind == NoNode).
func (iv Interval) String() string {
	s := iv.formatCore()
	if iv.Label != "" {
		s += " \"" + iv.Label + "\""
	}
	if iv.Color != nil && !iv.Color.IsNiente() {
		s += " " + iv.Color.Raw
	}
	return s
}

func (iv Interval) formatCore() string {
	n := iv.Node
	switch n.Kind {
	case FractionLiteral:
		return fmt.Sprintf("%d/%d", n.Numerator, n.Denominator)
	case NedjiLiteral:
		if n.NedjiHasEquave {
			return fmt.Sprintf("%d\\%d<%d/%d>", n.NedjiNumerator, n.NedjiDivisions, n.NedjiEquaveNumerator, n.NedjiEquaveDenom)
		}
		return fmt.Sprintf("%d\\%d", n.NedjiNumerator, n.NedjiDivisions)
	case CentsLiteral, CentLiteral:
		return n.CentsText + "c"
	case DecimalLiteral:
		if n.DecimalReal {
			return n.DecimalText + "r"
		}
		return n.DecimalText
	case IntegerLiteral:
		if iv.Real {
			return fmt.Sprintf("%g", iv.RealValue)
		}
		if r, ok := AsExactRatioHelper(iv); ok {
			return r
		}
		return fmt.Sprintf("%g", iv.ValueOf())
	case HertzLiteral:
		return fmt.Sprintf("%gHz", iv.ValueOf())
	case SecondLiteral:
		return fmt.Sprintf("%gs", iv.ValueOf())
	case RadicalLiteral:
		return fmt.Sprintf("%d^%d/%d", radicandOf(iv), n.Numerator, n.Denominator)
	case SquareSuperparticular:
		return fmt.Sprintf("S%d", n.SquareIndex)
	case StepLiteral:
		return fmt.Sprintf("%d\\", iv.Steps)
	case FJS:
		return fmt.Sprintf("<fjs %g>", iv.ValueOf())
	case AbsoluteFJS:
		acc := n.Accidentals
		return fmt.Sprintf("%c%s%d", n.Nominal, acc, n.Octave)
	case MonzoLiteral:
		return formatMonzoVector(iv)
	}
	if iv.Real {
		return fmt.Sprintf("%g", iv.RealValue)
	}
	if r, ok := AsExactRatioHelper(iv); ok {
		return r
	}
	if s, ok := nedjiRederive(iv); ok {
		return s
	}
	return fmt.Sprintf("%g", iv.ValueOf())
}

// nedjiRederive covers spec 4.2.2's "none (reprinting will re-derive)" node
// for a Logarithmic-domain value whose literal node was erased by plain-form
// arithmetic: when the underlying monzo is nothing but a fractional power of
// the equave (prime 2), it still has a faithful n\d reading even though
// AsExactRatioHelper can't print it as a plain ratio.
func nedjiRederive(iv Interval) (string, bool) {
	if iv.Domain != Logarithmic {
		return "", false
	}
	exp, ok := monzo.PureExponent(iv.Exact, 0)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s\\%s", exp.Num().String(), exp.Denom().String()), true
}

func radicandOf(iv Interval) int64 {
	v := iv.ValueOf()
	return int64(math.Pow(v, float64(iv.Node.Denominator)/float64(iv.Node.Numerator)) + 0.5)
}

func formatMonzoVector(iv Interval) string {
	var parts []string
	for _, e := range iv.Exact.Exponents {
		parts = append(parts, e.RatString())
	}
	return "[" + strings.Join(parts, ", ") + ">"
}

// AsExactRatioHelper prints iv's scalar value as "n" or "n/d" when it has an
// exact rational value.
func AsExactRatioHelper(iv Interval) (string, bool) {
	if iv.Real {
		return "", false
	}
	r, ok := monzo.AsExactRatio(iv.Exact)
	if !ok {
		return "", false
	}
	if r.Denom().Cmp(oneBig) == 0 {
		return r.Num().String(), true
	}
	return r.Num().String() + "/" + r.Denom().String(), true
}
