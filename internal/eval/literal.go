package eval

import (
	"fmt"
	"math"
	"math/big"

	"github.com/sonicweave-lang/sonicweave/internal/ast"
	"github.com/sonicweave-lang/sonicweave/internal/fjs"
	"github.com/sonicweave-lang/sonicweave/internal/monzo"
	"github.com/sonicweave-lang/sonicweave/internal/value"
)

func (in *Interp) evalLiteral(e ast.Expr) (Value, error) {
	pt := primes(in)
	switch n := e.(type) {
	case ast.IntegerLit:
		m := monzo.FromRatio(pt, n.Value, 1)
		iv := value.NewExact(m, value.Linear)
		iv.Node = value.Node{Kind: value.IntegerLiteral}
		return iv, nil

	case ast.FractionLit:
		m := monzo.FromRatio(pt, n.Num, n.Den)
		iv := value.NewExact(m, value.Linear)
		iv.Node = value.Node{Kind: value.FractionLiteral, Numerator: n.Num, Denominator: n.Den}
		return iv, nil

	case ast.DecimalLit:
		r, ok := new(big.Rat).SetString(n.Text)
		if !ok {
			return nil, fmt.Errorf("eval: invalid decimal literal %q", n.Text)
		}
		if n.Real {
			f, _ := r.Float64()
			iv := value.NewReal(f, big.NewRat(0, 1), value.Linear)
			iv.Node = value.Node{Kind: value.DecimalLiteral, DecimalText: n.Text, DecimalReal: true}
			return iv, nil
		}
		m := monzo.FromBigRatio(pt, r.Num(), r.Denom())
		iv := value.NewExact(m, value.Linear)
		iv.Node = value.Node{Kind: value.DecimalLiteral, DecimalText: n.Text}
		return iv, nil

	case ast.RadicalLit:
		base := monzo.FromRatio(pt, n.Radicand, 1)
		exp := big.NewRat(n.Num, n.Den)
		if m, ok := monzo.PowOk(base, exp); ok {
			iv := value.NewExact(m, value.Linear)
			iv.Node = value.Node{Kind: value.RadicalLiteral, Numerator: n.Num, Denominator: n.Den}
			return iv, nil
		}
		f := math.Pow(float64(n.Radicand), float64(n.Num)/float64(n.Den))
		iv := value.NewReal(f, big.NewRat(0, 1), value.Linear)
		iv.Node = value.Node{Kind: value.RadicalLiteral, Numerator: n.Num, Denominator: n.Den}
		return iv, nil

	case ast.NedjiLit:
		eNum, eDen := int64(2), int64(1)
		if n.HasEquave {
			eNum, eDen = n.EquaveNum, n.EquaveDen
		}
		equave := monzo.FromRatio(pt, eNum, eDen)
		exp := big.NewRat(n.Numerator, n.Divisions)
		if m, ok := monzo.PowOk(equave, exp); ok {
			iv := value.NewExact(m, value.Logarithmic)
			iv.Node = value.Node{Kind: value.NedjiLiteral, NedjiNumerator: n.Numerator, NedjiDivisions: n.Divisions, NedjiEquaveNumerator: eNum, NedjiEquaveDenom: eDen, NedjiHasEquave: n.HasEquave}
			return iv, nil
		}
		ev, _ := monzo.ValueOf(equave)
		f := math.Pow(ev, float64(n.Numerator)/float64(n.Divisions))
		iv := value.NewReal(f, big.NewRat(0, 1), value.Logarithmic)
		iv.Node = value.Node{Kind: value.NedjiLiteral, NedjiNumerator: n.Numerator, NedjiDivisions: n.Divisions}
		return iv, nil

	case ast.CentsLit:
		c, ok := new(big.Rat).SetString(n.Text)
		var cf float64
		if ok {
			cf, _ = c.Float64()
		}
		f := math.Pow(2, cf/1200)
		iv := value.NewReal(f, big.NewRat(0, 1), value.Logarithmic)
		iv.Node = value.Node{Kind: value.CentsLiteral, CentsText: n.Text, CentsReal: n.Real}
		return iv, nil

	case ast.HertzLit:
		r, ok := new(big.Rat).SetString(n.Text)
		if !ok {
			return nil, fmt.Errorf("eval: invalid hertz literal %q", n.Text)
		}
		scaled := new(big.Rat).Mul(r, new(big.Rat).SetFloat64(n.Scale))
		m := monzo.FromBigRatio(pt, scaled.Num(), scaled.Denom())
		m.Time = big.NewRat(-1, 1)
		iv := value.NewExact(m, value.Linear)
		iv.Node = value.Node{Kind: value.HertzLiteral, UnitScale: n.Scale}
		return iv, nil

	case ast.SecondLit:
		r, ok := new(big.Rat).SetString(n.Text)
		if !ok {
			return nil, fmt.Errorf("eval: invalid second literal %q", n.Text)
		}
		scaled := new(big.Rat).Mul(r, new(big.Rat).SetFloat64(n.Scale))
		m := monzo.FromBigRatio(pt, scaled.Num(), scaled.Denom())
		m.Time = big.NewRat(1, 1)
		iv := value.NewExact(m, value.Linear)
		iv.Node = value.Node{Kind: value.SecondLiteral, UnitScale: n.Scale}
		return iv, nil

	case ast.StepLit:
		iv := value.NewExact(monzo.Zero(pt), value.Logarithmic)
		iv.Steps = n.Numerator
		iv.Node = value.Node{Kind: value.StepLiteral}
		return iv, nil

	case ast.SquareSuperparticularLit:
		num := n.Index * n.Index
		den := num - 1
		m := monzo.FromRatio(pt, num, den)
		iv := value.NewExact(m, value.Linear)
		iv.Node = value.Node{Kind: value.SquareSuperparticular, SquareIndex: n.Index}
		return iv, nil

	case ast.FJSLit:
		return in.evalFJSLit(n)

	case ast.AbsoluteFJSLit:
		return in.evalAbsoluteFJSLit(n)
	}
	return nil, fmt.Errorf("eval: unhandled literal %T", e)
}

// pythagoreanFifths holds the base fifths-count for each of the seven
// generic diatonic degree classes, indexed by (degree-1)%7 (spec 4.2.1's
// FJS notation builds every interval by stacking fifths).
var pythagoreanFifths = [7]int{0, 2, 4, -1, 1, 3, 5}

// perfectClass marks which degree classes take "P" instead of "M"/"m".
var perfectClass = [7]bool{true, false, false, true, true, false, false}

func qualityFifths(quality string, cls int) (float64, error) {
	base := float64(pythagoreanFifths[cls])
	switch {
	case quality == "P":
		if !perfectClass[cls] {
			return 0, fmt.Errorf("eval: %q is not a perfect-class degree", quality)
		}
		return base, nil
	case quality == "M":
		return base, nil
	case quality == "m":
		return base - 7, nil
	case quality == "n":
		return base - 3.5, nil
	case len(quality) > 0 && quality[0] == 'A':
		return base + 7*float64(len(quality)), nil
	case len(quality) > 0 && quality[0] == 'd':
		ref := base
		if !perfectClass[cls] {
			ref = base - 7
		}
		return ref - 7*float64(len(quality)), nil
	}
	return 0, fmt.Errorf("eval: unrecognized FJS quality %q", quality)
}

// pythagoreanMonzo builds the exact Pythagorean ratio for an integer fifths
// count plus how many extra octaves the degree itself spans.
func pythagoreanMonzo(pt *monzo.PrimeTable, fifths, octaves int) monzo.Monzo {
	k := int(math.Floor(float64(fifths) * math.Log2(3)))
	three := big.NewRat(1, 1)
	absF := fifths
	if absF < 0 {
		absF = -absF
	}
	for i := 0; i < absF; i++ {
		three.Mul(three, big.NewRat(3, 1))
	}
	if fifths < 0 {
		three.Inv(three)
	}
	twoExp := octaves - k
	two := big.NewRat(1, 1)
	absT := twoExp
	if absT < 0 {
		absT = -absT
	}
	for i := 0; i < absT; i++ {
		two.Mul(two, big.NewRat(2, 1))
	}
	if twoExp < 0 {
		two.Inv(two)
	}
	ratio := new(big.Rat).Mul(three, two)
	return monzo.FromBigRatio(pt, ratio.Num(), ratio.Denom())
}

func (in *Interp) evalFJSLit(n ast.FJSLit) (Value, error) {
	pt := primes(in)
	cls := (n.Degree - 1) % 7
	octaves := (n.Degree - 1) / 7
	fifths, err := qualityFifths(n.Quality, cls)
	if err != nil {
		return nil, err
	}
	var iv value.Interval
	if fifths == math.Trunc(fifths) {
		m := pythagoreanMonzo(pt, int(fifths), octaves)
		iv = value.NewExact(m, value.Logarithmic)
	} else {
		cents := fifths * (1200 * math.Log2(1.5))
		cents += float64(octaves) * 1200
		iv = value.NewReal(math.Pow(2, cents/1200), big.NewRat(0, 1), value.Logarithmic)
	}
	iv = applyCommas(in, iv, n.Super, n.Sub)
	iv.Node = value.Node{Kind: value.FJS}
	return iv, nil
}

var nominalFifthsFromC = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': -1, 'G': 1, 'A': 3, 'B': 5}

func (in *Interp) evalAbsoluteFJSLit(n ast.AbsoluteFJSLit) (Value, error) {
	pt := primes(in)
	upper := n.Nominal
	if upper >= 'a' && upper <= 'z' {
		upper -= 'a' - 'A'
	}
	fifths, ok := nominalFifthsFromC[upper]
	if !ok {
		return nil, fmt.Errorf("eval: unrecognized pitch nominal %q", string(n.Nominal))
	}
	for i := 0; i < len(n.Accidentals); i++ {
		switch n.Accidentals[i] {
		case '#':
			fifths += 7
		case 'x':
			fifths += 14
		case 'b':
			fifths -= 7
		}
	}
	fifthsFromA := fifths - nominalFifthsFromC['A']
	octaves := n.Octave - 4
	m := pythagoreanMonzo(pt, fifthsFromA, octaves)
	iv := value.NewExact(m, value.Logarithmic)
	iv = applyCommas(in, iv, n.Super, n.Sub)

	refHz, ok := monzo.AsExactRatio(in.Ctx.Reference)
	relRatio, ok2 := monzo.AsExactRatio(iv.Exact)
	if ok && ok2 {
		hz := new(big.Rat).Mul(refHz, relRatio)
		abs := monzo.FromBigRatio(pt, hz.Num(), hz.Denom())
		abs.Time = big.NewRat(-1, 1)
		iv = value.NewExact(abs, value.Logarithmic)
	}
	iv.Node = value.Node{Kind: value.AbsoluteFJS, Nominal: n.Nominal, Accidentals: n.Accidentals, Octave: n.Octave}
	return iv, nil
}

func applyCommas(in *Interp, iv value.Interval, super, sub []ast.FJSComma) value.Interval {
	if iv.Real || len(super) == 0 && len(sub) == 0 {
		return iv
	}
	pt := primes(in)
	m := iv.Exact
	for _, c := range super {
		comma := fjs.CommaFor(pt, big.NewInt(c.Prime), fjs.FormalC)
		if p, ok := monzo.PowOk(comma, big.NewRat(c.Count, 1)); ok {
			m = monzo.Mul(m, p)
		}
	}
	for _, c := range sub {
		comma := fjs.CommaFor(pt, big.NewInt(c.Prime), fjs.FormalC)
		if p, ok := monzo.PowOk(comma, big.NewRat(c.Count, 1)); ok {
			m = monzo.Div(m, p)
		}
	}
	iv.Exact = m
	return iv
}

func fractionsToRats(fs []ast.Fraction) []*big.Rat {
	out := make([]*big.Rat, len(fs))
	for i, f := range fs {
		out[i] = big.NewRat(f.Num, f.Den)
	}
	return out
}

func (in *Interp) evalMonzoLit(n ast.MonzoLit) (Value, error) {
	pt := primes(in)
	m := monzo.Monzo{Time: big.NewRat(0, 1), Exponents: fractionsToRats(n.Exponents), Residual: big.NewRat(1, 1), Primes: pt}
	iv := value.NewExact(m, value.Linear)
	iv.Node = value.Node{Kind: value.MonzoLiteral}
	return iv, nil
}

func (in *Interp) evalValLit(n ast.ValLit) (Value, error) {
	pt := primes(in)
	m := monzo.Monzo{Time: big.NewRat(0, 1), Exponents: fractionsToRats(n.Exponents), Residual: big.NewRat(1, 1), Primes: pt}
	equave := monzo.FromRatio(pt, 2, 1)
	return value.Val{Val: monzo.Val{Mapping: m, Equave: equave}}, nil
}

func (in *Interp) evalWartsLit(n ast.WartsLit) (Value, error) {
	pt := primes(in)
	equave := monzo.FromRatio(pt, 2, 1)
	v := monzo.WartsToVal(pt, n.Edo, equave, n.Letters)
	return value.Val{Val: v}, nil
}

func (in *Interp) evalSparseOffsetLit(n ast.SparseOffsetLit) (Value, error) {
	pt := primes(in)
	equave := monzo.FromRatio(pt, 2, 1)
	v := monzo.SparseOffsetToVal(pt, n.Edo, equave, n.Offsets)
	return value.Val{Val: v}, nil
}
