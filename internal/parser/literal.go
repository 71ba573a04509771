package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sonicweave-lang/sonicweave/internal/ast"
	"github.com/sonicweave-lang/sonicweave/internal/lexer"
)

var fjsPattern = regexp.MustCompile(`^(M|m|P|A+|d+|n)([0-9]+)$`)
var absPitchPattern = regexp.MustCompile(`^[A-Ga-g](#|x|b)*[0-9]+$`)

func isFJSLike(text string) bool {
	return fjsPattern.MatchString(text)
}

func isAbsolutePitch(text string) bool {
	return absPitchPattern.MatchString(text)
}

func (p *Parser) parseFJS() (ast.Expr, error) {
	tok := p.advance()
	m := fjsPattern.FindStringSubmatch(tok.Text)
	degree, _ := strconv.Atoi(m[2])
	lit := ast.FJSLit{Node: baseAt(tok), Quality: m[1], Degree: degree}
	return p.maybeAttachCommas(tok, lit), nil
}

func (p *Parser) parseAbsoluteFJS() (ast.Expr, error) {
	tok := p.advance()
	text := tok.Text
	nominal := text[0]
	i := 1
	for i < len(text) && (text[i] == '#' || text[i] == 'x' || text[i] == 'b') {
		i++
	}
	accidentals := text[1:i]
	octave, _ := strconv.Atoi(text[i:])
	lit := ast.AbsoluteFJSLit{Node: baseAt(tok), Nominal: nominal, Accidentals: accidentals, Octave: octave}
	return p.maybeAttachCommas(tok, lit), nil
}

// maybeAttachCommas reads the optional "^5,7_11" comma-adjustment suffix
// that can trail an FJS pitch, e.g. "M3^5" or "P5_7,11". Plain "^"/"_" here
// are unambiguous since they only ever follow an FJS identifier.
func (p *Parser) maybeAttachCommas(tok lexer.Token, lit ast.Expr) ast.Expr {
	super, hasSuper := p.readCommaList("^")
	sub, hasSub := p.readCommaList("_")
	if !hasSuper && !hasSub {
		return lit
	}
	switch v := lit.(type) {
	case ast.FJSLit:
		v.Super, v.Sub = super, sub
		return v
	case ast.AbsoluteFJSLit:
		v.Super, v.Sub = super, sub
		return v
	}
	return lit
}

func (p *Parser) readCommaList(marker string) ([]ast.FJSComma, bool) {
	if !p.atOp(marker) {
		return nil, false
	}
	p.advance()
	var out []ast.FJSComma
	for {
		if !p.at(lexer.Number) {
			break
		}
		n := p.advance()
		count, _ := strconv.ParseInt(n.Text, 10, 64)
		out = append(out, ast.FJSComma{Prime: count, Count: 1})
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	return out, true
}

func isNumericPrefix(s string) bool {
	if s == "" {
		return false
	}
	dots := 0
	for _, r := range s {
		if r == '.' {
			dots++
			if dots > 1 {
				return false
			}
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func classifyNumberSuffix(text string) (base string, kind string) {
	if strings.HasSuffix(text, "¢") {
		b := strings.TrimSuffix(text, "¢")
		if isNumericPrefix(b) {
			return b, "cents"
		}
	}
	suffixes := []struct{ suf, kind string }{
		{"kHz", "hertz"}, {"Hz", "hertz"},
		{"ms", "second"}, {"s", "second"},
		{"c", "cents"},
		{"r", "real"},
		{"e", "decimal"},
	}
	for _, s := range suffixes {
		if strings.HasSuffix(text, s.suf) {
			b := strings.TrimSuffix(text, s.suf)
			if isNumericPrefix(b) {
				return b, s.kind
			}
		}
	}
	if strings.Contains(text, ".") {
		return text, "decimal"
	}
	return text, "integer"
}

func hzScale(suffix string) float64 {
	if strings.HasSuffix(suffix, "kHz") {
		return 1000
	}
	return 1
}

func (p *Parser) parseNumberLiteral() (ast.Expr, error) {
	tok := p.advance()
	base, kind := classifyNumberSuffix(tok.Text)
	switch kind {
	case "hertz":
		return ast.HertzLit{Node: baseAt(tok), Text: base, Scale: hzScale(tok.Text)}, nil
	case "second":
		return ast.SecondLit{Node: baseAt(tok), Text: base, Scale: 1}, nil
	case "cents":
		return ast.CentsLit{Node: baseAt(tok), Text: base}, nil
	case "real":
		return ast.DecimalLit{Node: baseAt(tok), Text: base, Real: true}, nil
	case "decimal":
		return ast.DecimalLit{Node: baseAt(tok), Text: base, Real: false}, nil
	}

	if p.atOp("\\") {
		p.advance()
		num, _ := strconv.ParseInt(base, 10, 64)
		if p.at(lexer.Number) {
			divTok := p.advance()
			divisions, _ := strconv.ParseInt(divTok.Text, 10, 64)
			return ast.NedjiLit{Node: baseAt(tok), Numerator: num, Divisions: divisions}, nil
		}
		return ast.StepLit{Node: baseAt(tok), Numerator: num}, nil
	}

	if p.atOp("^") {
		save := p.pos
		p.advance()
		if p.at(lexer.Number) {
			numTok := p.advance()
			n, _ := strconv.ParseInt(numTok.Text, 10, 64)
			d := int64(1)
			if p.atOp("/") {
				p.advance()
				if p.at(lexer.Number) {
					dTok := p.advance()
					d, _ = strconv.ParseInt(dTok.Text, 10, 64)
				}
			}
			radicand, _ := strconv.ParseInt(base, 10, 64)
			return ast.RadicalLit{Node: baseAt(tok), Radicand: radicand, Num: n, Den: d}, nil
		}
		p.pos = save
	}

	v, _ := strconv.ParseInt(base, 10, 64)
	return ast.IntegerLit{Node: baseAt(tok), Text: base, Value: v}, nil
}
