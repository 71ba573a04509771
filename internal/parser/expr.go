package parser

import (
	"strconv"
	"strings"

	"github.com/sonicweave-lang/sonicweave/internal/ast"
	"github.com/sonicweave-lang/sonicweave/internal/lexer"
)

// Operator precedence, lowest to highest. Binds tighter going down.
const (
	precLest = iota
	precOr
	precAnd
	precCompare
	precMembership
	precAdditive
	precMultiplicative
	precUnary
	precPow
	precPostfix
)

var additiveOps = map[string]bool{
	"+": true, "-": true, "dot": true, "log": true, "/_": true, "ed": true,
	"mod": true, "modc": true, "rd": true, "rdc": true, "tns": true, "⊗": true,
	"to": true, "by": true, "max": true, "min": true, "/+": true, "/-": true,
}

var multiplicativeOps = map[string]bool{
	"*": true, "×": true, "/": true, "÷": true, "∕": true, "%": true,
}

var compareOps = map[string]bool{
	"==": true, "!=": true, "===": true, "!==": true,
	"<=": true, ">=": true, "<": true, ">": true,
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseLest()
}

func (p *Parser) parseLest() (ast.Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for p.atIdent("lest") {
		tok := p.advance()
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		left = ast.LestExpr{Node: baseAt(tok), Try: left, Fallback: right}
	}
	return left, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atIdent("or") {
		tok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Node: baseAt(tok), Op: "or", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.atIdent("and") {
		tok := p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Node: baseAt(tok), Op: "and", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.atIdent("not") {
		tok := p.advance()
		// "not of"/"not in" are membership negations, handled in
		// parseMembership; a bare "not expr" is boolean negation.
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Node: baseAt(tok), Op: "not", Operand: operand}, nil
	}
	return p.parseCompare()
}

func (p *Parser) parseCompare() (ast.Expr, error) {
	left, err := p.parseMembership()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Op && compareOps[p.cur().Text] {
		tok := p.advance()
		right, err := p.parseMembership()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Node: baseAt(tok), Op: tok.Text, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMembership() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		not := false
		start := p.pos
		tok := p.cur()
		if tok.Kind == lexer.Ident && tok.Text == "not" {
			p.advance()
			not = true
		}
		t2 := p.cur()
		op := ""
		if t2.Kind == lexer.Ident && (t2.Text == "of" || t2.Text == "in") {
			op = t2.Text
			p.advance()
		} else if t2.Kind == lexer.Op && (t2.Text == "~of" || t2.Text == "~in") {
			op = t2.Text
			p.advance()
		} else {
			p.pos = start
			break
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.MembershipExpr{Node: baseAt(tok), Op: op, Not: not, Elem: left, Set: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		op, pref, ok := prefOpText(tok, additiveOps)
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Node: baseAt(tok), Op: op, Pref: pref, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		op, pref, ok := prefOpText(tok, multiplicativeOps)
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Node: baseAt(tok), Op: op, Pref: pref, Left: left, Right: right}
	}
	return left, nil
}

// prefOpText recognizes a (possibly ~-wrapped) operator token against the
// given base-operator set, per spec 4.2.2/6.1's "any arithmetic operator may
// be wrapped with ~ on either or both sides".
func prefOpText(tok lexer.Token, set map[string]bool) (op string, pref ast.Pref, ok bool) {
	text := tok.Text
	if tok.Kind == lexer.Ident {
		if set[text] {
			return text, ast.NoPref, true
		}
		return "", 0, false
	}
	if tok.Kind != lexer.Op {
		return "", 0, false
	}
	if set[text] {
		return text, ast.NoPref, true
	}
	if strings.HasPrefix(text, "~") && strings.HasSuffix(text, "~") && len(text) > 2 {
		base := text[1 : len(text)-1]
		if set[base] {
			return base, ast.Wings, true
		}
	}
	if strings.HasPrefix(text, "~") {
		base := text[1:]
		if set[base] {
			return base, ast.LeftPref, true
		}
	}
	if strings.HasSuffix(text, "~") {
		base := text[:len(text)-1]
		if set[base] {
			return base, ast.RightPref, true
		}
	}
	return "", 0, false
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	tok := p.cur()
	if tok.Kind == lexer.Op {
		switch tok.Text {
		case "+", "-", "%", "÷", "^", "∨", "\\", "/":
			p.advance()
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return ast.UnaryExpr{Node: baseAt(tok), Op: tok.Text, Operand: operand}, nil
		case "~-", "~%", "~÷":
			p.advance()
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return ast.UnaryExpr{Node: baseAt(tok), Op: tok.Text[1:], Uniform: true, Operand: operand}, nil
		case "++", "--":
			p.advance()
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return ast.UnaryExpr{Node: baseAt(tok), Op: tok.Text, Operand: operand}, nil
		}
	}
	return p.parsePow()
}

func (p *Parser) parsePow() (ast.Expr, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.atOp("/^") {
		tok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.BinaryExpr{Node: baseAt(tok), Op: "/^", Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parseCall()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Op && (p.cur().Text == "++" || p.cur().Text == "--") {
		tok := p.advance()
		e = ast.PostfixExpr{Node: baseAt(tok), Op: tok.Text, Operand: e}
	}
	return e, nil
}

func (p *Parser) parseCall() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case lexer.LParen:
			tok := p.advance()
			var args []ast.Expr
			for !p.at(lexer.RParen) {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.at(lexer.Comma) {
					p.advance()
				}
			}
			if _, err := p.expect(lexer.RParen, ")"); err != nil {
				return nil, err
			}
			e = ast.CallExpr{Node: baseAt(tok), Callee: e, Args: args}
		case lexer.LBracket:
			tok := p.advance()
			nullish := false
			if p.atOp("?") {
				p.advance()
				nullish = true
			}
			idxOrSlice, err := p.parseIndexOrSlice(e, tok, nullish)
			if err != nil {
				return nil, err
			}
			e = idxOrSlice
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseIndexOrSlice(target ast.Expr, tok lexer.Token, nullish bool) (ast.Expr, error) {
	if p.at(lexer.Dots2) {
		p.advance()
		end, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBracket, "]"); err != nil {
			return nil, err
		}
		return ast.SliceExpr{Node: baseAt(tok), Target: target, Start: nil, End: end}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.Comma) {
		p.advance()
		second, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Dots2, ".."); err != nil {
			return nil, err
		}
		end, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBracket, "]"); err != nil {
			return nil, err
		}
		return ast.SliceExpr{Node: baseAt(tok), Target: target, Start: first, Second: second, HasSecond: true, End: end}, nil
	}
	if p.at(lexer.Dots2) {
		p.advance()
		var end ast.Expr
		if !p.at(lexer.RBracket) {
			end, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.RBracket, "]"); err != nil {
			return nil, err
		}
		return ast.SliceExpr{Node: baseAt(tok), Target: target, Start: first, End: end}, nil
	}
	if _, err := p.expect(lexer.RBracket, "]"); err != nil {
		return nil, err
	}
	return ast.IndexExpr{Node: baseAt(tok), Target: target, Index: first, Nullish: nullish}, nil
}

func (p *Parser) parseTernary() (ast.Expr, error) {
	return p.parseOr()
}

// ---- Primary ----

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()

	// Arrow function with a single bare identifier parameter: "x => expr".
	if tok.Kind == lexer.Ident && p.peekN(1).Kind == lexer.Arrow && isBareIdent(tok.Text) {
		p.advance()
		p.advance()
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.ArrowFunc{Node: baseAt(tok), Params: []ast.ParamNode{{Name: tok.Text}}, Body: body}, nil
	}

	switch tok.Kind {
	case lexer.LParen:
		return p.parseParenOrArrow()
	case lexer.LBracket:
		return p.parseArrayOrComprehension()
	case lexer.LBrace:
		return p.parseRecordLit()
	case lexer.String:
		p.advance()
		return ast.StringLit{Node: baseAt(tok), Value: tok.Text}, nil
	case lexer.Number:
		return p.parseNumberLiteral()
	case lexer.Op:
		if tok.Text == "\\" {
			// bare "\12"-style numerator-less step is unusual; fall through
		}
	}

	if tok.Kind == lexer.Ident {
		switch tok.Text {
		case "true":
			p.advance()
			return ast.TrueLit{Node: baseAt(tok)}, nil
		case "false":
			p.advance()
			return ast.FalseLit{Node: baseAt(tok)}, nil
		case "niente":
			p.advance()
			return ast.NoneLit{Node: baseAt(tok)}, nil
		}
		if isAbsolutePitch(tok.Text) {
			return p.parseAbsoluteFJS()
		}
		if isFJSLike(tok.Text) {
			return p.parseFJS()
		}
		p.advance()
		return ast.Identifier{Node: baseAt(tok), Name: tok.Text}, nil
	}

	return nil, unexpected(tok)
}

func unexpected(tok lexer.Token) error {
	return &ParseError{Tok: tok}
}

type ParseError struct{ Tok lexer.Token }

func (e *ParseError) Error() string {
	return "parser: unexpected token " + strconv.Quote(e.Tok.Text) + " at line " + strconv.Itoa(e.Tok.Line)
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

func (p *Parser) parseParenOrArrow() (ast.Expr, error) {
	open := p.advance()
	// Disambiguate "(a, b) => body" from a parenthesized expression by
	// scanning ahead for ") =>" with simple bracket counting.
	if p.looksLikeArrowParams() {
		var params []ast.ParamNode
		var rest string
		for !p.at(lexer.RParen) {
			if p.at(lexer.Dots3) {
				p.advance()
				id, err := p.expect(lexer.Ident, "rest parameter")
				if err != nil {
					return nil, err
				}
				rest = id.Text
				continue
			}
			id, err := p.expect(lexer.Ident, "parameter name")
			if err != nil {
				return nil, err
			}
			pn := ast.ParamNode{Name: id.Text}
			if p.atOp("=") {
				p.advance()
				def, err := p.parseTernary()
				if err != nil {
					return nil, err
				}
				pn.Default = def
			}
			params = append(params, pn)
			if p.at(lexer.Comma) {
				p.advance()
			}
		}
		p.advance() // ")"
		p.advance() // "=>"
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.ArrowFunc{Node: baseAt(open), Params: params, Rest: rest, Body: body}, nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen, ")"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) looksLikeArrowParams() bool {
	depth := 1
	i := p.pos
	for i < len(p.toks) {
		t := p.toks[i]
		switch t.Kind {
		case lexer.LParen:
			depth++
		case lexer.RParen:
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && p.toks[i+1].Kind == lexer.Arrow
			}
		case lexer.EOF:
			return false
		}
		i++
	}
	return false
}

func (p *Parser) parseArrayOrComprehension() (ast.Expr, error) {
	open := p.advance()
	if p.at(lexer.RBracket) {
		p.advance()
		return ast.ArrayLit{Node: baseAt(open)}, nil
	}
	first, firstSpread, err := p.parseArrayElem()
	if err != nil {
		return nil, err
	}
	if p.atIdent("for") {
		return p.parseComprehensionTail(open, first)
	}
	if p.at(lexer.Comma) && p.peekSecondIsRangeStep() {
		// [s, s2 .. e]
		p.advance()
		s2, _, err := p.parseArrayElem()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Dots2, ".."); err != nil {
			return nil, err
		}
		end, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBracket, "]"); err != nil {
			return nil, err
		}
		return ast.RangeExpr{Node: baseAt(open), Start: first, Step: s2, End: end, HasStep: true}, nil
	}
	if p.at(lexer.Dots2) {
		p.advance()
		end, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBracket, "]"); err != nil {
			return nil, err
		}
		return ast.RangeExpr{Node: baseAt(open), Start: first, End: end}, nil
	}
	items := []ast.Expr{first}
	spreads := []bool{firstSpread}
	for p.at(lexer.Comma) {
		p.advance()
		if p.at(lexer.RBracket) {
			break
		}
		e, sp, err := p.parseArrayElem()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		spreads = append(spreads, sp)
	}
	if _, err := p.expect(lexer.RBracket, "]"); err != nil {
		return nil, err
	}
	return ast.ArrayLit{Node: baseAt(open), Items: items, Spreads: spreads}, nil
}

func (p *Parser) peekSecondIsRangeStep() bool {
	// Heuristic lookahead: "[a, b .. c]" is a stepped range only if a ".."
	// token follows the second element before a closing bracket or comma.
	depth := 0
	for i := p.pos + 1; i < len(p.toks); i++ {
		t := p.toks[i]
		switch t.Kind {
		case lexer.LBracket, lexer.LParen:
			depth++
		case lexer.RBracket:
			if depth == 0 {
				return false
			}
			depth--
		case lexer.RParen:
			depth--
		case lexer.Comma:
			if depth == 0 {
				return false
			}
		case lexer.Dots2:
			if depth == 0 {
				return true
			}
		case lexer.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseArrayElem() (ast.Expr, bool, error) {
	if p.at(lexer.Dots3) {
		p.advance()
		e, err := p.parseExpr()
		return e, true, err
	}
	e, err := p.parseExpr()
	return e, false, err
}

func (p *Parser) parseComprehensionTail(open lexer.Token, result ast.Expr) (ast.Expr, error) {
	p.advance() // "for"
	name, err := p.expect(lexer.Ident, "identifier")
	if err != nil {
		return nil, err
	}
	if !p.atIdent("of") {
		return nil, &ParseError{Tok: p.cur()}
	}
	p.advance()
	src, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var cond ast.Expr
	if p.atIdent("if") {
		p.advance()
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RBracket, "]"); err != nil {
		return nil, err
	}
	return ast.ComprehensionExpr{Node: baseAt(open), Result: result, Var: name.Text, Source: src, Cond: cond}, nil
}

func (p *Parser) parseRecordLit() (ast.Expr, error) {
	open := p.advance()
	r := ast.RecordLit{Node: baseAt(open)}
	for !p.at(lexer.RBrace) {
		var key string
		if p.at(lexer.String) {
			key = p.advance().Text
		} else {
			id, err := p.expect(lexer.Ident, "record key")
			if err != nil {
				return nil, err
			}
			key = id.Text
		}
		if _, err := p.expect(lexer.Colon, ":"); err != nil {
			return nil, err
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		r.Keys = append(r.Keys, key)
		r.Values = append(r.Values, v)
		if p.at(lexer.Comma) {
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RBrace, "}"); err != nil {
		return nil, err
	}
	return r, nil
}
