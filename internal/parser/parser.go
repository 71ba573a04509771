// Package parser implements a recursive-descent parser producing
// internal/ast trees from internal/lexer tokens. Like internal/lexer, this
// is the grammar "collaborator" spec.md keeps out of scope for the value
// model/evaluator core — it covers the literal and operator surface of
// spec sections 6.1/6.2 and the statement grammar of 4.3 well enough to
// drive the evaluator end to end for the standard library and the seed
// scenarios of spec section 8.
package parser

import (
	"fmt"

	"github.com/sonicweave-lang/sonicweave/internal/ast"
	"github.com/sonicweave-lang/sonicweave/internal/lexer"
)

type Parser struct {
	toks []lexer.Token
	pos  int
}

func Parse(src string) ([]ast.Stmt, error) {
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseProgram()
}

// ParseExpr parses a single expression; whole programs, the standard
// library's embedded prelude included, go through Parse.
func ParseExpr(src string) (ast.Expr, error) {
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	p.skipNewlines()
	return p.parseExpr()
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peekN(n int) lexer.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) skipNewlines() {
	for p.cur().Kind == lexer.Newline || p.cur().Kind == lexer.Semicolon {
		p.advance()
	}
}

func (p *Parser) skipTerm() {
	for p.cur().Kind == lexer.Newline || p.cur().Kind == lexer.Semicolon {
		p.advance()
	}
}

func (p *Parser) at(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atOp(text string) bool {
	t := p.cur()
	return t.Kind == lexer.Op && t.Text == text
}

func (p *Parser) atIdent(text string) bool {
	t := p.cur()
	return t.Kind == lexer.Ident && t.Text == text
}

func (p *Parser) expect(k lexer.Kind, what string) (lexer.Token, error) {
	if p.cur().Kind != k {
		return lexer.Token{}, fmt.Errorf("parser: expected %s at %d:%d, got %q", what, p.cur().Line, p.cur().Col, p.cur().Text)
	}
	return p.advance(), nil
}

// ---- Program / statements ----

func (p *Parser) parseProgram() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	p.skipNewlines()
	for !p.at(lexer.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		p.skipTerm()
	}
	return stmts, nil
}

func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	open, err := p.expect(lexer.LBrace, "{")
	if err != nil {
		return nil, err
	}
	b := &ast.BlockStmt{Node: baseAt(open)}
	p.skipNewlines()
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
		p.skipTerm()
	}
	if _, err := p.expect(lexer.RBrace, "}"); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	t := p.cur()
	switch {
	case t.Kind == lexer.LBrace:
		return p.parseBlock()
	case t.Kind == lexer.Ident && (t.Text == "let" || t.Text == "const"):
		return p.parseLet()
	case t.Kind == lexer.Ident && t.Text == "while":
		return p.parseWhile()
	case t.Kind == lexer.Ident && t.Text == "for":
		return p.parseForOf()
	case t.Kind == lexer.Ident && t.Text == "if":
		return p.parseIf()
	case t.Kind == lexer.Ident && t.Text == "return":
		return p.parseReturn()
	case t.Kind == lexer.Ident && t.Text == "throw":
		return p.parseThrow()
	case t.Kind == lexer.Ident && (t.Text == "riff" || t.Text == "fn"):
		return p.parseFuncDecl()
	case t.Kind == lexer.Op && t.Text == "^" && p.peekN(1).Kind == lexer.Op && p.peekN(1).Text == "=":
		return p.parseUpLiftDecl(false)
	case t.Kind == lexer.Op && t.Text == "/" && p.peekN(1).Kind == lexer.Op && p.peekN(1).Text == "=":
		return p.parseUpLiftDecl(true)
	}
	return p.parseExprOrAssignStmt()
}

func (p *Parser) parseLet() (ast.Stmt, error) {
	kw := p.advance()
	isConst := kw.Text == "const"
	name, err := p.expect(lexer.Ident, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Op, "="); err != nil {
		if !p.atOp("=") {
			return nil, fmt.Errorf("parser: expected '=' after %s %s", kw.Text, name.Text)
		}
		p.advance()
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.LetStmt{Node: baseAt(kw), Name: name.Text, Const: isConst, Value: val}, nil
}

func (p *Parser) parseUpLiftDecl(isLift bool) (ast.Stmt, error) {
	tok := p.advance() // '^' or '/'
	p.advance()         // '='
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.UpDeclStmt{Node: baseAt(tok), IsLift: isLift, Value: val}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	kw := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Node: baseAt(kw), Cond: cond, Body: body}, nil
}

func (p *Parser) parseForOf() (ast.Stmt, error) {
	kw := p.advance()
	name, err := p.expect(lexer.Ident, "identifier")
	if err != nil {
		return nil, err
	}
	if !p.atIdent("of") {
		return nil, fmt.Errorf("parser: expected 'of' in for-of at %d:%d", p.cur().Line, p.cur().Col)
	}
	p.advance()
	src, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return ast.ForOfStmt{Node: baseAt(kw), Var: name.Text, Source: src, Body: body}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	kw := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	save := p.pos
	p.skipNewlines()
	if p.atIdent("else") {
		p.advance()
		elseStmt, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	} else {
		p.pos = save
	}
	return ast.IfStmt{Node: baseAt(kw), Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	kw := p.advance()
	if p.at(lexer.Semicolon) || p.at(lexer.Newline) || p.at(lexer.RBrace) || p.at(lexer.EOF) {
		return ast.ReturnStmt{Node: baseAt(kw)}, nil
	}
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Node: baseAt(kw), Value: v}, nil
}

func (p *Parser) parseThrow() (ast.Stmt, error) {
	kw := p.advance()
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.ThrowStmt{Node: baseAt(kw), Value: v}, nil
}

func (p *Parser) parseFuncDecl() (ast.Stmt, error) {
	kw := p.advance()
	name, err := p.expect(lexer.Ident, "function name")
	if err != nil {
		return nil, err
	}
	var params []ast.ParamNode
	var rest string
	for !p.at(lexer.LBrace) && !p.at(lexer.EOF) {
		if p.at(lexer.Dots3) {
			p.advance()
			id, err := p.expect(lexer.Ident, "rest parameter name")
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
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.FuncDeclStmt{Node: baseAt(kw), Name: name.Text, Params: params, Rest: rest, Body: body}, nil
}

func (p *Parser) parseExprOrAssignStmt() (ast.Stmt, error) {
	start := p.cur()
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.atOp("=") {
		p.advance()
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if isAssignable(e) {
			return ast.AssignStmt{Node: baseAt(start), Target: e, Value: v}, nil
		}
		// A non-assignable left side ("1/1 = 440 Hz") is the pitch
		// declaration of spec 4.3, anchoring e to the frequency v.
		return ast.PitchDeclStmt{Node: baseAt(start), Reference: e, Frequency: v}, nil
	}
	return ast.ExprStmt{Node: baseAt(start), X: e}, nil
}

func isAssignable(e ast.Expr) bool {
	switch e.(type) {
	case ast.Identifier, ast.IndexExpr:
		return true
	}
	return false
}

func baseAt(t lexer.Token) ast.Node {
	return ast.Node{Pos: ast.Pos{Line: t.Line, Col: t.Col}}
}
