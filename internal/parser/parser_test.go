package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sonicweave-lang/sonicweave/internal/ast"
)

func TestParseRatioIsDivisionOfIntegers(t *testing.T) {
	e, err := ParseExpr("3/2")
	assert.NoError(t, err)
	bin, ok := e.(ast.BinaryExpr)
	assert.True(t, ok)
	assert.Equal(t, "/", bin.Op)
	assert.Equal(t, ast.IntegerLit{Node: bin.Left.(ast.IntegerLit).Node, Text: "3", Value: 3}, bin.Left)
	assert.Equal(t, ast.IntegerLit{Node: bin.Right.(ast.IntegerLit).Node, Text: "2", Value: 2}, bin.Right)
}

func TestParseNedjiLiteral(t *testing.T) {
	e, err := ParseExpr(`7\12`)
	assert.NoError(t, err)
	n, ok := e.(ast.NedjiLit)
	assert.True(t, ok)
	assert.Equal(t, int64(7), n.Numerator)
	assert.Equal(t, int64(12), n.Divisions)
}

func TestParseCentsLiteral(t *testing.T) {
	e, err := ParseExpr("701.955c")
	assert.NoError(t, err)
	c, ok := e.(ast.CentsLit)
	assert.True(t, ok)
	assert.Equal(t, "701.955", c.Text)
}

func TestParseHertzLiteral(t *testing.T) {
	e, err := ParseExpr("440Hz")
	assert.NoError(t, err)
	h, ok := e.(ast.HertzLit)
	assert.True(t, ok)
	assert.Equal(t, "440", h.Text)
	assert.Equal(t, 1.0, h.Scale)

	e2, err := ParseExpr("1kHz")
	assert.NoError(t, err)
	h2 := e2.(ast.HertzLit)
	assert.Equal(t, 1000.0, h2.Scale)
}

func TestParseFJSLiteral(t *testing.T) {
	e, err := ParseExpr("M3^5")
	assert.NoError(t, err)
	f, ok := e.(ast.FJSLit)
	assert.True(t, ok)
	assert.Equal(t, "M", f.Quality)
	assert.Equal(t, 3, f.Degree)
	assert.Equal(t, []ast.FJSComma{{Prime: 5, Count: 1}}, f.Super)
}

func TestParseAbsoluteFJSLiteral(t *testing.T) {
	e, err := ParseExpr("C4")
	assert.NoError(t, err)
	a, ok := e.(ast.AbsoluteFJSLit)
	assert.True(t, ok)
	assert.Equal(t, uint8('C'), a.Nominal)
	assert.Equal(t, 4, a.Octave)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	e, err := ParseExpr("2 + 3 * 4")
	assert.NoError(t, err)
	bin := e.(ast.BinaryExpr)
	assert.Equal(t, "+", bin.Op)
	rhs := bin.Right.(ast.BinaryExpr)
	assert.Equal(t, "*", rhs.Op)
}

func TestParseUniformOperator(t *testing.T) {
	e, err := ParseExpr("a ~+~ b")
	assert.NoError(t, err)
	bin := e.(ast.BinaryExpr)
	assert.Equal(t, "+", bin.Op)
	assert.Equal(t, ast.Wings, bin.Pref)
}

func TestParseArrowFunctionBareParam(t *testing.T) {
	e, err := ParseExpr("x => x + 1")
	assert.NoError(t, err)
	fn, ok := e.(ast.ArrowFunc)
	assert.True(t, ok)
	assert.Equal(t, []ast.ParamNode{{Name: "x"}}, fn.Params)
}

func TestParseArrowFunctionParenParams(t *testing.T) {
	e, err := ParseExpr("(a, b) => a * b")
	assert.NoError(t, err)
	fn, ok := e.(ast.ArrowFunc)
	assert.True(t, ok)
	assert.Len(t, fn.Params, 2)
}

func TestParseArrayComprehension(t *testing.T) {
	e, err := ParseExpr("[x * 2 for x of [1, 2, 3] if x > 1]")
	assert.NoError(t, err)
	c, ok := e.(ast.ComprehensionExpr)
	assert.True(t, ok)
	assert.Equal(t, "x", c.Var)
	assert.NotNil(t, c.Cond)
}

func TestParseRangeExpr(t *testing.T) {
	e, err := ParseExpr("[1..5]")
	assert.NoError(t, err)
	r, ok := e.(ast.RangeExpr)
	assert.True(t, ok)
	assert.False(t, r.HasStep)
}

func TestParseSteppedRange(t *testing.T) {
	e, err := ParseExpr("[1, 3 .. 9]")
	assert.NoError(t, err)
	r, ok := e.(ast.RangeExpr)
	assert.True(t, ok)
	assert.True(t, r.HasStep)
}

func TestParseRecordLiteral(t *testing.T) {
	e, err := ParseExpr(`{a: 1, "b": 2}`)
	assert.NoError(t, err)
	r, ok := e.(ast.RecordLit)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, r.Keys)
}

func TestParseLetStmt(t *testing.T) {
	stmts, err := Parse("let x = 3/2")
	assert.NoError(t, err)
	assert.Len(t, stmts, 1)
	let, ok := stmts[0].(ast.LetStmt)
	assert.True(t, ok)
	assert.Equal(t, "x", let.Name)
	assert.False(t, let.Const)
}

func TestParseConstStmt(t *testing.T) {
	stmts, err := Parse("const x = 3/2")
	assert.NoError(t, err)
	let := stmts[0].(ast.LetStmt)
	assert.True(t, let.Const)
}

func TestParseAssignVsPitchDecl(t *testing.T) {
	stmts, err := Parse("x = 5\n1/1 = 440Hz")
	assert.NoError(t, err)
	assert.Len(t, stmts, 2)
	_, isAssign := stmts[0].(ast.AssignStmt)
	assert.True(t, isAssign)
	_, isPitch := stmts[1].(ast.PitchDeclStmt)
	assert.True(t, isPitch)
}

func TestParseIfElse(t *testing.T) {
	stmts, err := Parse("if true { 1 } else { 2 }")
	assert.NoError(t, err)
	ifs, ok := stmts[0].(ast.IfStmt)
	assert.True(t, ok)
	assert.NotNil(t, ifs.Else)
}

func TestParseWhileLoop(t *testing.T) {
	stmts, err := Parse("while true { break }")
	assert.NoError(t, err)
	_, ok := stmts[0].(ast.WhileStmt)
	assert.True(t, ok)
}

func TestParseForOf(t *testing.T) {
	stmts, err := Parse("for x of [1, 2, 3] { x }")
	assert.NoError(t, err)
	f, ok := stmts[0].(ast.ForOfStmt)
	assert.True(t, ok)
	assert.Equal(t, "x", f.Var)
}

func TestParseRiffDecl(t *testing.T) {
	stmts, err := Parse("riff double x { return x * 2 }")
	assert.NoError(t, err)
	fn, ok := stmts[0].(ast.FuncDeclStmt)
	assert.True(t, ok)
	assert.Equal(t, "double", fn.Name)
	assert.Len(t, fn.Params, 1)
}

func TestParseRiffWithDefaultAndRest(t *testing.T) {
	stmts, err := Parse("riff f a = 1, ...rest { return a }")
	assert.NoError(t, err)
	fn := stmts[0].(ast.FuncDeclStmt)
	assert.Equal(t, "rest", fn.Rest)
	assert.NotNil(t, fn.Params[0].Default)
}

func TestParseUpDecl(t *testing.T) {
	stmts, err := Parse("^= 5\\12")
	assert.NoError(t, err)
	u, ok := stmts[0].(ast.UpDeclStmt)
	assert.True(t, ok)
	assert.False(t, u.IsLift)
}

func TestParseImplicitScaleIdentifier(t *testing.T) {
	e, err := ParseExpr("$")
	assert.NoError(t, err)
	id, ok := e.(ast.Identifier)
	assert.True(t, ok)
	assert.Equal(t, "$", id.Name)
}

func TestParseNienteLiteral(t *testing.T) {
	e, err := ParseExpr("niente")
	assert.NoError(t, err)
	_, ok := e.(ast.NoneLit)
	assert.True(t, ok)
}

func TestParseUnexpectedTokenError(t *testing.T) {
	_, err := ParseExpr(")")
	assert.Error(t, err)
}
