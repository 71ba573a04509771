package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sonicweave-lang/sonicweave/internal/context"
	"github.com/sonicweave-lang/sonicweave/internal/parser"
	"github.com/sonicweave-lang/sonicweave/internal/value"
)

func run(t *testing.T, src string) *Interp {
	t.Helper()
	prog, err := parser.Parse(src)
	assert.NoError(t, err)
	in := New(context.New())
	err = in.RunProgram(prog, NewEnv())
	assert.NoError(t, err)
	return in
}

func lastInterval(t *testing.T, in *Interp) value.Interval {
	t.Helper()
	assert.NotEmpty(t, in.Scale)
	iv, ok := in.Scale[len(in.Scale)-1].(value.Interval)
	assert.True(t, ok)
	return iv
}

func TestExprStmtPushesScale(t *testing.T) {
	in := run(t, "3/2\n5/4")
	assert.Len(t, in.Scale, 2)
	assert.InDelta(t, 1.5, in.Scale[0].(value.Interval).ValueOf(), 1e-9)
	assert.InDelta(t, 1.25, in.Scale[1].(value.Interval).ValueOf(), 1e-9)
}

func TestLetAndArithmetic(t *testing.T) {
	in := run(t, "let x = 3/2\nlet y = x * (4/3)\ny")
	iv := lastInterval(t, in)
	assert.InDelta(t, 2.0, iv.ValueOf(), 1e-9)
}

func TestStringLabelsLastScaleEntry(t *testing.T) {
	in := run(t, "3/2\n\"fifth\"")
	iv := lastInterval(t, in)
	assert.Equal(t, "fifth", iv.Label)
}

func TestForOfAccumulates(t *testing.T) {
	in := run(t, "let total = 1\nfor x of [2/1, 3/2] { total = total * x }\ntotal")
	iv := lastInterval(t, in)
	assert.InDelta(t, 3.0, iv.ValueOf(), 1e-9)
}

func TestWhileLoop(t *testing.T) {
	in := run(t, "let n = 1\nlet count = 0\nwhile count < 3 { n = n * 2\ncount++ }\nn")
	iv := lastInterval(t, in)
	assert.InDelta(t, 8.0, iv.ValueOf(), 1e-9)
}

func TestIfElseBranches(t *testing.T) {
	in := run(t, "if 3/2 > 1 { 9/8 } else { 10/9 }")
	iv := lastInterval(t, in)
	assert.InDelta(t, 9.0/8.0, iv.ValueOf(), 1e-9)
}

func TestRiffDeclarationAndCall(t *testing.T) {
	in := run(t, "riff double x { return x * 2 }\ndouble(3/2)")
	iv := lastInterval(t, in)
	assert.InDelta(t, 3.0, iv.ValueOf(), 1e-9)
}

func TestArrowFunctionCall(t *testing.T) {
	// "+" stacks intervals by multiplying their ratios (monzo exponents add),
	// so x + 9/8 transposes x up a major second rather than summing in Hz.
	in := run(t, "let transpose = x => x + 9/8\ntranspose(4/3)")
	iv := lastInterval(t, in)
	assert.InDelta(t, (4.0/3.0)*(9.0/8.0), iv.ValueOf(), 1e-9)
}

func TestPitchDeclSetsReference(t *testing.T) {
	in := run(t, "1/1 = 440Hz")
	hz, ok := value.AsExactRatioHelper(value.NewExact(in.Ctx.Reference, value.Linear))
	assert.True(t, ok)
	assert.Equal(t, "440", hz)
}

func TestImplicitScaleIdentifier(t *testing.T) {
	in := run(t, "3/2\n5/4")
	expr, err := parser.ParseExpr("$")
	assert.NoError(t, err)
	v, err := in.Eval(expr, NewEnv())
	assert.NoError(t, err)
	arr, ok := v.(value.ArrayVal)
	assert.True(t, ok)
	assert.Len(t, arr.Items, 2)
}

func TestUndefinedIdentifierErrors(t *testing.T) {
	prog, err := parser.Parse("undefinedName")
	assert.NoError(t, err)
	in := New(context.New())
	err = in.RunProgram(prog, NewEnv())
	assert.Error(t, err)
}

func TestUncaughtThrowErrors(t *testing.T) {
	prog, err := parser.Parse(`throw "boom"`)
	assert.NoError(t, err)
	in := New(context.New())
	err = in.RunProgram(prog, NewEnv())
	assert.Error(t, err)
}

func TestNienteDoesNotAffectScale(t *testing.T) {
	in := run(t, "3/2\nniente")
	assert.Len(t, in.Scale, 1)
}

func TestLestFallsBackOnError(t *testing.T) {
	in := run(t, "undefinedName lest 5/4")
	iv := lastInterval(t, in)
	assert.InDelta(t, 1.25, iv.ValueOf(), 1e-9)
}

func TestIncrementIsScalarNotStacking(t *testing.T) {
	// "++" adds 1 literally; it must not be confused with "+", which stacks
	// linear-domain ratios multiplicatively (0 * 1 would never advance).
	in := run(t, "let n = 0\nn++\nn++\nn++\nn")
	iv := lastInterval(t, in)
	assert.InDelta(t, 3.0, iv.ValueOf(), 1e-9)
}

func TestDecrementIsScalarNotStacking(t *testing.T) {
	in := run(t, "let n = 5\nn--\nn--\nn")
	iv := lastInterval(t, in)
	assert.InDelta(t, 3.0, iv.ValueOf(), 1e-9)
}

func TestIncrementOnLogarithmicValueIsDomainError(t *testing.T) {
	prog, err := parser.Parse("let n = 701.955c\nn++")
	assert.NoError(t, err)
	in := New(context.New())
	err = in.RunProgram(prog, NewEnv())
	assert.Error(t, err)
}

func TestNedjiPlainAdditionRederivesDenominator(t *testing.T) {
	// 4\12 + 2\12 sums prime-2 exponents 1/3 + 1/6 = 1/2 exactly; plain form
	// carries no node, but both operands share divisions=12, so printing
	// re-derives "6\12" rather than the reduced-but-unrelated "1\2".
	in := run(t, "4\\12 + 2\\12")
	iv := lastInterval(t, in)
	assert.Equal(t, "6\\12", iv.String())
}

func TestLeftPreferenceKeepsLeftDomain(t *testing.T) {
	// 2 ~+ 3\3: left operand is linear, so left-preference keeps the linear
	// domain even though the right operand is logarithmic; the underlying
	// value (2 * 3\3 == 2 * 2 == 4) happens to be an integer either way.
	in := run(t, "2 ~+ 3\\3")
	iv := lastInterval(t, in)
	assert.Equal(t, value.Linear, iv.Domain)
	assert.Equal(t, "4", iv.String())
}

func TestRightPreferenceKeepsRightDomainAndNode(t *testing.T) {
	// 2 +~ 3\3: right-preference keeps the right operand's logarithmic
	// domain and rewrites its nedji node to the new numerator over the same
	// divisions (3 + 3 steps of thirds-of-an-octave == 6\3).
	in := run(t, "2 +~ 3\\3")
	iv := lastInterval(t, in)
	assert.Equal(t, value.Logarithmic, iv.Domain)
	assert.Equal(t, "6\\3", iv.String())
}

func TestPlainFormPropagatesSoleLabel(t *testing.T) {
	// spec 4.2.3 rule 1: a label on exactly one operand survives a plain
	// (unpreferred) combination, not just the preferred-form combinations.
	// The label comes from a string statement on the first scale entry,
	// which is then read back through $.
	in := run(t, "3/2\n\"fifth\"\n$[0] + 5/4")
	iv := lastInterval(t, in)
	assert.Equal(t, "fifth", iv.Label)
}

func TestGasExhaustionAborts(t *testing.T) {
	ctx := context.New()
	ctx.Gas = 2
	prog, err := parser.Parse("let n = 0\nwhile n < 100 { n++ }")
	assert.NoError(t, err)
	in := New(ctx)
	err = in.RunProgram(prog, NewEnv())
	assert.Error(t, err)
}
