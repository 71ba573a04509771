package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tokenTexts(t *testing.T, src string) []string {
	t.Helper()
	toks, err := New(src).Tokenize()
	assert.NoError(t, err)
	var out []string
	for _, tok := range toks {
		if tok.Kind == EOF {
			continue
		}
		out = append(out, tok.Text)
	}
	return out
}

func TestTokenizeFraction(t *testing.T) {
	assert.Equal(t, []string{"3", "/", "2"}, tokenTexts(t, "3/2"))
}

func TestTokenizeComments(t *testing.T) {
	assert.Equal(t, []string{"5", "/", "4"}, tokenTexts(t, "5/4 // a major third\n"))
	assert.Equal(t, []string{"5", "/", "4"}, tokenTexts(t, "5 /* inline */ / 4"))
}

func TestTokenizeMultiCharOps(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"a === b", []string{"a", "===", "b"}},
		{"a !== b", []string{"a", "!==", "b"}},
		{"a => b", []string{"a", "=>", "b"}},
		{"a ~+~ b", []string{"a", "~+~", "b"}},
		{"a /^ b", []string{"a", "/^", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenTexts(t, tt.src))
		})
	}
}

func TestTokenizeSpread(t *testing.T) {
	toks, err := New("[1, ...rest]").Tokenize()
	assert.NoError(t, err)
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, Dots3)
}

func TestTokenizeString(t *testing.T) {
	toks, err := New(`"hello\nworld"`).Tokenize()
	assert.NoError(t, err)
	assert.Equal(t, String, toks[0].Kind)
	assert.Equal(t, "hello\nworld", toks[0].Text)
}

func TestTokenizeUnexpectedCharacter(t *testing.T) {
	_, err := New("`").Tokenize()
	// backtick is not in the single-rune operator set nor ident-start, so
	// this must surface as a lexer error rather than silently dropping it.
	assert.Error(t, err)
}

func TestTokenizeImplicitScale(t *testing.T) {
	assert.Equal(t, []string{"$", "$$"}, tokenTexts(t, "$ $$"))
}

func TestTokenizeCentsUnit(t *testing.T) {
	got := tokenTexts(t, "701.955c")
	assert.Equal(t, []string{"701.955c"}, got)
}
