package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakiscript/laki/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeArithmetic(t *testing.T) {
	l := New("test.lk", "var x = 1 + 2 * 3")
	toks, diags, err := l.Tokenize()
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, []token.Kind{
		token.KEYWORD, token.IDENTIFIER, token.EQ,
		token.INT, token.PLUS, token.INT, token.MUL, token.INT,
		token.EOF,
	}, kinds(toks))
}

func TestTokenizeKeywords(t *testing.T) {
	l := New("test.lk", "if elif else for to step while func return continue break and or not var")
	toks, _, err := l.Tokenize()
	require.NoError(t, err)

	for _, tok := range toks[:len(toks)-1] {
		assert.Equal(t, token.KEYWORD, tok.Kind)
	}
}

func TestTokenizeString(t *testing.T) {
	l := New("test.lk", `'hello world'`)
	toks, _, err := l.Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Value)
}

func TestTokenizeStringEscapes(t *testing.T) {
	l := New("test.lk", `'line1\nline2\t\''`)
	toks, _, err := l.Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "line1\nline2\t'", toks[0].Value)
}

func TestTokenizeNumbers(t *testing.T) {
	l := New("test.lk", "42 3.14")
	toks, _, err := l.Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.Equal(t, int64(42), toks[0].Value)
	assert.Equal(t, token.FLOAT, toks[1].Kind)
	assert.Equal(t, 3.14, toks[1].Value)
}

func TestTokenizeCompoundAssign(t *testing.T) {
	l := New("test.lk", "x += 1 x -= 1 x *= 1 x /= 1 x **= 1 x %= 1")
	toks, _, err := l.Tokenize()
	require.NoError(t, err)

	var ops []token.Kind
	for _, tok := range toks {
		if token.IsAssign(tok.Kind) {
			ops = append(ops, tok.Kind)
		}
	}
	assert.Equal(t, []token.Kind{
		token.PLUSEQ, token.MINUSEQ, token.MULEQ, token.DIVEQ, token.POWEQ, token.MODEQ,
	}, ops)
}

func TestTokenizeComparisons(t *testing.T) {
	l := New("test.lk", "== != < > <= >=")
	toks, _, err := l.Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.EE, token.NE, token.LT, token.GT, token.LTE, token.GTE, token.EOF,
	}, kinds(toks))
}

func TestTokenizeArrowAndBrackets(t *testing.T) {
	l := New("test.lk", "func(a, b) -> a + b  [1, 2]")
	toks, _, err := l.Tokenize()
	require.NoError(t, err)
	assert.Contains(t, kinds(toks), token.ARROW)
	assert.Contains(t, kinds(toks), token.LBRACKET)
	assert.Contains(t, kinds(toks), token.RBRACKET)
}

func TestTokenizeIllegalCharacter(t *testing.T) {
	l := New("test.lk", "var x = @")
	_, _, err := l.Tokenize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Illegal Character")
}

func TestTokenizeLoneNotEqualIsError(t *testing.T) {
	l := New("test.lk", "x ! y")
	_, _, err := l.Tokenize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected Character Error")
}

func TestTokenizeNewlinesAreSignificant(t *testing.T) {
	l := New("test.lk", "var x = 1\nvar y = 2")
	toks, _, err := l.Tokenize()
	require.NoError(t, err)
	assert.Contains(t, kinds(toks), token.NEWLINE)
}
