package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdcook/lox/internal/token"
)

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, errs := New("(){},.-+;*/ == != <= >= < > = !").Scan()
	require.Empty(t, errs)

	want := []token.Type{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
		token.STAR, token.SLASH,
		token.EQUAL_EQUAL, token.BANG_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL,
		token.LESS, token.GREATER, token.EQUAL, token.BANG,
		token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, typ := range want {
		assert.Equal(t, typ, toks[i].Type, "token %d", i)
	}
}

func TestScanNumberLiteral(t *testing.T) {
	toks, errs := New("42 3.14 6.").Scan()
	require.Empty(t, errs)

	require.Equal(t, token.NUMBER, toks[0].Type)
	assert.Equal(t, "42", toks[0].Lexeme)
	assert.Equal(t, 42.0, toks[0].Literal)

	require.Equal(t, token.NUMBER, toks[1].Type)
	assert.Equal(t, 3.14, toks[1].Literal)

	// A trailing '.' with no fractional digit is not consumed as part of
	// the number: "6" then a separate DOT token.
	require.Equal(t, token.NUMBER, toks[2].Type)
	assert.Equal(t, "6", toks[2].Lexeme)
	assert.Equal(t, token.DOT, toks[3].Type)
}

func TestScanStringLiteral(t *testing.T) {
	toks, errs := New(`"hello world"`).Scan()
	require.Empty(t, errs)
	require.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, "hello world", toks[0].Literal)
}

func TestScanUnterminatedString(t *testing.T) {
	_, errs := New(`"oops`).Scan()
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Line)
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	toks, errs := New("fun orchid or_else").Scan()
	require.Empty(t, errs)
	assert.Equal(t, token.FUN, toks[0].Type)
	// Keywords are matched whole; "orchid" is not "or" + "chid".
	assert.Equal(t, token.IDENTIFIER, toks[1].Type)
	assert.Equal(t, "orchid", toks[1].Lexeme)
	assert.Equal(t, token.IDENTIFIER, toks[2].Type)
}

func TestScanCommentsAndNewlinesTrackLine(t *testing.T) {
	toks, errs := New("1 // a comment\n2").Scan()
	require.Empty(t, errs)
	require.Len(t, toks, 3) // 1, 2, EOF
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanEndsWithEOF(t *testing.T) {
	toks, _ := New("").Scan()
	require.Len(t, toks, 1)
	assert.Equal(t, token.EOF, toks[0].Type)
}

func TestScanUnexpectedCharacterContinues(t *testing.T) {
	toks, errs := New("1 @ 2").Scan()
	require.Len(t, errs, 1)
	// Scanning continues past the bad character.
	require.Len(t, toks, 3)
	assert.Equal(t, token.NUMBER, toks[0].Type)
	assert.Equal(t, token.NUMBER, toks[1].Type)
}
