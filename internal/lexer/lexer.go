// Package lexer turns source text into a token stream. It is out of the
// CORE per spec.md §1 ("out of scope, treated as an external
// collaborator") beyond the token contract it must produce (spec §6): an
// EOF-terminated slice of token.Token. We still need a working one to
// drive everything downstream, so it is ported from the teacher's
// codecrafters/cmd/lexer.go, generalized from byte-indexed to
// rune-indexed scanning since the spec requires the scanner to index by
// character, not byte.
package lexer

import (
	"strconv"

	"github.com/sdcook/lox/internal/diag"
	"github.com/sdcook/lox/internal/token"
)

type Lexer struct {
	src  []rune
	idx  int // index of the current rune; -1 before the first next()
	line int
}

func New(source string) *Lexer {
	return &Lexer{src: []rune(source), idx: -1, line: 1}
}

// Scan consumes the whole source and returns every token it could produce
// — including an EOF — plus any lexical diagnostics. Scanning continues
// past an error so that `tokenize` can still print whatever was
// recognized.
func (l *Lexer) Scan() ([]token.Token, []*diag.Diagnostic) {
	var toks []token.Token
	var errs []*diag.Diagnostic

	for l.next() {
		switch c := l.ch(); c {
		case ' ', '\t', '\r':
			// nothing
		case '\n':
			l.line++
		case '(':
			toks = append(toks, l.simple(token.LEFT_PAREN))
		case ')':
			toks = append(toks, l.simple(token.RIGHT_PAREN))
		case '{':
			toks = append(toks, l.simple(token.LEFT_BRACE))
		case '}':
			toks = append(toks, l.simple(token.RIGHT_BRACE))
		case ',':
			toks = append(toks, l.simple(token.COMMA))
		case '.':
			toks = append(toks, l.simple(token.DOT))
		case '-':
			toks = append(toks, l.simple(token.MINUS))
		case '+':
			toks = append(toks, l.simple(token.PLUS))
		case ';':
			toks = append(toks, l.simple(token.SEMICOLON))
		case '*':
			toks = append(toks, l.simple(token.STAR))
		case '/':
			if l.peek() == '/' {
				l.skipComment()
			} else {
				toks = append(toks, l.simple(token.SLASH))
			}
		case '=':
			toks = append(toks, l.oneOrTwo('=', token.EQUAL, token.EQUAL_EQUAL))
		case '!':
			toks = append(toks, l.oneOrTwo('=', token.BANG, token.BANG_EQUAL))
		case '<':
			toks = append(toks, l.oneOrTwo('=', token.LESS, token.LESS_EQUAL))
		case '>':
			toks = append(toks, l.oneOrTwo('=', token.GREATER, token.GREATER_EQUAL))
		case '"':
			tok, err := l.stringLiteral()
			if err != nil {
				errs = append(errs, err)
			} else {
				toks = append(toks, tok)
			}
		default:
			switch {
			case isDigit(c):
				toks = append(toks, l.numberLiteral())
			case isAlpha(c):
				toks = append(toks, l.identifier())
			default:
				errs = append(errs, diag.New(l.line, "Unexpected character: %c", c))
			}
		}
	}

	toks = append(toks, token.New(token.EOF, "", nil, l.line))
	return toks, errs
}

func (l *Lexer) simple(typ token.Type) token.Token {
	return token.New(typ, string(l.ch()), nil, l.line)
}

func (l *Lexer) oneOrTwo(second rune, one, two token.Type) token.Token {
	first := l.ch()
	if l.peek() == second {
		l.next()
		return token.New(two, string([]rune{first, second}), nil, l.line)
	}
	return token.New(one, string(first), nil, l.line)
}

func (l *Lexer) ch() rune { return l.src[l.idx] }

// next advances to the next rune, returning false at end of input.
func (l *Lexer) next() bool {
	if l.idx >= len(l.src)-1 {
		return false
	}
	l.idx++
	return true
}

func (l *Lexer) peek() rune {
	if l.idx >= len(l.src)-1 {
		return 0
	}
	return l.src[l.idx+1]
}

func (l *Lexer) peekTwo() rune {
	if l.idx >= len(l.src)-2 {
		return 0
	}
	return l.src[l.idx+2]
}

func (l *Lexer) skipComment() {
	for l.peek() != '\n' && l.peek() != 0 {
		l.next()
	}
}

func (l *Lexer) stringLiteral() (token.Token, *diag.Diagnostic) {
	start := l.idx
	startLine := l.line
	for {
		if !l.next() {
			return token.Token{}, diag.New(startLine, "Unterminated string.")
		}
		if l.ch() == '\n' {
			l.line++
		}
		if l.ch() == '"' {
			break
		}
	}
	lexeme := string(l.src[start : l.idx+1])
	literal := string(l.src[start+1 : l.idx])
	return token.New(token.STRING, lexeme, literal, startLine), nil
}

func (l *Lexer) numberLiteral() token.Token {
	start := l.idx
	for isDigit(l.peek()) {
		l.next()
	}
	if l.peek() == '.' && isDigit(l.peekTwo()) {
		l.next()
		for isDigit(l.peek()) {
			l.next()
		}
	}

	lexeme := string(l.src[start : l.idx+1])
	n, _ := strconv.ParseFloat(lexeme, 64)
	return token.New(token.NUMBER, lexeme, n, l.line)
}

func (l *Lexer) identifier() token.Token {
	start := l.idx
	for isAlphaNumeric(l.peek()) {
		l.next()
	}
	text := string(l.src[start : l.idx+1])
	if typ, ok := token.Keywords[text]; ok {
		return token.New(typ, text, nil, l.line)
	}
	return token.New(token.IDENTIFIER, text, nil, l.line)
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c rune) bool { return isAlpha(c) || isDigit(c) }
