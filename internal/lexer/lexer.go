// Package lexer scans LakiScript source text into a token stream.
package lexer

import (
	"strconv"
	"strings"

	"github.com/lakiscript/laki/internal/diag"
	"github.com/lakiscript/laki/internal/lkerror"
	"github.com/lakiscript/laki/internal/span"
	"github.com/lakiscript/laki/internal/token"
)

// Lexer scans one file's source text into a Token stream.
type Lexer struct {
	file string
	text []rune

	pos         span.Position
	currentChar rune
	hasChar     bool

	diags []diag.Diagnostic
}

// New creates a Lexer over text, attributed to file for error reporting.
func New(file, text string) *Lexer {
	l := &Lexer{file: file, text: []rune(text), pos: span.NewPosition(file, text)}
	l.advance()
	return l
}

func (l *Lexer) advance() {
	l.pos.Advance(l.currentCharOrZero())
	if l.pos.Index < len(l.text) {
		l.currentChar = l.text[l.pos.Index]
		l.hasChar = true
	} else {
		l.currentChar = 0
		l.hasChar = false
	}
}

func (l *Lexer) currentCharOrZero() rune {
	if l.hasChar {
		return l.currentChar
	}
	return 0
}

// Tokenize scans the whole source, returning the token stream along with
// accumulated diagnostics. A non-nil error is always an *lkerror.Error
// (IllegalCharError or ExpectedCharError) and, per the language contract,
// aborts the pipeline before any tokens are handed to the parser.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic, error) {
	var tokens []token.Token

	for l.hasChar {
		switch {
		case l.currentChar == ' ' || l.currentChar == '\t':
			l.advance()
		case isDigit(l.currentChar):
			tokens = append(tokens, l.makeNumber())
		case isLetter(l.currentChar):
			tokens = append(tokens, l.makeIdentifier())
		case l.currentChar == '\'':
			tokens = append(tokens, l.makeString())
		case l.currentChar == '=':
			tokens = append(tokens, l.makeEqual())
		case l.currentChar == '<':
			tokens = append(tokens, l.makeLessThan())
		case l.currentChar == '>':
			tokens = append(tokens, l.makeGreaterThan())
		case l.currentChar == '!':
			tok, err := l.makeNotEqual()
			if err != nil {
				return nil, l.diags, err
			}
			tokens = append(tokens, tok)
		case l.currentChar == '+':
			tokens = append(tokens, l.makePlus())
		case l.currentChar == '-':
			tokens = append(tokens, l.makeMinus())
		case l.currentChar == '*':
			tokens = append(tokens, l.makeAsterisk())
		case l.currentChar == '/':
			tok, isComment := l.makeSlash()
			if isComment {
				continue
			}
			tokens = append(tokens, tok)
		case l.currentChar == '%':
			tokens = append(tokens, l.makeMod())
		case l.currentChar == '(':
			tokens = append(tokens, l.single(token.LPAREN))
		case l.currentChar == ')':
			tokens = append(tokens, l.single(token.RPAREN))
		case l.currentChar == '{':
			tokens = append(tokens, l.single(token.LBRACE))
		case l.currentChar == '}':
			p := l.pos.Copy()
			tokens = append(tokens, token.Token{Kind: token.RBRACE, Span: span.New(p, p)})
			tokens = append(tokens, token.Token{Kind: token.NEWLINE, Span: span.New(p, p)})
			l.advance()
		case l.currentChar == '[':
			tokens = append(tokens, l.single(token.LBRACKET))
		case l.currentChar == ']':
			tokens = append(tokens, l.single(token.RBRACKET))
		case l.currentChar == ',':
			tokens = append(tokens, l.single(token.COMMA))
		case l.currentChar == ';' || l.currentChar == '\n':
			tokens = append(tokens, l.single(token.NEWLINE))
		default:
			start := l.pos.Copy()
			ch := l.currentChar
			l.advance()
			err := lkerror.IllegalChar(start, l.pos, "'"+string(ch)+"'")
			l.diags = append(l.diags, diag.Errorf("LEX001", span.New(start, l.pos), "illegal character '%c'", ch))
			return nil, l.diags, err
		}
	}

	tokens = append(tokens, token.Token{Kind: token.EOF, Span: span.New(l.pos, l.pos)})
	return tokens, l.diags, nil
}

func (l *Lexer) single(kind token.Kind) token.Token {
	p := l.pos.Copy()
	l.advance()
	return token.Token{Kind: kind, Span: span.New(p, l.pos)}
}

// makeSlash matches DIV, DIVEQ or a "//" line comment. It reports via the
// bool whether a comment was skipped (no token produced).
func (l *Lexer) makeSlash() (token.Token, bool) {
	start := l.pos.Copy()
	l.advance()
	switch {
	case l.currentChar == '/':
		l.skipLineComment()
		return token.Token{}, true
	case l.currentChar == '=':
		l.advance()
		return token.Token{Kind: token.DIVEQ, Span: span.New(start, l.pos)}, false
	default:
		return token.Token{Kind: token.DIV, Span: span.New(start, l.pos)}, false
	}
}

func (l *Lexer) skipLineComment() {
	for l.hasChar && l.currentChar != '\n' {
		l.advance()
	}
}

func (l *Lexer) makeNumber() token.Token {
	start := l.pos.Copy()
	var sb strings.Builder
	dot := false

	for l.hasChar && (isDigit(l.currentChar) || l.currentChar == '.') {
		if l.currentChar == '.' {
			if dot {
				break
			}
			dot = true
		}
		sb.WriteRune(l.currentChar)
		l.advance()
	}

	if !dot {
		v, _ := strconv.ParseInt(sb.String(), 10, 64)
		return token.Token{Kind: token.INT, Value: v, Span: span.New(start, l.pos)}
	}
	v, _ := strconv.ParseFloat(sb.String(), 64)
	return token.Token{Kind: token.FLOAT, Value: v, Span: span.New(start, l.pos)}
}

func (l *Lexer) makeString() token.Token {
	start := l.pos.Copy()
	var sb strings.Builder
	escapeChars := map[rune]rune{'n': '\n', 't': '\t'}

	l.advance() // opening quote
	escaping := false
	for l.hasChar && (l.currentChar != '\'' || escaping) {
		if escaping {
			if r, ok := escapeChars[l.currentChar]; ok {
				sb.WriteRune(r)
			} else {
				sb.WriteRune(l.currentChar)
			}
			escaping = false
		} else if l.currentChar == '\\' {
			escaping = true
		} else {
			sb.WriteRune(l.currentChar)
		}
		l.advance()
	}
	l.advance() // closing quote

	return token.Token{Kind: token.STRING, Value: sb.String(), Span: span.New(start, l.pos)}
}

func (l *Lexer) makeIdentifier() token.Token {
	start := l.pos.Copy()
	var sb strings.Builder

	for l.hasChar && (isLetter(l.currentChar) || isDigit(l.currentChar) || l.currentChar == '_') {
		sb.WriteRune(l.currentChar)
		l.advance()
	}

	name := sb.String()
	kind := token.IDENTIFIER
	if token.IsKeyword(name) {
		kind = token.KEYWORD
	}
	return token.Token{Kind: kind, Value: name, Span: span.New(start, l.pos)}
}

func (l *Lexer) makePlus() token.Token {
	start := l.pos.Copy()
	kind := token.PLUS
	l.advance()
	if l.currentChar == '=' {
		l.advance()
		kind = token.PLUSEQ
	}
	return token.Token{Kind: kind, Span: span.New(start, l.pos)}
}

func (l *Lexer) makeMinus() token.Token {
	start := l.pos.Copy()
	kind := token.MINUS
	l.advance()
	switch l.currentChar {
	case '=':
		l.advance()
		kind = token.MINUSEQ
	case '>':
		l.advance()
		kind = token.ARROW
	}
	return token.Token{Kind: kind, Span: span.New(start, l.pos)}
}

func (l *Lexer) makeAsterisk() token.Token {
	start := l.pos.Copy()
	kind := token.MUL
	l.advance()
	if l.currentChar == '*' {
		l.advance()
		kind = token.POW
		if l.currentChar == '=' {
			l.advance()
			kind = token.POWEQ
		}
	} else if l.currentChar == '=' {
		l.advance()
		kind = token.MULEQ
	}
	return token.Token{Kind: kind, Span: span.New(start, l.pos)}
}

func (l *Lexer) makeMod() token.Token {
	start := l.pos.Copy()
	kind := token.MOD
	l.advance()
	if l.currentChar == '=' {
		l.advance()
		kind = token.MODEQ
	}
	return token.Token{Kind: kind, Span: span.New(start, l.pos)}
}

func (l *Lexer) makeEqual() token.Token {
	start := l.pos.Copy()
	kind := token.EQ
	l.advance()
	if l.currentChar == '=' {
		l.advance()
		kind = token.EE
	}
	return token.Token{Kind: kind, Span: span.New(start, l.pos)}
}

func (l *Lexer) makeLessThan() token.Token {
	start := l.pos.Copy()
	kind := token.LT
	l.advance()
	if l.currentChar == '=' {
		l.advance()
		kind = token.LTE
	}
	return token.Token{Kind: kind, Span: span.New(start, l.pos)}
}

func (l *Lexer) makeGreaterThan() token.Token {
	start := l.pos.Copy()
	kind := token.GT
	l.advance()
	if l.currentChar == '=' {
		l.advance()
		kind = token.GTE
	}
	return token.Token{Kind: kind, Span: span.New(start, l.pos)}
}

func (l *Lexer) makeNotEqual() (token.Token, error) {
	start := l.pos.Copy()
	l.advance()
	if l.currentChar == '=' {
		l.advance()
		return token.Token{Kind: token.NE, Span: span.New(start, l.pos)}, nil
	}
	l.advance()
	err := lkerror.ExpectedChar(start, l.pos, "The character after '!' should be '='")
	l.diags = append(l.diags, diag.Errorf("LEX002", span.New(start, l.pos), "expected '=' after '!'"))
	return token.Token{}, err
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}
