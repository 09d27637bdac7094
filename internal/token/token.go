// Package token defines the closed set of lexical token kinds LakiScript's
// lexer produces and the parser consumes.
package token

import (
	"fmt"

	"github.com/lakiscript/laki/internal/span"
)

// Kind identifies the lexical class of a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	INT
	FLOAT
	STRING
	IDENTIFIER
	KEYWORD

	PLUS
	MINUS
	MUL
	DIV
	POW
	MOD

	EQ
	PLUSEQ
	MINUSEQ
	MULEQ
	DIVEQ
	POWEQ
	MODEQ

	EE
	NE
	LT
	GT
	LTE
	GTE

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET

	COMMA
	ARROW
)

var kindNames = map[Kind]string{
	ILLEGAL:    "ILLEGAL",
	EOF:        "EOF",
	NEWLINE:    "NEWLINE",
	INT:        "INT",
	FLOAT:      "FLOAT",
	STRING:     "STRING",
	IDENTIFIER: "IDENTIFIER",
	KEYWORD:    "KEYWORD",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	MUL:        "MUL",
	DIV:        "DIV",
	POW:        "POW",
	MOD:        "MOD",
	EQ:         "EQ",
	PLUSEQ:     "PLUSEQ",
	MINUSEQ:    "MINUSEQ",
	MULEQ:      "MULEQ",
	DIVEQ:      "DIVEQ",
	POWEQ:      "POWEQ",
	MODEQ:      "MODEQ",
	EE:         "EE",
	NE:         "NE",
	LT:         "LT",
	GT:         "GT",
	LTE:        "LTE",
	GTE:        "GTE",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
	COMMA:      "COMMA",
	ARROW:      "ARROW",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// CompoundAssignKinds are the compound-assign forms of EQ, in the order the
// parser needs to test membership.
var CompoundAssignKinds = [...]Kind{PLUSEQ, MINUSEQ, MULEQ, DIVEQ, POWEQ, MODEQ}

// IsAssign reports whether k is EQ or one of the compound-assign kinds.
func IsAssign(k Kind) bool {
	if k == EQ {
		return true
	}
	for _, c := range CompoundAssignKinds {
		if c == k {
			return true
		}
	}
	return false
}

// keywords is the closed keyword set; anything else starting with a letter
// lexes as IDENTIFIER.
var keywords = map[string]bool{
	"var": true, "and": true, "or": true, "not": true,
	"if": true, "elif": true, "else": true,
	"for": true, "to": true, "step": true, "while": true,
	"func": true, "return": true, "continue": true, "break": true,
}

// IsKeyword reports whether ident is one of LakiScript's reserved words.
func IsKeyword(ident string) bool {
	return keywords[ident]
}

// Token is a single lexed unit: its kind, an optional payload (int64,
// float64 or string depending on Kind; the keyword text for KEYWORD; nil
// otherwise), and the span of source it covers.
type Token struct {
	Kind  Kind        `json:"kind"`
	Value interface{} `json:"value,omitempty"`
	Span  span.Span   `json:"span"`
}

// Match reports whether the token has the given kind and, for
// value-carrying kinds such as KEYWORD, the given value.
func (t Token) Match(kind Kind, value interface{}) bool {
	return t.Kind == kind && t.Value == value
}

func (t Token) String() string {
	if t.Value != nil {
		return fmt.Sprintf("%s:%v", t.Kind, t.Value)
	}
	return t.Kind.String()
}
