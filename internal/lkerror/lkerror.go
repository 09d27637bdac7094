// Package lkerror holds LakiScript's compile-time error kinds: the ones the
// lexer and parser can fail with before the interpreter ever runs. Runtime
// errors (package runtime's RuntimeError) follow the same text contract but
// additionally carry a Context traceback, so they live next to Context
// instead of here.
package lkerror

import (
	"fmt"

	"github.com/lakiscript/laki/internal/span"
)

// Error is the shared shape of every compile-time error kind: a named kind,
// a human-readable detail, and the span it occurred at.
type Error struct {
	PosStart span.Position
	PosEnd   span.Position
	Name     string
	Detail   string
}

// GetError renders the error the way the host's run/shell entry points print
// it: "<Kind>: <detail>\nFile <file>, line <line+1>".
func (e *Error) GetError() string {
	return fmt.Sprintf("%s: %s\nFile %s, line %d", e.Name, e.Detail, e.PosStart.File, e.PosEnd.Line+1)
}

func (e *Error) Error() string {
	return e.GetError()
}

// IllegalChar reports a character the lexer has no rule for.
func IllegalChar(start, end span.Position, detail string) *Error {
	return &Error{PosStart: start, PosEnd: end, Name: "Illegal Character", Detail: detail}
}

// ExpectedChar reports a character the lexer required but did not find,
// e.g. the '=' after a lone '!'.
func ExpectedChar(start, end span.Position, detail string) *Error {
	return &Error{PosStart: start, PosEnd: end, Name: "Expected Character Error", Detail: detail}
}

// InvalidSyntax reports a parser grammar violation.
func InvalidSyntax(start, end span.Position, detail string) *Error {
	return &Error{PosStart: start, PosEnd: end, Name: "Invalid Syntax", Detail: detail}
}
