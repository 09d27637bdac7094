package runtime

import (
	"fmt"

	"github.com/lakiscript/laki/internal/span"
)

// RuntimeError is a failure raised while evaluating the AST: illegal
// operations, undefined names, division by zero, arity mismatches. Unlike
// the compile-time errors in package lkerror, it carries the Context chain
// active when it was raised, so GetError can render a full traceback.
type RuntimeError struct {
	PosStart span.Position
	PosEnd   span.Position
	Detail   string
	Context  *Context
}

// NewRuntimeError builds a RuntimeError; ctx may be nil only for errors
// raised before any frame exists (there are none in practice — the root
// program context is always present by the time evaluation starts).
func NewRuntimeError(start, end span.Position, detail string, ctx *Context) *RuntimeError {
	return &RuntimeError{PosStart: start, PosEnd: end, Detail: detail, Context: ctx}
}

// GetError renders the full "Traceback (most recent call last): ... Runtime
// Error: <detail>\nFile <file>, line <n>" text the host prints on failure.
func (e *RuntimeError) GetError() string {
	return e.traceback() + fmt.Sprintf("Runtime Error: %s\nFile %s, line %d", e.Detail, e.PosStart.File, e.PosEnd.Line+1)
}

func (e *RuntimeError) Error() string { return e.GetError() }

// traceback walks the Context chain outward via Parent/ParentPos,
// prepending one frame line per level, innermost frame first in the loop
// but prepended so the final text reads outermost-frame-first.
func (e *RuntimeError) traceback() string {
	var frames string
	pos := e.PosStart
	ctx := e.Context
	for ctx != nil {
		frames = fmt.Sprintf("File %s, line %d, in %s\n", pos.File, pos.Line+1, ctx.Name) + frames
		if ctx.ParentPos == nil {
			break
		}
		pos = *ctx.ParentPos
		ctx = ctx.Parent
	}
	return "Traceback (most recent call last):\n" + frames
}
