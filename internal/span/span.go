// Package span tracks source positions and ranges through the lexer, parser
// and interpreter so every token, AST node and runtime value can report
// exactly where in the source it came from.
package span

import "fmt"

// Position is a single point in a source file: a rune index plus the
// 0-based line/column it maps to, alongside the file name and the full
// source text it was computed against (needed to recompute spans without
// re-scanning).
type Position struct {
	Index  int    `json:"index"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	File   string `json:"file"`
	Text   string `json:"-"`
}

// NewPosition returns the starting position of file/text: one character
// before the first rune, so the first Advance call lands on index 0.
func NewPosition(file, text string) Position {
	return Position{Index: -1, Line: 0, Column: -1, File: file, Text: text}
}

// Advance consumes currentChar, the rune at the position *before* this call.
// A newline resets Column and increments Line; anything else just advances
// Column. currentChar is the zero rune when there is nothing to consume yet
// (the very first Advance of a Lexer).
func (p *Position) Advance(currentChar rune) {
	p.Index++
	p.Column++
	if currentChar == '\n' {
		p.Column = 0
		p.Line++
	}
}

// Copy returns an independent copy of p.
func (p Position) Copy() Position {
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line+1, p.Column+1)
}

// Span is a half-open [start, end) source range used for error reporting
// and AST/value provenance: Start is the first character covered and End
// the position just past the last one. Both are snapshots of a Position,
// never shared/mutated in place once a Span is built.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// New builds a Span from independent copies of start and end.
func New(start, end Position) Span {
	return Span{Start: start.Copy(), End: end.Copy()}
}

func (s Span) String() string {
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// Len reports the number of source characters the span covers.
func (s Span) Len() int {
	return s.End.Index - s.Start.Index
}
