// Package ast defines LakiScript's abstract syntax tree: a closed set of
// tagged-variant nodes, every one of which carries the source span it was
// parsed from.
package ast

import (
	"github.com/lakiscript/laki/internal/span"
	"github.com/lakiscript/laki/internal/token"
)

// Node is implemented by every AST node.
type Node interface {
	Span() span.Span
}

// base carries the span every node needs; embed it to satisfy Node.
type base struct {
	span span.Span
}

func (b base) Span() span.Span { return b.span }

// NumberNode is an INT or FLOAT literal.
type NumberNode struct {
	base
	Token token.Token
}

func NewNumberNode(tok token.Token) *NumberNode {
	return &NumberNode{base: base{tok.Span}, Token: tok}
}

// StringNode is a STRING literal.
type StringNode struct {
	base
	Token token.Token
}

func NewStringNode(tok token.Token) *StringNode {
	return &StringNode{base: base{tok.Span}, Token: tok}
}

// ListNode is a `[a, b, c]` literal, or the evaluated body of an if/for/
// while/statement block (a statements list evaluates to a ListNode of its
// per-statement values).
type ListNode struct {
	base
	Elements []Node
}

func NewListNode(elements []Node, sp span.Span) *ListNode {
	return &ListNode{base: base{sp}, Elements: elements}
}

// VarAccessNode reads a variable by name.
type VarAccessNode struct {
	base
	NameToken token.Token
}

func NewVarAccessNode(nameTok token.Token) *VarAccessNode {
	return &VarAccessNode{base: base{nameTok.Span}, NameToken: nameTok}
}

// VarAssignNode is `var NAME = expr` (Define=true) or `NAME <eq> expr`
// (Define=false), where Eq is EQ or a compound-assign kind.
type VarAssignNode struct {
	base
	NameToken token.Token
	Value     Node
	Eq        token.Kind
	Define    bool
}

func NewVarAssignNode(nameTok token.Token, value Node, eq token.Kind, define bool) *VarAssignNode {
	return &VarAssignNode{base: base{nameTok.Span}, NameToken: nameTok, Value: value, Eq: eq, Define: define}
}

// BinaryOpNode is `left OP right`.
type BinaryOpNode struct {
	base
	Left  Node
	Op    token.Token
	Right Node
}

func NewBinaryOpNode(left Node, op token.Token, right Node) *BinaryOpNode {
	return &BinaryOpNode{base: base{span.New(left.Span().Start, right.Span().End)}, Left: left, Op: op, Right: right}
}

// UnaryOpNode is `OP operand` (unary minus or `not`).
type UnaryOpNode struct {
	base
	Op      token.Token
	Operand Node
}

func NewUnaryOpNode(op token.Token, operand Node) *UnaryOpNode {
	return &UnaryOpNode{base: base{span.New(op.Span.Start, operand.Span().End)}, Op: op, Operand: operand}
}

// IfCase is one `cond { body }` arm of an If.
type IfCase struct {
	Cond Node
	Body Node
}

// IfNode is `if ... (elif ...)* (else ...)?`.
type IfNode struct {
	base
	Cases    []IfCase
	ElseBody Node // nil if no else
}

func NewIfNode(cases []IfCase, elseBody Node) *IfNode {
	end := cases[len(cases)-1].Cond.Span().End
	if elseBody != nil {
		end = elseBody.Span().End
	}
	return &IfNode{base: base{span.New(cases[0].Cond.Span().Start, end)}, Cases: cases, ElseBody: elseBody}
}

// ForNode is `for VAR = start to end (step step)? { body }`.
type ForNode struct {
	base
	VarToken  token.Token
	Start     Node
	End       Node
	Step      Node // nil if not given (defaults to Number(1))
	Body      Node
}

func NewForNode(varTok token.Token, start, end, step, body Node) *ForNode {
	return &ForNode{base: base{span.New(varTok.Span.Start, body.Span().End)}, VarToken: varTok, Start: start, End: end, Step: step, Body: body}
}

// WhileNode is `while cond { body }`.
type WhileNode struct {
	base
	Cond Node
	Body Node
}

func NewWhileNode(cond, body Node) *WhileNode {
	return &WhileNode{base: base{span.New(cond.Span().Start, body.Span().End)}, Cond: cond, Body: body}
}

// FuncNode is `func NAME? (params) -> body`. NameToken is nil when the
// function is anonymous. AutoReturn is true for the arrow-
// expression body form, false for the brace-statements form.
type FuncNode struct {
	base
	NameToken  *token.Token // nil when anonymous
	Params     []token.Token
	Body       Node
	AutoReturn bool
}

func NewFuncNode(nameTok *token.Token, params []token.Token, body Node, autoReturn bool, sp span.Span) *FuncNode {
	return &FuncNode{base: base{sp}, NameToken: nameTok, Params: params, Body: body, AutoReturn: autoReturn}
}

// CallNode is `callee(args...)`.
type CallNode struct {
	base
	Callee Node
	Args   []Node
}

func NewCallNode(callee Node, args []Node, sp span.Span) *CallNode {
	return &CallNode{base: base{sp}, Callee: callee, Args: args}
}

// ReturnNode is `return expr?`.
type ReturnNode struct {
	base
	Value Node // nil if bare `return`
}

func NewReturnNode(value Node, sp span.Span) *ReturnNode {
	return &ReturnNode{base: base{sp}, Value: value}
}

// ContinueNode is `continue`.
type ContinueNode struct{ base }

func NewContinueNode(sp span.Span) *ContinueNode { return &ContinueNode{base{sp}} }

// BreakNode is `break`.
type BreakNode struct{ base }

func NewBreakNode(sp span.Span) *BreakNode { return &BreakNode{base{sp}} }
