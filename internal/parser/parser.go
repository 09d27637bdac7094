// Package parser implements LakiScript's recursive-descent parser.
package parser

import (
	"github.com/lakiscript/laki/internal/ast"
	"github.com/lakiscript/laki/internal/diag"
	"github.com/lakiscript/laki/internal/lkerror"
	"github.com/lakiscript/laki/internal/span"
	"github.com/lakiscript/laki/internal/token"
)

// ParserResult carries a parsed node or error along with the number of
// tokens consumed, so speculative parses (`TryRegister`) can roll the
// cursor back to before the attempt if it fails.
type ParserResult struct {
	Error        error
	Node         ast.Node
	AdvanceCount int
	ToReverse    int
}

// RegisterAdvancement records one token consumed directly by the caller
// (as opposed to through a sub-parse registered via Register).
func (r *ParserResult) RegisterAdvancement() { r.AdvanceCount++ }

// Register merges a completed sub-parse into r, propagating its advancement
// count and any error, and returns its node.
func (r *ParserResult) Register(other *ParserResult) ast.Node {
	r.AdvanceCount += other.AdvanceCount
	if other.Error != nil {
		r.Error = other.Error
	}
	return other.Node
}

// TryRegister merges a speculative sub-parse: on success it behaves like
// Register; on failure it records how many tokens to reverse and returns
// nil without propagating the error, letting the caller retry another
// production after reversing the cursor.
func (r *ParserResult) TryRegister(other *ParserResult) ast.Node {
	if other.Error != nil {
		r.ToReverse = other.AdvanceCount
		return nil
	}
	return r.Register(other)
}

func (r *ParserResult) Success(node ast.Node) *ParserResult {
	r.Node = node
	return r
}

func (r *ParserResult) Failure(err error) *ParserResult {
	r.Error = err
	return r
}

// Parser is a recursive-descent parser over a token stream.
type Parser struct {
	tokens     []token.Token
	tokenIndex int
	current    token.Token
	diags      []diag.Diagnostic
}

// New creates a Parser over tokens (which must end with an EOF token, as
// produced by lexer.Tokenize).
func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens, tokenIndex: -1}
	p.advance()
	return p
}

func (p *Parser) advance() token.Token {
	p.tokenIndex++
	p.updateCurrent()
	return p.current
}

// reverse restores the cursor to tokenIndex-amount, implementing the
// speculative-parse rollback the grammar's `var`/assignment/return lookahead
// relies on.
func (p *Parser) reverse(amount int) token.Token {
	p.tokenIndex -= amount
	p.updateCurrent()
	return p.current
}

func (p *Parser) updateCurrent() {
	if p.tokenIndex >= 0 && p.tokenIndex < len(p.tokens) {
		p.current = p.tokens[p.tokenIndex]
	}
}

// Diagnostics returns the structured diagnostics accumulated during Parse,
// for tooling (the `laki ast`/`laki tokens --json` debug surface) that
// wants more than the single fatal compile error.
func (p *Parser) Diagnostics() []diag.Diagnostic { return p.diags }

// Parse is the parser's single entry point: `program = statements EOF`.
func (p *Parser) Parse() (ast.Node, error) {
	res := p.statements()
	if res.Error == nil && p.current.Kind != token.EOF {
		err := lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected '+', '-', '*' or '/'")
		p.diags = append(p.diags, diag.Errorf("PAR001", p.current.Span, "unexpected token %s", p.current.Kind))
		return nil, err
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return res.Node, nil
}

// statements = NEWLINE* statement (NEWLINE+ statement)* NEWLINE*
func (p *Parser) statements() *ParserResult {
	res := &ParserResult{}
	var statements []ast.Node
	posStart := p.current.Span.Start.Copy()

	for p.current.Kind == token.NEWLINE {
		res.RegisterAdvancement()
		p.advance()
	}

	stmt := res.Register(p.statement())
	if res.Error != nil {
		return res
	}
	statements = append(statements, stmt)

	moreStatements := true
	for {
		newlineCount := 0
		for p.current.Kind == token.NEWLINE {
			res.RegisterAdvancement()
			p.advance()
			newlineCount++
		}
		if newlineCount == 0 {
			moreStatements = false
		}
		if !moreStatements {
			break
		}
		stmt := res.TryRegister(p.statement())
		if stmt == nil {
			p.reverse(res.ToReverse)
			moreStatements = false
			continue
		}
		statements = append(statements, stmt)
	}

	return res.Success(ast.NewListNode(statements, span.New(posStart, p.current.Span.End.Copy())))
}

// statement = "return" expr? | "continue" | "break" | expr
func (p *Parser) statement() *ParserResult {
	res := &ParserResult{}
	posStart := p.current.Span.Start.Copy()

	if p.current.Match(token.KEYWORD, "return") {
		res.RegisterAdvancement()
		p.advance()

		value := res.TryRegister(p.expr())
		if value == nil {
			p.reverse(res.ToReverse)
		}
		return res.Success(ast.NewReturnNode(value, span.New(posStart, p.current.Span.Start.Copy())))
	}

	if p.current.Match(token.KEYWORD, "continue") {
		res.RegisterAdvancement()
		p.advance()
		return res.Success(ast.NewContinueNode(span.New(posStart, p.current.Span.Start.Copy())))
	}

	if p.current.Match(token.KEYWORD, "break") {
		res.RegisterAdvancement()
		p.advance()
		return res.Success(ast.NewBreakNode(span.New(posStart, p.current.Span.Start.Copy())))
	}

	expr := res.Register(p.expr())
	if res.Error != nil {
		return res
	}
	return res.Success(expr)
}

// expr = "var" IDENT EQ expr
//      | IDENT (EQ|compound-assign) expr
//      | comp (("and"|"or") comp)*
func (p *Parser) expr() *ParserResult {
	res := &ParserResult{}

	if p.current.Match(token.KEYWORD, "var") {
		res.RegisterAdvancement()
		p.advance()

		if p.current.Kind != token.IDENTIFIER {
			return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected identifier"))
		}
		varName := p.current
		res.RegisterAdvancement()
		p.advance()

		if p.current.Kind != token.EQ {
			return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected '='"))
		}
		res.RegisterAdvancement()
		p.advance()

		value := res.Register(p.expr())
		if res.Error != nil {
			return res
		}
		return res.Success(ast.NewVarAssignNode(varName, value, token.EQ, true))
	}

	if p.current.Kind == token.IDENTIFIER {
		varName := p.current
		res.RegisterAdvancement()
		p.advance()

		if !token.IsAssign(p.current.Kind) {
			p.reverse(1)
			node := res.Register(p.binOp(p.comp, logicalOps))
			if res.Error != nil {
				return res
			}
			return res.Success(node)
		}
		eq := p.current.Kind
		res.RegisterAdvancement()
		p.advance()

		value := res.Register(p.expr())
		if res.Error != nil {
			return res
		}
		return res.Success(ast.NewVarAssignNode(varName, value, eq, false))
	}

	node := res.Register(p.binOp(p.comp, logicalOps))
	if res.Error != nil {
		return res
	}
	return res.Success(node)
}

// opMatcher is either a bare token.Kind or a (KEYWORD, lexeme) pair.
type opMatcher struct {
	kind  token.Kind
	value interface{} // nil means "any value for this kind"
}

func (m opMatcher) matches(tok token.Token) bool {
	if m.value == nil {
		return tok.Kind == m.kind
	}
	return tok.Match(m.kind, m.value)
}

var logicalOps = []opMatcher{
	{kind: token.KEYWORD, value: "and"},
	{kind: token.KEYWORD, value: "or"},
}

var comparisonOps = []opMatcher{
	{kind: token.EE}, {kind: token.NE}, {kind: token.LT}, {kind: token.GT}, {kind: token.LTE}, {kind: token.GTE},
}

var additiveOps = []opMatcher{{kind: token.PLUS}, {kind: token.MINUS}}
var multiplicativeOps = []opMatcher{{kind: token.MUL}, {kind: token.DIV}, {kind: token.MOD}}
var powerOps = []opMatcher{{kind: token.POW}}

// comp = "not" comp | arith ((EE|NE|LT|GT|LTE|GTE) arith)*
func (p *Parser) comp() *ParserResult {
	res := &ParserResult{}

	if p.current.Match(token.KEYWORD, "not") {
		opTok := p.current
		res.RegisterAdvancement()
		p.advance()
		operand := res.Register(p.comp())
		if res.Error != nil {
			return res
		}
		return res.Success(ast.NewUnaryOpNode(opTok, operand))
	}

	node := res.Register(p.binOp(p.arith, comparisonOps))
	if res.Error != nil {
		return res
	}
	return res.Success(node)
}

// arith = term ((PLUS|MINUS) term)*
func (p *Parser) arith() *ParserResult { return p.binOp(p.term, additiveOps) }

// term = factor ((MUL|DIV|MOD) factor)*
func (p *Parser) term() *ParserResult { return p.binOp(p.factor, multiplicativeOps) }

// factor = (PLUS|MINUS) factor | power
func (p *Parser) factor() *ParserResult {
	res := &ParserResult{}
	tok := p.current

	if tok.Kind == token.PLUS || tok.Kind == token.MINUS {
		res.RegisterAdvancement()
		p.advance()
		operand := res.Register(p.factor())
		if res.Error != nil {
			return res
		}
		return res.Success(ast.NewUnaryOpNode(tok, operand))
	}
	return p.power()
}

// power = call (POW factor)*
func (p *Parser) power() *ParserResult { return p.binOpRight(p.call, powerOps, p.factor) }

// call = atom (LPAREN (expr ("," expr)*)? RPAREN)?
func (p *Parser) call() *ParserResult {
	res := &ParserResult{}

	atomNode := res.Register(p.atom())
	if res.Error != nil {
		return res
	}

	if p.current.Kind != token.LPAREN {
		return res.Success(atomNode)
	}

	res.RegisterAdvancement()
	p.advance()
	var args []ast.Node

	if p.current.Kind == token.RPAREN {
		res.RegisterAdvancement()
		p.advance()
	} else {
		arg := res.Register(p.expr())
		if res.Error != nil {
			return res
		}
		args = append(args, arg)

		for p.current.Kind == token.COMMA {
			res.RegisterAdvancement()
			p.advance()
			arg := res.Register(p.expr())
			if res.Error != nil {
				return res
			}
			args = append(args, arg)
		}

		if p.current.Kind != token.RPAREN {
			return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected ',' or ')'"))
		}
		res.RegisterAdvancement()
		p.advance()
	}

	sp := span.New(atomNode.Span().Start, p.priorEnd())
	return res.Success(ast.NewCallNode(atomNode, args, sp))
}

// priorEnd returns the end position of the token just consumed, for
// building a node span once the closing delimiter has been advanced past.
func (p *Parser) priorEnd() span.Position {
	if p.tokenIndex > 0 {
		return p.tokens[p.tokenIndex-1].Span.End.Copy()
	}
	return p.current.Span.End.Copy()
}

// atom = INT | FLOAT | STRING | IDENT | LPAREN expr RPAREN | list-expr
//      | if-expr | for-expr | while-expr | func-expr
func (p *Parser) atom() *ParserResult {
	res := &ParserResult{}
	tok := p.current

	switch {
	case tok.Kind == token.INT || tok.Kind == token.FLOAT:
		res.RegisterAdvancement()
		p.advance()
		return res.Success(ast.NewNumberNode(tok))

	case tok.Kind == token.STRING:
		res.RegisterAdvancement()
		p.advance()
		return res.Success(ast.NewStringNode(tok))

	case tok.Kind == token.IDENTIFIER:
		res.RegisterAdvancement()
		p.advance()
		return res.Success(ast.NewVarAccessNode(tok))

	case tok.Kind == token.LBRACKET:
		listNode := res.Register(p.listExpr())
		if res.Error != nil {
			return res
		}
		return res.Success(listNode)

	case tok.Kind == token.LPAREN:
		res.RegisterAdvancement()
		p.advance()
		expr := res.Register(p.expr())
		if res.Error != nil {
			return res
		}
		if p.current.Kind != token.RPAREN {
			return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected ')'"))
		}
		res.RegisterAdvancement()
		p.advance()
		return res.Success(expr)

	case tok.Match(token.KEYWORD, "if"):
		ifNode := res.Register(p.ifExpr())
		if res.Error != nil {
			return res
		}
		return res.Success(ifNode)

	case tok.Match(token.KEYWORD, "for"):
		forNode := res.Register(p.forExpr())
		if res.Error != nil {
			return res
		}
		return res.Success(forNode)

	case tok.Match(token.KEYWORD, "while"):
		whileNode := res.Register(p.whileExpr())
		if res.Error != nil {
			return res
		}
		return res.Success(whileNode)

	case tok.Match(token.KEYWORD, "func"):
		funcNode := res.Register(p.funcExpr())
		if res.Error != nil {
			return res
		}
		return res.Success(funcNode)
	}

	return res.Failure(lkerror.InvalidSyntax(tok.Span.Start, tok.Span.End, "Expected int, float, identifier or '('"))
}

// listExpr = LBRACKET (expr ("," expr)*)? RBRACKET
func (p *Parser) listExpr() *ParserResult {
	res := &ParserResult{}
	var elements []ast.Node
	posStart := p.current.Span.Start.Copy()

	if p.current.Kind != token.LBRACKET {
		return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected '['"))
	}
	res.RegisterAdvancement()
	p.advance()

	if p.current.Kind == token.RBRACKET {
		res.RegisterAdvancement()
		p.advance()
	} else {
		el := res.Register(p.expr())
		if res.Error != nil {
			return res
		}
		elements = append(elements, el)

		for p.current.Kind == token.COMMA {
			res.RegisterAdvancement()
			p.advance()
			el := res.Register(p.expr())
			if res.Error != nil {
				return res
			}
			elements = append(elements, el)
		}

		if p.current.Kind != token.RBRACKET {
			return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected ',' or ']'"))
		}
		res.RegisterAdvancement()
		p.advance()
	}

	return res.Success(ast.NewListNode(elements, span.New(posStart, p.current.Span.End.Copy())))
}

// ifExpr = "if" expr "{" statements "}" ("elif" expr "{" statements "}")* ("else" "{" statements "}")?
func (p *Parser) ifExpr() *ParserResult {
	res := &ParserResult{}
	var cases []ast.IfCase
	var elseBody ast.Node

	if !p.current.Match(token.KEYWORD, "if") {
		return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected 'if'"))
	}
	res.RegisterAdvancement()
	p.advance()

	cond := res.Register(p.expr())
	if res.Error != nil {
		return res
	}
	if err := p.expect(res, token.LBRACE, "Expected '{'"); err != nil {
		return res
	}
	body := res.Register(p.statements())
	if res.Error != nil {
		return res
	}
	if err := p.expect(res, token.RBRACE, "Expected '}'"); err != nil {
		return res
	}
	cases = append(cases, ast.IfCase{Cond: cond, Body: body})

	// The lexer emits a NEWLINE after every `}`; step over that one token
	// when an elif/else follows the closing brace on the same line.
	followedBy := func(keyword string) bool {
		if p.current.Kind == token.NEWLINE && p.tokenIndex+1 < len(p.tokens) &&
			p.tokens[p.tokenIndex+1].Match(token.KEYWORD, keyword) {
			res.RegisterAdvancement()
			p.advance()
		}
		return p.current.Match(token.KEYWORD, keyword)
	}

	for followedBy("elif") {
		res.RegisterAdvancement()
		p.advance()
		cond := res.Register(p.expr())
		if res.Error != nil {
			return res
		}
		if err := p.expect(res, token.LBRACE, "Expected '{'"); err != nil {
			return res
		}
		body := res.Register(p.statements())
		if res.Error != nil {
			return res
		}
		if err := p.expect(res, token.RBRACE, "Expected '}'"); err != nil {
			return res
		}
		cases = append(cases, ast.IfCase{Cond: cond, Body: body})
	}

	if followedBy("else") {
		res.RegisterAdvancement()
		p.advance()
		if err := p.expect(res, token.LBRACE, "Expected '{'"); err != nil {
			return res
		}
		body := res.Register(p.statements())
		if res.Error != nil {
			return res
		}
		if err := p.expect(res, token.RBRACE, "Expected '}'"); err != nil {
			return res
		}
		elseBody = body
	}

	return res.Success(ast.NewIfNode(cases, elseBody))
}

// forExpr = "for" IDENT EQ expr "to" expr ("step" expr)? "{" statements "}"
func (p *Parser) forExpr() *ParserResult {
	res := &ParserResult{}

	if !p.current.Match(token.KEYWORD, "for") {
		return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected 'for'"))
	}
	res.RegisterAdvancement()
	p.advance()

	if p.current.Kind != token.IDENTIFIER {
		return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected identifier"))
	}
	varName := p.current
	res.RegisterAdvancement()
	p.advance()

	if err := p.expect(res, token.EQ, "Expected '='"); err != nil {
		return res
	}
	start := res.Register(p.expr())
	if res.Error != nil {
		return res
	}

	if !p.current.Match(token.KEYWORD, "to") {
		return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected 'to'"))
	}
	res.RegisterAdvancement()
	p.advance()
	end := res.Register(p.expr())
	if res.Error != nil {
		return res
	}

	var step ast.Node
	if p.current.Match(token.KEYWORD, "step") {
		res.RegisterAdvancement()
		p.advance()
		step = res.Register(p.expr())
		if res.Error != nil {
			return res
		}
	}

	if err := p.expect(res, token.LBRACE, "Expected '{'"); err != nil {
		return res
	}
	body := res.Register(p.statements())
	if res.Error != nil {
		return res
	}
	if err := p.expect(res, token.RBRACE, "Expected '}'"); err != nil {
		return res
	}

	return res.Success(ast.NewForNode(varName, start, end, step, body))
}

// whileExpr = "while" expr "{" statements "}"
func (p *Parser) whileExpr() *ParserResult {
	res := &ParserResult{}

	if !p.current.Match(token.KEYWORD, "while") {
		return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected 'while'"))
	}
	res.RegisterAdvancement()
	p.advance()

	cond := res.Register(p.expr())
	if res.Error != nil {
		return res
	}
	if err := p.expect(res, token.LBRACE, "Expected '{'"); err != nil {
		return res
	}
	body := res.Register(p.statements())
	if res.Error != nil {
		return res
	}
	if err := p.expect(res, token.RBRACE, "Expected '}'"); err != nil {
		return res
	}

	return res.Success(ast.NewWhileNode(cond, body))
}

// funcExpr = "func" IDENT? LPAREN (IDENT ("," IDENT)*)? RPAREN ARROW (expr | "{" statements "}")
func (p *Parser) funcExpr() *ParserResult {
	res := &ParserResult{}
	posStart := p.current.Span.Start.Copy()

	if !p.current.Match(token.KEYWORD, "func") {
		return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected 'func'"))
	}
	res.RegisterAdvancement()
	p.advance()

	var nameTok *token.Token
	if p.current.Kind == token.IDENTIFIER {
		t := p.current
		nameTok = &t
		res.RegisterAdvancement()
		p.advance()
	}

	if p.current.Kind != token.LPAREN {
		return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected '('"))
	}
	res.RegisterAdvancement()
	p.advance()

	var params []token.Token
	if p.current.Kind == token.IDENTIFIER {
		params = append(params, p.current)
		res.RegisterAdvancement()
		p.advance()
		for p.current.Kind == token.COMMA {
			res.RegisterAdvancement()
			p.advance()
			if p.current.Kind != token.IDENTIFIER {
				return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected identifier"))
			}
			params = append(params, p.current)
			res.RegisterAdvancement()
			p.advance()
		}
	}

	if p.current.Kind != token.RPAREN {
		return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected ')'"))
	}
	res.RegisterAdvancement()
	p.advance()

	if p.current.Kind != token.ARROW {
		return res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, "Expected '->'"))
	}
	res.RegisterAdvancement()
	p.advance()

	if nameTok == nil && len(params) > 0 {
		posStart = params[0].Span.Start
	}

	if p.current.Kind == token.LBRACE {
		res.RegisterAdvancement()
		p.advance()
		body := res.Register(p.statements())
		if res.Error != nil {
			return res
		}
		if err := p.expect(res, token.RBRACE, "Expected '}'"); err != nil {
			return res
		}
		sp := span.New(posStart, body.Span().End)
		return res.Success(ast.NewFuncNode(nameTok, params, body, false, sp))
	}

	body := res.Register(p.expr())
	if res.Error != nil {
		return res
	}
	sp := span.New(posStart, body.Span().End)
	return res.Success(ast.NewFuncNode(nameTok, params, body, true, sp))
}

// expect advances past a required token kind or fails the result with msg.
func (p *Parser) expect(res *ParserResult, kind token.Kind, msg string) error {
	if p.current.Kind != kind {
		res.Failure(lkerror.InvalidSyntax(p.current.Span.Start, p.current.Span.End, msg))
		return res.Error
	}
	res.RegisterAdvancement()
	p.advance()
	return nil
}

// binOp parses left-associative `operand (op operand)*` using operand for
// both sides.
func (p *Parser) binOp(operand func() *ParserResult, ops []opMatcher) *ParserResult {
	return p.binOpRight(operand, ops, operand)
}

// binOpRight parses `left (op right)*` where right may recurse into a
// different (typically right-associative) production, as POW does into
// factor.
func (p *Parser) binOpRight(leftFn func() *ParserResult, ops []opMatcher, rightFn func() *ParserResult) *ParserResult {
	res := &ParserResult{}

	left := res.Register(leftFn())
	if res.Error != nil {
		return res
	}

	for matchesAny(p.current, ops) {
		opTok := p.current
		res.RegisterAdvancement()
		p.advance()
		right := res.Register(rightFn())
		if res.Error != nil {
			return res
		}
		left = ast.NewBinaryOpNode(left, opTok, right)
	}
	return res.Success(left)
}

func matchesAny(tok token.Token, ops []opMatcher) bool {
	for _, m := range ops {
		if m.matches(tok) {
			return true
		}
	}
	return false
}
