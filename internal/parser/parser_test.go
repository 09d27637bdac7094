package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakiscript/laki/internal/ast"
	"github.com/lakiscript/laki/internal/lexer"
	"github.com/lakiscript/laki/internal/token"
)

func parseOK(t *testing.T, source string) ast.Node {
	t.Helper()
	l := lexer.New("test.lk", source)
	toks, _, lexErr := l.Tokenize()
	require.NoError(t, lexErr)

	p := New(toks)
	node, err := p.Parse()
	require.NoError(t, err)
	return node
}

func singleStatement(t *testing.T, source string) ast.Node {
	t.Helper()
	node := parseOK(t, source)
	list, ok := node.(*ast.ListNode)
	require.True(t, ok, "expected top-level ListNode, got %T", node)
	require.Len(t, list.Elements, 1)
	return list.Elements[0]
}

func TestParseVarDecl(t *testing.T) {
	stmt := singleStatement(t, "var x = 42")
	assign, ok := stmt.(*ast.VarAssignNode)
	require.True(t, ok, "expected VarAssignNode, got %T", stmt)
	assert.True(t, assign.Define)
	assert.Equal(t, "x", assign.NameToken.Value)
	num, ok := assign.Value.(*ast.NumberNode)
	require.True(t, ok)
	assert.Equal(t, int64(42), num.Token.Value)
}

func TestParseReassign(t *testing.T) {
	stmt := singleStatement(t, "x = 1")
	assign, ok := stmt.(*ast.VarAssignNode)
	require.True(t, ok)
	assert.False(t, assign.Define)
}

func TestParseCompoundAssign(t *testing.T) {
	stmt := singleStatement(t, "x += 1")
	assign, ok := stmt.(*ast.VarAssignNode)
	require.True(t, ok)
	assert.False(t, assign.Define)
	assert.Equal(t, token.PLUSEQ, assign.Eq)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	stmt := singleStatement(t, "1 + 2 * 3")
	bin, ok := stmt.(*ast.BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, token.PLUS, bin.Op.Kind)

	right, ok := bin.Right.(*ast.BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, token.MUL, right.Op.Kind)
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	stmt := singleStatement(t, "2 ** 3 ** 2")
	bin, ok := stmt.(*ast.BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, token.POW, bin.Op.Kind)

	// right-associative: 2 ** (3 ** 2)
	_, ok = bin.Right.(*ast.BinaryOpNode)
	require.True(t, ok)
	_, ok = bin.Left.(*ast.NumberNode)
	require.True(t, ok)
}

func TestParseUnaryMinus(t *testing.T) {
	stmt := singleStatement(t, "-5")
	un, ok := stmt.(*ast.UnaryOpNode)
	require.True(t, ok)
	assert.Equal(t, token.MINUS, un.Op.Kind)
}

func TestParseComparisonAndLogic(t *testing.T) {
	stmt := singleStatement(t, "1 < 2 and 3 > 2")
	bin, ok := stmt.(*ast.BinaryOpNode)
	require.True(t, ok)
	assert.True(t, bin.Op.Match(token.KEYWORD, "and"))
}

func TestParseNot(t *testing.T) {
	stmt := singleStatement(t, "not 1")
	un, ok := stmt.(*ast.UnaryOpNode)
	require.True(t, ok)
	assert.True(t, un.Op.Match(token.KEYWORD, "not"))
}

func TestParseListLiteral(t *testing.T) {
	stmt := singleStatement(t, "[1, 2, 3]")
	list, ok := stmt.(*ast.ListNode)
	require.True(t, ok)
	assert.Len(t, list.Elements, 3)
}

func TestParseEmptyList(t *testing.T) {
	stmt := singleStatement(t, "[]")
	list, ok := stmt.(*ast.ListNode)
	require.True(t, ok)
	assert.Len(t, list.Elements, 0)
}

func TestParseIfElifElse(t *testing.T) {
	stmt := singleStatement(t, `
if x == 1 {
  1
} elif x == 2 {
  2
} else {
  3
}`)
	ifNode, ok := stmt.(*ast.IfNode)
	require.True(t, ok)
	assert.Len(t, ifNode.Cases, 2)
	assert.NotNil(t, ifNode.ElseBody)
}

func TestParseForWithStep(t *testing.T) {
	stmt := singleStatement(t, `
for i = 0 to 10 step 2 {
  i
}`)
	forNode, ok := stmt.(*ast.ForNode)
	require.True(t, ok)
	assert.Equal(t, "i", forNode.VarToken.Value)
	assert.NotNil(t, forNode.Step)
}

func TestParseForWithoutStep(t *testing.T) {
	stmt := singleStatement(t, `
for i = 0 to 10 {
  i
}`)
	forNode, ok := stmt.(*ast.ForNode)
	require.True(t, ok)
	assert.Nil(t, forNode.Step)
}

func TestParseWhile(t *testing.T) {
	stmt := singleStatement(t, `
while x < 10 {
  x = x + 1
}`)
	_, ok := stmt.(*ast.WhileNode)
	require.True(t, ok)
}

func TestParseFuncNamedWithBlockBody(t *testing.T) {
	stmt := singleStatement(t, `
func add(a, b) -> {
  return a + b
}`)
	fn, ok := stmt.(*ast.FuncNode)
	require.True(t, ok)
	require.NotNil(t, fn.NameToken)
	assert.Equal(t, "add", fn.NameToken.Value)
	assert.Equal(t, []string{"a", "b"}, paramNames(fn.Params))
	assert.False(t, fn.AutoReturn)
}

func TestParseFuncAnonymousAutoReturn(t *testing.T) {
	stmt := singleStatement(t, `func(a, b) -> a + b`)
	fn, ok := stmt.(*ast.FuncNode)
	require.True(t, ok)
	assert.Nil(t, fn.NameToken)
	assert.True(t, fn.AutoReturn)
}

func TestParseCallExpression(t *testing.T) {
	stmt := singleStatement(t, `add(1, 2)`)
	call, ok := stmt.(*ast.CallNode)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
}

func TestParseCallNoArgs(t *testing.T) {
	stmt := singleStatement(t, `foo()`)
	call, ok := stmt.(*ast.CallNode)
	require.True(t, ok)
	assert.Len(t, call.Args, 0)
}

func TestParseReturnBreakContinue(t *testing.T) {
	node := parseOK(t, "return\ncontinue\nbreak")
	list, ok := node.(*ast.ListNode)
	require.True(t, ok)
	require.Len(t, list.Elements, 3)
	_, ok = list.Elements[0].(*ast.ReturnNode)
	assert.True(t, ok)
	_, ok = list.Elements[1].(*ast.ContinueNode)
	assert.True(t, ok)
	_, ok = list.Elements[2].(*ast.BreakNode)
	assert.True(t, ok)
}

func TestParseMultipleStatements(t *testing.T) {
	node := parseOK(t, "var x = 1\nvar y = 2\nx + y")
	list, ok := node.(*ast.ListNode)
	require.True(t, ok)
	assert.Len(t, list.Elements, 3)
}

func TestParseInvalidSyntaxError(t *testing.T) {
	l := lexer.New("test.lk", "var = 1")
	toks, _, lexErr := l.Tokenize()
	require.NoError(t, lexErr)

	p := New(toks)
	_, err := p.Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Syntax")
}

func paramNames(params []token.Token) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Value.(string)
	}
	return names
}
