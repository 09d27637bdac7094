package runtime

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakiscript/laki/internal/lexer"
	"github.com/lakiscript/laki/internal/parser"
)

// runSource lexes, parses and interprets source against a fresh global
// scope, returning whatever `print` wrote and the final expression's
// result or error.
func runSource(source string) (string, Value, error) {
	l := lexer.New("test.lk", source)
	toks, _, lexErr := l.Tokenize()
	if lexErr != nil {
		return "", nil, lexErr
	}

	p := parser.New(toks)
	node, parseErr := p.Parse()
	if parseErr != nil {
		return "", nil, parseErr
	}

	var buf bytes.Buffer
	table := NewSymbolTable(nil)
	RegisterBuiltins(table, &buf, strings.NewReader(""))

	ctx := NewContext("<program>", nil, nil)
	ctx.SymbolTable = table

	itp := NewInterpreter()
	res := itp.Visit(node, ctx)
	if res.Error != nil {
		return buf.String(), nil, res.Error
	}
	return buf.String(), res.Value, nil
}

func expectOutput(t *testing.T, source, expected string) {
	t.Helper()
	out, _, err := runSource(source)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimRight(expected, "\n"), strings.TrimRight(out, "\n"))
}

func expectError(t *testing.T, source, contains string) {
	t.Helper()
	_, _, err := runSource(source)
	require.Error(t, err)
	assert.Contains(t, err.Error(), contains)
}

func TestPrintNumber(t *testing.T) {
	expectOutput(t, `print(42)`, "42\n")
}

func TestPrintFloat(t *testing.T) {
	expectOutput(t, `print(3.14)`, "3.14\n")
}

func TestPrintString(t *testing.T) {
	expectOutput(t, `print('hello')`, "hello\n")
}

func TestArithmetic(t *testing.T) {
	expectOutput(t, `print(1 + 2 * 3)`, "7\n")
	expectOutput(t, `print((1 + 2) * 3)`, "9\n")
	expectOutput(t, `print(7 % 3)`, "1\n")
	expectOutput(t, `print(2 ** 10)`, "1024\n")
}

func TestDivisionProducesFloat(t *testing.T) {
	expectOutput(t, `print(10 / 4)`, "2.5\n")
}

func TestDivisionByZero(t *testing.T) {
	expectError(t, `print(1 / 0)`, "Divisor cannot be 0")
}

func TestModByZero(t *testing.T) {
	expectError(t, `print(1 % 0)`, "Divisor cannot be 0")
}

func TestVarDeclAndAccess(t *testing.T) {
	expectOutput(t, "var x = 10\nprint(x)", "10\n")
}

func TestVarReassign(t *testing.T) {
	expectOutput(t, "var x = 1\nx = 2\nprint(x)", "2\n")
}

func TestCompoundAssign(t *testing.T) {
	expectOutput(t, "var x = 10\nx += 5\nprint(x)", "15\n")
	expectOutput(t, "var x = 10\nx -= 5\nprint(x)", "5\n")
	expectOutput(t, "var x = 10\nx *= 5\nprint(x)", "50\n")
}

func TestUndefinedVariableError(t *testing.T) {
	expectError(t, `print(y)`, "y is undefined")
}

func TestIfElse(t *testing.T) {
	expectOutput(t, `
var x = 10
if x > 5 {
  print('big')
} else {
  print('small')
}`, "big\n")

	expectOutput(t, `
var x = 3
if x > 5 {
  print('big')
} elif x > 1 {
  print('medium')
} else {
  print('small')
}`, "medium\n")
}

func TestWhileLoop(t *testing.T) {
	expectOutput(t, `
var i = 0
var sum = 0
while i < 5 {
  sum += i
  i += 1
}
print(sum)`, "10\n")
}

func TestBreak(t *testing.T) {
	expectOutput(t, `
var i = 0
while i < 100 {
  if i == 3 {
    break
  }
  i += 1
}
print(i)`, "3\n")
}

func TestContinue(t *testing.T) {
	expectOutput(t, `
var i = 0
var sum = 0
while i < 5 {
  i += 1
  if i == 3 {
    continue
  }
  sum += i
}
print(sum)`, "12\n")
}

func TestForLoop(t *testing.T) {
	expectOutput(t, `
var sum = 0
for i = 0 to 5 {
  sum += i
}
print(sum)`, "15\n")
}

func TestForLoopWithStep(t *testing.T) {
	expectOutput(t, `
var sum = 0
for i = 10 to 0 step -2 {
  sum += i
}
print(sum)`, "30\n")
}

func TestFunctionDeclarationAndCall(t *testing.T) {
	expectOutput(t, `
func add(a, b) -> {
  return a + b
}
print(add(3, 4))`, "7\n")
}

func TestFunctionAutoReturn(t *testing.T) {
	expectOutput(t, `
func double(a) -> a * 2
print(double(21))`, "42\n")
}

func TestRecursion(t *testing.T) {
	expectOutput(t, `
func fib(n) -> {
  if n <= 1 {
    return n
  }
  return fib(n - 1) + fib(n - 2)
}
print(fib(10))`, "55\n")
}

func TestClosure(t *testing.T) {
	expectOutput(t, `
func makeCounter() -> {
  var count = 0
  func inc() -> {
    count += 1
    return count
  }
  return inc
}
var counter = makeCounter()
print(counter())
print(counter())
print(counter())`, "1\n2\n3\n")
}

func TestTooManyArgumentsError(t *testing.T) {
	expectError(t, `
func add(a, b) -> a + b
add(1, 2, 3)`, "1 more arguments passed into add")
}

func TestTooFewArgumentsError(t *testing.T) {
	expectError(t, `
func add(a, b) -> a + b
add(1)`, "1 fewer arguments passed into add")
}

func TestNotCallableError(t *testing.T) {
	expectError(t, `
var x = 5
x()`, "is not callable")
}

func TestStringConcat(t *testing.T) {
	expectOutput(t, `print('hello' + ' ' + 'world')`, "hello world\n")
}

func TestStringRepeat(t *testing.T) {
	expectOutput(t, `print('ab' * 3)`, "ababab\n")
	expectOutput(t, `print(3 * 'ab')`, "ababab\n")
}

func TestListRepeatByNumberOnly(t *testing.T) {
	expectOutput(t, `print([1, 2] * 2)`, "1, 2, 1, 2\n")
}

func TestNumberTimesListIsIllegal(t *testing.T) {
	expectError(t, `print(2 * [1, 2])`, "Illegal Operation")
}

func TestListConcat(t *testing.T) {
	expectOutput(t, `print([1, 2] + [3, 4])`, "1, 2, 3, 4\n")
}

func TestLogicalOps(t *testing.T) {
	expectOutput(t, `print(1 and 0)`, "0\n")
	expectOutput(t, `print(1 or 0)`, "1\n")
	expectOutput(t, `print(not 1)`, "0\n")
	expectOutput(t, `print(not 0)`, "1\n")
}

func TestComparisons(t *testing.T) {
	expectOutput(t, `print(1 == 1)`, "1\n")
	expectOutput(t, `print(1 != 2)`, "1\n")
	expectOutput(t, `print(3 > 2)`, "1\n")
	expectOutput(t, `print(2 <= 2)`, "1\n")
}

func TestConstants(t *testing.T) {
	expectOutput(t, `print(true)`, "1\n")
	expectOutput(t, `print(false)`, "0\n")
	expectOutput(t, `print(null)`, "0\n")
}

func TestBuiltinLen(t *testing.T) {
	expectOutput(t, `print(len('hello'))`, "5\n")
	expectOutput(t, `print(len([1, 2, 3]))`, "3\n")
}

func TestBuiltinLenCountsRunesNotBytes(t *testing.T) {
	expectOutput(t, `print(len('café'))`, "4\n")
}

func TestBuiltinSqrt(t *testing.T) {
	expectOutput(t, `print(sqrt(16))`, "4\n")
}

func TestBuiltinSqrtNegativeIsError(t *testing.T) {
	expectError(t, `print(sqrt(-4))`, "sqrt() is not supported for negative numbers")
}

func TestBuiltinStr(t *testing.T) {
	expectOutput(t, `print(str(42))`, "42\n")
}

func TestBuiltinIntFromString(t *testing.T) {
	expectOutput(t, `print(int('42'))`, "42\n")
}

func TestBuiltinIntConversionError(t *testing.T) {
	expectError(t, `print(int('not a number'))`, "cannot be converted to an int")
}

func TestUnaryMinus(t *testing.T) {
	expectOutput(t, `print(-5)`, "-5\n")
	expectOutput(t, `print(-3.14)`, "-3.14\n")
}

func TestNestedFunctionClosesOverOuterVar(t *testing.T) {
	expectOutput(t, `
func outer() -> {
  var x = 10
  func inner() -> x + 1
  return inner()
}
print(outer())`, "11\n")
}

func TestRuntimeErrorIncludesTraceback(t *testing.T) {
	_, _, err := runSource(`
func boom() -> {
  return 1 / 0
}
boom()`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Traceback (most recent call last):")
	assert.Contains(t, err.Error(), "in boom")
	assert.Contains(t, err.Error(), "in <program>")
}
