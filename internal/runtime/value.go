// Package runtime implements LakiScript's runtime value system and the
// tree-walking interpreter that evaluates an ast.Node against it.
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lakiscript/laki/internal/ast"
	"github.com/lakiscript/laki/internal/span"
)

// Value is implemented by every runtime value LakiScript expressions can
// produce: Number, String, List, Function, BuiltinFunction. Arithmetic,
// comparison and logical operators dispatch through these methods rather
// than a type switch at each call site, so each value type only needs to
// override the combinations it actually supports — anything else falls
// through to the embedded base's "Illegal Operation" default.
type Value interface {
	PosStart() span.Position
	PosEnd() span.Position
	SetPos(start, end span.Position)
	GetContext() *Context
	SetContext(ctx *Context)
	Copy() Value
	IsTruthy() bool
	Display() string // raw payload, as `print`/`str` render it
	Repr() string     // quoted/bracketed form, as error messages render it

	AddBy(other Value) (Value, *RuntimeError)
	SubBy(other Value) (Value, *RuntimeError)
	MulBy(other Value) (Value, *RuntimeError)
	DivBy(other Value) (Value, *RuntimeError)
	PowBy(other Value) (Value, *RuntimeError)
	ModBy(other Value) (Value, *RuntimeError)
	CompEE(other Value) (Value, *RuntimeError)
	CompNE(other Value) (Value, *RuntimeError)
	CompLT(other Value) (Value, *RuntimeError)
	CompGT(other Value) (Value, *RuntimeError)
	CompLTE(other Value) (Value, *RuntimeError)
	CompGTE(other Value) (Value, *RuntimeError)
	LogicAnd(other Value) (Value, *RuntimeError)
	LogicOr(other Value) (Value, *RuntimeError)
	LogicNot() (Value, *RuntimeError)
	IllegalOperation(other Value) *RuntimeError
}

// Callable is implemented by values that can appear on the left of a call
// expression: Function and BuiltinFunction.
type Callable interface {
	Value
	Execute(args []Value, itp *Interpreter) *RunResult
}

// base holds the span/context bookkeeping every Value needs and supplies
// the default ("illegal operation") behavior for every operator a given
// concrete type doesn't override.
type base struct {
	posStart, posEnd span.Position
	ctx              *Context
}

func (b *base) PosStart() span.Position  { return b.posStart }
func (b *base) PosEnd() span.Position    { return b.posEnd }
func (b *base) SetPos(start, end span.Position) {
	b.posStart = start
	b.posEnd = end
}
func (b *base) GetContext() *Context    { return b.ctx }
func (b *base) SetContext(ctx *Context) { b.ctx = ctx }

func (b *base) IllegalOperation(other Value) *RuntimeError {
	end := b.posEnd
	if other != nil {
		end = other.PosEnd()
	}
	return NewRuntimeError(b.posStart, end, "Illegal Operation", b.ctx)
}

func (b *base) AddBy(other Value) (Value, *RuntimeError)  { return nil, b.IllegalOperation(other) }
func (b *base) SubBy(other Value) (Value, *RuntimeError)  { return nil, b.IllegalOperation(other) }
func (b *base) MulBy(other Value) (Value, *RuntimeError)  { return nil, b.IllegalOperation(other) }
func (b *base) DivBy(other Value) (Value, *RuntimeError)  { return nil, b.IllegalOperation(other) }
func (b *base) PowBy(other Value) (Value, *RuntimeError)  { return nil, b.IllegalOperation(other) }
func (b *base) ModBy(other Value) (Value, *RuntimeError)  { return nil, b.IllegalOperation(other) }
func (b *base) CompEE(other Value) (Value, *RuntimeError) { return nil, b.IllegalOperation(other) }
func (b *base) CompNE(other Value) (Value, *RuntimeError) { return nil, b.IllegalOperation(other) }
func (b *base) CompLT(other Value) (Value, *RuntimeError) { return nil, b.IllegalOperation(other) }
func (b *base) CompGT(other Value) (Value, *RuntimeError) { return nil, b.IllegalOperation(other) }
func (b *base) CompLTE(other Value) (Value, *RuntimeError) {
	return nil, b.IllegalOperation(other)
}
func (b *base) CompGTE(other Value) (Value, *RuntimeError) {
	return nil, b.IllegalOperation(other)
}
func (b *base) LogicAnd(other Value) (Value, *RuntimeError) {
	return nil, b.IllegalOperation(other)
}
func (b *base) LogicOr(other Value) (Value, *RuntimeError) {
	return nil, b.IllegalOperation(other)
}
func (b *base) LogicNot() (Value, *RuntimeError) { return nil, b.IllegalOperation(nil) }

// Number is LakiScript's sole numeric type. IsInt distinguishes an integer
// literal/result from a float one purely for Display formatting — the
// arithmetic itself always operates on Val (float64), mirroring how the
// reference implementation lets Python's numeric tower pick int vs float.
type Number struct {
	base
	Val   float64
	IsInt bool
}

func NewNumber(val float64, isInt bool) *Number {
	return &Number{Val: val, IsInt: isInt}
}

func NewInt(v int64) *Number   { return NewNumber(float64(v), true) }
func NewFloat(v float64) *Number { return NewNumber(v, false) }

// Bool renders a comparison/logic result as the 0/1 Number LakiScript uses
// in place of a dedicated boolean type.
func Bool(v bool) *Number {
	if v {
		return NewInt(1)
	}
	return NewInt(0)
}

var (
	NumberNull  = NewInt(0)
	NumberFalse = NewInt(0)
	NumberTrue  = NewInt(1)
	NumberPI    = NewFloat(3.141592653589793)
	NumberE     = NewFloat(2.718281828459045)
)

func (n *Number) AddBy(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*Number); ok {
		r := NewNumber(n.Val+o.Val, n.IsInt && o.IsInt)
		r.SetContext(n.ctx)
		return r, nil
	}
	return nil, n.IllegalOperation(other)
}

func (n *Number) SubBy(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*Number); ok {
		r := NewNumber(n.Val-o.Val, n.IsInt && o.IsInt)
		r.SetContext(n.ctx)
		return r, nil
	}
	return nil, n.IllegalOperation(other)
}

func (n *Number) MulBy(other Value) (Value, *RuntimeError) {
	switch o := other.(type) {
	case *Number:
		r := NewNumber(n.Val*o.Val, n.IsInt && o.IsInt)
		r.SetContext(n.ctx)
		return r, nil
	case *String:
		r := NewString(strings.Repeat(o.Val, repeatCount(n.Val)))
		r.SetContext(n.ctx)
		return r, nil
	}
	return nil, n.IllegalOperation(other)
}

func (n *Number) DivBy(other Value) (Value, *RuntimeError) {
	o, ok := other.(*Number)
	if !ok {
		return nil, n.IllegalOperation(other)
	}
	if o.Val == 0 {
		return nil, NewRuntimeError(o.posStart, o.posEnd, "Divisor cannot be 0", n.ctx)
	}
	r := NewFloat(n.Val / o.Val)
	r.SetContext(n.ctx)
	return r, nil
}

func (n *Number) PowBy(other Value) (Value, *RuntimeError) {
	o, ok := other.(*Number)
	if !ok {
		return nil, n.IllegalOperation(other)
	}
	result := intPow(n.Val, o.Val)
	r := NewNumber(result, n.IsInt && o.IsInt && o.Val >= 0)
	r.SetContext(n.ctx)
	return r, nil
}

func (n *Number) ModBy(other Value) (Value, *RuntimeError) {
	o, ok := other.(*Number)
	if !ok {
		return nil, n.IllegalOperation(other)
	}
	if o.Val == 0 {
		return nil, NewRuntimeError(o.posStart, o.posEnd, "Divisor cannot be 0", n.ctx)
	}
	result := n.Val - o.Val*float64(int64(n.Val/o.Val))
	r := NewNumber(result, n.IsInt && o.IsInt)
	r.SetContext(n.ctx)
	return r, nil
}

func (n *Number) CompEE(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*Number); ok {
		r := Bool(n.Val == o.Val)
		r.SetContext(n.ctx)
		return r, nil
	}
	return nil, n.IllegalOperation(other)
}

func (n *Number) CompNE(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*Number); ok {
		r := Bool(n.Val != o.Val)
		r.SetContext(n.ctx)
		return r, nil
	}
	return nil, n.IllegalOperation(other)
}

func (n *Number) CompLT(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*Number); ok {
		r := Bool(n.Val < o.Val)
		r.SetContext(n.ctx)
		return r, nil
	}
	return nil, n.IllegalOperation(other)
}

func (n *Number) CompGT(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*Number); ok {
		r := Bool(n.Val > o.Val)
		r.SetContext(n.ctx)
		return r, nil
	}
	return nil, n.IllegalOperation(other)
}

func (n *Number) CompLTE(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*Number); ok {
		r := Bool(n.Val <= o.Val)
		r.SetContext(n.ctx)
		return r, nil
	}
	return nil, n.IllegalOperation(other)
}

func (n *Number) CompGTE(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*Number); ok {
		r := Bool(n.Val >= o.Val)
		r.SetContext(n.ctx)
		return r, nil
	}
	return nil, n.IllegalOperation(other)
}

func (n *Number) LogicAnd(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*Number); ok {
		r := Bool(n.Val != 0 && o.Val != 0)
		r.SetContext(n.ctx)
		return r, nil
	}
	return nil, n.IllegalOperation(other)
}

func (n *Number) LogicOr(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*Number); ok {
		r := Bool(n.Val != 0 || o.Val != 0)
		r.SetContext(n.ctx)
		return r, nil
	}
	return nil, n.IllegalOperation(other)
}

func (n *Number) LogicNot() (Value, *RuntimeError) {
	r := Bool(n.Val == 0)
	r.SetContext(n.ctx)
	return r, nil
}

func (n *Number) IsTruthy() bool { return n.Val != 0 }

func (n *Number) Copy() Value {
	c := NewNumber(n.Val, n.IsInt)
	c.SetContext(n.ctx)
	c.SetPos(n.posStart, n.posEnd)
	return c
}

func (n *Number) Display() string {
	if n.IsInt {
		return strconv.FormatInt(int64(n.Val), 10)
	}
	return strconv.FormatFloat(n.Val, 'g', -1, 64)
}

func (n *Number) Repr() string { return n.Display() }

func repeatCount(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v)
}

func intPow(base, exp float64) float64 {
	if exp == float64(int64(exp)) && exp >= 0 {
		result := 1.0
		for i := int64(0); i < int64(exp); i++ {
			result *= base
		}
		return result
	}
	result := 1.0
	neg := exp < 0
	n := exp
	if neg {
		n = -n
	}
	for i := int64(0); i < int64(n); i++ {
		result *= base
	}
	if neg {
		return 1 / result
	}
	return result
}

// String is LakiScript's text type.
type String struct {
	base
	Val string
}

func NewString(val string) *String { return &String{Val: val} }

func (s *String) AddBy(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*String); ok {
		r := NewString(s.Val + o.Val)
		r.SetContext(s.ctx)
		return r, nil
	}
	return nil, s.IllegalOperation(other)
}

func (s *String) MulBy(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*Number); ok {
		r := NewString(strings.Repeat(s.Val, repeatCount(o.Val)))
		r.SetContext(s.ctx)
		return r, nil
	}
	return nil, s.IllegalOperation(other)
}

func (s *String) CompEE(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*String); ok {
		r := Bool(s.Val == o.Val)
		r.SetContext(s.ctx)
		return r, nil
	}
	return nil, s.IllegalOperation(other)
}

func (s *String) CompNE(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*String); ok {
		r := Bool(s.Val != o.Val)
		r.SetContext(s.ctx)
		return r, nil
	}
	return nil, s.IllegalOperation(other)
}

func (s *String) IsTruthy() bool { return len(s.Val) > 0 }

func (s *String) Copy() Value {
	c := NewString(s.Val)
	c.SetContext(s.ctx)
	c.SetPos(s.posStart, s.posEnd)
	return c
}

func (s *String) Display() string { return s.Val }
func (s *String) Repr() string    { return "'" + s.Val + "'" }

// List is LakiScript's sequence type. Every if/for/while/statement block
// also evaluates to a List of its per-branch/per-iteration values.
type List struct {
	base
	Elements []Value
}

func NewList(elements []Value) *List { return &List{Elements: elements} }

func (l *List) AddBy(other Value) (Value, *RuntimeError) {
	if o, ok := other.(*List); ok {
		merged := make([]Value, 0, len(l.Elements)+len(o.Elements))
		merged = append(merged, l.Elements...)
		merged = append(merged, o.Elements...)
		r := NewList(merged)
		r.SetContext(l.ctx)
		return r, nil
	}
	return nil, l.IllegalOperation(other)
}

func (l *List) MulBy(other Value) (Value, *RuntimeError) {
	o, ok := other.(*Number)
	if !ok {
		return nil, l.IllegalOperation(other)
	}
	n := repeatCount(o.Val)
	repeated := make([]Value, 0, len(l.Elements)*n)
	for i := 0; i < n; i++ {
		repeated = append(repeated, l.Elements...)
	}
	r := NewList(repeated)
	r.SetContext(l.ctx)
	return r, nil
}

func (l *List) CompEE(other Value) (Value, *RuntimeError) {
	o, ok := other.(*List)
	if !ok {
		return nil, l.IllegalOperation(other)
	}
	r := Bool(listsEqual(l.Elements, o.Elements))
	r.SetContext(l.ctx)
	return r, nil
}

func (l *List) CompNE(other Value) (Value, *RuntimeError) {
	o, ok := other.(*List)
	if !ok {
		return nil, l.IllegalOperation(other)
	}
	r := Bool(!listsEqual(l.Elements, o.Elements))
	r.SetContext(l.ctx)
	return r, nil
}

func listsEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		var ar, br string
		if a[i] != nil {
			ar = a[i].Repr()
		}
		if b[i] != nil {
			br = b[i].Repr()
		}
		if ar != br {
			return false
		}
	}
	return true
}

func (l *List) IsTruthy() bool { return len(l.Elements) > 0 }

func (l *List) Copy() Value {
	c := NewList(l.Elements)
	c.SetContext(l.ctx)
	c.SetPos(l.posStart, l.posEnd)
	return c
}

func (l *List) Display() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		if e == nil {
			parts[i] = "null"
			continue
		}
		parts[i] = e.Display()
	}
	return strings.Join(parts, ", ")
}

func (l *List) Repr() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		if e == nil {
			parts[i] = "null"
			continue
		}
		parts[i] = e.Repr()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Function is a user-defined LakiScript function: a closure over the
// Context it was defined in.
type Function struct {
	base
	Name       string
	ParamNames []string
	Body       ast.Node
	AutoReturn bool
	visit      func(node ast.Node, ctx *Context) *RunResult
}

// NewFunction creates a Function whose Body is visited via the supplied
// visit callback (bound by the Interpreter constructing it).
func NewFunction(name string, paramNames []string, body ast.Node, autoReturn bool, visit func(ast.Node, *Context) *RunResult) *Function {
	if name == "" {
		name = "<anonymous>"
	}
	return &Function{Name: name, ParamNames: paramNames, Body: body, AutoReturn: autoReturn, visit: visit}
}

func (f *Function) Execute(args []Value, itp *Interpreter) *RunResult {
	res := NewRunResult()

	newCtx := NewContext(f.Name, f.ctx, &f.posStart)
	newCtx.SymbolTable = NewSymbolTable(f.ctx.SymbolTable)

	if len(args) > len(f.ParamNames) {
		return res.Failure(NewRuntimeError(f.posStart, f.posEnd,
			fmt.Sprintf("%d more arguments passed into %s", len(args)-len(f.ParamNames), f.Name), f.ctx))
	}
	if len(args) < len(f.ParamNames) {
		return res.Failure(NewRuntimeError(f.posStart, f.posEnd,
			fmt.Sprintf("%d fewer arguments passed into %s", len(f.ParamNames)-len(args), f.Name), f.ctx))
	}

	for i, name := range f.ParamNames {
		args[i].SetContext(newCtx)
		newCtx.SymbolTable.Set(name, args[i])
	}

	value := res.Register(f.visit(f.Body, newCtx))
	if res.ShouldReturn(false) && res.FuncReturnValue == nil {
		return res
	}

	var returnValue Value
	if f.AutoReturn && value != nil {
		returnValue = value
	} else if res.FuncReturnValue != nil {
		returnValue = res.FuncReturnValue
	} else {
		returnValue = NumberNull
	}
	return res.Success(returnValue)
}

func (f *Function) IsTruthy() bool { return true }

func (f *Function) Copy() Value {
	c := NewFunction(f.Name, f.ParamNames, f.Body, f.AutoReturn, f.visit)
	c.SetContext(f.ctx)
	c.SetPos(f.posStart, f.posEnd)
	return c
}

func (f *Function) Display() string { return f.Repr() }
func (f *Function) Repr() string    { return fmt.Sprintf("<function %s>", f.Name) }

// BuiltinFunction is a host-provided function (print, input, int, str, ...).
// Unlike Function, its call frame's symbol table has no parent: builtins
// never see the caller's lexical scope.
type BuiltinFunction struct {
	base
	Name     string
	ArgNames []string
	run      func(ctx *Context) *RunResult
}

// NewBuiltinFunction wires name to the implementation run, which expects
// its arguments already bound into ctx.SymbolTable under argNames.
func NewBuiltinFunction(name string, argNames []string, run func(ctx *Context) *RunResult) *BuiltinFunction {
	return &BuiltinFunction{Name: name, ArgNames: argNames, run: run}
}

func (b *BuiltinFunction) Execute(args []Value, _ *Interpreter) *RunResult {
	res := NewRunResult()

	newCtx := NewContext(b.Name, b.ctx, &b.posStart)
	newCtx.SymbolTable = NewSymbolTable(nil)

	if len(args) > len(b.ArgNames) {
		return res.Failure(NewRuntimeError(b.posStart, b.posEnd,
			fmt.Sprintf("%d more arguments passed into %s", len(args)-len(b.ArgNames), b.Name), b.ctx))
	}
	if len(args) < len(b.ArgNames) {
		return res.Failure(NewRuntimeError(b.posStart, b.posEnd,
			fmt.Sprintf("%d fewer arguments passed into %s", len(b.ArgNames)-len(args), b.Name), b.ctx))
	}

	for i, name := range b.ArgNames {
		args[i].SetContext(newCtx)
		newCtx.SymbolTable.Set(name, args[i])
	}

	returnValue := res.Register(b.run(newCtx))
	if res.ShouldReturn(false) {
		return res
	}
	return res.Success(returnValue)
}

func (b *BuiltinFunction) IsTruthy() bool { return true }

func (b *BuiltinFunction) Copy() Value {
	c := NewBuiltinFunction(b.Name, b.ArgNames, b.run)
	c.SetContext(b.ctx)
	c.SetPos(b.posStart, b.posEnd)
	return c
}

func (b *BuiltinFunction) Display() string { return b.Repr() }
func (b *BuiltinFunction) Repr() string    { return fmt.Sprintf("<built-in function %s>", b.Name) }
