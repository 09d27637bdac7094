package runtime

import (
	"fmt"

	"github.com/lakiscript/laki/internal/ast"
	"github.com/lakiscript/laki/internal/token"
)

// RunResult carries the outcome of evaluating one AST node: either a
// value, or one of three non-local control signals (function return, loop
// continue, loop break), or an error. Register folds a sub-evaluation's
// signals into the caller's result so a single ShouldReturn check after
// each recursive call is enough to unwind correctly through nested
// expressions, loops and function bodies.
type RunResult struct {
	Value               Value
	Error               *RuntimeError
	FuncReturnValue      Value
	LoopShouldContinue  bool
	LoopShouldBreak     bool
}

func NewRunResult() *RunResult { return &RunResult{} }

func (r *RunResult) reset() {
	r.Value = nil
	r.Error = nil
	r.FuncReturnValue = nil
	r.LoopShouldContinue = false
	r.LoopShouldBreak = false
}

func (r *RunResult) Success(value Value) *RunResult {
	r.reset()
	r.Value = value
	return r
}

func (r *RunResult) SuccessReturn(value Value) *RunResult {
	r.reset()
	r.FuncReturnValue = value
	return r
}

func (r *RunResult) SuccessContinue() *RunResult {
	r.reset()
	r.LoopShouldContinue = true
	return r
}

func (r *RunResult) SuccessBreak() *RunResult {
	r.reset()
	r.LoopShouldBreak = true
	return r
}

func (r *RunResult) Failure(err *RuntimeError) *RunResult {
	r.reset()
	r.Error = err
	return r
}

// Register merges other's signals into r and returns other's value, the
// idiom every visit method uses to thread evaluation through sub-nodes:
// `v := res.Register(itp.Visit(sub, ctx)); if res.ShouldReturn(false) { return res }`.
func (r *RunResult) Register(other *RunResult) Value {
	if other.Error != nil {
		r.Error = other.Error
	}
	r.FuncReturnValue = other.FuncReturnValue
	r.LoopShouldContinue = other.LoopShouldContinue
	r.LoopShouldBreak = other.LoopShouldBreak
	return other.Value
}

// ShouldReturn reports whether evaluation must unwind immediately. With
// onlyErr=true (used inside loop bodies, which handle continue/break
// themselves) it only fires on an error or a pending function return.
func (r *RunResult) ShouldReturn(onlyErr bool) bool {
	if onlyErr {
		return r.Error != nil || r.FuncReturnValue != nil
	}
	return r.Error != nil || r.FuncReturnValue != nil || r.LoopShouldContinue || r.LoopShouldBreak
}

// Interpreter tree-walks an ast.Node against a Context, producing Values.
type Interpreter struct{}

func NewInterpreter() *Interpreter { return &Interpreter{} }

// Visit dispatches on node's concrete type. Every ast.Node variant has a
// case; an unhandled node is a programming error, not a user-facing one.
func (itp *Interpreter) Visit(node ast.Node, ctx *Context) *RunResult {
	switch n := node.(type) {
	case *ast.NumberNode:
		return itp.visitNumberNode(n, ctx)
	case *ast.StringNode:
		return itp.visitStringNode(n, ctx)
	case *ast.ListNode:
		return itp.visitListNode(n, ctx)
	case *ast.VarAccessNode:
		return itp.visitVarAccessNode(n, ctx)
	case *ast.VarAssignNode:
		return itp.visitVarAssignNode(n, ctx)
	case *ast.BinaryOpNode:
		return itp.visitBinaryOpNode(n, ctx)
	case *ast.UnaryOpNode:
		return itp.visitUnaryOpNode(n, ctx)
	case *ast.IfNode:
		return itp.visitIfNode(n, ctx)
	case *ast.ForNode:
		return itp.visitForNode(n, ctx)
	case *ast.WhileNode:
		return itp.visitWhileNode(n, ctx)
	case *ast.FuncNode:
		return itp.visitFuncNode(n, ctx)
	case *ast.CallNode:
		return itp.visitCallNode(n, ctx)
	case *ast.ReturnNode:
		return itp.visitReturnNode(n, ctx)
	case *ast.ContinueNode:
		return NewRunResult().SuccessContinue()
	case *ast.BreakNode:
		return NewRunResult().SuccessBreak()
	default:
		panic(fmt.Sprintf("runtime: no visit method for %T", node))
	}
}

func (itp *Interpreter) visitNumberNode(n *ast.NumberNode, ctx *Context) *RunResult {
	var num *Number
	switch v := n.Token.Value.(type) {
	case int64:
		num = NewInt(v)
	case float64:
		num = NewFloat(v)
	default:
		num = NewInt(0)
	}
	num.SetContext(ctx)
	num.SetPos(n.Span().Start, n.Span().End)
	return NewRunResult().Success(num)
}

func (itp *Interpreter) visitStringNode(n *ast.StringNode, ctx *Context) *RunResult {
	str := NewString(fmt.Sprint(n.Token.Value))
	str.SetContext(ctx)
	str.SetPos(n.Span().Start, n.Span().End)
	return NewRunResult().Success(str)
}

func (itp *Interpreter) visitListNode(n *ast.ListNode, ctx *Context) *RunResult {
	res := NewRunResult()
	elements := make([]Value, 0, len(n.Elements))

	for _, el := range n.Elements {
		elements = append(elements, res.Register(itp.Visit(el, ctx)))
		if res.ShouldReturn(false) {
			return res
		}
	}

	list := NewList(elements)
	list.SetContext(ctx)
	list.SetPos(n.Span().Start, n.Span().End)
	return res.Success(list)
}

func (itp *Interpreter) visitVarAccessNode(n *ast.VarAccessNode, ctx *Context) *RunResult {
	res := NewRunResult()
	name, _ := n.NameToken.Value.(string)

	value, ok := ctx.SymbolTable.Get(name)
	if !ok {
		return res.Failure(NewRuntimeError(n.Span().Start, n.Span().End, fmt.Sprintf("%s is undefined", name), ctx))
	}
	value = value.Copy()
	value.SetPos(n.Span().Start, n.Span().End)
	return res.Success(value)
}

func (itp *Interpreter) visitVarAssignNode(n *ast.VarAssignNode, ctx *Context) *RunResult {
	res := NewRunResult()
	name, _ := n.NameToken.Value.(string)

	if !n.Define {
		if _, ok := ctx.SymbolTable.Get(name); !ok {
			return res.Failure(NewRuntimeError(n.Span().Start, n.Span().End, fmt.Sprintf("%s is undefined", name), ctx))
		}
	}

	if compoundOp, ok := compoundAssignOp(n.Eq); ok {
		desugared := ast.NewVarAssignNode(
			n.NameToken,
			ast.NewBinaryOpNode(ast.NewVarAccessNode(n.NameToken), token.Token{Kind: compoundOp}, n.Value),
			token.EQ,
			false,
		)
		return itp.Visit(desugared, ctx)
	}

	value := res.Register(itp.Visit(n.Value, ctx))
	if res.ShouldReturn(false) {
		return res
	}
	ctx.SymbolTable.Set(name, value)
	return res.Success(value)
}

func compoundAssignOp(eq token.Kind) (token.Kind, bool) {
	switch eq {
	case token.PLUSEQ:
		return token.PLUS, true
	case token.MINUSEQ:
		return token.MINUS, true
	case token.MULEQ:
		return token.MUL, true
	case token.DIVEQ:
		return token.DIV, true
	case token.POWEQ:
		return token.POW, true
	case token.MODEQ:
		return token.MOD, true
	default:
		return 0, false
	}
}

func (itp *Interpreter) visitBinaryOpNode(n *ast.BinaryOpNode, ctx *Context) *RunResult {
	res := NewRunResult()

	left := res.Register(itp.Visit(n.Left, ctx))
	if res.ShouldReturn(false) {
		return res
	}
	right := res.Register(itp.Visit(n.Right, ctx))
	if res.ShouldReturn(false) {
		return res
	}

	var result Value
	var err *RuntimeError

	switch {
	case n.Op.Kind == token.PLUS:
		result, err = left.AddBy(right)
	case n.Op.Kind == token.MINUS:
		result, err = left.SubBy(right)
	case n.Op.Kind == token.MUL:
		result, err = left.MulBy(right)
	case n.Op.Kind == token.DIV:
		result, err = left.DivBy(right)
	case n.Op.Kind == token.POW:
		result, err = left.PowBy(right)
	case n.Op.Kind == token.MOD:
		result, err = left.ModBy(right)
	case n.Op.Kind == token.EE:
		result, err = left.CompEE(right)
	case n.Op.Kind == token.NE:
		result, err = left.CompNE(right)
	case n.Op.Kind == token.LT:
		result, err = left.CompLT(right)
	case n.Op.Kind == token.GT:
		result, err = left.CompGT(right)
	case n.Op.Kind == token.LTE:
		result, err = left.CompLTE(right)
	case n.Op.Kind == token.GTE:
		result, err = left.CompGTE(right)
	case n.Op.Match(token.KEYWORD, "and"):
		result, err = left.LogicAnd(right)
	case n.Op.Match(token.KEYWORD, "or"):
		result, err = left.LogicOr(right)
	default:
		return res.Failure(NewRuntimeError(n.Span().Start, n.Span().End, fmt.Sprintf("%s is not supported", n.Op.Kind), ctx))
	}

	if err != nil {
		return res.Failure(err)
	}
	result.SetPos(n.Span().Start, n.Span().End)
	return res.Success(result)
}

func (itp *Interpreter) visitUnaryOpNode(n *ast.UnaryOpNode, ctx *Context) *RunResult {
	res := NewRunResult()

	operand := res.Register(itp.Visit(n.Operand, ctx))
	if res.ShouldReturn(false) {
		return res
	}

	var result Value
	var err *RuntimeError

	switch {
	case n.Op.Kind == token.MINUS:
		neg := NewInt(-1)
		result, err = operand.MulBy(neg)
	case n.Op.Match(token.KEYWORD, "not"):
		result, err = operand.LogicNot()
	default:
		result = operand
	}

	if err != nil {
		return res.Failure(err)
	}
	result.SetPos(n.Span().Start, n.Span().End)
	return res.Success(result)
}

func (itp *Interpreter) visitIfNode(n *ast.IfNode, ctx *Context) *RunResult {
	res := NewRunResult()

	for _, c := range n.Cases {
		condValue := res.Register(itp.Visit(c.Cond, ctx))
		if res.ShouldReturn(false) {
			return res
		}
		if condValue.IsTruthy() {
			exprValue := res.Register(itp.Visit(c.Body, ctx))
			if res.ShouldReturn(false) {
				return res
			}
			return res.Success(exprValue)
		}
	}

	if n.ElseBody != nil {
		elseValue := res.Register(itp.Visit(n.ElseBody, ctx))
		if res.ShouldReturn(false) {
			return res
		}
		return res.Success(elseValue)
	}

	return res.Success(nil)
}

func (itp *Interpreter) visitForNode(n *ast.ForNode, ctx *Context) *RunResult {
	res := NewRunResult()
	var elements []Value

	startValue := res.Register(itp.Visit(n.Start, ctx))
	if res.ShouldReturn(false) {
		return res
	}
	startNum, ok := startValue.(*Number)
	if !ok {
		return res.Failure(NewRuntimeError(n.Start.Span().Start, n.Start.Span().End, "Illegal Operation", ctx))
	}

	endValue := res.Register(itp.Visit(n.End, ctx))
	if res.ShouldReturn(false) {
		return res
	}
	endNum, ok := endValue.(*Number)
	if !ok {
		return res.Failure(NewRuntimeError(n.End.Span().Start, n.End.Span().End, "Illegal Operation", ctx))
	}

	stepNum := NewInt(1)
	if n.Step != nil {
		stepValue := res.Register(itp.Visit(n.Step, ctx))
		if res.ShouldReturn(false) {
			return res
		}
		if sn, ok := stepValue.(*Number); ok {
			stepNum = sn
		}
	}

	i := startNum.Val
	name, _ := n.VarToken.Value.(string)

	condition := func() bool {
		if stepNum.Val >= 0 {
			return i <= endNum.Val
		}
		return i >= endNum.Val
	}

	for condition() {
		ctx.SymbolTable.Set(name, NewFloat(i))
		i += stepNum.Val

		value := res.Register(itp.Visit(n.Body, ctx))
		if res.ShouldReturn(true) {
			return res
		}
		if res.LoopShouldContinue {
			continue
		}
		if res.LoopShouldBreak {
			break
		}
		elements = append(elements, value)
	}

	list := NewList(elements)
	list.SetContext(ctx)
	list.SetPos(n.Span().Start, n.Span().End)
	return res.Success(list)
}

func (itp *Interpreter) visitWhileNode(n *ast.WhileNode, ctx *Context) *RunResult {
	res := NewRunResult()
	var elements []Value

	for {
		condValue := res.Register(itp.Visit(n.Cond, ctx))
		if res.ShouldReturn(false) {
			return res
		}
		if !condValue.IsTruthy() {
			break
		}

		value := res.Register(itp.Visit(n.Body, ctx))
		if res.ShouldReturn(true) {
			return res
		}
		if res.LoopShouldContinue {
			continue
		}
		if res.LoopShouldBreak {
			break
		}
		elements = append(elements, value)
	}

	list := NewList(elements)
	list.SetContext(ctx)
	list.SetPos(n.Span().Start, n.Span().End)
	return res.Success(list)
}

func (itp *Interpreter) visitFuncNode(n *ast.FuncNode, ctx *Context) *RunResult {
	res := NewRunResult()

	var funcName string
	if n.NameToken != nil {
		funcName, _ = n.NameToken.Value.(string)
	}
	paramNames := make([]string, len(n.Params))
	for i, p := range n.Params {
		paramNames[i], _ = p.Value.(string)
	}

	fn := NewFunction(funcName, paramNames, n.Body, n.AutoReturn, itp.Visit)
	fn.SetContext(ctx)
	fn.SetPos(n.Span().Start, n.Span().End)

	if n.NameToken != nil {
		ctx.SymbolTable.Set(funcName, fn)
	}

	return res.Success(fn)
}

func (itp *Interpreter) visitCallNode(n *ast.CallNode, ctx *Context) *RunResult {
	res := NewRunResult()
	args := make([]Value, 0, len(n.Args))

	calleeValue := res.Register(itp.Visit(n.Callee, ctx))
	if res.ShouldReturn(false) {
		return res
	}
	calleeValue = calleeValue.Copy()
	calleeValue.SetPos(n.Span().Start, n.Span().End)

	for _, argNode := range n.Args {
		args = append(args, res.Register(itp.Visit(argNode, ctx)))
		if res.ShouldReturn(false) {
			return res
		}
	}

	callable, ok := calleeValue.(Callable)
	if !ok {
		return res.Failure(NewRuntimeError(n.Span().Start, n.Span().End, fmt.Sprintf("%s is not callable", calleeValue.Repr()), ctx))
	}

	returnValue := res.Register(callable.Execute(args, itp))
	if res.ShouldReturn(false) {
		return res
	}
	return res.Success(returnValue)
}

func (itp *Interpreter) visitReturnNode(n *ast.ReturnNode, ctx *Context) *RunResult {
	res := NewRunResult()

	value := Value(NumberNull)
	if n.Value != nil {
		value = res.Register(itp.Visit(n.Value, ctx))
		if res.ShouldReturn(false) {
			return res
		}
	}
	return res.SuccessReturn(value)
}
