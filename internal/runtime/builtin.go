package runtime

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// RegisterBuiltins seeds table with LakiScript's constants (null/true/
// false/PI/E) and built-in functions. out/in back print/input; a script
// run non-interactively typically passes os.Stdout/os.Stdin, while tests
// substitute buffers.
func RegisterBuiltins(table *SymbolTable, out io.Writer, in io.Reader) {
	table.Set("null", NumberNull)
	table.Set("true", NumberTrue)
	table.Set("false", NumberFalse)
	table.Set("PI", NumberPI)
	table.Set("E", NumberE)

	reader := bufio.NewReader(in)

	table.Set("print", NewBuiltinFunction("print", []string{"value"}, func(ctx *Context) *RunResult {
		value, _ := ctx.SymbolTable.Get("value")
		fmt.Fprintln(out, value.Display())
		return NewRunResult().Success(NumberNull)
	}))

	table.Set("input", NewBuiltinFunction("input", nil, func(ctx *Context) *RunResult {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if err != nil && line == "" {
			return NewRunResult().Success(NewString(""))
		}
		return NewRunResult().Success(NewString(line))
	}))

	table.Set("int", NewBuiltinFunction("int", []string{"value"}, func(ctx *Context) *RunResult {
		value, _ := ctx.SymbolTable.Get("value")
		n, ok := toInt(value)
		if !ok {
			return NewRunResult().Failure(NewRuntimeError(value.PosStart(), value.PosEnd(),
				fmt.Sprintf("%s cannot be converted to an int", value.Repr()), value.GetContext()))
		}
		return NewRunResult().Success(NewInt(n))
	}))

	table.Set("str", NewBuiltinFunction("str", []string{"value"}, func(ctx *Context) *RunResult {
		value, _ := ctx.SymbolTable.Get("value")
		return NewRunResult().Success(NewString(value.Display()))
	}))

	table.Set("len", NewBuiltinFunction("len", []string{"value"}, func(ctx *Context) *RunResult {
		value, _ := ctx.SymbolTable.Get("value")
		switch v := value.(type) {
		case *String:
			return NewRunResult().Success(NewInt(int64(utf8.RuneCountInString(v.Val))))
		case *List:
			return NewRunResult().Success(NewInt(int64(len(v.Elements))))
		default:
			return NewRunResult().Failure(NewRuntimeError(value.PosStart(), value.PosEnd(),
				fmt.Sprintf("len() is not supported for %s", value.Repr()), value.GetContext()))
		}
	}))

	table.Set("abs", numericBuiltin("abs", math.Abs))
	table.Set("floor", numericBuiltin("floor", math.Floor))
	table.Set("ceil", numericBuiltin("ceil", math.Ceil))
	table.Set("sqrt", numericBuiltinChecked("sqrt", math.Sqrt, func(v float64) string {
		if v < 0 {
			return "sqrt() is not supported for negative numbers"
		}
		return ""
	}))

	table.Set("pow", NewBuiltinFunction("pow", []string{"base", "exp"}, func(ctx *Context) *RunResult {
		base, _ := ctx.SymbolTable.Get("base")
		exp, _ := ctx.SymbolTable.Get("exp")
		baseNum, ok1 := base.(*Number)
		expNum, ok2 := exp.(*Number)
		if !ok1 || !ok2 {
			return NewRunResult().Failure(NewRuntimeError(base.PosStart(), exp.PosEnd(), "Illegal Operation", ctx))
		}
		return NewRunResult().Success(NewFloat(math.Pow(baseNum.Val, expNum.Val)))
	}))

	table.Set("upper", stringBuiltin("upper", strings.ToUpper))
	table.Set("lower", stringBuiltin("lower", strings.ToLower))
}

func numericBuiltin(name string, fn func(float64) float64) *BuiltinFunction {
	return numericBuiltinChecked(name, fn, nil)
}

// numericBuiltinChecked is numericBuiltin plus an optional domain guard; when
// validate returns a non-empty message for num.Val, that message becomes the
// RTError instead of computing fn.
func numericBuiltinChecked(name string, fn func(float64) float64, validate func(float64) string) *BuiltinFunction {
	return NewBuiltinFunction(name, []string{"value"}, func(ctx *Context) *RunResult {
		value, _ := ctx.SymbolTable.Get("value")
		num, ok := value.(*Number)
		if !ok {
			return NewRunResult().Failure(NewRuntimeError(value.PosStart(), value.PosEnd(),
				fmt.Sprintf("%s() is not supported for %s", name, value.Repr()), value.GetContext()))
		}
		if validate != nil {
			if msg := validate(num.Val); msg != "" {
				return NewRunResult().Failure(NewRuntimeError(value.PosStart(), value.PosEnd(),
					msg, value.GetContext()))
			}
		}
		return NewRunResult().Success(NewFloat(fn(num.Val)))
	})
}

func stringBuiltin(name string, fn func(string) string) *BuiltinFunction {
	return NewBuiltinFunction(name, []string{"value"}, func(ctx *Context) *RunResult {
		value, _ := ctx.SymbolTable.Get("value")
		str, ok := value.(*String)
		if !ok {
			return NewRunResult().Failure(NewRuntimeError(value.PosStart(), value.PosEnd(),
				fmt.Sprintf("%s() is not supported for %s", name, value.Repr()), value.GetContext()))
		}
		return NewRunResult().Success(NewString(fn(str.Val)))
	})
}

// toInt mirrors Python's int(value): Number truncates toward zero, String
// parses as a base-10 integer literal.
func toInt(value Value) (int64, bool) {
	switch v := value.(type) {
	case *Number:
		return int64(v.Val), true
	case *String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Val), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
