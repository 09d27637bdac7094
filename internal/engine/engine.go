// Package engine wires the lexer, parser and interpreter into the two
// entry points every LakiScript host (the CLI's run/repl subcommands,
// tests) needs: evaluating one chunk of source against a shared global
// scope, and loading a whole script file from disk.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lakiscript/laki/internal/lexer"
	"github.com/lakiscript/laki/internal/loader"
	"github.com/lakiscript/laki/internal/parser"
	"github.com/lakiscript/laki/internal/runtime"
)

// opLog carries process-level operational logging (load failures, session
// start/end) to stderr as structured key-value text, kept separate from the
// plain stdout/stderr a script's own print/error output goes through.
var opLog = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Globals is the root scope a host builds once (seeded via
// runtime.RegisterBuiltins) and reuses across every Run call, so top-level
// `var` declarations persist between REPL lines the way they persist
// between statements in a script file.
type Globals struct {
	Table *runtime.SymbolTable
}

// NewGlobals creates a fresh global scope with every built-in registered.
func NewGlobals(out io.Writer, in io.Reader) *Globals {
	table := runtime.NewSymbolTable(nil)
	runtime.RegisterBuiltins(table, out, in)
	return &Globals{Table: table}
}

// Run lexes, parses and interprets one chunk of source attributed to
// file, against g's shared global scope. tokens is non-nil only when
// debug is true, mirroring the reference host's "print the token stream
// before running" debug path.
func Run(file, text string, debug bool, g *Globals) (value runtime.Value, err error, tokens []fmt.Stringer) {
	l := lexer.New(file, text)
	toks, _, lexErr := l.Tokenize()
	if lexErr != nil {
		return nil, lexErr, nil
	}

	if debug {
		tokens = make([]fmt.Stringer, len(toks))
		for i, t := range toks {
			tokens[i] = t
		}
	}

	p := parser.New(toks)
	node, parseErr := p.Parse()
	if parseErr != nil {
		return nil, parseErr, tokens
	}

	ctx := runtime.NewContext("<program>", nil, nil)
	ctx.SymbolTable = g.Table

	itp := runtime.NewInterpreter()
	res := itp.Visit(node, ctx)
	if res.Error != nil {
		return nil, res.Error, tokens
	}
	return res.Value, nil, tokens
}

// RunFile loads path via the encoding-aware loader and runs it as a
// standalone script (debug=false, matching main.py's runFile). On a read
// failure it reports the same "Fail to load script" wording the
// reference host prints, then returns the error. On a successful parse/
// run it prints nothing on success and the error's rendered text on
// failure — never the evaluated value, matching runFile's script-mode
// contract (only the REPL echoes values).
func RunFile(path string, g *Globals, stderr io.Writer) error {
	text, err := loader.ReadFile(path)
	if err != nil {
		opLog.Error("failed to load script", "path", path, "error", err)
		fmt.Fprintf(stderr, "Fail to load script %s, error: %s\n", path, err)
		return err
	}

	_, runErr, _ := Run(path, text, false, g)
	if runErr != nil {
		fmt.Fprintln(stderr, ErrorText(runErr))
		return runErr
	}
	return nil
}

// ErrorText extracts the host-facing rendering of a lexer/parser/runtime
// error, all of which expose GetError() string per the shared error
// contract (lkerror.Error and runtime.RuntimeError).
func ErrorText(err error) string {
	type getError interface{ GetError() string }
	if ge, ok := err.(getError); ok {
		return ge.GetError()
	}
	return err.Error()
}
