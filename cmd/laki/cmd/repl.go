package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lakiscript/laki/internal/engine"
)

// opLog mirrors engine's process-level operational logger: REPL session
// start/end and readline-init failures are operational events, not script
// output, so they go to stderr as structured text rather than through
// rl.Stdout()/rl.Stderr().
var opLog = slog.New(slog.NewTextHandler(os.Stderr, nil))

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive LakiScript shell",
	Run: func(_ *cobra.Command, _ []string) {
		runShell()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

var (
	promptColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
)

// runShell reproduces shell.py's banner and "> " loop, with two additions
// grounded in the teacher's own REPL: readline history/editing and
// brace-depth tracking so a multi-line if/for/while/func block can be
// typed across several physical lines before being handed to engine.Run
// as a single chunk. Every completed chunk is still run with debug=true
// and its result echoed, matching the reference shell exactly.
func runShell() {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".laki_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptColor.Sprint("> "),
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		opLog.Error("readline init failed", "error", err)
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	opLog.Info("repl session start")
	defer opLog.Info("repl session end")

	fmt.Fprintln(rl.Stdout(), "LakiScript Shell")
	fmt.Fprintln(rl.Stdout())

	g := engine.NewGlobals(rl.Stdout(), rl.Stdin())
	var accumulated strings.Builder
	braceDepth := 0

	for {
		if braceDepth > 0 {
			rl.SetPrompt("... ")
		} else {
			rl.SetPrompt(promptColor.Sprint("> "))
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				accumulated.Reset()
				braceDepth = 0
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")

		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		text := accumulated.String()
		accumulated.Reset()

		if strings.TrimSpace(text) == "" {
			continue
		}

		value, runErr, tokens := engine.Run("<stdin>", text, true, g)
		for _, t := range tokens {
			fmt.Fprintln(rl.Stdout(), t.String())
		}
		if runErr != nil {
			errorColor.Fprintln(rl.Stdout(), engine.ErrorText(runErr))
			continue
		}
		if value != nil {
			fmt.Fprintln(rl.Stdout(), value.Repr())
		} else {
			fmt.Fprintln(rl.Stdout(), "None")
		}
	}
}
