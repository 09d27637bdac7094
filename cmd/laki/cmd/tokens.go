package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakiscript/laki/internal/diag"
	"github.com/lakiscript/laki/internal/lexer"
	"github.com/lakiscript/laki/internal/loader"
	"github.com/lakiscript/laki/internal/token"
)

var tokensJSON bool

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Lex a file and print its token stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		text, err := loader.ReadFile(args[0])
		if err != nil {
			return err
		}

		l := lexer.New(args[0], text)
		toks, diags, lexErr := l.Tokenize()
		if lexErr != nil {
			fmt.Fprintln(os.Stderr, lexErr)
			os.Exit(1)
		}

		if tokensJSON {
			printTokensJSON(toks, diags)
		} else {
			printTokensText(toks, diags)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().BoolVar(&tokensJSON, "json", false, "print tokens as JSON")
}

func printTokensText(toks []token.Token, diags []diag.Diagnostic) {
	for _, tok := range toks {
		fmt.Printf("%-12s %-20v %d:%d\n", tok.Kind, tok.Value, tok.Span.Start.Line, tok.Span.Start.Column)
	}
	printDiagsText(diags)
}

func printTokensJSON(toks []token.Token, diags []diag.Diagnostic) {
	output := map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diagsToSlice(diags),
	}
	printJSON(output)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error: JSON encoding failed: %v\n", err)
		os.Exit(1)
	}
}

func printDiagsText(diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
}

func diagsToSlice(diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		result[i] = map[string]interface{}{
			"code":     d.Code,
			"severity": d.Severity.String(),
			"message":  d.Message,
		}
	}
	return result
}
