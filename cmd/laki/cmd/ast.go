package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakiscript/laki/internal/ast"
	"github.com/lakiscript/laki/internal/lexer"
	"github.com/lakiscript/laki/internal/loader"
	"github.com/lakiscript/laki/internal/parser"
)

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Parse a file and print its AST as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		text, err := loader.ReadFile(args[0])
		if err != nil {
			return err
		}

		l := lexer.New(args[0], text)
		toks, lexDiags, lexErr := l.Tokenize()
		if lexErr != nil {
			fmt.Fprintln(os.Stderr, lexErr)
			os.Exit(1)
		}

		p := parser.New(toks)
		node, parseErr := p.Parse()
		allDiags := append(diagsToSlice(lexDiags), diagsToSlice(p.Diagnostics())...)

		if parseErr != nil {
			fmt.Fprintln(os.Stderr, parseErr)
			os.Exit(1)
		}

		output := map[string]interface{}{
			"ast":         ast.NodeToMap(node),
			"diagnostics": allDiags,
		}
		printJSON(output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(astCmd)
}
