package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lakiscript/laki/internal/engine"
)

// runDefault reproduces main.py's argv dispatch: no argument starts the
// shell, one argument runs that file.
func runDefault(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		runShell()
		return nil
	}
	return runScriptFile(args[0])
}

func runScriptFile(path string) error {
	g := engine.NewGlobals(os.Stdout, os.Stdin)
	if err := engine.RunFile(path, g, os.Stdout); err != nil {
		os.Exit(1)
	}
	return nil
}
