// Package cmd implements the laki command-line toolchain.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "laki",
	Short: "LakiScript interpreter",
	Long: `laki is the toolchain for LakiScript, a small dynamically-typed
scripting language with C-like control flow, first-class functions and
a list type.

Running laki with no subcommand executes a script file or, with none
given, starts the interactive shell — mirroring the reference
interpreter's "python main.py [script]" entry point.`,
	Version:      Version,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runDefault,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}
