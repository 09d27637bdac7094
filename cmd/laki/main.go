// Command laki is the CLI entry point for the LakiScript toolchain.
package main

import (
	"fmt"
	"os"

	"github.com/lakiscript/laki/cmd/laki/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
