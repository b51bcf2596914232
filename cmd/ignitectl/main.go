// Command ignitectl is the CLI front door for the authority core: it
// dispatches user commands to internal/authority.Chain and otherwise
// contains no business logic.
package main

import (
	"fmt"
	"os"

	"github.com/padlokk/ignition/cmd/ignitectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ignitectl:", err)
		os.Exit(1)
	}
}
