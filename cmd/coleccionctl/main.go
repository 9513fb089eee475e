// Command coleccionctl runs maintenance tasks against the collection database:
// schema migration, user seeding and master password hashing.
package main

import (
	"os"

	"github.com/pterm/pterm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
