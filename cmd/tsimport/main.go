// Command tsimport inspects delimited files and single values from the terminal
// using the same detection rules as the import server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
