// Command informed-search runs A* and AO* searches on problem documents,
// either once from the command line or behind an HTTP API.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
