// Command libraryctl operates the circulation service from the command line:
// schema setup, catalog and membership management, the circulation
// operations, fines and the periodic sweeps.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
