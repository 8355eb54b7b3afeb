// Command pvc derives Pedersen vector commitment keys, commits to vectors and
// aggregates batches of committed submissions.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
