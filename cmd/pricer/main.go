// Command pricer resolves recipe ingredients against the configured product
// catalog and prints matches and a cost summary.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
