// Command cubetree reboots a reactor core from a list of on/off cuboid
// steps and reports how many cells are left on.
package main

import (
	"fmt"
	"os"
)

// Build metadata, set with -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := newRootCommand()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
