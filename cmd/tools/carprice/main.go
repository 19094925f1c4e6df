// Package main is the entry point for the carprice CLI.
package main

import (
	"os"

	"carprice-workers/cmd/tools/carprice/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
