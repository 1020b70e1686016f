package main

import (
	"os"

	"github.com/jdlee-quant/rebound/cmd/rebound/commands"
)

// main is the entry point for the rebound CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
