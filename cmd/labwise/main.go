// Package main is the entry point for the labwise CLI.
package main

import (
	"os"

	"github.com/labwise/labwise/cmd/labwise/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
