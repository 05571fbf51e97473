package main

import (
	"os"

	"github.com/venysssssssssss/data-intake-selic-bc/cmd/selic/commands"
)

// main is the entry point of the selic CLI
// ⭐ Single CLI entry point: go run ./cmd/selic [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
