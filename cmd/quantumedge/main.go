package main

import (
	"os"

	"github.com/wonny/quantumedge/cmd/quantumedge/commands"
)

// main is the entry point for the QuantumEdge CLI
// ⭐ Unified CLI entry point: go run ./cmd/quantumedge [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
