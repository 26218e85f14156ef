// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Snelldock.
//
// Usage:
//
//	go run . [flags]
//	./snelldock [flags]
//
// This launches the Snelldock CLI. See --help for options.
package main

import (
	"log"
	"os"

	"github.com/snelldock/snelldock/ui/cli"
)

// main is the entrypoint for the Snelldock CLI.
func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("Snelldock CLI error: %v", err)
		os.Exit(1)
	}
}
