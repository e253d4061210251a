// Package main provides the entry point for cachesim.
// cachesim is a set-associative cache simulator driven by word address
// traces.
//
// For the full CLI, use: go run ./cmd/cachesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("cachesim - Set-Associative Cache Simulator")
	fmt.Println("")
	fmt.Println("Usage: cachesim [options] [word-address...]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  --l1-cache-size         Size of the L1 cache in words (required)")
	fmt.Println("  --l1-word-addrs-trace   Trace file of base-10 word addresses")
	fmt.Println("  --two-level             Feed L1 misses into an L2 cache")
	fmt.Println("  --config                Path to cache configuration JSON file")
	fmt.Println("  -v                      Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cachesim --help' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cachesim' instead.")
	}
}
