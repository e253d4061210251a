// Command benchmark runs synthetic address traces through one cache level
// and compares replacement policies.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv     Output results in CSV format (default: human-readable)
//	-core    Run only the core workloads
//	-size    Cache size in words (default: 16)
//	-ways    Blocks per set (default: 4)
//	-words   Words per block (default: 2)
//
// Example:
//
//	# Compare LRU and MRU on a 32-word, 2-way cache
//	go run ./cmd/benchmark -size 32 -ways 2
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/cachesim/benchmarks"
)

func main() {
	config := benchmarks.DefaultConfig()

	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	coreOnly := flag.Bool("core", false, "Run only the core workloads")
	flag.IntVar(&config.Level.CacheSize, "size", config.Level.CacheSize, "Cache size in words")
	flag.IntVar(&config.Level.NumBlocksPerSet, "ways", config.Level.NumBlocksPerSet, "Blocks per set")
	flag.IntVar(&config.Level.NumWordsPerBlock, "words", config.Level.NumWordsPerBlock, "Words per block")
	flag.Uint64Var(&config.Level.HitLatency, "hit-latency", config.Level.HitLatency, "Hit latency")
	flag.Uint64Var(&config.Level.MissLatency, "miss-latency", config.Level.MissLatency, "Miss latency")
	flag.Parse()

	if err := config.Level.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddWorkloads(benchmarks.GetCoreWorkloads())
	} else {
		harness.AddWorkloads(benchmarks.GetWorkloads())
	}

	if !*csvOutput {
		fmt.Println("Cache Workload Harness")
		fmt.Println("======================")
		fmt.Printf("Size: %d words, %d blocks/set, %d words/block\n",
			config.Level.CacheSize, config.Level.NumBlocksPerSet, config.Level.NumWordsPerBlock)
		fmt.Printf("Latency: hit %d, miss %d\n", config.Level.HitLatency, config.Level.MissLatency)
		fmt.Println("")
	}

	results := harness.RunAll()

	if *csvOutput {
		harness.PrintCSV(results)
	} else {
		harness.PrintResults(results)
	}
}
