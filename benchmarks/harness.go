// Package benchmarks runs synthetic address traces through a cache level
// and compares replacement policies.
package benchmarks

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/timing/config"
)

// BenchmarkResult holds the results of one workload under one policy.
type BenchmarkResult struct {
	// Name identifies the workload
	Name string `json:"name"`

	// Description explains what the workload exercises
	Description string `json:"description"`

	// Policy is the replacement policy used
	Policy string `json:"policy"`

	Accesses  uint64 `json:"accesses"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`

	// HitRate is hits over accesses
	HitRate float64 `json:"hit_rate"`

	// TotalLatency is the accumulated hit and miss latency
	TotalLatency uint64 `json:"total_latency"`

	// Err is set when the workload could not run with this configuration
	Err error `json:"-"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Workload is a named address trace.
type Workload struct {
	Name        string
	Description string
	Addrs       []uint64
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Level is the cache level every workload runs against. The replacement
	// policy in it is overridden by Policies.
	Level *config.LevelConfig

	// Policies lists the replacement policies to compare.
	Policies []string

	// Output is where to write results (default: os.Stdout)
	Output io.Writer
}

// DefaultConfig returns a 16-word, 4-way cache with 2-word blocks, compared
// under LRU and MRU.
func DefaultConfig() HarnessConfig {
	level := config.DefaultL1Config()
	level.CacheSize = 16
	level.NumBlocksPerSet = 4
	level.NumWordsPerBlock = 2

	return HarnessConfig{
		Level:    level,
		Policies: []string{"lru", "mru"},
		Output:   os.Stdout,
	}
}

// Harness runs workloads and reports results.
type Harness struct {
	config    HarnessConfig
	workloads []Workload
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config: config,
	}
}

// AddWorkload adds a workload to the harness.
func (h *Harness) AddWorkload(w Workload) {
	h.workloads = append(h.workloads, w)
}

// AddWorkloads adds multiple workloads to the harness.
func (h *Harness) AddWorkloads(workloads []Workload) {
	h.workloads = append(h.workloads, workloads...)
}

// RunAll runs every workload under every policy.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.workloads)*len(h.config.Policies))

	for _, w := range h.workloads {
		for _, p := range h.config.Policies {
			results = append(results, h.runWorkload(w, p))
		}
	}

	return results
}

func (h *Harness) runWorkload(w Workload, policy string) BenchmarkResult {
	level := h.config.Level.Clone()
	level.ReplacementPolicy = policy

	result := BenchmarkResult{
		Name:        w.Name,
		Description: w.Description,
		Policy:      policy,
	}

	start := time.Now()
	r, err := sim.RunLevel(w.Name, level, w.Addrs)
	result.WallTime = time.Since(start)
	if err != nil {
		result.Err = err
		return result
	}

	stats := r.Stats()
	result.Accesses = stats.Accesses
	result.Hits = stats.Hits
	result.Misses = stats.Misses
	result.Evictions = stats.Evictions
	result.HitRate = stats.HitRate()
	result.TotalLatency = r.TotalLatency()

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Cache Workload Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Workload: %s (%s)\n", r.Name, r.Policy)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		if r.Err != nil {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %v\n\n", r.Err)
			continue
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Accesses:      %d\n", r.Accesses)
		_, _ = fmt.Fprintf(h.config.Output, "  Hits:          %d\n", r.Hits)
		_, _ = fmt.Fprintf(h.config.Output, "  Misses:        %d\n", r.Misses)
		_, _ = fmt.Fprintf(h.config.Output, "  Evictions:     %d\n", r.Evictions)
		_, _ = fmt.Fprintf(h.config.Output, "  Hit Rate:      %.1f%%\n", 100*r.HitRate)
		_, _ = fmt.Fprintf(h.config.Output, "  Total Latency: %d\n", r.TotalLatency)
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,policy,accesses,hits,misses,evictions,hit_rate,total_latency")

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		_, _ = fmt.Fprintf(h.config.Output, "%s,%s,%d,%d,%d,%d,%.4f,%d\n",
			r.Name,
			r.Policy,
			r.Accesses,
			r.Hits,
			r.Misses,
			r.Evictions,
			r.HitRate,
			r.TotalLatency,
		)
	}
}
