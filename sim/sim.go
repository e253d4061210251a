// Package sim runs traces through one or two cache levels.
package sim

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/sarchlab/cachesim/timing/cache"
	"github.com/sarchlab/cachesim/timing/config"
	"github.com/sarchlab/cachesim/trace"
)

// LevelResult is the outcome of replaying a trace through one cache level.
type LevelResult struct {
	Name     string
	Config   *config.LevelConfig
	Geometry config.Geometry
	Refs     []*cache.Reference
	Cache    *cache.Cache
}

// Misses returns the addresses that missed, in trace order.
func (r *LevelResult) Misses() []uint64 {
	return cache.Misses(r.Refs)
}

// Stats returns the hit and miss counts of the level.
func (r *LevelResult) Stats() cache.Statistics {
	return r.Cache.Stats()
}

// TotalLatency returns the latency accumulated by the level.
func (r *LevelResult) TotalLatency() uint64 {
	return r.Cache.TotalLatency()
}

// RunLevel decodes the addresses and replays them through a new cache built
// from c. On error nothing has been processed.
func RunLevel(name string, c *config.LevelConfig, addrs []uint64) (*LevelResult, error) {
	g, err := c.Geometry(addrs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	cc, err := cache.New(g.CacheConfig(c))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	refs := cache.NewReferences(addrs, g.Layout)
	cc.ProcessTrace(refs)

	return &LevelResult{
		Name:     name,
		Config:   c,
		Geometry: g,
		Refs:     refs,
		Cache:    cc,
	}, nil
}

// A Sink consumes finished levels, for example to print or store them.
type Sink interface {
	RecordLevel(result *LevelResult) error
}

// Simulator runs a cache hierarchy over a trace.
type Simulator struct {
	sinks      []Sink
	crossCheck bool
	missFiles  map[string]string
	logger     *log.Logger

	levelStartHooks []func(level string)
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithSink adds a sink that receives every finished level.
func WithSink(s Sink) Option {
	return func(sim *Simulator) {
		sim.sinks = append(sim.sinks, s)
	}
}

// WithCrossCheck replays every LRU level through akita's cache directory
// and fails the run if any classification differs.
func WithCrossCheck(enabled bool) Option {
	return func(sim *Simulator) {
		sim.crossCheck = enabled
	}
}

// WithMissFile writes the miss trace of the named level ("l1" or "l2") to
// path.
func WithMissFile(level, path string) Option {
	return func(sim *Simulator) {
		if path == "" {
			return
		}
		sim.missFiles[level] = path
	}
}

// WithLevelStartHook registers f to be called with the level name before
// each level is simulated.
func WithLevelStartHook(f func(level string)) Option {
	return func(sim *Simulator) {
		sim.levelStartHooks = append(sim.levelStartHooks, f)
	}
}

// WithLogger sets the logger for progress messages.
func WithLogger(l *log.Logger) Option {
	return func(sim *Simulator) {
		sim.logger = l
	}
}

// NewSimulator creates a Simulator.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		missFiles: make(map[string]string),
		logger:    log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run replays addrs through L1 and, for a two-level hierarchy, replays the
// L1 misses through L2. It returns the results of the levels that finished.
// An error in L1 stops the run before L2.
func (s *Simulator) Run(h *config.HierarchyConfig, addrs []uint64) ([]*LevelResult, error) {
	if h.L1 == nil {
		return nil, errors.New("l1: missing configuration")
	}

	l1, err := s.runLevel("l1", h.L1, addrs)
	if err != nil {
		return nil, err
	}

	results := []*LevelResult{l1}
	if !h.TwoLevel {
		return results, nil
	}

	if h.L2 == nil {
		return results, errors.New("l2: missing configuration")
	}

	s.logger.Printf("simulating two level cache hierarchy")

	l2, err := s.runLevel("l2", h.L2, l1.Misses())
	if err != nil {
		return results, err
	}

	return append(results, l2), nil
}

func (s *Simulator) runLevel(
	name string,
	c *config.LevelConfig,
	addrs []uint64,
) (*LevelResult, error) {
	for _, hook := range s.levelStartHooks {
		hook(name)
	}

	s.logger.Printf("%s: replaying %d word addresses", name, len(addrs))

	result, err := RunLevel(name, c, addrs)
	if err != nil {
		return nil, err
	}

	g := result.Geometry
	s.logger.Printf("%s: %d sets x %d blocks x %d words, %d address bits (tag %d, index %d, offset %d)",
		name, g.NumSets, g.NumBlocksPerSet, g.NumWordsPerBlock,
		g.Layout.AddrBits, g.Layout.TagBits, g.Layout.IndexBits, g.Layout.OffsetBits)

	if s.crossCheck {
		if err := s.doCrossCheck(result); err != nil {
			return nil, err
		}
	}

	if path, ok := s.missFiles[name]; ok {
		if err := trace.WriteMissFile(path, result.Refs); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		s.logger.Printf("%s: wrote %d misses to %s", name, result.Stats().Misses, path)
	}

	for _, sink := range s.sinks {
		if err := sink.RecordLevel(result); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	return result, nil
}

func (s *Simulator) doCrossCheck(result *LevelResult) error {
	cc := result.Cache.Config()
	if cc.Policy != cache.LRU {
		s.logger.Printf("%s: skipping cross check for %v policy", result.Name, cc.Policy)
		return nil
	}

	if err := cache.CrossCheckLRU(cc, result.Refs); err != nil {
		return fmt.Errorf("%s: %w", result.Name, err)
	}

	s.logger.Printf("%s: cross check against akita directory passed", result.Name)

	return nil
}
