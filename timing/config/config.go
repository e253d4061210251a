// Package config holds the user-facing description of each cache level and
// derives the cache geometry and address layout from it.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/cachesim/timing/cache"
)

// LevelConfig describes one cache level the way a user specifies it: sizes
// in words rather than bit widths.
type LevelConfig struct {
	// CacheSize is the capacity of the cache in words.
	CacheSize int `json:"cache_size"`

	// NumBlocksPerSet is the associativity. Default: 1 (direct-mapped).
	NumBlocksPerSet int `json:"num_blocks_per_set"`

	// NumWordsPerBlock is the block size in words. Default: 1.
	NumWordsPerBlock int `json:"num_words_per_block"`

	// NumAddrBits is the minimum address width. It is raised automatically
	// when a trace address does not fit. Default: 1.
	NumAddrBits int `json:"num_addr_bits"`

	// ReplacementPolicy is "lru" or "mru", in any case. Default: lru.
	ReplacementPolicy string `json:"replacement_policy"`

	// HitLatency is charged for every hit.
	HitLatency uint64 `json:"hit_latency"`

	// MissLatency is charged for every miss.
	MissLatency uint64 `json:"miss_latency"`
}

// DefaultL1Config returns the first level defaults: 1 cycle hits and 20
// cycle misses. CacheSize has no default and must be set.
func DefaultL1Config() *LevelConfig {
	return &LevelConfig{
		NumBlocksPerSet:   1,
		NumWordsPerBlock:  1,
		NumAddrBits:       1,
		ReplacementPolicy: "lru",
		HitLatency:        1,
		MissLatency:       20,
	}
}

// DefaultL2Config returns the second level defaults: 1 cycle hits and 100
// cycle misses.
func DefaultL2Config() *LevelConfig {
	c := DefaultL1Config()
	c.MissLatency = 100
	return c
}

// Validate checks every parameter that can be checked without a trace.
func (c *LevelConfig) Validate() error {
	if c.CacheSize < 1 {
		return configErr("cache_size", "must be >= 1, got %d", c.CacheSize)
	}
	if c.NumBlocksPerSet < 1 {
		return configErr("num_blocks_per_set", "must be >= 1, got %d", c.NumBlocksPerSet)
	}
	if c.NumWordsPerBlock < 1 {
		return configErr("num_words_per_block", "must be >= 1, got %d", c.NumWordsPerBlock)
	}
	if c.NumAddrBits < 0 {
		return configErr("num_addr_bits", "must not be negative, got %d", c.NumAddrBits)
	}
	if _, err := cache.ParsePolicy(c.ReplacementPolicy); err != nil {
		return configErr("replacement_policy", "%v", err)
	}

	_, err := c.shape()
	return err
}

// Policy returns the parsed replacement policy.
func (c *LevelConfig) Policy() (cache.Policy, error) {
	return cache.ParsePolicy(c.ReplacementPolicy)
}

// Clone returns a copy of the LevelConfig.
func (c *LevelConfig) Clone() *LevelConfig {
	clone := *c
	return &clone
}

// HierarchyConfig describes a one or two level run.
type HierarchyConfig struct {
	L1 *LevelConfig `json:"l1"`
	L2 *LevelConfig `json:"l2,omitempty"`

	// TwoLevel feeds the misses of L1 into L2.
	TwoLevel bool `json:"two_level"`
}

// DefaultHierarchyConfig returns a single level hierarchy with default
// parameters for both levels.
func DefaultHierarchyConfig() *HierarchyConfig {
	return &HierarchyConfig{
		L1: DefaultL1Config(),
		L2: DefaultL2Config(),
	}
}

// Validate checks the levels that will run.
func (h *HierarchyConfig) Validate() error {
	if h.L1 == nil {
		return configErr("l1", "missing")
	}
	if err := h.L1.Validate(); err != nil {
		return fmt.Errorf("l1: %w", err)
	}

	if !h.TwoLevel {
		return nil
	}

	if h.L2 == nil {
		return configErr("l2", "missing for a two-level run")
	}
	if err := h.L2.Validate(); err != nil {
		return fmt.Errorf("l2: %w", err)
	}

	return nil
}

// Clone returns a deep copy of the HierarchyConfig.
func (h *HierarchyConfig) Clone() *HierarchyConfig {
	clone := &HierarchyConfig{TwoLevel: h.TwoLevel}
	if h.L1 != nil {
		clone.L1 = h.L1.Clone()
	}
	if h.L2 != nil {
		clone.L2 = h.L2.Clone()
	}
	return clone
}

// LoadConfig loads a HierarchyConfig from a JSON file. Fields missing from
// the file keep their defaults.
func LoadConfig(path string) (*HierarchyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache config file: %w", err)
	}

	config := DefaultHierarchyConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse cache config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a HierarchyConfig to a JSON file.
func (h *HierarchyConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache config file: %w", err)
	}

	return nil
}
