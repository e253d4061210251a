package config

import (
	"github.com/sarchlab/cachesim/timing/addr"
	"github.com/sarchlab/cachesim/timing/cache"
)

// Geometry is the resolved shape of a cache level for one trace.
type Geometry struct {
	NumSets          int
	NumBlocksPerSet  int
	NumWordsPerBlock int
	Policy           cache.Policy
	Layout           addr.Layout
}

type shape struct {
	numSets    int
	offsetBits int
	indexBits  int
}

func (c *LevelConfig) shape() (shape, error) {
	offsetBits, ok := addr.Log2(c.NumWordsPerBlock)
	if !ok {
		return shape{}, configErr("num_words_per_block",
			"must be a power of two, got %d", c.NumWordsPerBlock)
	}

	numBlocks := c.CacheSize / c.NumWordsPerBlock
	numSets := numBlocks / c.NumBlocksPerSet

	indexBits, ok := addr.Log2(numSets)
	if !ok {
		return shape{}, configErr("cache_size",
			"%d words in %d-word blocks, %d per set, gives %d sets; want a power of two",
			c.CacheSize, c.NumWordsPerBlock, c.NumBlocksPerSet, numSets)
	}

	if numSets*c.NumBlocksPerSet*c.NumWordsPerBlock != c.CacheSize {
		return shape{}, configErr("cache_size",
			"%d words is not %d sets x %d blocks x %d words",
			c.CacheSize, numSets, c.NumBlocksPerSet, c.NumWordsPerBlock)
	}

	return shape{numSets: numSets, offsetBits: offsetBits, indexBits: indexBits}, nil
}

// Geometry derives the number of sets and the address layout for the trace.
// The address width is raised to fit the largest address in the trace.
func (c *LevelConfig) Geometry(addrs []uint64) (Geometry, error) {
	if len(addrs) == 0 {
		return Geometry{}, ErrEmptyTrace
	}

	if err := c.Validate(); err != nil {
		return Geometry{}, err
	}

	s, err := c.shape()
	if err != nil {
		return Geometry{}, err
	}

	policy, err := c.Policy()
	if err != nil {
		return Geometry{}, configErr("replacement_policy", "%v", err)
	}

	maxAddr := addrs[0]
	for _, a := range addrs[1:] {
		maxAddr = max(maxAddr, a)
	}
	addrBits := max(c.NumAddrBits, addr.MinAddrBits(maxAddr))

	layout, err := addr.NewLayout(addrBits, s.offsetBits, s.indexBits)
	if err != nil {
		return Geometry{}, &ConfigurationError{
			Field:  "num_addr_bits",
			Reason: err.Error(),
			Err:    err,
		}
	}

	return Geometry{
		NumSets:          s.numSets,
		NumBlocksPerSet:  c.NumBlocksPerSet,
		NumWordsPerBlock: c.NumWordsPerBlock,
		Policy:           policy,
		Layout:           layout,
	}, nil
}

// CacheConfig returns the cache parameters for this geometry and the level's
// latencies.
func (g Geometry) CacheConfig(c *LevelConfig) cache.Config {
	return cache.Config{
		NumSets:         g.NumSets,
		NumBlocksPerSet: g.NumBlocksPerSet,
		BlockSize:       g.NumWordsPerBlock,
		Policy:          g.Policy,
		HitLatency:      c.HitLatency,
		MissLatency:     c.MissLatency,
	}
}
