// Package cache models a set-associative cache replaying a trace of word
// addresses.
package cache

import (
	"fmt"

	"github.com/sarchlab/cachesim/timing/addr"
)

// Config holds cache configuration parameters.
type Config struct {
	// NumSets is the number of sets. Must be a power of two.
	NumSets int
	// NumBlocksPerSet is the associativity (number of ways).
	NumBlocksPerSet int
	// BlockSize is the number of words per block. Must be a power of two.
	BlockSize int
	// Policy picks the victim when a full set misses.
	Policy Policy
	// HitLatency is added to the total latency on every hit.
	HitLatency uint64
	// MissLatency is added to the total latency on every miss.
	MissLatency uint64
}

// Validate checks the structural parameters.
func (c Config) Validate() error {
	if _, ok := addr.Log2(c.NumSets); !ok {
		return fmt.Errorf("number of sets must be a power of two, got %d", c.NumSets)
	}
	if c.NumBlocksPerSet < 1 {
		return fmt.Errorf("number of blocks per set must be >= 1, got %d", c.NumBlocksPerSet)
	}
	if _, ok := addr.Log2(c.BlockSize); !ok {
		return fmt.Errorf("block size must be a power of two, got %d", c.BlockSize)
	}
	if c.Policy != LRU && c.Policy != MRU {
		return fmt.Errorf("unknown replacement policy %v", c.Policy)
	}
	return nil
}

// Size returns the capacity of the cache in words.
func (c Config) Size() int {
	return c.NumSets * c.NumBlocksPerSet * c.BlockSize
}

// FullyAssociative reports whether every address maps to the same set.
func (c Config) FullyAssociative() bool {
	return c.NumSets == 1
}

// DirectMapped reports whether every set holds a single block.
func (c Config) DirectMapped() bool {
	return c.NumBlocksPerSet == 1
}

// A Block is one cache line.
type Block struct {
	Valid bool
	Tag   addr.Field
	// Data lists the word addresses observed for this line, in access order.
	Data []uint64
	// LastAccess is the clock value of the most recent hit or fill.
	LastAccess uint64
}

// A Set is the fixed group of blocks one index maps to.
type Set struct {
	Blocks []Block
}

func (s *Set) lookup(tag addr.Field) (int, bool) {
	for way := range s.Blocks {
		if s.Blocks[way].Valid && s.Blocks[way].Tag == tag {
			return way, true
		}
	}
	return 0, false
}

func (s *Set) firstInvalid() (int, bool) {
	for way := range s.Blocks {
		if !s.Blocks[way].Valid {
			return way, true
		}
	}
	return 0, false
}

// NumValid returns the number of occupied blocks in the set.
func (s Set) NumValid() int {
	n := 0
	for _, b := range s.Blocks {
		if b.Valid {
			n++
		}
	}
	return n
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Accesses  uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits over accesses, or 0 for an unused cache.
func (s Statistics) HitRate() float64 {
	if s.Accesses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Accesses)
}

// Cache is a set-associative store of tags. It classifies references as hits
// or misses and accumulates their latency.
type Cache struct {
	config Config

	sets         []Set
	victimFinder VictimFinder

	clock        uint64
	totalLatency uint64
	stats        Statistics
}

// New creates a new cache with the given configuration.
func New(config Config) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Cache{
		config:       config,
		victimFinder: NewVictimFinder(config.Policy),
	}
	c.Reset()

	return c, nil
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// TotalLatency returns the latency accumulated over all processed
// references.
func (c *Cache) TotalLatency() uint64 {
	return c.totalLatency
}

// Reset invalidates every block and clears latency and statistics.
func (c *Cache) Reset() {
	c.sets = make([]Set, c.config.NumSets)
	for i := range c.sets {
		c.sets[i].Blocks = make([]Block, c.config.NumBlocksPerSet)
	}

	c.clock = 0
	c.totalLatency = 0
	c.stats = Statistics{}
}

// ProcessTrace classifies every reference in order, updating the cache
// contents as it goes.
func (c *Cache) ProcessTrace(refs []*Reference) {
	for _, ref := range refs {
		c.Access(ref)
	}
}

// Access classifies a single reference and sets its status.
func (c *Cache) Access(ref *Reference) Status {
	c.clock++
	c.stats.Accesses++

	set := &c.sets[c.setIndex(ref)]

	if way, ok := set.lookup(ref.Tag); ok {
		block := &set.Blocks[way]
		block.LastAccess = c.clock
		block.Data = append(block.Data, ref.Address)

		ref.Status = Hit
		c.stats.Hits++
		c.totalLatency += c.config.HitLatency

		return Hit
	}

	ref.Status = Miss
	c.stats.Misses++
	c.totalLatency += c.config.MissLatency

	way := c.victimFinder.FindVictim(set)
	if set.Blocks[way].Valid {
		c.stats.Evictions++
	}

	set.Blocks[way] = Block{
		Valid:      true,
		Tag:        ref.Tag,
		Data:       []uint64{ref.Address},
		LastAccess: c.clock,
	}

	return Miss
}

func (c *Cache) setIndex(ref *Reference) int {
	if !ref.Index.Present {
		return 0
	}

	// Index is masked by the layout, so it is always below NumSets when the
	// layout was derived from this cache.
	return int(ref.Index.Value % uint64(c.config.NumSets))
}

// NumSets returns the number of sets.
func (c *Cache) NumSets() int {
	return len(c.sets)
}

// Set returns a copy of the set at index i.
func (c *Cache) Set(i int) Set {
	src := c.sets[i]
	dst := Set{Blocks: make([]Block, len(src.Blocks))}
	for way, b := range src.Blocks {
		b.Data = append([]uint64(nil), b.Data...)
		dst.Blocks[way] = b
	}
	return dst
}

// Sets returns copies of all sets, ordered by index.
func (c *Cache) Sets() []Set {
	sets := make([]Set, len(c.sets))
	for i := range c.sets {
		sets[i] = c.Set(i)
	}
	return sets
}

// Contents returns, for every set, the data of its valid blocks in way
// order.
func (c *Cache) Contents() [][][]uint64 {
	contents := make([][][]uint64, len(c.sets))
	for i := range c.sets {
		for _, b := range c.sets[i].Blocks {
			if b.Valid {
				contents[i] = append(contents[i], append([]uint64(nil), b.Data...))
			}
		}
	}
	return contents
}

// Tags returns the tags of the valid blocks of set i in way order.
func (c *Cache) Tags(i int) []addr.Field {
	var tags []addr.Field
	for _, b := range c.sets[i].Blocks {
		if b.Valid {
			tags = append(tags, b.Tag)
		}
	}
	return tags
}
