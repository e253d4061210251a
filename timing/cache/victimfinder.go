package cache

import (
	"fmt"
	"strings"
)

// Policy selects the block to evict from a full set.
type Policy int

// Replacement policies.
const (
	LRU Policy = iota
	MRU
)

// String returns the lower case policy name.
func (p Policy) String() string {
	switch p {
	case LRU:
		return "lru"
	case MRU:
		return "mru"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "lru" or "mru", ignoring case.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lru":
		return LRU, nil
	case "mru":
		return MRU, nil
	default:
		return 0, fmt.Errorf("unknown replacement policy %q (want lru or mru)", s)
	}
}

// A VictimFinder decides which block of a set is replaced on a miss. It
// returns the way index of the victim.
type VictimFinder interface {
	FindVictim(set *Set) int
}

// NewVictimFinder returns the victim finder for the policy.
func NewVictimFinder(p Policy) VictimFinder {
	if p == MRU {
		return NewMRUVictimFinder()
	}

	return NewLRUVictimFinder()
}

// LRUVictimFinder evicts the least recently used block.
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder() *LRUVictimFinder {
	return new(LRUVictimFinder)
}

// FindVictim returns the first empty way, or the valid block with the oldest
// access stamp.
func (e *LRUVictimFinder) FindVictim(set *Set) int {
	if way, ok := set.firstInvalid(); ok {
		return way
	}

	victim := 0
	for way := 1; way < len(set.Blocks); way++ {
		if set.Blocks[way].LastAccess < set.Blocks[victim].LastAccess {
			victim = way
		}
	}

	return victim
}

// MRUVictimFinder evicts the most recently used block.
type MRUVictimFinder struct {
}

// NewMRUVictimFinder returns a newly constructed mru evictor
func NewMRUVictimFinder() *MRUVictimFinder {
	return new(MRUVictimFinder)
}

// FindVictim returns the first empty way, or the valid block with the newest
// access stamp.
func (e *MRUVictimFinder) FindVictim(set *Set) int {
	if way, ok := set.firstInvalid(); ok {
		return way
	}

	victim := 0
	for way := 1; way < len(set.Blocks); way++ {
		if set.Blocks[way].LastAccess > set.Blocks[victim].LastAccess {
			victim = way
		}
	}

	return victim
}
