package cache

import (
	"errors"
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// ErrCrossCheckPolicy is returned when a cross check is requested for a
// policy akita's directory does not implement.
var ErrCrossCheckPolicy = errors.New("cross check only supports the lru policy")

// CrossCheckError reports the first reference whose status differs from the
// status akita's directory produces for the same trace.
type CrossCheckError struct {
	Position int
	Address  uint64
	Got      Status
	Want     Status
}

func (e *CrossCheckError) Error() string {
	return fmt.Sprintf(
		"cross check failed at reference %d (address %d): got %v, akita gives %v",
		e.Position, e.Address, e.Got, e.Want)
}

// CrossCheckLRU replays already processed references through akita's LRU
// directory and compares the hit/miss outcome of each one.
func CrossCheckLRU(config Config, refs []*Reference) error {
	if config.Policy != LRU {
		return ErrCrossCheckPolicy
	}

	if err := config.Validate(); err != nil {
		return err
	}

	blockSize := uint64(config.BlockSize)
	directory := akitacache.NewDirectory(
		config.NumSets,
		config.NumBlocksPerSet,
		config.BlockSize,
		akitacache.NewLRUVictimFinder(),
	)

	for i, ref := range refs {
		blockAddr := ref.Address / blockSize * blockSize

		want := Miss
		block := directory.Lookup(0, blockAddr)
		if block != nil && block.IsValid {
			want = Hit
			directory.Visit(block)
		} else {
			victim := directory.FindVictim(blockAddr)
			victim.Tag = blockAddr
			victim.IsValid = true
			directory.Visit(victim)
		}

		if ref.Status != want {
			return &CrossCheckError{
				Position: i,
				Address:  ref.Address,
				Got:      ref.Status,
				Want:     want,
			}
		}
	}

	return nil
}
