package cache

import (
	"github.com/sarchlab/cachesim/timing/addr"
)

// Status is the outcome of looking a reference up in a cache.
type Status int

// Reference statuses. A reference stays Unresolved until a cache processes
// it.
const (
	Unresolved Status = iota
	Hit
	Miss
)

// String returns the label printed in reference tables.
func (s Status) String() string {
	switch s {
	case Hit:
		return "HIT"
	case Miss:
		return "miss"
	default:
		return "unresolved"
	}
}

// Reference is a single decoded word address in a trace.
type Reference struct {
	// Address is the word address being accessed.
	Address uint64

	// Layout is the bit layout the address was decoded with.
	Layout addr.Layout

	Tag    addr.Field
	Index  addr.Field
	Offset addr.Field

	// Status is set by the Cache that processes the reference.
	Status Status
}

// NewReference decodes the address with the given layout.
func NewReference(address uint64, layout addr.Layout) *Reference {
	f := layout.Decode(address)

	return &Reference{
		Address: address,
		Layout:  layout,
		Tag:     f.Tag,
		Index:   f.Index,
		Offset:  f.Offset,
	}
}

// NewReferences decodes every address in order.
func NewReferences(addrs []uint64, layout addr.Layout) []*Reference {
	refs := make([]*Reference, 0, len(addrs))
	for _, a := range addrs {
		refs = append(refs, NewReference(a, layout))
	}

	return refs
}

// Fields returns the decoded fields of the reference.
func (r *Reference) Fields() addr.Fields {
	return addr.Fields{Tag: r.Tag, Index: r.Index, Offset: r.Offset}
}

// Binary returns the address as a binary string of Layout.AddrBits digits.
func (r *Reference) Binary() string {
	return r.Layout.Binary(r.Address)
}

// Misses returns the addresses of the references that missed, in trace
// order. This is the input stream of the next cache level.
func Misses(refs []*Reference) []uint64 {
	var misses []uint64
	for _, r := range refs {
		if r.Status == Miss {
			misses = append(misses, r.Address)
		}
	}

	return misses
}
