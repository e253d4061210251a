// Package addr splits word addresses into tag, index, and offset fields.
//
// A Layout fixes the bit width of every field. Fields with a zero width are
// not modeled at all and decode to an absent Field rather than to zero, so a
// fully associative cache has no index and a one-word block has no offset.
package addr

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// MaxAddrBits is the widest address a Layout can describe.
const MaxAddrBits = 64

// ErrNegativeTagBits is returned when the index and offset fields do not fit
// in the address.
var ErrNegativeTagBits = errors.New("number of tag bits is negative")

// Field is a decoded address field that may be absent.
type Field struct {
	Value   uint64
	Present bool
}

// Some returns a present field holding v.
func Some(v uint64) Field {
	return Field{Value: v, Present: true}
}

// None returns an absent field.
func None() Field {
	return Field{}
}

// Get returns the value and whether the field is present.
func (f Field) Get() (uint64, bool) {
	return f.Value, f.Present
}

// String returns the decimal value, or "n/a" for an absent field.
func (f Field) String() string {
	if !f.Present {
		return "n/a"
	}

	return strconv.FormatUint(f.Value, 10)
}

// Fields holds the three decoded parts of an address.
type Fields struct {
	Tag    Field
	Index  Field
	Offset Field
}

// Layout describes the bit widths used to decode addresses.
type Layout struct {
	AddrBits   int
	OffsetBits int
	IndexBits  int
	TagBits    int
}

// NewLayout creates a Layout. The tag takes whatever bits the index and
// offset leave over.
func NewLayout(addrBits, offsetBits, indexBits int) (Layout, error) {
	if addrBits < 0 || offsetBits < 0 || indexBits < 0 {
		return Layout{}, fmt.Errorf(
			"field widths must not be negative (addr=%d, offset=%d, index=%d)",
			addrBits, offsetBits, indexBits)
	}

	if addrBits > MaxAddrBits {
		return Layout{}, fmt.Errorf(
			"address width %d exceeds %d bits", addrBits, MaxAddrBits)
	}

	tagBits := addrBits - indexBits - offsetBits
	if tagBits < 0 {
		return Layout{}, fmt.Errorf(
			"%w: %d address bits cannot hold %d index and %d offset bits",
			ErrNegativeTagBits, addrBits, indexBits, offsetBits)
	}

	return Layout{
		AddrBits:   addrBits,
		OffsetBits: offsetBits,
		IndexBits:  indexBits,
		TagBits:    tagBits,
	}, nil
}

// Decode splits the address into its fields.
func (l Layout) Decode(address uint64) Fields {
	var f Fields

	if l.OffsetBits > 0 {
		f.Offset = Some(address & mask(l.OffsetBits))
	}

	if l.IndexBits > 0 {
		f.Index = Some((address >> l.OffsetBits) & mask(l.IndexBits))
	}

	if l.TagBits > 0 {
		f.Tag = Some((address >> (l.OffsetBits + l.IndexBits)) & mask(l.TagBits))
	}

	return f
}

// Encode reassembles an address from its fields. Absent fields contribute
// nothing.
func (l Layout) Encode(f Fields) uint64 {
	var address uint64

	if f.Tag.Present {
		address |= f.Tag.Value << (l.OffsetBits + l.IndexBits)
	}

	if f.Index.Present {
		address |= f.Index.Value << l.OffsetBits
	}

	if f.Offset.Present {
		address |= f.Offset.Value
	}

	return address
}

// Fits reports whether the address is representable in AddrBits bits.
func (l Layout) Fits(address uint64) bool {
	return MinAddrBits(address) <= l.AddrBits
}

// Binary renders the address as a binary string padded to AddrBits digits.
func (l Layout) Binary(address uint64) string {
	return fmt.Sprintf("%0*b", l.AddrBits, address)
}

// FieldBinary returns the binary substrings for the tag, index, and offset of
// the address. Absent fields are returned as empty strings.
func (l Layout) FieldBinary(address uint64) (tag, index, offset string) {
	bin := l.Binary(address)
	bin = bin[len(bin)-l.AddrBits:]

	tag = bin[:l.TagBits]
	index = bin[l.TagBits : l.TagBits+l.IndexBits]
	offset = bin[l.TagBits+l.IndexBits:]

	return tag, index, offset
}

// Prettify splits a binary string into space separated groups by repeatedly
// halving it. A half shorter than minBitsPerGroup is not split further.
func Prettify(bin string, minBitsPerGroup int) string {
	mid := len(bin) / 2
	if mid < minBitsPerGroup {
		return bin
	}

	var sb strings.Builder
	sb.WriteString(Prettify(bin[:mid], minBitsPerGroup))
	sb.WriteByte(' ')
	sb.WriteString(Prettify(bin[mid:], minBitsPerGroup))

	return sb.String()
}

// Log2 returns the base 2 logarithm of n if n is a positive power of two.
func Log2(n int) (int, bool) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, false
	}

	return bits.TrailingZeros(uint(n)), true
}

// MinAddrBits returns the number of bits needed to represent address, which
// is floor(log2(address)) + 1. Zero needs no bits.
func MinAddrBits(address uint64) int {
	return bits.Len64(address)
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << width) - 1
}
