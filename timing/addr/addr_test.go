package addr_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/timing/addr"
)

var _ = Describe("Layout", func() {
	Describe("NewLayout", func() {
		It("should give the tag the remaining bits", func() {
			l, err := addr.NewLayout(8, 2, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.TagBits).To(Equal(3))
		})

		It("should allow a zero-width tag", func() {
			l, err := addr.NewLayout(4, 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.TagBits).To(Equal(0))
		})

		It("should reject a negative tag width", func() {
			_, err := addr.NewLayout(4, 3, 2)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, addr.ErrNegativeTagBits)).To(BeTrue())
		})

		It("should reject negative widths", func() {
			_, err := addr.NewLayout(8, -1, 2)
			Expect(err).To(HaveOccurred())
		})

		It("should reject addresses wider than 64 bits", func() {
			_, err := addr.NewLayout(65, 0, 0)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Decode", func() {
		It("should split tag, index, and offset", func() {
			// 180 = 1011 0100
			l, _ := addr.NewLayout(8, 2, 3)
			f := l.Decode(180)
			Expect(f.Offset).To(Equal(addr.Some(0)))
			Expect(f.Index).To(Equal(addr.Some(5)))
			Expect(f.Tag).To(Equal(addr.Some(5)))
		})

		It("should mark zero-width fields as absent", func() {
			l, _ := addr.NewLayout(4, 0, 0)
			f := l.Decode(11)
			Expect(f.Offset.Present).To(BeFalse())
			Expect(f.Index.Present).To(BeFalse())
			Expect(f.Tag).To(Equal(addr.Some(11)))
		})

		It("should distinguish a zero value from an absent field", func() {
			l, _ := addr.NewLayout(4, 1, 1)
			f := l.Decode(0)
			Expect(f.Offset).To(Equal(addr.Some(0)))
			Expect(f.Index).To(Equal(addr.Some(0)))
			Expect(f.Tag).To(Equal(addr.Some(0)))
		})

		It("should have no tag when index and offset fill the address", func() {
			l, _ := addr.NewLayout(3, 1, 2)
			f := l.Decode(6)
			Expect(f.Tag.Present).To(BeFalse())
			Expect(f.Index).To(Equal(addr.Some(3)))
			Expect(f.Offset).To(Equal(addr.Some(0)))
		})
	})

	Describe("Encode", func() {
		It("should reassemble the original address", func() {
			l, _ := addr.NewLayout(10, 3, 4)
			for a := uint64(0); a < 1024; a++ {
				Expect(l.Encode(l.Decode(a))).To(Equal(a))
			}
		})

		It("should handle a full 64-bit tag", func() {
			l, _ := addr.NewLayout(64, 0, 0)
			a := ^uint64(0)
			Expect(l.Encode(l.Decode(a))).To(Equal(a))
		})
	})

	Describe("Binary", func() {
		It("should pad to the address width", func() {
			l, _ := addr.NewLayout(8, 2, 3)
			Expect(l.Binary(5)).To(Equal("00000101"))
		})

		It("should split the binary string by field", func() {
			l, _ := addr.NewLayout(8, 2, 3)
			tag, index, offset := l.FieldBinary(180)
			Expect(tag).To(Equal("101"))
			Expect(index).To(Equal("101"))
			Expect(offset).To(Equal("00"))
		})

		It("should give empty strings for absent fields", func() {
			l, _ := addr.NewLayout(4, 0, 0)
			tag, index, offset := l.FieldBinary(3)
			Expect(tag).To(Equal("0011"))
			Expect(index).To(BeEmpty())
			Expect(offset).To(BeEmpty())
		})
	})

	Describe("Fits", func() {
		It("should report whether an address is representable", func() {
			l, _ := addr.NewLayout(4, 0, 0)
			Expect(l.Fits(15)).To(BeTrue())
			Expect(l.Fits(16)).To(BeFalse())
		})
	})
})

var _ = Describe("Field", func() {
	It("should render absent fields as n/a", func() {
		Expect(addr.None().String()).To(Equal("n/a"))
		Expect(addr.Some(12).String()).To(Equal("12"))
	})
})

var _ = Describe("Prettify", func() {
	It("should leave short strings alone", func() {
		Expect(addr.Prettify("10110", 3)).To(Equal("10110"))
	})

	It("should bisect long strings", func() {
		Expect(addr.Prettify("101101", 3)).To(Equal("101 101"))
		Expect(addr.Prettify("101101001110", 3)).To(Equal("101 101 001 110"))
	})

	It("should keep an odd bit in the right half", func() {
		Expect(addr.Prettify("1011010", 3)).To(Equal("101 1010"))
	})
})
