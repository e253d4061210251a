package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/timing/addr"
	"github.com/sarchlab/cachesim/timing/cache"
)

// MinBitsPerGroup is the shortest group of digits a binary string is split
// into for display.
const MinBitsPerGroup = 3

// DefaultTableWidth is the character width of printed tables.
const DefaultTableWidth = 80

// RefColNames are the columns of the reference table.
var RefColNames = []string{"WordAddr", "BinAddr", "Tag", "Index", "Offset", "Hit/Miss"}

// Printer writes a reference table, a cache contents table, and the total
// latency for every level it receives.
type Printer struct {
	out   io.Writer
	width int

	hitColor  *color.Color
	missColor *color.Color
}

// NewPrinter creates a Printer writing tables of the given width to out. A
// width below DefaultTableWidth is raised to it.
func NewPrinter(out io.Writer, width int) *Printer {
	return &Printer{
		out:       out,
		width:     max(width, DefaultTableWidth),
		hitColor:  color.New(color.FgGreen),
		missColor: color.New(color.FgRed),
	}
}

// RecordLevel prints the level.
func (p *Printer) RecordLevel(r *sim.LevelResult) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s\n\n", p.referenceTable(r.Refs))
	fmt.Fprintf(&sb, "%s\n", CacheTable(r.Cache, p.width))
	fmt.Fprintf(&sb, "total latency: %d\n\n", r.TotalLatency())

	_, err := io.WriteString(p.out, sb.String())
	return err
}

func (p *Printer) referenceTable(refs []*cache.Reference) *Table {
	t := ReferenceTable(refs, p.width)
	statusCol := len(RefColNames) - 1

	t.Decorate = func(row, col int, padded string) string {
		if col != statusCol {
			return padded
		}

		switch refs[row].Status {
		case cache.Hit:
			return p.hitColor.Sprint(padded)
		case cache.Miss:
			return p.missColor.Sprint(padded)
		}
		return padded
	}

	return t
}

// ReferenceTable lists every reference with its decoded fields and status.
// Fields are shown in grouped binary; absent fields show as n/a.
func ReferenceTable(refs []*cache.Reference, width int) *Table {
	t := NewTable(len(RefColNames), width, AlignRight)
	t.Header = RefColNames

	for _, ref := range refs {
		tag, index, offset := ref.Layout.FieldBinary(ref.Address)
		t.AddRow(
			itoa(ref.Address),
			addr.Prettify(ref.Binary(), MinBitsPerGroup),
			fieldCell(ref.Tag, tag),
			fieldCell(ref.Index, index),
			fieldCell(ref.Offset, offset),
			ref.Status.String(),
		)
	}

	return t
}

func fieldCell(f addr.Field, bin string) string {
	if !f.Present {
		return f.String()
	}
	return addr.Prettify(bin, MinBitsPerGroup)
}

// CacheTable shows the words held by every set, with the binary set index
// as the column header. Blocks are separated by a space and the words of a
// block by commas. A fully associative cache has a single unnamed column.
func CacheTable(c *cache.Cache, width int) *Table {
	contents := c.Contents()

	t := NewTable(len(contents), width, AlignCenter)
	t.Title = "Cache"

	if !c.Config().FullyAssociative() {
		indexBits, _ := addr.Log2(c.NumSets())
		for i := range contents {
			t.Header = append(t.Header, fmt.Sprintf("%0*b", indexBits, i))
		}
	}

	row := make([]string, len(contents))
	for i, blocks := range contents {
		entries := make([]string, len(blocks))
		for j, words := range blocks {
			strs := make([]string, len(words))
			for k, w := range words {
				strs[k] = itoa(w)
			}
			entries[j] = strings.Join(strs, ",")
		}
		row[i] = strings.Join(entries, " ")
	}
	t.AddRow(row...)

	return t
}
