// Package report prints simulation results as fixed-width text tables.
package report

import (
	"strconv"
	"strings"
)

// Alignment of cell text within its column.
type Alignment int

// Cell alignments.
const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Table is a fixed-width text table. Every column gets Width / len(columns)
// characters. Text longer than a column is not truncated.
type Table struct {
	Title     string
	Header    []string
	Rows      [][]string
	NumCols   int
	Width     int
	Alignment Alignment

	// Decorate, if set, is applied to a padded cell before it is written. It
	// must not change the visible width of the cell.
	Decorate func(row, col int, padded string) string
}

// NewTable creates an empty table.
func NewTable(numCols, width int, alignment Alignment) *Table {
	return &Table{NumCols: numCols, Width: width, Alignment: alignment}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) separator() string {
	return strings.Repeat("-", t.Width)
}

func (t *Table) colWidth() int {
	if t.NumCols == 0 {
		return t.Width
	}
	return t.Width / t.NumCols
}

// String renders the table.
func (t *Table) String() string {
	var lines []string

	if t.Title != "" {
		lines = append(lines, pad(t.Title, t.Width, AlignCenter))
		lines = append(lines, t.separator())
	}

	if len(t.Header) > 0 {
		lines = append(lines, t.renderRow(-1, t.Header))
		lines = append(lines, t.separator())
	}

	for i, row := range t.Rows {
		lines = append(lines, t.renderRow(i, row))
	}

	return strings.Join(lines, "\n")
}

func (t *Table) renderRow(rowIdx int, cells []string) string {
	var sb strings.Builder
	w := t.colWidth()

	for col := 0; col < t.NumCols; col++ {
		text := ""
		if col < len(cells) {
			text = cells[col]
		}

		cell := pad(text, w, t.Alignment)
		if t.Decorate != nil && rowIdx >= 0 {
			cell = t.Decorate(rowIdx, col, cell)
		}
		sb.WriteString(cell)
	}

	return sb.String()
}

// pad aligns s in a field of the given width. Centered text puts the extra
// space on the right.
func pad(s string, width int, a Alignment) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return s
	}

	switch a {
	case AlignRight:
		return strings.Repeat(" ", n) + s
	case AlignCenter:
		left := n / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", n-left)
	default:
		return s + strings.Repeat(" ", n)
	}
}

func itoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}
