// Package trace reads word address traces and writes miss traces.
//
// A trace is plain text with one base-10 word address per line. The miss
// trace written for a level has the same format, so it can be read back as
// the input of the next level.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/timing/cache"
)

// MalformedTraceError reports a line that is not a non-negative base-10
// integer.
type MalformedTraceError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *MalformedTraceError) Error() string {
	where := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		where = e.Path + ":" + where
	}

	return fmt.Sprintf("%s: malformed word address %q", where, e.Text)
}

func (e *MalformedTraceError) Unwrap() error {
	return e.Err
}

// Parse reads one address per line. Surrounding whitespace is ignored.
func Parse(r io.Reader) ([]uint64, error) {
	var addrs []uint64

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		a, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, &MalformedTraceError{Line: line, Text: text, Err: err}
		}

		addrs = append(addrs, a)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	return addrs, nil
}

// ReadFile parses the trace file at path.
func ReadFile(path string) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer f.Close()

	addrs, err := Parse(f)
	if mErr, ok := err.(*MalformedTraceError); ok {
		mErr.Path = path
	}

	return addrs, err
}

// ParseArgs parses addresses given as separate strings, such as command
// line arguments.
func ParseArgs(args []string) ([]uint64, error) {
	addrs := make([]uint64, 0, len(args))
	for i, arg := range args {
		text := strings.TrimSpace(arg)
		a, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, &MalformedTraceError{Line: i + 1, Text: text, Err: err}
		}
		addrs = append(addrs, a)
	}

	return addrs, nil
}

// WriteMisses writes the address of every missed reference, in order.
func WriteMisses(w io.Writer, refs []*cache.Reference) error {
	bw := bufio.NewWriter(w)
	for _, a := range cache.Misses(refs) {
		if _, err := fmt.Fprintln(bw, a); err != nil {
			return fmt.Errorf("failed to write miss trace: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write miss trace: %w", err)
	}

	return nil
}

// WriteMissFile writes the miss trace to path, replacing any existing file.
func WriteMissFile(path string, refs []*cache.Reference) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create miss trace file: %w", err)
	}

	if err := WriteMisses(f, refs); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
