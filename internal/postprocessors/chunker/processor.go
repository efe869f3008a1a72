// Package chunker splits extracted document text into overlapping chunks
// that break on natural boundaries where possible.
package chunker

import (
	"strings"
	"unicode"
)

// DefaultTargetChars is the default number of characters per chunk window.
const DefaultTargetChars = 2400

// DefaultOverlap is the default number of characters carried between chunks.
const DefaultOverlap = 200

// separators are tried in priority order when looking for a break point.
var separators = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune(" "),
}

// Chunker splits text into ordered, possibly overlapping chunks.
// Sizes are measured in characters (runes), not bytes.
type Chunker struct {
	targetChars int
	overlap     int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithTargetChars sets the chunk window size in characters.
// Non-positive values keep the default.
func WithTargetChars(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.targetChars = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
// Negative values keep the default. An overlap at or above the target size
// is accepted; the chunker then drops the overlap whenever it would stall.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		targetChars: DefaultTargetChars,
		overlap:     DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the processor name.
func (c *Chunker) Name() string {
	return "chunker"
}

// TargetChars returns the configured window size.
func (c *Chunker) TargetChars() int {
	return c.targetChars
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits text into non-empty trimmed chunks.
//
// A window of targetChars is taken from the cursor. If it reaches the end
// of the text the remainder is the final chunk. Otherwise the window is
// cut at the last paragraph break, line break, sentence end or space (in
// that priority) lying beyond half the window, or hard-cut at the window
// end when none qualifies. The cursor then moves back by the overlap.
// The cursor always advances, so Chunk terminates for any input.
func (c *Chunker) Chunk(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	target := c.targetChars
	chunks := make([]string, 0, n/target+1)

	start := 0
	for start < n {
		end := start + target
		if end >= n {
			if tail := trim(runes[start:]); tail != "" {
				chunks = append(chunks, tail)
			}
			break
		}

		breakAt := findBreak(runes[start:end], target/2)

		var chunk string
		var next int
		if breakAt > 0 {
			chunk = trim(runes[start : start+breakAt])
			next = start + breakAt - c.overlap
		} else {
			chunk = trim(runes[start:end])
			next = end - c.overlap
		}
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		// Overlap must never pull the cursor back to or behind itself.
		if next <= start {
			if breakAt > 0 {
				next = start + breakAt
			} else {
				next = end
			}
		}
		start = next
	}

	return chunks
}

// findBreak returns the offset just past the chosen separator within
// segment, or -1 when no separator lies beyond minOffset.
func findBreak(segment []rune, minOffset int) int {
	for _, sep := range separators {
		idx := lastIndex(segment, sep)
		if idx > minOffset {
			return idx + len(sep)
		}
	}
	return -1
}

func lastIndex(s, sep []rune) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if s[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func trim(r []rune) string {
	return strings.TrimFunc(string(r), unicode.IsSpace)
}
