package tokenizer

import "sort"

// Position is a human readable location in the content.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, in runes
	Offset int // 0-based rune index in the content
}

// Span is a (start, length) pair. Its coordinate space depends on who hands
// it out: token and noise spans are local to their context.
type Span struct {
	Start  int
	Length int
}

// End returns the first index past the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// Shift moves the span by delta.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, Length: s.Length}
}

// Content is the immutable text buffer every parse works over. Indices are
// rune offsets, which is what the pattern engine reports.
type Content struct {
	text       string
	runes      []rune
	lineStarts []int
}

// NewContent creates a content buffer for text
func NewContent(text string) *Content {
	runes := []rune(text)
	lineStarts := []int{0}
	for i, r := range runes {
		if r == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &Content{
		text:       text,
		runes:      runes,
		lineStarts: lineStarts,
	}
}

// Len returns the number of runes in the buffer.
func (c *Content) Len() int {
	return len(c.runes)
}

// String returns the original text.
func (c *Content) String() string {
	return c.text
}

// Slice returns the text between two absolute rune indices. Out of range
// bounds are clamped.
func (c *Content) Slice(start, end int) string {
	start = clamp(start, 0, len(c.runes))
	end = clamp(end, start, len(c.runes))
	return string(c.runes[start:end])
}

// Position converts an absolute rune offset into line and column.
func (c *Content) Position(offset int) Position {
	offset = clamp(offset, 0, len(c.runes))
	line := sort.Search(len(c.lineStarts), func(i int) bool {
		return c.lineStarts[i] > offset
	}) - 1
	return Position{
		Line:   line + 1,
		Column: offset - c.lineStarts[line] + 1,
		Offset: offset,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
