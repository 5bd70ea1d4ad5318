package text

import "fmt"

// Range is a half-open span [From, To) of document offsets.
type Range struct {
	From int
	To   int
}

// Len returns the range length.
func (r Range) Len() int {
	return r.To - r.From
}

// Empty reports whether the range covers no characters.
func (r Range) Empty() bool {
	return r.To <= r.From
}

// Contains reports whether pos lies inside the range. The end is inclusive
// so that a cursor placed right after a span still counts as touching it.
func (r Range) Contains(pos int) bool {
	return pos >= r.From && pos <= r.To
}

// Touches reports whether the range and [from, to] share at least one
// position, including shared boundaries.
func (r Range) Touches(from, to int) bool {
	return r.From <= to && from <= r.To
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.From, r.To)
}
