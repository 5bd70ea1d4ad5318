package decoration

import (
	"fmt"
	"slices"

	"github.com/yaklabco/mdlive/pkg/text"
)

// Range attaches a decoration to [From, To). Point decorations have From == To.
type Range struct {
	From  int
	To    int
	Value Decoration
}

// Eq reports whether two ranges are at the same position with equal decorations.
func (r Range) Eq(other Range) bool {
	return r.From == other.From && r.To == other.To && r.Value.Eq(other.Value)
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d) %s", r.From, r.To, r.Value)
}

// Set is an immutable collection of decoration ranges ordered by start
// position, then end position. Ranges with equal bounds keep the order in
// which they were added. The zero value is an empty set.
type Set struct {
	ranges []Range
}

// NewSet returns a set holding ranges.
func NewSet(ranges ...Range) Set {
	if len(ranges) == 0 {
		return Set{}
	}
	sorted := slices.Clone(ranges)
	sortRanges(sorted)
	return Set{ranges: sorted}
}

func sortRanges(ranges []Range) {
	slices.SortStableFunc(ranges, func(a, b Range) int {
		if a.From != b.From {
			return a.From - b.From
		}
		return a.To - b.To
	})
}

// Len returns the number of ranges.
func (s Set) Len() int {
	return len(s.ranges)
}

// At returns the i-th range in order.
func (s Set) At(i int) Range {
	return s.ranges[i]
}

// Ranges returns a copy of the ranges in order.
func (s Set) Ranges() []Range {
	return slices.Clone(s.ranges)
}

// Between calls fn for every range touching [from, to], in order, until fn
// returns false.
func (s Set) Between(from, to int, fn func(Range) bool) {
	for _, r := range s.ranges {
		if r.From > to {
			return
		}
		if r.To >= from && !fn(r) {
			return
		}
	}
}

// Update returns a set that keeps the ranges for which filter returns true
// (all of them when filter is nil) and adds the given ranges.
func (s Set) Update(add []Range, filter func(Range) bool) Set {
	out := make([]Range, 0, len(s.ranges)+len(add))
	for _, r := range s.ranges {
		if filter == nil || filter(r) {
			out = append(out, r)
		}
	}
	out = append(out, add...)
	sortRanges(out)
	return Set{ranges: out}
}

// Map moves every range through changes into the new document.
//
// Replacements are dropped when an edit touches their interior, since the
// widget no longer describes the text underneath. Marks shrink with their
// text and are dropped when it is gone. Point decorations are dropped when
// the text around them is deleted. Text inserted at the edges of a range
// stays outside it. Line decorations and widgets without a negative side
// follow the text after them when an insertion lands on their position.
func (s Set) Map(changes text.ChangeSet) Set {
	if changes.Empty() || len(s.ranges) == 0 {
		return s
	}

	out := make([]Range, 0, len(s.ranges))
	for _, r := range s.ranges {
		if mapped, ok := mapRange(r, changes); ok {
			out = append(out, mapped)
		}
	}
	sortRanges(out)
	return Set{ranges: out}
}

func mapRange(r Range, changes text.ChangeSet) (Range, bool) {
	if r.From == r.To {
		assoc := 1
		if r.Value.kind == KindWidget && r.Value.side < 0 {
			assoc = -1
		}
		pos, deleted := changes.MapPosTracked(r.From, assoc)
		if deleted {
			return Range{}, false
		}
		r.From, r.To = pos, pos
		return r, true
	}

	if r.Value.kind == KindReplace && changes.TouchesInterior(r.From, r.To) {
		return Range{}, false
	}

	from := changes.MapPos(r.From, 1)
	to := changes.MapPos(r.To, -1)
	if from >= to {
		return Range{}, false
	}
	r.From, r.To = from, to
	return r, true
}

// Eq reports whether both sets hold pairwise equal ranges in the same order.
func (s Set) Eq(other Set) bool {
	if len(s.ranges) != len(other.ranges) {
		return false
	}
	for i := range s.ranges {
		if !s.ranges[i].Eq(other.ranges[i]) {
			return false
		}
	}
	return true
}
