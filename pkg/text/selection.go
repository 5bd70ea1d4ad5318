package text

// SelRange is one selection range. Anchor is where the selection started,
// Head is where it currently ends. An empty range is a cursor.
type SelRange struct {
	Anchor int
	Head   int
}

// Cursor returns an empty selection range at pos.
func Cursor(pos int) SelRange {
	return SelRange{Anchor: pos, Head: pos}
}

// From returns the lower bound of the range.
func (r SelRange) From() int {
	return min(r.Anchor, r.Head)
}

// To returns the upper bound of the range.
func (r SelRange) To() int {
	return max(r.Anchor, r.Head)
}

// Empty reports whether the range is a cursor.
func (r SelRange) Empty() bool {
	return r.Anchor == r.Head
}

// Range converts the selection range to a plain Range.
func (r SelRange) Range() Range {
	return Range{From: r.From(), To: r.To()}
}

// Map moves the range through changes. Cursors follow assoc; the edges of a
// non-empty range are mapped so that insertions at the edges stay outside.
func (r SelRange) Map(changes ChangeSet, assoc int) SelRange {
	if r.Empty() {
		return Cursor(changes.MapPos(r.Anchor, assoc))
	}
	if r.Anchor < r.Head {
		return SelRange{Anchor: changes.MapPos(r.Anchor, 1), Head: changes.MapPos(r.Head, -1)}
	}
	return SelRange{Anchor: changes.MapPos(r.Anchor, -1), Head: changes.MapPos(r.Head, 1)}
}

// Selection is a non-empty set of ranges with one main range.
type Selection struct {
	Ranges []SelRange
	Main   int
}

// SingleCursor returns a selection holding one cursor at pos.
func SingleCursor(pos int) Selection {
	return Selection{Ranges: []SelRange{Cursor(pos)}}
}

// NewSelection returns a selection over ranges. An out of range main index
// selects the first range.
func NewSelection(ranges []SelRange, main int) Selection {
	if len(ranges) == 0 {
		return SingleCursor(0)
	}
	if main < 0 || main >= len(ranges) {
		main = 0
	}
	return Selection{Ranges: append([]SelRange(nil), ranges...), Main: main}
}

// MainRange returns the main selection range.
func (s Selection) MainRange() SelRange {
	if len(s.Ranges) == 0 {
		return Cursor(0)
	}
	if s.Main < 0 || s.Main >= len(s.Ranges) {
		return s.Ranges[0]
	}
	return s.Ranges[s.Main]
}

// Intersects reports whether any range touches [from, to].
func (s Selection) Intersects(from, to int) bool {
	for _, r := range s.Ranges {
		if r.From() <= to && from <= r.To() {
			return true
		}
	}
	return false
}

// Map moves every range through changes.
func (s Selection) Map(changes ChangeSet, assoc int) Selection {
	if changes.Empty() {
		return s
	}
	mapped := make([]SelRange, len(s.Ranges))
	for i, r := range s.Ranges {
		mapped[i] = r.Map(changes, assoc)
	}
	return Selection{Ranges: mapped, Main: s.Main}
}

// Clamp limits every range to [0, length].
func (s Selection) Clamp(length int) Selection {
	out := make([]SelRange, len(s.Ranges))
	for i, r := range s.Ranges {
		out[i] = SelRange{Anchor: clamp(r.Anchor, 0, length), Head: clamp(r.Head, 0, length)}
	}
	return Selection{Ranges: out, Main: s.Main}
}

// Eq reports whether both selections hold the same ranges and main index.
func (s Selection) Eq(other Selection) bool {
	if s.Main != other.Main || len(s.Ranges) != len(other.Ranges) {
		return false
	}
	for i := range s.Ranges {
		if s.Ranges[i] != other.Ranges[i] {
			return false
		}
	}
	return true
}
