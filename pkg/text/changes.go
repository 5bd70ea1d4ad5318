package text

import (
	"fmt"
	"sort"
	"strings"
)

// Edit replaces the text in [From, To) with Insert.
type Edit struct {
	From   int
	To     int
	Insert string
}

// Insert returns an edit that inserts content at pos.
func Insert(pos int, content string) Edit {
	return Edit{From: pos, To: pos, Insert: content}
}

// Delete returns an edit that removes [from, to).
func Delete(from, to int) Edit {
	return Edit{From: from, To: to}
}

// Replace returns an edit that replaces [from, to) with content.
func Replace(from, to int, content string) Edit {
	return Edit{From: from, To: to, Insert: content}
}

func (e Edit) noop() bool {
	return e.From == e.To && e.Insert == ""
}

// ValidationError describes an invalid edit.
type ValidationError struct {
	Edit    Edit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.From, e.Edit.To, e.Message)
}

// ConflictError describes overlapping edits.
type ConflictError struct {
	Edit1 Edit
	Edit2 Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.From, e.Edit1.To, e.Edit2.From, e.Edit2.To)
}

// LengthMismatchError is returned when a change set built for one document
// length is applied to a document of a different length.
type LengthMismatchError struct {
	Want int
	Got  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("change set expects document length %d, got %d", e.Want, e.Got)
}

// ChangeSet is a validated, sorted, non-overlapping group of edits against a
// document of a known length. It provides the position mapping between the
// old and new versions of the document.
type ChangeSet struct {
	length int
	edits  []Edit
}

// NewChangeSet validates edits against a document of the given length.
// No-op edits are discarded.
func NewChangeSet(length int, edits ...Edit) (ChangeSet, error) {
	prepared := make([]Edit, 0, len(edits))
	for _, edit := range edits {
		if edit.From < 0 {
			return ChangeSet{}, &ValidationError{Edit: edit, Message: "start offset is negative"}
		}
		if edit.To < edit.From {
			return ChangeSet{}, &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		}
		if edit.To > length {
			return ChangeSet{}, &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.To, length),
			}
		}
		if !edit.noop() {
			prepared = append(prepared, edit)
		}
	}

	sort.SliceStable(prepared, func(i, j int) bool {
		if prepared[i].From != prepared[j].From {
			return prepared[i].From < prepared[j].From
		}
		return prepared[i].To < prepared[j].To
	})

	for i := 1; i < len(prepared); i++ {
		prev, curr := prepared[i-1], prepared[i]
		if curr.From < prev.To || (curr.From == prev.From && prev.From == prev.To && curr.From == curr.To) {
			return ChangeSet{}, &ConflictError{Edit1: prev, Edit2: curr}
		}
	}

	return ChangeSet{length: length, edits: prepared}, nil
}

// EmptyChangeSet returns a change set that leaves a document of the given
// length untouched.
func EmptyChangeSet(length int) ChangeSet {
	return ChangeSet{length: length}
}

// Len returns the length of the document the changes apply to.
func (c ChangeSet) Len() int {
	return c.length
}

// NewLen returns the length of the document after the changes.
func (c ChangeSet) NewLen() int {
	n := c.length
	for _, e := range c.edits {
		n += len(e.Insert) - (e.To - e.From)
	}
	return n
}

// Empty reports whether the change set leaves the document unchanged.
func (c ChangeSet) Empty() bool {
	return len(c.edits) == 0
}

// Edits returns a copy of the sorted edits.
func (c ChangeSet) Edits() []Edit {
	return append([]Edit(nil), c.edits...)
}

// Apply applies the changes to content. Content must have the change set's length.
func (c ChangeSet) Apply(content string) string {
	if len(c.edits) == 0 {
		return content
	}
	var b strings.Builder
	b.Grow(c.NewLen())
	last := 0
	for _, e := range c.edits {
		b.WriteString(content[last:e.From])
		b.WriteString(e.Insert)
		last = e.To
	}
	b.WriteString(content[last:])
	return b.String()
}

// MapPos maps a position in the old document to the new document.
// For a position at an insertion point, or strictly inside a replaced range,
// assoc < 0 keeps it before the inserted text and assoc >= 0 moves it after.
func (c ChangeSet) MapPos(pos, assoc int) int {
	mapped, _ := c.MapPosTracked(pos, assoc)
	return mapped
}

// MapPosTracked is MapPos that also reports whether the position was
// strictly inside a deleted or replaced range.
func (c ChangeSet) MapPosTracked(pos, assoc int) (int, bool) {
	delta := 0
	for _, e := range c.edits {
		switch {
		case pos < e.From:
			return pos + delta, false
		case e.From == e.To && pos == e.From:
			if assoc < 0 {
				return pos + delta, false
			}
			delta += len(e.Insert)
		case pos == e.From:
			return pos + delta, false
		case pos < e.To:
			start := e.From + delta
			if assoc < 0 {
				return start, true
			}
			return start + len(e.Insert), true
		default:
			delta += len(e.Insert) - (e.To - e.From)
		}
	}
	return pos + delta, false
}

// TouchesInterior reports whether any edit modifies text strictly inside
// [from, to), or inserts text strictly between from and to.
func (c ChangeSet) TouchesInterior(from, to int) bool {
	for _, e := range c.edits {
		if e.From >= to {
			break
		}
		if e.From == e.To {
			if e.From > from {
				return true
			}
			continue
		}
		if e.To > from {
			return true
		}
	}
	return false
}

// ChangedRanges returns the ranges of the old document that the changes touch.
func (c ChangeSet) ChangedRanges() []Range {
	out := make([]Range, len(c.edits))
	for i, e := range c.edits {
		out[i] = Range{From: e.From, To: e.To}
	}
	return out
}
