package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/text"
)

func TestNewChangeSetValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		edits    []text.Edit
		conflict bool
		invalid  bool
	}{
		{name: "valid single", edits: []text.Edit{text.Insert(3, "x")}},
		{name: "negative start", edits: []text.Edit{text.Delete(-1, 2)}, invalid: true},
		{name: "inverted", edits: []text.Edit{text.Delete(4, 2)}, invalid: true},
		{name: "past end", edits: []text.Edit{text.Delete(8, 11)}, invalid: true},
		{name: "overlapping", edits: []text.Edit{text.Delete(1, 5), text.Delete(3, 7)}, conflict: true},
		{name: "two insertions at one point", edits: []text.Edit{text.Insert(2, "a"), text.Insert(2, "b")}, conflict: true},
		{name: "adjacent", edits: []text.Edit{text.Delete(1, 3), text.Delete(3, 5)}},
		{name: "insertion before replacement", edits: []text.Edit{text.Replace(2, 4, "z"), text.Insert(2, "a")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := text.NewChangeSet(10, tt.edits...)
			switch {
			case tt.invalid:
				var verr *text.ValidationError
				require.ErrorAs(t, err, &verr)
			case tt.conflict:
				var cerr *text.ConflictError
				require.ErrorAs(t, err, &cerr)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestChangeSetApply(t *testing.T) {
	t.Parallel()

	changes, err := text.NewChangeSet(11,
		text.Replace(6, 11, "there"),
		text.Insert(0, ">> "),
		text.Insert(6, "big "),
	)
	require.NoError(t, err)

	got := changes.Apply("hello world")
	assert.Equal(t, ">> hello big there", got)
	assert.Equal(t, len(got), changes.NewLen())
	assert.False(t, changes.Empty())
}

func TestChangeSetNoopEditsDropped(t *testing.T) {
	t.Parallel()

	changes, err := text.NewChangeSet(5, text.Insert(2, ""), text.Delete(3, 3))
	require.NoError(t, err)
	assert.True(t, changes.Empty())
	assert.Equal(t, 2, changes.MapPos(2, 1))
}

func TestChangeSetMapPos(t *testing.T) {
	t.Parallel()

	// "0123456789": insert "abc" at 2, replace [5,8) with "Z".
	changes, err := text.NewChangeSet(10, text.Insert(2, "abc"), text.Replace(5, 8, "Z"))
	require.NoError(t, err)
	require.Equal(t, "01abc234Z89", changes.Apply("0123456789"))

	tests := []struct {
		name    string
		pos     int
		assoc   int
		want    int
		deleted bool
	}{
		{name: "before all edits", pos: 1, assoc: 1, want: 1},
		{name: "at insertion, before", pos: 2, assoc: -1, want: 2},
		{name: "at insertion, after", pos: 2, assoc: 1, want: 5},
		{name: "between edits", pos: 4, assoc: 1, want: 7},
		{name: "start of replacement", pos: 5, assoc: 1, want: 8},
		{name: "inside replacement, before", pos: 6, assoc: -1, want: 8, deleted: true},
		{name: "inside replacement, after", pos: 6, assoc: 1, want: 9, deleted: true},
		{name: "end of replacement", pos: 8, assoc: -1, want: 9},
		{name: "after everything", pos: 10, assoc: 1, want: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, deleted := changes.MapPosTracked(tt.pos, tt.assoc)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.deleted, deleted)
		})
	}
}

func TestChangeSetTouchesInterior(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		edit text.Edit
		want bool
	}{
		{name: "insert before", edit: text.Insert(1, "x"), want: false},
		{name: "insert at start", edit: text.Insert(3, "x"), want: false},
		{name: "insert inside", edit: text.Insert(5, "x"), want: true},
		{name: "insert at end", edit: text.Insert(8, "x"), want: false},
		{name: "delete overlapping start", edit: text.Delete(2, 4), want: true},
		{name: "delete ending at start", edit: text.Delete(1, 3), want: false},
		{name: "delete after", edit: text.Delete(8, 9), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			changes, err := text.NewChangeSet(10, tt.edit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, changes.TouchesInterior(3, 8))
		})
	}
}

func TestSelectionMap(t *testing.T) {
	t.Parallel()

	changes, err := text.NewChangeSet(20, text.Insert(0, "0123456789"))
	require.NoError(t, err)

	sel := text.NewSelection([]text.SelRange{text.Cursor(0), {Anchor: 4, Head: 2}}, 1)
	mapped := sel.Map(changes, 1)

	assert.Equal(t, text.Cursor(10), mapped.Ranges[0])
	assert.Equal(t, text.SelRange{Anchor: 14, Head: 12}, mapped.MainRange())
	assert.False(t, sel.Eq(mapped))
	assert.True(t, mapped.Eq(sel.Map(changes, 1)))

	before := sel.Map(changes, -1)
	assert.Equal(t, text.Cursor(0), before.Ranges[0])
}

func TestSelectionIntersects(t *testing.T) {
	t.Parallel()

	sel := text.NewSelection([]text.SelRange{text.Cursor(3), {Anchor: 10, Head: 14}}, 0)
	assert.True(t, sel.Intersects(0, 3))
	assert.True(t, sel.Intersects(14, 20))
	assert.False(t, sel.Intersects(4, 9))
	assert.Equal(t, 3, sel.MainRange().Head)
}
