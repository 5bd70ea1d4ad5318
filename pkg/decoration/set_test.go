package decoration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/text"
)

func changes(t *testing.T, length int, edits ...text.Edit) text.ChangeSet {
	t.Helper()

	cs, err := text.NewChangeSet(length, edits...)
	require.NoError(t, err)
	return cs
}

func TestNewSetOrdersRanges(t *testing.T) {
	t.Parallel()

	first := decoration.Mark("first", nil)
	second := decoration.Mark("second", nil)

	set := decoration.NewSet(
		decoration.Range{From: 10, To: 12, Value: first},
		decoration.Range{From: 2, To: 8, Value: first},
		decoration.Range{From: 2, To: 4, Value: first},
		decoration.Range{From: 10, To: 12, Value: second},
	)

	require.Equal(t, 4, set.Len())
	var froms []int
	for _, r := range set.Ranges() {
		froms = append(froms, r.From)
	}
	assert.Equal(t, []int{2, 2, 10, 10}, froms)
	assert.Equal(t, 4, set.At(0).To)
	assert.Equal(t, "first", set.At(2).Value.Class(), "equal bounds keep insertion order")
	assert.Equal(t, "second", set.At(3).Value.Class())
}

func TestSetBetween(t *testing.T) {
	t.Parallel()

	set := decoration.NewSet(
		decoration.Range{From: 0, To: 3, Value: decoration.Hide()},
		decoration.Range{From: 5, To: 5, Value: decoration.Line("l", nil)},
		decoration.Range{From: 8, To: 12, Value: decoration.Hide()},
	)

	var got []int
	set.Between(3, 8, func(r decoration.Range) bool {
		got = append(got, r.From)
		return true
	})
	assert.Equal(t, []int{0, 5, 8}, got)

	got = nil
	set.Between(0, 100, func(r decoration.Range) bool {
		got = append(got, r.From)
		return false
	})
	assert.Equal(t, []int{0}, got)
}

func TestSetUpdate(t *testing.T) {
	t.Parallel()

	set := decoration.NewSet(
		decoration.Range{From: 0, To: 3, Value: decoration.Hide()},
		decoration.Range{From: 8, To: 12, Value: decoration.Mark("m", nil)},
	)

	updated := set.Update(
		[]decoration.Range{{From: 4, To: 6, Value: decoration.Hide()}},
		func(r decoration.Range) bool { return r.Value.Kind() != decoration.KindMark },
	)

	require.Equal(t, 2, updated.Len())
	assert.Equal(t, 0, updated.At(0).From)
	assert.Equal(t, 4, updated.At(1).From)
	assert.Equal(t, 2, set.Len(), "original set must be unchanged")
}

func TestSetMap(t *testing.T) {
	t.Parallel()

	widget := decoration.TextWidget{Text: "w"}
	replace := decoration.Replace(widget)
	mark := decoration.Mark("m", nil)

	tests := []struct {
		name  string
		in    decoration.Range
		edits []text.Edit
		want  *decoration.Range
	}{
		{
			name:  "insert before shifts",
			in:    decoration.Range{From: 20, To: 25, Value: replace},
			edits: []text.Edit{text.Insert(0, "0123456789")},
			want:  &decoration.Range{From: 30, To: 35, Value: replace},
		},
		{
			name:  "insert at start stays outside",
			in:    decoration.Range{From: 20, To: 25, Value: replace},
			edits: []text.Edit{text.Insert(20, "abc")},
			want:  &decoration.Range{From: 23, To: 28, Value: replace},
		},
		{
			name:  "insert at end stays outside",
			in:    decoration.Range{From: 20, To: 25, Value: mark},
			edits: []text.Edit{text.Insert(25, "abc")},
			want:  &decoration.Range{From: 20, To: 25, Value: mark},
		},
		{
			name:  "insert after leaves untouched",
			in:    decoration.Range{From: 2, To: 5, Value: replace},
			edits: []text.Edit{text.Insert(30, "x")},
			want:  &decoration.Range{From: 2, To: 5, Value: replace},
		},
		{
			name:  "edit inside replacement drops it",
			in:    decoration.Range{From: 20, To: 25, Value: replace},
			edits: []text.Edit{text.Insert(22, "x")},
		},
		{
			name:  "edit inside mark grows it",
			in:    decoration.Range{From: 20, To: 25, Value: mark},
			edits: []text.Edit{text.Insert(22, "xy")},
			want:  &decoration.Range{From: 20, To: 27, Value: mark},
		},
		{
			name:  "partial delete shrinks mark",
			in:    decoration.Range{From: 20, To: 25, Value: mark},
			edits: []text.Edit{text.Delete(18, 22)},
			want:  &decoration.Range{From: 18, To: 21, Value: mark},
		},
		{
			name:  "deleting covered text drops mark",
			in:    decoration.Range{From: 20, To: 25, Value: mark},
			edits: []text.Edit{text.Delete(19, 26)},
		},
		{
			name:  "point survives deletion ending at it",
			in:    decoration.Range{From: 10, To: 10, Value: decoration.Line("l", nil)},
			edits: []text.Edit{text.Delete(4, 10)},
			want:  &decoration.Range{From: 4, To: 4, Value: decoration.Line("l", nil)},
		},
		{
			name:  "point inside deletion is dropped",
			in:    decoration.Range{From: 10, To: 10, Value: decoration.Point(widget, 1)},
			edits: []text.Edit{text.Delete(8, 12)},
		},
		{
			name:  "positive side point follows insertion",
			in:    decoration.Range{From: 10, To: 10, Value: decoration.Point(widget, 1)},
			edits: []text.Edit{text.Insert(10, "abc")},
			want:  &decoration.Range{From: 13, To: 13, Value: decoration.Point(widget, 1)},
		},
		{
			name:  "zero side point follows insertion",
			in:    decoration.Range{From: 10, To: 10, Value: decoration.Point(widget, 0)},
			edits: []text.Edit{text.Insert(10, "abc\n")},
			want:  &decoration.Range{From: 14, To: 14, Value: decoration.Point(widget, 0)},
		},
		{
			name:  "line follows text inserted at its start",
			in:    decoration.Range{From: 10, To: 10, Value: decoration.Line("l", nil)},
			edits: []text.Edit{text.Insert(10, "abc\n")},
			want:  &decoration.Range{From: 14, To: 14, Value: decoration.Line("l", nil)},
		},
		{
			name:  "negative side point stays before insertion",
			in:    decoration.Range{From: 10, To: 10, Value: decoration.Point(widget, -1)},
			edits: []text.Edit{text.Insert(10, "abc")},
			want:  &decoration.Range{From: 10, To: 10, Value: decoration.Point(widget, -1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			set := decoration.NewSet(tt.in)
			mapped := set.Map(changes(t, 40, tt.edits...))

			if tt.want == nil {
				assert.Equal(t, 0, mapped.Len())
				return
			}
			require.Equal(t, 1, mapped.Len())
			assert.True(t, mapped.At(0).Eq(*tt.want), "got %s, want %s", mapped.At(0), *tt.want)
		})
	}
}

func TestSetMapKeepsOrder(t *testing.T) {
	t.Parallel()

	set := decoration.NewSet(
		decoration.Range{From: 1, To: 3, Value: decoration.Hide()},
		decoration.Range{From: 6, To: 9, Value: decoration.Hide()},
		decoration.Range{From: 12, To: 14, Value: decoration.Hide()},
	)

	mapped := set.Map(changes(t, 20, text.Delete(3, 6), text.Insert(10, "long insertion")))

	require.Equal(t, 3, mapped.Len())
	for i := 1; i < mapped.Len(); i++ {
		assert.LessOrEqual(t, mapped.At(i-1).From, mapped.At(i).From)
	}
	assert.Equal(t, 3, mapped.At(1).From)
	assert.Equal(t, 23, mapped.At(2).From)
}

func TestSetEq(t *testing.T) {
	t.Parallel()

	a := decoration.NewSet(decoration.Range{From: 1, To: 3, Value: decoration.Hide()})
	b := decoration.NewSet(decoration.Range{From: 1, To: 3, Value: decoration.Hide()})
	c := decoration.NewSet(decoration.Range{From: 1, To: 4, Value: decoration.Hide()})

	assert.True(t, a.Eq(b))
	assert.False(t, a.Eq(c))
	assert.False(t, a.Eq(decoration.Set{}))
	assert.True(t, decoration.Set{}.Eq(decoration.NewSet()))
}
