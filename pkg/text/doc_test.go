package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/text"
)

func TestDocLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []text.Line
	}{
		{
			name:    "empty document",
			content: "",
			want:    []text.Line{{Number: 1, From: 0, To: 0}},
		},
		{
			name:    "single line without newline",
			content: "hello",
			want:    []text.Line{{Number: 1, From: 0, To: 5}},
		},
		{
			name:    "trailing newline adds empty line",
			content: "a\nbc\n",
			want: []text.Line{
				{Number: 1, From: 0, To: 1},
				{Number: 2, From: 2, To: 4},
				{Number: 3, From: 5, To: 5},
			},
		},
		{
			name:    "crlf endings",
			content: "ab\r\ncd",
			want: []text.Line{
				{Number: 1, From: 0, To: 2},
				{Number: 2, From: 4, To: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := text.NewDoc(tt.content)
			require.Equal(t, len(tt.want), doc.LineCount())
			for i, want := range tt.want {
				got, ok := doc.Line(i + 1)
				require.True(t, ok)
				assert.Equal(t, want.Number, got.Number)
				assert.Equal(t, want.From, got.From)
				assert.Equal(t, want.To, got.To)
			}
		})
	}
}

func TestDocLineAt(t *testing.T) {
	t.Parallel()

	doc := text.NewDoc("one\ntwo\n\nfour")

	tests := []struct {
		pos  int
		want int
	}{
		{-3, 1},
		{0, 1},
		{3, 1},
		{4, 2},
		{7, 2},
		{8, 3},
		{9, 4},
		{13, 4},
		{100, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, doc.LineAt(tt.pos).Number, "pos %d", tt.pos)
	}

	line := doc.LineAt(5)
	assert.Equal(t, "two", doc.LineText(line))
}

func TestDocApply(t *testing.T) {
	t.Parallel()

	doc := text.NewDoc("hello world")
	changes, err := text.NewChangeSet(doc.Len(), text.Replace(0, 5, "goodbye"))
	require.NoError(t, err)

	next, err := doc.Apply(changes)
	require.NoError(t, err)
	assert.Equal(t, "goodbye world", next.String())
	assert.Equal(t, doc.Version()+1, next.Version())
	assert.Equal(t, "hello world", doc.String(), "original must be unchanged")

	same, err := next.Apply(text.EmptyChangeSet(next.Len()))
	require.NoError(t, err)
	assert.Same(t, next, same)

	_, err = doc.Apply(text.EmptyChangeSet(3))
	var mismatch *text.LengthMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Want)
}

func TestDocSliceClamps(t *testing.T) {
	t.Parallel()

	doc := text.NewDoc("abcdef")
	assert.Equal(t, "cd", doc.Slice(2, 4))
	assert.Equal(t, "abcdef", doc.Slice(-5, 50))
	assert.Empty(t, doc.Slice(4, 2))
}
