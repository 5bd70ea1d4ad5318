package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/decorate/rules"
	"github.com/yaklabco/mdlive/pkg/editor"
	goldmarkparser "github.com/yaklabco/mdlive/pkg/parser/goldmark"
	"github.com/yaklabco/mdlive/pkg/text"
)

func TestDiffEdit(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   text.Edit
		wantOK bool
	}{
		{name: "unchanged", before: "abc", after: "abc"},
		{name: "insert in middle", before: "ac", after: "abc", want: text.Insert(1, "b"), wantOK: true},
		{name: "delete at end", before: "abc", after: "ab", want: text.Delete(2, 3), wantOK: true},
		{name: "replace word", before: "- [ ] todo", after: "- [x] todo", want: text.Replace(3, 4, "x"), wantOK: true},
		{name: "from empty", before: "", after: "hi", want: text.Insert(0, "hi"), wantOK: true},
		{name: "to empty", before: "hi", after: "", want: text.Delete(0, 2), wantOK: true},
		{name: "repeated characters", before: "aaa", after: "aaaa", want: text.Insert(3, "a"), wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := diffEdit(tt.before, tt.after)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want, got)

			applied := tt.before[:got.From] + got.Insert + tt.before[got.To:]
			assert.Equal(t, tt.after, applied)
		})
	}
}

func TestApplyContent(t *testing.T) {
	ctx := context.Background()

	ed, err := editor.New(ctx, "intro\n\n- [ ] todo\n", goldmarkparser.New("gfm"), editor.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, ed.Attach(rules.Built{Rule: rules.NewCheckboxRule(), Scope: rules.ScopeInline}))

	changed, err := applyContent(ctx, ed, "intro\n\n- [ ] todo\n")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = applyContent(ctx, ed, "intro\n\n- [x] todo\n")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "intro\n\n- [x] todo\n", ed.Text())

	set, ok := ed.DecorationsOf(rules.CheckboxID)
	require.True(t, ok)
	assert.Positive(t, set.Len())
}
