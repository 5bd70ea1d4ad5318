package editor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decorate/rules"
	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/editor"
	"github.com/yaklabco/mdlive/pkg/parser/goldmark"
	"github.com/yaklabco/mdlive/pkg/resource"
	"github.com/yaklabco/mdlive/pkg/text"
)

const (
	idA   = "0123456789abcdef0123456789abcdef"
	idB   = "fedcba9876543210fedcba9876543210"
	addrA = ":/" + idA
	addrB = ":/" + idB
)

func newEditor(t *testing.T, content string, opts editor.Options) *editor.Editor {
	t.Helper()

	ed, err := editor.New(context.Background(), content, goldmark.New(goldmark.FlavorGFM), opts)
	require.NoError(t, err)
	return ed
}

func moveTo(t *testing.T, ed *editor.Editor, pos int) {
	t.Helper()

	require.NoError(t, ed.SetSelection(context.Background(), text.SingleCursor(pos)))
}

func spans(set decoration.Set) []text.Range {
	out := make([]text.Range, 0, set.Len())
	for _, r := range set.Ranges() {
		out = append(out, text.Range{From: r.From, To: r.To})
	}
	return out
}

func TestImageBlockWidget(t *testing.T) {
	t.Parallel()

	// "![test](:/...)" is [0,43); the cursor starts on the last line.
	content := "![test](" + addrA + ")\n\ntext\n"
	ed := newEditor(t, content, editor.DefaultOptions())
	moveTo(t, ed, len(content))

	_, err := ed.AttachDocument(rules.NewImageRule(decorate.NewCounterCache()))
	require.NoError(t, err)

	set := ed.Decorations()
	require.Equal(t, 1, set.Len())
	assert.Equal(t, []text.Range{{From: 0, To: 43}}, spans(set))
	assert.True(t, set.At(0).Value.Block())
	assert.Equal(t, decoration.KindReplace, set.At(0).Value.Kind())

	moveTo(t, ed, 10)
	assert.Equal(t, 0, ed.Decorations().Len())

	moveTo(t, ed, len(content))
	assert.Equal(t, 1, ed.Decorations().Len())
}

func TestCheckboxToggle(t *testing.T) {
	t.Parallel()

	content := "- [ ] Buy milk\n\nnotes\n"
	ed := newEditor(t, content, editor.DefaultOptions())
	moveTo(t, ed, len(content))

	_, err := ed.AttachViewport(rules.NewCheckboxRule())
	require.NoError(t, err)

	checkbox := func() rules.CheckboxWidget {
		t.Helper()
		var found []rules.CheckboxWidget
		for _, r := range ed.Decorations().Ranges() {
			if w, ok := r.Value.Widget().(rules.CheckboxWidget); ok {
				assert.Equal(t, text.Range{From: 2, To: 5}, text.Range{From: r.From, To: r.To})
				found = append(found, w)
			}
		}
		require.Len(t, found, 1)
		return found[0]
	}

	assert.False(t, checkbox().Checked)

	edit, ok := rules.ToggleCheckboxAt(ed.State(), 3)
	require.True(t, ok)
	assert.Equal(t, text.Replace(2, 5, "[x]"), edit)

	_, err = ed.Dispatch(context.Background(), editor.TransactionSpec{Edits: []text.Edit{edit}})
	require.NoError(t, err)

	assert.Equal(t, "- [x] Buy milk\n\nnotes\n", ed.Text())
	assert.True(t, checkbox().Checked)
}

func TestRefreshIsScopedToAddress(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, idA+".png"), []byte("png"), 0o600))

	cache := decorate.NewCounterCache()
	resolver := resource.New(dir, cache, resource.DefaultOptions())
	t.Cleanup(func() { _ = resolver.Close() })

	// Image A is [0,40), image B is [42,82).
	content := "![a](" + addrA + ")\n\n![b](" + addrB + ")\n\nend\n"
	ed := newEditor(t, content, editor.DefaultOptions())
	moveTo(t, ed, len(content))

	built, err := rules.DefaultRegistry.Build([]string{rules.ImageID},
		rules.Env{Cache: cache, Resources: resolver}, nil)
	require.NoError(t, err)
	require.NoError(t, ed.Attach(built...))

	before := ed.Decorations()
	require.Equal(t, []text.Range{{From: 0, To: 40}, {From: 42, To: 82}}, spans(before))

	resolver.Wait()
	n, err := ed.Pump(resolver)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, 1, cache.Get(addrA))
	assert.Equal(t, 0, cache.Get(addrB))

	after := ed.Decorations()
	require.Equal(t, 2, after.Len())
	assert.False(t, before.At(0).Value.Eq(after.At(0).Value))
	assert.True(t, before.At(1).Value.Eq(after.At(1).Value))

	widget, ok := after.At(0).Value.Widget().(rules.ImageWidget)
	require.True(t, ok)
	assert.Equal(t, 1, widget.Revision)
}

func TestRemapWithoutRecompute(t *testing.T) {
	t.Parallel()

	opts := editor.DefaultOptions()
	opts.ManualParse = true
	opts.Engine.RecomputeOnDocChange = false

	content := "![test](" + addrA + ")\n\ntext\n"
	ed := newEditor(t, content, opts)
	moveTo(t, ed, len(content))

	engine, err := ed.AttachDocument(rules.NewImageRule(nil))
	require.NoError(t, err)
	require.Equal(t, 1, engine.Recomputes())

	tr, err := ed.Dispatch(context.Background(), editor.TransactionSpec{
		Edits: []text.Edit{text.Insert(0, "012345678\n")},
	})
	require.NoError(t, err)
	assert.False(t, tr.SelectionChanged())
	assert.False(t, tr.TreeChanged())

	assert.Equal(t, []text.Range{{From: 10, To: 53}}, spans(ed.Decorations()))
	assert.Equal(t, 1, engine.Recomputes())

	// A reparse recomputes from scratch and must agree with the mapped set.
	mapped := ed.Decorations()
	require.NoError(t, ed.Reparse(context.Background()))
	assert.Equal(t, 2, engine.Recomputes())
	assert.True(t, mapped.Eq(ed.Decorations()))
}

func TestManualParseReportsStaleTree(t *testing.T) {
	t.Parallel()

	opts := editor.DefaultOptions()
	opts.ManualParse = true

	content := "- [ ] a\n\nnotes\n"
	ed := newEditor(t, content, opts)
	moveTo(t, ed, len(content))

	_, err := ed.AttachViewport(rules.NewCheckboxRule())
	require.NoError(t, err)

	_, err = ed.Dispatch(context.Background(), editor.TransactionSpec{
		Edits: []text.Edit{text.Insert(0, ">")},
	})
	require.ErrorIs(t, err, decorate.ErrStaleTree)

	var stale *decorate.StaleTreeError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, rules.CheckboxID, stale.RuleID)

	// The kept set follows the edit.
	assert.Equal(t, []text.Range{{From: 3, To: 6}}, spans(ed.Decorations()))

	require.NoError(t, ed.Reparse(context.Background()))
}

func TestIncrementalMatchesFresh(t *testing.T) {
	t.Parallel()

	content := "# Title\n\n- [ ] one\n- [x] two\n\n![img](" + addrA + ")\n\nH<sub>2</sub>O\n"
	edits := [][]text.Edit{
		{text.Insert(0, "intro\n\n")},
		{text.Replace(9, 14, "Heading")},
		{text.Insert(len(content)+9, "\n- [ ] three\n")},
	}

	build := func(t *testing.T, ed *editor.Editor) {
		t.Helper()
		built, err := rules.DefaultRegistry.Build(rules.DefaultRegistry.DefaultIDs(),
			rules.Env{Cache: decorate.NewCounterCache()}, nil)
		require.NoError(t, err)
		require.NoError(t, ed.Attach(built...))
	}

	ed := newEditor(t, content, editor.DefaultOptions())
	build(t, ed)

	for _, batch := range edits {
		_, err := ed.Dispatch(context.Background(), editor.TransactionSpec{Edits: batch})
		require.NoError(t, err)
	}

	fresh := newEditor(t, ed.Text(), editor.DefaultOptions())
	require.NoError(t, fresh.SetSelection(context.Background(), ed.State().Selection))
	build(t, fresh)

	assert.Positive(t, ed.Decorations().Len())
	assert.True(t, ed.Decorations().Eq(fresh.Decorations()),
		"incremental %v\nfresh %v", ed.Decorations().Ranges(), fresh.Decorations().Ranges())
}

func TestDecorationsAreOrdered(t *testing.T) {
	t.Parallel()

	content := "- [x] done\n\n![img](" + addrA + ")\n\nH<sub>2</sub>O and <span style=\"color: red\">red</span>\n\nend\n"
	ed := newEditor(t, content, editor.DefaultOptions())
	moveTo(t, ed, len(content))

	built, err := rules.DefaultRegistry.Build(rules.DefaultRegistry.IDs(),
		rules.Env{Cache: decorate.NewCounterCache()}, nil)
	require.NoError(t, err)
	require.NoError(t, ed.Attach(built...))

	ranges := ed.Decorations().Ranges()
	require.NotEmpty(t, ranges)
	for i := 1; i < len(ranges); i++ {
		assert.LessOrEqual(t, ranges[i-1].From, ranges[i].From)
	}
}

func TestIdempotentRecompute(t *testing.T) {
	t.Parallel()

	content := "- [ ] a\n\n![img](" + addrA + ")\n\nend\n"
	ed := newEditor(t, content, editor.DefaultOptions())
	moveTo(t, ed, len(content))

	built, err := rules.DefaultRegistry.Build(rules.DefaultRegistry.DefaultIDs(),
		rules.Env{Cache: decorate.NewCounterCache()}, nil)
	require.NoError(t, err)
	require.NoError(t, ed.Attach(built...))

	first := ed.Decorations()
	require.NoError(t, ed.Reparse(context.Background()))
	assert.True(t, first.Eq(ed.Decorations()))
}

func TestVisibleRanges(t *testing.T) {
	t.Parallel()

	// Task markers at [2,5) and [17,20).
	content := "- [ ] a\n\npara\n\n- [ ] b\n\nend\n"
	ed := newEditor(t, content, editor.DefaultOptions())
	moveTo(t, ed, len(content))

	_, err := ed.AttachViewport(rules.NewCheckboxRule())
	require.NoError(t, err)
	require.Equal(t, []text.Range{{From: 2, To: 5}, {From: 17, To: 20}}, spans(ed.Decorations()))

	require.NoError(t, ed.SetVisibleRanges(context.Background(), []text.Range{{From: 15, To: 22}}))
	assert.Equal(t, []text.Range{{From: 17, To: 20}}, spans(ed.Decorations()))

	require.NoError(t, ed.SetVisibleRanges(context.Background(), nil))
	assert.Equal(t, 2, ed.Decorations().Len())
}

func TestDispatchRejectsInvalidEdits(t *testing.T) {
	t.Parallel()

	ed := newEditor(t, "text\n", editor.DefaultOptions())

	_, err := ed.Dispatch(context.Background(), editor.TransactionSpec{
		Edits: []text.Edit{text.Replace(2, 40, "x")},
	})

	var invalid *text.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "text\n", ed.Text())
}

func TestOnTransaction(t *testing.T) {
	t.Parallel()

	ed := newEditor(t, "text\n", editor.DefaultOptions())

	var seen []*decorate.Transaction
	ed.OnTransaction(func(tr *decorate.Transaction) error {
		seen = append(seen, tr)
		return nil
	})
	failure := errors.New("listener failed")
	ed.OnTransaction(func(*decorate.Transaction) error { return failure })

	_, err := ed.Dispatch(context.Background(), editor.TransactionSpec{
		Edits:  []text.Edit{text.Insert(0, "more ")},
		Tokens: []decorate.Token{{Kind: "theme"}},
	})
	require.ErrorIs(t, err, failure)

	require.Len(t, seen, 1)
	assert.True(t, seen[0].DocChanged())
	assert.True(t, seen[0].TreeChanged())
	assert.True(t, seen[0].HasToken("theme", ""))
	assert.Equal(t, 5, seen[0].State.Selection.MainRange().Head)
}

func TestDecorationsOf(t *testing.T) {
	t.Parallel()

	content := "- [ ] a\n\nend\n"
	ed := newEditor(t, content, editor.DefaultOptions())
	moveTo(t, ed, len(content))

	_, err := ed.AttachViewport(rules.NewCheckboxRule())
	require.NoError(t, err)

	set, ok := ed.DecorationsOf(rules.CheckboxID)
	require.True(t, ok)
	assert.Equal(t, 1, set.Len())

	_, ok = ed.DecorationsOf(rules.ImageID)
	assert.False(t, ok)
	assert.Len(t, ed.Engines(), 1)
}
