package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/parser/goldmark"
	"github.com/yaklabco/mdlive/pkg/text"
)

// parseState parses content with the GFM parser and places a cursor.
// A negative cursor is placed at the end of the document.
func parseState(t *testing.T, content string, cursor int) *decorate.State {
	t.Helper()

	doc := text.NewDoc(content)
	tree, err := goldmark.New(goldmark.FlavorGFM).Parse(context.Background(), doc)
	require.NoError(t, err)

	if cursor < 0 {
		cursor = doc.Len()
	}
	return &decorate.State{Doc: doc, Tree: tree, Selection: text.SingleCursor(cursor)}
}

func inline(t *testing.T, rule decorate.Rule, state *decorate.State) []decoration.Range {
	t.Helper()

	engine, err := decorate.NewViewportEngine(rule, state, decorate.DefaultOptions())
	require.NoError(t, err)
	return engine.Decorations().Ranges()
}

func block(t *testing.T, rule decorate.Rule, state *decorate.State) []decoration.Range {
	t.Helper()

	engine, err := decorate.NewDocumentEngine(rule, state, decorate.DefaultOptions())
	require.NoError(t, err)
	return engine.Decorations().Ranges()
}

func spans(ranges []decoration.Range) []text.Range {
	out := make([]text.Range, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, text.Range{From: r.From, To: r.To})
	}
	return out
}
