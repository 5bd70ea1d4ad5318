package decorate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// sample has five lines of interest:
//
//	1 [0,14)   "- [ ] Buy milk"
//	3 [16,59)  "![test](:/0123456789abcdef0123456789abcdef)"
//	5 [61,75)  "some *em* text"
const sample = "- [ ] Buy milk\n\n![test](:/0123456789abcdef0123456789abcdef)\n\nsome *em* text\n"

// sampleTree returns the tree of sample preceded by offset bytes of
// single-line prefix text.
func sampleTree(doc *text.Doc, offset int) *mdast.Tree {
	n := func(kind mdast.NodeKind, from, to int) *mdast.Node {
		return mdast.NewNode(kind, from+offset, to+offset)
	}
	root := mdast.Build(mdast.NewDocument(doc.Len()),
		mdast.Build(n(mdast.NodeList, 0, 14),
			mdast.Build(n(mdast.NodeListItem, 0, 14),
				n(mdast.NodeListMark, 0, 1),
				mdast.Build(n(mdast.NodeTask, 2, 14),
					n(mdast.NodeTaskMarker, 2, 5),
					n(mdast.NodeText, 6, 14),
				),
			),
		),
		mdast.Build(n(mdast.NodeParagraph, 16, 59),
			n(mdast.NodeImage, 16, 59),
		),
		mdast.Build(n(mdast.NodeParagraph, 61, 75),
			n(mdast.NodeText, 61, 66),
			mdast.Build(n(mdast.NodeEmphasis, 66, 70),
				n(mdast.NodeText, 67, 69),
			),
			n(mdast.NodeText, 70, 75),
		),
	)
	return &mdast.Tree{Content: doc.String(), Root: root, Version: doc.Version()}
}

func newState(cursor int, visible ...text.Range) *decorate.State {
	doc := text.NewDoc(sample)
	return &decorate.State{
		Doc:       doc,
		Tree:      sampleTree(doc, 0),
		Selection: text.SingleCursor(cursor),
		Visible:   visible,
	}
}

// moveCursor returns a selection-only transaction.
func moveCursor(state *decorate.State, cursor int) *decorate.Transaction {
	next := *state
	next.Selection = text.SingleCursor(cursor)
	return &decorate.Transaction{
		Start:   state,
		State:   &next,
		Changes: text.EmptyChangeSet(state.Doc.Len()),
	}
}

// prefixEdit inserts prefix at offset 0. The selection follows the edit.
// When reparse is false the new state keeps the old tree.
func prefixEdit(t *testing.T, state *decorate.State, prefix string, reparse bool) *decorate.Transaction {
	t.Helper()

	changes, err := text.NewChangeSet(state.Doc.Len(), text.Insert(0, prefix))
	require.NoError(t, err)
	doc, err := state.Doc.Apply(changes)
	require.NoError(t, err)

	tree := state.Tree
	if reparse {
		tree = sampleTree(doc, len(prefix))
	}
	return &decorate.Transaction{
		Start:   state,
		State:   &decorate.State{Doc: doc, Tree: tree, Selection: state.Selection.Map(changes, 1)},
		Changes: changes,
	}
}

// testRule decorates nodes by kind.
type testRule struct {
	decorate.BaseRule

	decisions map[mdast.NodeKind]decoration.Decoration
	panicOn   map[mdast.NodeKind]bool
	depths    map[*mdast.Node]int
}

func newTestRule(decisions map[mdast.NodeKind]decoration.Decoration) *testRule {
	return &testRule{
		BaseRule:  decorate.NewBaseRule("test", "Test", "decorates nodes by kind"),
		decisions: decisions,
		panicOn:   map[mdast.NodeKind]bool{},
		depths:    map[*mdast.Node]int{},
	}
}

func (r *testRule) Decide(node *mdast.Node, _ *decorate.State, tags decorate.TagCounts) (decoration.Decoration, bool) {
	if r.panicOn[node.Kind] {
		panic("boom")
	}
	r.depths[node] = tags.Get(mdast.NodeListItem)
	dec, ok := r.decisions[node.Kind]
	return dec, ok
}

// rangedRule supplies custom targets.
type rangedRule struct {
	*testRule

	target func(node *mdast.Node) (text.Range, bool)
}

func (r *rangedRule) TargetRange(node *mdast.Node, _ *decorate.State) (text.Range, bool) {
	return r.target(node)
}

// forcedRule recomputes on "resource" tokens.
type forcedRule struct {
	*testRule
}

func (r *forcedRule) ForceFullRecompute(tr *decorate.Transaction) bool {
	return tr.HasToken("resource", "")
}

func spans(set decoration.Set) []text.Range {
	out := make([]text.Range, 0, set.Len())
	for _, r := range set.Ranges() {
		out = append(out, text.Range{From: r.From, To: r.To})
	}
	return out
}

func mark(class string) decoration.Decoration {
	return decoration.Mark(class, nil)
}

var blockWidget = decoration.Replace(decoration.TextWidget{Text: "image", IsBlock: true})
