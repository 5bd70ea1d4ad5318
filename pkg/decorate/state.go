package decorate

import (
	"slices"

	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// State is the read-only snapshot the engines decorate: the document, the
// tree parsed from it, the selection and the visible ranges.
type State struct {
	Doc       *text.Doc
	Tree      *mdast.Tree
	Selection text.Selection

	// Visible lists the visible ranges in document order. Empty means the
	// whole document is visible.
	Visible []text.Range
}

// LineAt returns the line containing pos.
func (s *State) LineAt(pos int) text.Line {
	return s.Doc.LineAt(pos)
}

// Slice returns the document text in [from, to).
func (s *State) Slice(from, to int) string {
	return s.Doc.Slice(from, to)
}

// Text returns the document text covered by node.
func (s *State) Text(node *mdast.Node) string {
	return s.Doc.Slice(node.From, node.To)
}

// VisibleRanges returns the visible ranges, or the whole document.
func (s *State) VisibleRanges() []text.Range {
	if len(s.Visible) == 0 {
		return []text.Range{{From: 0, To: s.Doc.Len()}}
	}
	return s.Visible
}

// Token is a forced-recompute signal, such as "resource :/abc was reloaded".
type Token struct {
	Kind string
	Key  string
}

// Transaction describes one synchronous update from Start to State.
type Transaction struct {
	Start   *State
	State   *State
	Changes text.ChangeSet
	Tokens  []Token
}

// DocChanged reports whether the transaction edits the document.
func (tr *Transaction) DocChanged() bool {
	return !tr.Changes.Empty()
}

// SelectionChanged reports whether the new selection differs from the old
// selection carried through the changes.
func (tr *Transaction) SelectionChanged() bool {
	return !tr.State.Selection.Eq(tr.Start.Selection.Map(tr.Changes, 1))
}

// ViewportChanged reports whether the visible ranges differ.
func (tr *Transaction) ViewportChanged() bool {
	return !slices.Equal(tr.Start.Visible, tr.State.Visible)
}

// TreeChanged reports whether the states hold different trees.
func (tr *Transaction) TreeChanged() bool {
	return tr.Start.Tree != tr.State.Tree
}

// HasToken reports whether the transaction carries a token of the given kind.
// An empty key matches any key.
func (tr *Transaction) HasToken(kind, key string) bool {
	for _, tok := range tr.Tokens {
		if tok.Kind == kind && (key == "" || tok.Key == key) {
			return true
		}
	}
	return false
}
