package decorate

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// ViewportEngine keeps the inline decorations of one rule correct inside the
// visible ranges. It recomputes on every edit, selection change, viewport
// change, reparse or forced signal.
//
// Its output is line-scoped: decorations spanning more than one line and
// block-level decorations are dropped.
type ViewportEngine struct {
	rule   Rule
	logger *log.Logger

	state *State
	set   decoration.Set
}

// NewViewportEngine attaches a viewport engine to state and computes its
// initial set.
func NewViewportEngine(rule Rule, state *State, opts Options) (*ViewportEngine, error) {
	engine := &ViewportEngine{
		rule:   rule,
		logger: opts.logger(),
		state:  state,
	}
	if err := checkTree(rule.ID(), state); err != nil {
		return nil, err
	}
	engine.set = engine.compute(state)
	return engine, nil
}

// Rule returns the rule the engine applies.
func (e *ViewportEngine) Rule() Rule {
	return e.rule
}

// Decorations returns the current set, ordered by start position.
func (e *ViewportEngine) Decorations() decoration.Set {
	return e.set
}

// Update processes one transaction. When the new tree does not match the
// new document the previous set is kept, mapped through the changes, and a
// *StaleTreeError is returned.
func (e *ViewportEngine) Update(tr *Transaction) error {
	e.state = tr.State

	recompute := tr.DocChanged() ||
		tr.SelectionChanged() ||
		tr.ViewportChanged() ||
		tr.TreeChanged() ||
		callForced(e.logger, e.rule, tr)
	if !recompute {
		return nil
	}

	if err := checkTree(e.rule.ID(), tr.State); err != nil {
		e.set = e.set.Map(tr.Changes)
		return err
	}
	e.set = e.compute(tr.State)
	return nil
}

// Notify delivers a forced-recompute token. The engine recomputes when the
// rule asks for it.
func (e *ViewportEngine) Notify(token Token) error {
	return e.Update(signal(e.state, token))
}

func (e *ViewportEngine) compute(state *State) decoration.Set {
	cursorLine := state.LineAt(state.Selection.MainRange().Anchor).Number
	seen := make(map[*mdast.Node]struct{})
	var ranges []decoration.Range

	for _, visible := range state.VisibleRanges() {
		Walk(state.Tree.Root, visible.From, visible.To, func(node *mdast.Node, tags TagCounts) {
			if _, dup := seen[node]; dup {
				return
			}
			seen[node] = struct{}{}

			if e.rule.SuppressNearSelection() && e.nearSelection(node, state, cursorLine) {
				return
			}

			dec, ok := callDecide(e.logger, e.rule, node, state, tags)
			if !ok {
				return
			}

			target, custom, ok := callTarget(e.logger, e.rule, node, state)
			if !ok {
				return
			}
			if !custom {
				target = text.Range{From: node.From, To: node.To}
			}

			if r, reason := e.validate(dec, target, state); reason != "" {
				logDropped(e.logger, e.rule, node, target, reason)
			} else {
				ranges = append(ranges, r)
			}
		})
	}

	return decoration.NewSet(ranges...)
}

func (e *ViewportEngine) nearSelection(node *mdast.Node, state *State, cursorLine int) bool {
	if state.Selection.Intersects(node.From, node.To) {
		return true
	}
	return state.LineAt(node.From).Number == cursorLine || state.LineAt(node.To).Number == cursorLine
}

func (e *ViewportEngine) validate(dec decoration.Decoration, target text.Range, state *State) (decoration.Range, string) {
	if dec.Block() {
		return decoration.Range{}, "block decoration"
	}
	r, reason := place(dec, target, state.Doc.Len())
	if reason != "" {
		return r, reason
	}
	if state.LineAt(r.From).Number != state.LineAt(r.To).Number {
		return decoration.Range{}, "spans lines"
	}
	return r, ""
}

func signal(state *State, token Token) *Transaction {
	return &Transaction{
		Start:   state,
		State:   state,
		Changes: text.EmptyChangeSet(state.Doc.Len()),
		Tokens:  []Token{token},
	}
}
