package decorate

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// DocumentEngine keeps one decoration set for the whole document. Every
// transaction first maps the set through its changes; the set is rebuilt
// only when the document, selection or tree changed, or the rule forces it.
//
// Unlike ViewportEngine it accepts block decorations and multi-line targets.
type DocumentEngine struct {
	rule   Rule
	opts   Options
	logger *log.Logger

	state *State
	tree  *mdast.Tree
	set   decoration.Set

	recomputes int
}

// NewDocumentEngine attaches a whole-document engine to state and computes
// its initial set.
func NewDocumentEngine(rule Rule, state *State, opts Options) (*DocumentEngine, error) {
	if err := checkTree(rule.ID(), state); err != nil {
		return nil, err
	}
	engine := &DocumentEngine{
		rule:   rule,
		opts:   opts,
		logger: opts.logger(),
		state:  state,
	}
	engine.recompute(state)
	return engine, nil
}

// Rule returns the rule the engine applies.
func (e *DocumentEngine) Rule() Rule {
	return e.rule
}

// Decorations returns the current set, ordered by start position.
func (e *DocumentEngine) Decorations() decoration.Set {
	return e.set
}

// Recomputes returns how many full recomputes the engine has run,
// including the initial one.
func (e *DocumentEngine) Recomputes() int {
	return e.recomputes
}

// Update processes one transaction. When a recompute is due but the new tree
// does not match the new document, the mapped set is kept and a
// *StaleTreeError is returned.
func (e *DocumentEngine) Update(tr *Transaction) error {
	mapped := e.set.Map(tr.Changes)
	e.state = tr.State

	due := (e.opts.RecomputeOnDocChange && tr.DocChanged()) ||
		tr.SelectionChanged() ||
		tr.State.Tree != e.tree ||
		callForced(e.logger, e.rule, tr)
	if !due {
		e.set = mapped
		return nil
	}

	if err := checkTree(e.rule.ID(), tr.State); err != nil {
		e.set = mapped
		return err
	}
	e.recompute(tr.State)
	return nil
}

// Notify delivers a forced-recompute token. The engine recomputes when the
// rule asks for it.
func (e *DocumentEngine) Notify(token Token) error {
	return e.Update(signal(e.state, token))
}

func (e *DocumentEngine) recompute(state *State) {
	e.set = e.compute(state)
	e.tree = state.Tree
	e.recomputes++
}

func (e *DocumentEngine) compute(state *State) decoration.Set {
	cursorLine := state.LineAt(state.Selection.MainRange().Anchor).Number
	var ranges []decoration.Range

	Walk(state.Tree.Root, -1, -1, func(node *mdast.Node, tags TagCounts) {
		first := state.LineAt(node.From)
		last := state.LineAt(node.To)

		if e.rule.SuppressNearSelection() && e.nearSelection(first, last, state, cursorLine) {
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
			target = text.Range{From: first.From, To: last.To}
		}

		if r, reason := place(dec, target, state.Doc.Len()); reason != "" {
			logDropped(e.logger, e.rule, node, target, reason)
		} else {
			ranges = append(ranges, r)
		}
	})

	return decoration.NewSet(ranges...)
}

func (e *DocumentEngine) nearSelection(first, last text.Line, state *State, cursorLine int) bool {
	if state.Selection.Intersects(first.From, last.To) {
		return true
	}
	window := e.opts.SelectionWindow
	if window < 0 {
		return false
	}
	return abs(first.Number-cursorLine) <= window || abs(last.Number-cursorLine) <= window
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
