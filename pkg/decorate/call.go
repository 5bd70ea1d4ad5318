package decorate

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// A panicking rule costs one node, never the traversal.

func callDecide(
	logger *log.Logger, rule Rule, node *mdast.Node, state *State, tags TagCounts,
) (dec decoration.Decoration, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("rule decide panicked", "rule", rule.ID(), "node", node.Kind, "from", node.From, "panic", r)
			dec, ok = decoration.Decoration{}, false
		}
	}()
	return rule.Decide(node, state, tags)
}

// callTarget returns the custom target of node. custom is false when the
// rule does not supply target ranges.
func callTarget(
	logger *log.Logger, rule Rule, node *mdast.Node, state *State,
) (target text.Range, custom, ok bool) {
	ranger, isRanger := rule.(TargetRanger)
	if !isRanger {
		return text.Range{}, false, true
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("rule target range panicked", "rule", rule.ID(), "node", node.Kind, "from", node.From, "panic", r)
			target, custom, ok = text.Range{}, true, false
		}
	}()
	target, ok = ranger.TargetRange(node, state)
	return target, true, ok
}

func callForced(logger *log.Logger, rule Rule, tr *Transaction) (forced bool) {
	forcer, isForcer := rule.(RecomputeForcer)
	if !isForcer {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("rule recompute predicate panicked", "rule", rule.ID(), "panic", r)
			forced = false
		}
	}()
	return forcer.ForceFullRecompute(tr)
}

// place validates a decision against the document and converts it to a set
// entry. The returned reason is empty when the decoration is kept.
func place(dec decoration.Decoration, target text.Range, docLen int) (decoration.Range, string) {
	switch {
	case target.To < target.From:
		return decoration.Range{}, "inverted range"
	case target.From < 0 || target.To > docLen:
		return decoration.Range{}, "out of bounds"
	}

	if dec.IsPoint() {
		target.To = target.From
	}
	if target.Empty() {
		switch dec.Kind() {
		case decoration.KindMark:
			return decoration.Range{}, "empty mark"
		case decoration.KindReplace:
			if dec.Widget() == nil {
				return decoration.Range{}, "empty hide"
			}
			dec = dec.AsPoint()
		}
	}
	return decoration.Range{From: target.From, To: target.To, Value: dec}, ""
}

func logDropped(logger *log.Logger, rule Rule, node *mdast.Node, target text.Range, reason string) {
	logger.Debug("decoration dropped",
		"rule", rule.ID(), "node", node.Kind, "from", target.From, "to", target.To, "reason", reason)
}
