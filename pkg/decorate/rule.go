// Package decorate keeps presentation decorations synchronized with a
// Markdown buffer, its syntax tree, the selection and the viewport.
//
// Two engines share one Rule contract. ViewportEngine recomputes inline
// decorations for the visible ranges on every change. DocumentEngine keeps
// one set for the whole document and maps it through edits, recomputing
// only when a trigger requires it.
package decorate

import (
	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// Rule is a pluggable decoration policy.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "checkbox").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns what the rule renders.
	Description() string

	// Decide returns the decoration for node, or false to leave its text
	// untouched. It must depend only on its arguments and rule-owned state.
	Decide(node *mdast.Node, state *State, tags TagCounts) (decoration.Decoration, bool)

	// SuppressNearSelection reports whether decorations are withheld while
	// the selection is on or near the node, so the raw markup can be edited.
	SuppressNearSelection() bool
}

// TargetRanger is implemented by rules that attach their decoration to a
// span other than the default. Returning false drops the decoration.
// An empty range places a point decoration.
type TargetRanger interface {
	TargetRange(node *mdast.Node, state *State) (text.Range, bool)
}

// RecomputeForcer is implemented by rules whose output depends on data
// outside the syntax tree. Returning true makes the engine discard its
// set and recompute.
type RecomputeForcer interface {
	ForceFullRecompute(tr *Transaction) bool
}

// BaseRule provides the descriptive part of the Rule interface.
// Embed this in rule implementations and override methods as needed.
type BaseRule struct {
	id       string
	name     string
	desc     string
	suppress bool
}

// NewBaseRule creates a BaseRule that suppresses decorations near the selection.
func NewBaseRule(id, name, desc string) BaseRule {
	return BaseRule{id: id, name: name, desc: desc, suppress: true}
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string {
	return r.id
}

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns what the rule renders.
func (r *BaseRule) Description() string {
	return r.desc
}

// SuppressNearSelection returns true unless changed with SetSuppressNearSelection.
func (r *BaseRule) SuppressNearSelection() bool {
	return r.suppress
}

// SetSuppressNearSelection changes whether decorations are withheld near the selection.
func (r *BaseRule) SetSuppressNearSelection(suppress bool) {
	r.suppress = suppress
}

// Decide must be overridden by concrete rule implementations.
// The default implementation decorates nothing.
func (r *BaseRule) Decide(_ *mdast.Node, _ *State, _ TagCounts) (decoration.Decoration, bool) {
	return decoration.Decoration{}, false
}
