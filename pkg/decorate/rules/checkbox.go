package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// CheckboxID is the ID of the checkbox rule.
const CheckboxID = "checkbox"

// CompletedItemClass is the line class of tasks whose box is ticked.
const CompletedItemClass = "completed-item"

// CheckboxWidget renders a task marker as a checkbox.
type CheckboxWidget struct {
	Checked bool

	// Depth is the number of list items enclosing the marker.
	Depth int

	// Label is the task text, used as the accessible name.
	Label string

	// Markup is the marker source, e.g. "[ ]", used for sizing.
	Markup string
}

// Eq implements decoration.Widget.
func (w CheckboxWidget) Eq(other decoration.Widget) bool {
	o, ok := other.(CheckboxWidget)
	return ok && o == w
}

// Block implements decoration.Widget.
func (w CheckboxWidget) Block() bool { return false }

func (w CheckboxWidget) String() string {
	box := "[ ]"
	if w.Checked {
		box = "[x]"
	}
	return fmt.Sprintf("checkbox(%s depth=%d %q)", box, w.Depth, w.Label)
}

// CheckboxRule replaces task markers with checkbox widgets and marks the
// lines of completed tasks.
type CheckboxRule struct {
	decorate.BaseRule
}

// NewCheckboxRule creates a new checkbox rule.
func NewCheckboxRule() *CheckboxRule {
	return &CheckboxRule{
		BaseRule: decorate.NewBaseRule(CheckboxID, "Checkboxes", "Render task markers as checkboxes"),
	}
}

// Decide implements decorate.Rule.
func (r *CheckboxRule) Decide(node *mdast.Node, state *decorate.State, tags decorate.TagCounts) (decoration.Decoration, bool) {
	switch node.Kind {
	case mdast.NodeTaskMarker:
		markup := state.Text(node)
		line := state.LineAt(node.From)
		return decoration.Replace(CheckboxWidget{
			Checked: markerChecked(markup),
			Depth:   tags.Get(mdast.NodeListItem),
			Label:   state.Slice(node.To, line.To),
			Markup:  markup,
		}), true

	case mdast.NodeTask:
		marker := node.ChildOfKind(mdast.NodeTaskMarker)
		if marker != nil && markerChecked(state.Text(marker)) {
			return decoration.Line(CompletedItemClass, nil), true
		}
	}
	return decoration.Decoration{}, false
}

// TargetRange implements decorate.TargetRanger. Markers outside a list item
// with a list mark are left alone.
func (r *CheckboxRule) TargetRange(node *mdast.Node, state *decorate.State) (text.Range, bool) {
	switch node.Kind {
	case mdast.NodeTaskMarker:
		if node.Parent == nil || node.Parent.Parent == nil ||
			node.Parent.Parent.ChildOfKind(mdast.NodeListMark) == nil {
			return text.Range{}, false
		}
		return text.Range{From: node.From, To: node.To}, true

	case mdast.NodeTask:
		start := state.LineAt(node.From).From
		return text.Range{From: start, To: start}, true

	default:
		return text.Range{From: node.From, To: node.To}, true
	}
}

func markerChecked(markup string) bool {
	return strings.ContainsAny(markup, "xX")
}

// ToggleCheckboxAt returns the edit that ticks or clears the task marker on
// the line containing pos. It reports false when that line has no marker.
func ToggleCheckboxAt(state *decorate.State, pos int) (text.Edit, bool) {
	if state.Tree == nil || state.Tree.Root == nil {
		return text.Edit{}, false
	}
	line := state.LineAt(pos)

	marker := mdast.FindFirst(state.Tree.Root, func(n *mdast.Node) bool {
		return n.Kind == mdast.NodeTaskMarker && n.From >= line.From && n.From <= line.To
	})
	if marker == nil {
		return text.Edit{}, false
	}

	replacement := "[x]"
	if markerChecked(state.Text(marker)) {
		replacement = "[ ]"
	}
	return text.Replace(marker.From, marker.To, replacement), true
}
