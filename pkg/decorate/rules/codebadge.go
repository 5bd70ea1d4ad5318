package rules

import (
	"strings"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/langdetect"
	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// CodeBadgeID is the ID of the code language badge rule.
const CodeBadgeID = "code-badge"

// CodeBadgeClass is the mark class placed on the opening fence.
const CodeBadgeClass = "code-badge"

// CodeBadgeRule marks the opening fence of fenced code blocks with the
// language of their content.
type CodeBadgeRule struct {
	decorate.BaseRule

	labelDeclared bool
}

// NewCodeBadgeRule creates a new code-badge rule. By default only blocks
// without an info string are labeled; labelDeclared labels every fenced block.
func NewCodeBadgeRule(labelDeclared bool) *CodeBadgeRule {
	return &CodeBadgeRule{
		BaseRule: decorate.NewBaseRule(CodeBadgeID, "Code badges",
			"Label fenced code blocks with their detected language"),
		labelDeclared: labelDeclared,
	}
}

// Decide implements decorate.Rule.
func (r *CodeBadgeRule) Decide(node *mdast.Node, state *decorate.State, _ decorate.TagCounts) (decoration.Decoration, bool) {
	attrs := fencedCode(node)
	if attrs == nil || (attrs.Info != "" && !r.labelDeclared) {
		return decoration.Decoration{}, false
	}

	lang := langdetect.Resolve(attrs.Info, []byte(codeBody(node, state)))
	markAttrs := map[string]string{
		"data-language": lang.Tag,
		"data-label":    lang.Name,
	}
	if lang.Color != "" {
		markAttrs["data-color"] = lang.Color
	}
	return decoration.Mark(CodeBadgeClass, markAttrs), true
}

// TargetRange implements decorate.TargetRanger. The badge covers the
// opening fence line.
func (r *CodeBadgeRule) TargetRange(node *mdast.Node, state *decorate.State) (text.Range, bool) {
	line := state.LineAt(node.From)
	return text.Range{From: node.From, To: line.To}, true
}

func fencedCode(node *mdast.Node) *mdast.CodeBlockAttrs {
	if node.Kind != mdast.NodeCodeBlock || node.Block == nil ||
		node.Block.CodeBlock == nil || !node.Block.CodeBlock.Fenced {
		return nil
	}
	return node.Block.CodeBlock
}

// codeBody returns the lines between the fences. An unclosed block runs to
// its last line.
func codeBody(node *mdast.Node, state *decorate.State) string {
	first := state.LineAt(node.From)
	last := state.LineAt(node.To)
	if last.Number == first.Number {
		return ""
	}

	second, _ := state.Doc.Line(first.Number + 1)
	bodyFrom := second.From
	bodyTo := last.To
	if closing := strings.TrimSpace(state.Doc.LineText(last)); strings.HasPrefix(closing, "```") ||
		strings.HasPrefix(closing, "~~~") {
		bodyTo = last.From
	}
	if bodyTo < bodyFrom {
		return ""
	}
	return state.Slice(bodyFrom, bodyTo)
}
