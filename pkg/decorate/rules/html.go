package rules

import (
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decoration"
	"github.com/yaklabco/mdlive/pkg/mdast"
	"github.com/yaklabco/mdlive/pkg/text"
)

// Rule IDs of the inline HTML rules.
const (
	HTMLTagsID    = "html-tags"
	HTMLContentID = "html-content"
)

// inlineHTMLTags are the elements the inline HTML rules render.
var inlineHTMLTags = []string{"sub", "sup", "strike", "span"}

var (
	styleAttrPattern = regexp.MustCompile(`(?i)\bstyle\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>]+))`)
	colorPattern     = regexp.MustCompile(`color:\s*(#?[a-z0-9A-Z]+|rgba?\([0-9, ]+\))(;|$)`)
)

func isRenderedTag(node *mdast.Node) bool {
	return node.Kind == mdast.NodeHTMLTag && node.Inline != nil &&
		slices.Contains(inlineHTMLTags, node.Inline.TagName)
}

func isOpeningTag(node *mdast.Node, name string) bool {
	return node.Kind == mdast.NodeHTMLTag && node.Inline != nil &&
		node.Inline.TagName == name && !node.Inline.Closing
}

func isClosingTag(node *mdast.Node, name string) bool {
	return node.Kind == mdast.NodeHTMLTag && node.Inline != nil &&
		node.Inline.TagName == name && node.Inline.Closing
}

// closingTag finds the tag closing open among its following siblings,
// counting nested tags of the same name.
func closingTag(open *mdast.Node) *mdast.Node {
	name := open.Inline.TagName
	depth := 1
	for sib := open.Next; sib != nil; sib = sib.Next {
		switch {
		case isOpeningTag(sib, name) && !sib.Inline.SelfClosing:
			depth++
		case isClosingTag(sib, name):
			depth--
		}
		if depth == 0 {
			return sib
		}
	}
	return nil
}

// contentRange returns the text between an opening tag and its closing tag.
func contentRange(open *mdast.Node) (text.Range, bool) {
	if open.Inline == nil || open.Inline.SelfClosing {
		return text.Range{}, false
	}
	closer := closingTag(open)
	if closer == nil {
		return text.Range{}, false
	}
	return text.Range{From: open.To, To: closer.From}, true
}

// styleAttr returns the value of the style attribute of a tag.
func styleAttr(tag string) (string, bool) {
	m := styleAttrPattern.FindStringSubmatch(tag)
	if m == nil {
		return "", false
	}
	for _, v := range m[1:] {
		if v != "" {
			return v, true
		}
	}
	return "", true
}

// HTMLTagsRule hides the opening and closing tags of inline HTML elements.
type HTMLTagsRule struct {
	decorate.BaseRule
}

// NewHTMLTagsRule creates a new html-tags rule.
func NewHTMLTagsRule() *HTMLTagsRule {
	return &HTMLTagsRule{
		BaseRule: decorate.NewBaseRule(HTMLTagsID, "Inline HTML tags", "Hide sub, sup, strike and span tags"),
	}
}

// Decide implements decorate.Rule.
func (r *HTMLTagsRule) Decide(node *mdast.Node, _ *decorate.State, _ decorate.TagCounts) (decoration.Decoration, bool) {
	if !isRenderedTag(node) {
		return decoration.Decoration{}, false
	}
	return decoration.Hide(), true
}

// HTMLContentRule styles the text between matching inline HTML tags.
type HTMLContentRule struct {
	decorate.BaseRule
}

// NewHTMLContentRule creates a new html-content rule.
func NewHTMLContentRule() *HTMLContentRule {
	return &HTMLContentRule{
		BaseRule: decorate.NewBaseRule(HTMLContentID, "Inline HTML content",
			"Style the content of sub, sup, strike and span tags"),
	}
}

// Decide implements decorate.Rule. Span content keeps only its color.
func (r *HTMLContentRule) Decide(node *mdast.Node, state *decorate.State, _ decorate.TagCounts) (decoration.Decoration, bool) {
	if !isRenderedTag(node) || node.Inline.Closing {
		return decoration.Decoration{}, false
	}

	name := node.Inline.TagName
	attrs := map[string]string{"tag": name}
	if name == "span" {
		style, _ := styleAttr(state.Text(node))
		if m := colorPattern.FindStringSubmatch(style); m != nil {
			attrs["style"] = "color: " + m[1] + ";"
		}
	}
	return decoration.Mark("", attrs), true
}

// TargetRange implements decorate.TargetRanger.
func (r *HTMLContentRule) TargetRange(node *mdast.Node, _ *decorate.State) (text.Range, bool) {
	return contentRange(node)
}

// StyledSpansID is the ID of the styled span rule.
const StyledSpansID = "styled-spans"

// StyledSpansRule applies the color and background color of <span> elements
// to their content. It stays active while the cursor is on the line.
type StyledSpansRule struct {
	decorate.BaseRule
}

// NewStyledSpansRule creates a new styled-spans rule.
func NewStyledSpansRule() *StyledSpansRule {
	rule := &StyledSpansRule{
		BaseRule: decorate.NewBaseRule(StyledSpansID, "Styled spans", "Apply span colors, also next to the cursor"),
	}
	rule.SetSuppressNearSelection(false)
	return rule
}

// Decide implements decorate.Rule.
func (r *StyledSpansRule) Decide(node *mdast.Node, state *decorate.State, _ decorate.TagCounts) (decoration.Decoration, bool) {
	if !isOpeningTag(node, "span") {
		return decoration.Decoration{}, false
	}
	style, ok := styleAttr(state.Text(node))
	if !ok {
		return decoration.Decoration{}, false
	}

	css := keepDeclarations(style, "color", "background-color")
	if css == "" {
		return decoration.Decoration{}, false
	}
	return decoration.Mark("", map[string]string{"style": css}), true
}

// TargetRange implements decorate.TargetRanger.
func (r *StyledSpansRule) TargetRange(node *mdast.Node, _ *decorate.State) (text.Range, bool) {
	return contentRange(node)
}

// keepDeclarations filters a CSS declaration list to the given properties,
// in the order given, serialized as "prop: value;" pairs.
func keepDeclarations(style string, props ...string) string {
	values := make(map[string]string, len(props))
	for decl := range strings.SplitSeq(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if value = strings.TrimSpace(value); value != "" {
			values[prop] = value
		}
	}

	var parts []string
	for _, prop := range props {
		if v, ok := values[prop]; ok {
			parts = append(parts, prop+": "+v+";")
		}
	}
	return strings.Join(parts, " ")
}
