// Package mdast provides the positioned Markdown syntax tree consumed by the
// decoration engines. Trees are built once per document version and are
// read-only afterwards.
package mdast

// NodeKind classifies the type of a syntax node.
type NodeKind uint16

// Node kinds for block-level and inline-level Markdown elements.
const (
	NodeDocument NodeKind = iota

	// Block-level nodes.
	NodeParagraph
	NodeHeading
	NodeList
	NodeListItem
	NodeTask
	NodeBlockquote
	NodeCodeBlock
	NodeThematicBreak
	NodeHTMLBlock
	NodeTable
	NodeTableRow
	NodeTableCell

	// Inline-level nodes.
	NodeListMark
	NodeTaskMarker
	NodeText
	NodeEmphasis
	NodeStrong
	NodeStrikethrough
	NodeCodeSpan
	NodeLink
	NodeImage
	NodeHardBreak
	NodeHTMLTag

	// Fallback for unrecognized content.
	NodeRaw

	nodeKindCount
)

//nolint:gochecknoglobals // Lookup table for NodeKind names
var nodeKindNames = [...]string{
	NodeDocument:      "Document",
	NodeParagraph:     "Paragraph",
	NodeHeading:       "Heading",
	NodeList:          "List",
	NodeListItem:      "ListItem",
	NodeTask:          "Task",
	NodeBlockquote:    "Blockquote",
	NodeCodeBlock:     "CodeBlock",
	NodeThematicBreak: "ThematicBreak",
	NodeHTMLBlock:     "HTMLBlock",
	NodeTable:         "Table",
	NodeTableRow:      "TableRow",
	NodeTableCell:     "TableCell",
	NodeListMark:      "ListMark",
	NodeTaskMarker:    "TaskMarker",
	NodeText:          "Text",
	NodeEmphasis:      "Emphasis",
	NodeStrong:        "Strong",
	NodeStrikethrough: "Strikethrough",
	NodeCodeSpan:      "CodeSpan",
	NodeLink:          "Link",
	NodeImage:         "Image",
	NodeHardBreak:     "HardBreak",
	NodeHTMLTag:       "HTMLTag",
	NodeRaw:           "Raw",
}

// String returns the node type name, e.g. "Image" or "TaskMarker".
func (k NodeKind) String() string {
	if k < nodeKindCount {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// NodeKindCount is the number of defined node kinds.
// Valid kinds are in [0, NodeKindCount).
const NodeKindCount = int(nodeKindCount)

// ParseNodeKind returns the kind with the given name.
func ParseNodeKind(name string) (NodeKind, bool) {
	for kind, kindName := range nodeKindNames {
		if kindName == name {
			return NodeKind(kind), true
		}
	}
	return 0, false
}

// Node represents a single node in the syntax tree.
// Nodes form a tree structure with parent/child/sibling relationships.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// From and To are the half-open byte span [From, To) of the node
	// in the document the tree was parsed from.
	From int
	To   int

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Block holds attributes for block-level nodes.
	Block *BlockAttrs

	// Inline holds attributes for inline-level nodes.
	Inline *InlineAttrs
}

// IsBlock returns true if this is a block-level node.
func (n *Node) IsBlock() bool {
	return n.Kind < NodeListMark
}

// IsInline returns true if this is an inline-level node.
func (n *Node) IsInline() bool {
	return n.Kind >= NodeListMark && n.Kind < NodeRaw
}

// Len returns the length of the node span.
func (n *Node) Len() int {
	return n.To - n.From
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// ChildOfKind returns the first direct child of the given kind, or nil.
func (n *Node) ChildOfKind(kind NodeKind) *Node {
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

// Ancestor returns the nearest ancestor of the given kind, or nil.
func (n *Node) Ancestor(kind NodeKind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// Tree is an immutable syntax tree keyed to a document version.
type Tree struct {
	// Content is the document text the tree was parsed from.
	Content string

	// Root is the NodeDocument root.
	Root *Node

	// Version is the document version the tree corresponds to.
	Version uint64
}

// Text returns the source text covered by n.
func (t *Tree) Text(n *Node) string {
	if n == nil || n.From < 0 || n.To > len(t.Content) || n.From > n.To {
		return ""
	}
	return t.Content[n.From:n.To]
}
