package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yaklabco/mdlive/pkg/mdast"
)

// mapper converts a goldmark AST into a positioned mdast.Node tree.
//
// goldmark records source segments for leaf blocks and text only, so
// container and delimiter spans are recovered by scanning the content from
// a cursor that follows document order.
type mapper struct {
	content []byte
}

// newMapper creates a new mapper for the given content.
func newMapper(content []byte) *mapper {
	return &mapper{content: content}
}

// mapDocument converts a goldmark document node to an mdast.Node tree.
func (m *mapper) mapDocument(gmDoc ast.Node) *mdast.Node {
	doc := mdast.NewDocument(len(m.content))
	m.mapBlockChildren(gmDoc, doc, 0)
	fixSpans(doc)
	doc.From, doc.To = 0, len(m.content)
	return doc
}

// mapBlockChildren maps the block children of gmParent into parent, searching
// for each child from cursor onwards. Returns the end of the last child.
func (m *mapper) mapBlockChildren(gmParent ast.Node, parent *mdast.Node, cursor int) int {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Type() != ast.TypeBlock {
			continue
		}
		node := m.mapBlock(child, cursor)
		if node == nil {
			continue
		}
		mdast.AppendChild(parent, node)
		cursor = max(cursor, node.To)
	}
	return cursor
}

// mapBlock converts a single goldmark block node.
func (m *mapper) mapBlock(gmNode ast.Node, cursor int) *mdast.Node {
	switch gmn := gmNode.(type) {
	case *ast.Heading:
		return m.mapHeading(gmn, cursor)

	case *ast.Paragraph, *ast.TextBlock:
		return m.mapParagraph(gmNode, cursor)

	case *ast.List:
		return m.mapList(gmn, cursor)

	case *ast.ListItem:
		return m.mapListItem(gmn, cursor)

	case *ast.Blockquote:
		from := m.skipBlank(cursor, false)
		inner := min(from+1, len(m.content))
		node := mdast.NewNode(mdast.NodeBlockquote, from, inner)
		node.To = max(m.mapBlockChildren(gmn, node, inner), inner)
		return node

	case *ast.FencedCodeBlock:
		return m.mapFencedCodeBlock(gmn, cursor)

	case *ast.CodeBlock:
		from, to, ok := m.lineSpan(gmn)
		if !ok {
			from = m.skipBlank(cursor, true)
			to = from
		}
		node := mdast.NewNode(mdast.NodeCodeBlock, from, to)
		node.Block = &mdast.BlockAttrs{CodeBlock: &mdast.CodeBlockAttrs{}}
		return node

	case *ast.ThematicBreak:
		from := m.skipBlank(cursor, true)
		return mdast.NewNode(mdast.NodeThematicBreak, from, m.trimRight(m.lineEnd(from), from))

	case *ast.HTMLBlock:
		return m.mapHTMLBlock(gmn, cursor)

	case *east.Table:
		return m.mapTable(gmn, cursor)

	default:
		from := m.skipBlank(cursor, true)
		node := mdast.NewNode(mdast.NodeRaw, from, from)
		node.To = max(m.mapBlockChildren(gmNode, node, from), from)
		return node
	}
}

// lineSpan returns the span of the source lines goldmark recorded for a leaf
// block, without trailing whitespace.
func (m *mapper) lineSpan(gmNode ast.Node) (int, int, bool) {
	lines := gmNode.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0, 0, false
	}
	from := lines.At(0).Start
	return from, m.trimRight(lines.At(lines.Len()-1).Stop, from), true
}

// mapHeading converts ATX and setext headings. ATX spans start at the
// opening '#'; setext spans include the underline.
func (m *mapper) mapHeading(heading *ast.Heading, cursor int) *mdast.Node {
	textFrom, textTo, ok := m.lineSpan(heading)

	from := m.skipBlank(cursor, true)
	if ok {
		from = m.skipIndent(m.lineStart(textFrom))
	}

	var to int
	switch {
	case m.at(from) == '#':
		to = m.lineEnd(from)
	case ok:
		to = m.lineEnd(m.nextLineStart(textTo))
	default:
		to = m.lineEnd(from)
	}

	node := mdast.NewNode(mdast.NodeHeading, from, m.trimRight(to, from))
	node.Block = &mdast.BlockAttrs{HeadingLevel: heading.Level}
	m.mapInlineChildren(heading, node, from)
	return node
}

// mapParagraph converts a paragraph or tight-list text block. A paragraph
// opening with a task checkbox becomes a NodeTask.
func (m *mapper) mapParagraph(gmNode ast.Node, cursor int) *mdast.Node {
	from, to, ok := m.lineSpan(gmNode)
	if !ok {
		from = m.skipBlank(cursor, true)
		to = from
	}

	kind := mdast.NodeParagraph
	if _, isTask := gmNode.FirstChild().(*east.TaskCheckBox); isTask {
		kind = mdast.NodeTask
	}

	node := mdast.NewNode(kind, from, to)
	m.mapInlineChildren(gmNode, node, from)
	return node
}

// mapList converts a goldmark List to an mdast node.
func (m *mapper) mapList(list *ast.List, cursor int) *mdast.Node {
	from := m.skipBlank(cursor, true)
	node := mdast.NewNode(mdast.NodeList, from, from)
	node.Block = &mdast.BlockAttrs{List: &mdast.ListAttrs{
		Ordered:     list.IsOrdered(),
		Marker:      string(list.Marker),
		StartNumber: list.Start,
		Tight:       list.IsTight,
	}}
	node.To = max(m.mapBlockChildren(list, node, from), from)
	return node
}

// mapListItem converts a list item. The item starts at its marker, which is
// exposed as a leading NodeListMark child.
func (m *mapper) mapListItem(item *ast.ListItem, cursor int) *mdast.Node {
	from := m.skipBlank(cursor, true)
	markEnd := m.listMarkerEnd(from)

	node := mdast.NewNode(mdast.NodeListItem, from, markEnd)
	mdast.AppendChild(node, mdast.NewNode(mdast.NodeListMark, from, markEnd))
	node.To = max(m.mapBlockChildren(item, node, markEnd), markEnd)
	return node
}

// mapFencedCodeBlock converts a fenced code block including both fences.
// An unclosed fence ends with its last content line.
func (m *mapper) mapFencedCodeBlock(codeBlock *ast.FencedCodeBlock, cursor int) *mdast.Node {
	from := m.skipBlank(cursor, true)
	contentFrom, contentTo, hasContent := m.lineSpan(codeBlock)
	if hasContent && contentFrom > 0 {
		from = m.skipIndent(m.lineStart(m.lineStart(contentFrom) - 1))
	}

	fenceChar := m.at(from)
	fenceLen := m.runLen(from, fenceChar)

	to := m.lineEnd(from)
	if hasContent {
		to = m.lineEnd(contentTo)
	}
	if next := m.nextLineStart(to); next > to {
		closeAt := m.skipIndent(next)
		closeEnd := m.lineEnd(next)
		if run := m.runLen(closeAt, fenceChar); fenceLen > 0 && run >= fenceLen &&
			strings.TrimSpace(string(m.content[closeAt+run:closeEnd])) == "" {
			to = closeEnd
		}
	}

	info := ""
	if codeBlock.Info != nil {
		info = string(codeBlock.Info.Value(m.content))
	}

	node := mdast.NewNode(mdast.NodeCodeBlock, from, m.trimRight(to, from))
	node.Block = &mdast.BlockAttrs{CodeBlock: &mdast.CodeBlockAttrs{Info: info, Fenced: true}}
	return node
}

// mapHTMLBlock converts an HTML block, including its closure line if any.
func (m *mapper) mapHTMLBlock(block *ast.HTMLBlock, cursor int) *mdast.Node {
	from, to, ok := m.lineSpan(block)
	if !ok {
		from = m.skipBlank(cursor, true)
		to = m.lineEnd(from)
	}
	if block.HasClosure() {
		to = max(to, m.trimRight(block.ClosureLine.Stop, from))
	}
	return mdast.NewNode(mdast.NodeHTMLBlock, from, to)
}

// mapTable converts a GFM table. Rows are located line by line; the
// delimiter row after the header has no node of its own.
func (m *mapper) mapTable(table *east.Table, cursor int) *mdast.Node {
	from := m.skipBlank(cursor, true)
	node := mdast.NewNode(mdast.NodeTable, from, from)

	rowStart := from
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		rowStart = m.skipIndent(rowStart)
		row := mdast.NewNode(mdast.NodeTableRow, rowStart, m.trimRight(m.lineEnd(rowStart), rowStart))
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cellNode := mdast.NewNode(mdast.NodeTableCell, row.From, row.From)
			end := m.mapInlineChildren(cell, cellNode, row.From)
			if cellNode.FirstChild != nil {
				cellNode.From = cellNode.FirstChild.From
				cellNode.To = end
			}
			mdast.AppendChild(row, cellNode)
		}
		mdast.AppendChild(node, row)
		node.To = row.To

		rowStart = m.nextLineStart(row.To)
		if _, isHeader := child.(*east.TableHeader); isHeader {
			rowStart = m.nextLineStart(rowStart)
		}
	}
	return node
}

// mapInlineChildren maps the inline children of gmParent into parent.
// hint is where scanning starts for children whose position goldmark does
// not record. Returns the end of the last child.
func (m *mapper) mapInlineChildren(gmParent ast.Node, parent *mdast.Node, hint int) int {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		for _, node := range m.mapInline(child, hint) {
			mdast.AppendChild(parent, node)
			hint = max(hint, node.To)
		}
	}
	return hint
}

// mapInline converts a single goldmark inline node. Text with a hard line
// break yields a trailing NodeHardBreak.
func (m *mapper) mapInline(gmNode ast.Node, hint int) []*mdast.Node {
	switch gmn := gmNode.(type) {
	case *ast.Text:
		node := mdast.NewNode(mdast.NodeText, gmn.Segment.Start, gmn.Segment.Stop)
		if gmn.HardLineBreak() {
			brk := mdast.NewNode(mdast.NodeHardBreak, node.To, m.lineEnd(node.To))
			return []*mdast.Node{node, brk}
		}
		return []*mdast.Node{node}

	case *ast.String:
		return nil

	case *ast.Emphasis:
		kind := mdast.NodeEmphasis
		if gmn.Level >= 2 {
			kind = mdast.NodeStrong
		}
		node := m.wrapInline(kind, gmn, hint)
		if node.FirstChild != nil {
			node.From = max(node.From-gmn.Level, 0)
			node.To = min(node.To+gmn.Level, len(m.content))
		}
		return []*mdast.Node{node}

	case *east.Strikethrough:
		node := m.wrapInline(mdast.NodeStrikethrough, gmn, hint)
		node.From -= min(m.runLenBefore(node.From, '~'), 2)
		node.To += min(m.runLen(node.To, '~'), 2)
		return []*mdast.Node{node}

	case *ast.CodeSpan:
		return []*mdast.Node{m.mapCodeSpan(gmn, hint)}

	case *ast.Link:
		node := m.mapLinkLike(mdast.NodeLink, gmn, hint, "[")
		node.Inline = &mdast.InlineAttrs{Link: &mdast.LinkAttrs{
			Destination: string(gmn.Destination),
			Title:       string(gmn.Title),
		}}
		return []*mdast.Node{node}

	case *ast.Image:
		node := m.mapLinkLike(mdast.NodeImage, gmn, hint, "![")
		node.Inline = &mdast.InlineAttrs{Link: &mdast.LinkAttrs{
			Destination: string(gmn.Destination),
			Title:       string(gmn.Title),
		}}
		return []*mdast.Node{node}

	case *ast.AutoLink:
		return []*mdast.Node{m.mapAutoLink(gmn, hint)}

	case *ast.RawHTML:
		return []*mdast.Node{m.mapRawHTML(gmn, hint)}

	case *east.TaskCheckBox:
		from := m.indexFrom(hint, '[')
		if from < 0 {
			from = hint
		}
		node := mdast.NewNode(mdast.NodeTaskMarker, from, min(from+3, len(m.content)))
		node.Inline = &mdast.InlineAttrs{Checked: gmn.IsChecked}
		return []*mdast.Node{node}

	default:
		return []*mdast.Node{m.wrapInline(mdast.NodeRaw, gmNode, hint)}
	}
}

// wrapInline maps the children of gmNode under a new node spanning them.
// A childless node is placed empty at hint.
func (m *mapper) wrapInline(kind mdast.NodeKind, gmNode ast.Node, hint int) *mdast.Node {
	node := mdast.NewNode(kind, hint, hint)
	end := m.mapInlineChildren(gmNode, node, hint)
	if node.FirstChild != nil {
		node.From = node.FirstChild.From
		node.To = end
	}
	return node
}

// mapCodeSpan converts a code span including its backtick fences and the
// single padding space goldmark strips.
func (m *mapper) mapCodeSpan(codeSpan *ast.CodeSpan, hint int) *mdast.Node {
	node := m.wrapInline(mdast.NodeCodeSpan, codeSpan, hint)
	if node.FirstChild == nil {
		from := m.indexFrom(hint, '`')
		if from < 0 {
			return node
		}
		run := m.runLen(from, '`')
		node.From = from
		node.To = from + run
		if closer := bytes.Index(m.content[node.To:], bytes.Repeat([]byte{'`'}, run)); closer >= 0 {
			node.To += closer + run
		}
		return node
	}

	from := node.From
	if m.runLenBefore(from, '`') == 0 && m.at(from-1) == ' ' {
		from--
	}
	node.From = from - m.runLenBefore(from, '`')

	to := node.To
	if m.runLen(to, '`') == 0 && m.at(to) == ' ' {
		to++
	}
	node.To = to + m.runLen(to, '`')
	return node
}

// mapLinkLike converts links and images. The span runs from the opening
// bracket through the destination or reference label.
func (m *mapper) mapLinkLike(kind mdast.NodeKind, gmNode ast.Node, hint int, opener string) *mdast.Node {
	node := m.wrapInline(kind, gmNode, hint)
	textEnd := node.To
	if node.FirstChild != nil {
		node.From = max(node.From-len(opener), 0)
	} else if idx := bytes.Index(m.content[min(hint, len(m.content)):], []byte(opener)); idx >= 0 {
		node.From = hint + idx
		textEnd = node.From + len(opener)
	}
	node.To = max(m.linkEnd(textEnd), textEnd)
	return node
}

// mapAutoLink converts an autolink. Angle-bracketed forms include the brackets.
func (m *mapper) mapAutoLink(link *ast.AutoLink, hint int) *mdast.Node {
	label := link.Label(m.content)
	node := mdast.NewNode(mdast.NodeLink, hint, hint)
	node.Inline = &mdast.InlineAttrs{Link: &mdast.LinkAttrs{Destination: string(link.URL(m.content))}}

	idx := bytes.Index(m.content[min(hint, len(m.content)):], label)
	if idx < 0 || len(label) == 0 {
		return node
	}
	from := hint + idx
	to := from + len(label)
	mdast.AppendChild(node, mdast.NewNode(mdast.NodeText, from, to))

	if m.at(from-1) == '<' && m.at(to) == '>' {
		from--
		to++
	}
	node.From, node.To = from, to
	return node
}

// mapRawHTML converts an inline HTML tag and records its element name.
func (m *mapper) mapRawHTML(raw *ast.RawHTML, hint int) *mdast.Node {
	from, to := -1, -1
	for i := range raw.Segments.Len() {
		seg := raw.Segments.At(i)
		if from == -1 || seg.Start < from {
			from = seg.Start
		}
		if seg.Stop > to {
			to = seg.Stop
		}
	}
	if from < 0 {
		from, to = hint, hint
	}

	node := mdast.NewNode(mdast.NodeHTMLTag, from, to)
	node.Inline = parseTag(m.content[from:to])
	return node
}

// parseTag extracts the element name and closing flag from an HTML tag.
func parseTag(tag []byte) *mdast.InlineAttrs {
	attrs := &mdast.InlineAttrs{}
	if len(tag) < 2 || tag[0] != '<' {
		return attrs
	}
	rest := tag[1:]
	if len(rest) > 0 && rest[0] == '/' {
		attrs.Closing = true
		rest = rest[1:]
	}
	end := 0
	for end < len(rest) && isTagNameByte(rest[end]) {
		end++
	}
	attrs.TagName = strings.ToLower(string(rest[:end]))
	attrs.SelfClosing = !attrs.Closing && bytes.HasSuffix(tag, []byte("/>"))
	return attrs
}

func isTagNameByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-'
}

// fixSpans widens every node to cover its children, so that a parent span
// always contains its descendants.
func fixSpans(node *mdast.Node) {
	for child := node.FirstChild; child != nil; child = child.Next {
		fixSpans(child)
		node.From = min(node.From, child.From)
		node.To = max(node.To, child.To)
	}
	if node.To < node.From {
		node.To = node.From
	}
}
