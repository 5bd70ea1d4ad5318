package mdast

// NewNode creates a detached node of the given kind spanning [from, to).
func NewNode(kind NodeKind, from, to int) *Node {
	return &Node{Kind: kind, From: from, To: to}
}

// NewDocument creates a document root spanning [0, length).
func NewDocument(length int) *Node {
	return NewNode(NodeDocument, 0, length)
}

// AppendChild appends a child node to a parent.
// It maintains the parent/child/sibling relationships correctly.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}

	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}

	parent.LastChild = child
}

// PrependChild prepends a child node to a parent.
func PrependChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}

	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = nil
	child.Next = parent.FirstChild

	if parent.FirstChild != nil {
		parent.FirstChild.Prev = child
	} else {
		parent.LastChild = child
	}

	parent.FirstChild = child
}

// RemoveChild removes a child from its parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}

	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
}

// Build is a shorthand for constructing trees in tests and tools:
// it appends children to parent in order and returns parent.
func Build(parent *Node, children ...*Node) *Node {
	for _, child := range children {
		AppendChild(parent, child)
	}
	return parent
}
