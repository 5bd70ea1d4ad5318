package mdast

// BlockAttrs holds attributes for block-level nodes.
type BlockAttrs struct {
	// HeadingLevel is the heading level (1-6) for NodeHeading.
	HeadingLevel int

	// List holds list-specific attributes for NodeList.
	List *ListAttrs

	// CodeBlock holds code block attributes for NodeCodeBlock.
	CodeBlock *CodeBlockAttrs
}

// ListAttrs holds attributes for list nodes.
type ListAttrs struct {
	// Ordered is true for ordered lists (1., 2., etc.).
	Ordered bool

	// Marker is the bullet character ("-", "+", "*") or ordered delimiter ("." or ")").
	Marker string

	// StartNumber is the starting number for ordered lists.
	StartNumber int

	// Tight is true if this is a tight list (no blank lines between items).
	Tight bool
}

// CodeBlockAttrs holds attributes for code block nodes.
type CodeBlockAttrs struct {
	// Info is the info string (language identifier, etc.).
	Info string

	// Fenced is false for indented code blocks.
	Fenced bool
}

// InlineAttrs holds attributes for inline-level nodes.
type InlineAttrs struct {
	// Link holds link attributes for NodeLink and NodeImage.
	Link *LinkAttrs

	// Checked is set on NodeTaskMarker when the box is ticked.
	Checked bool

	// Closing is set on NodeHTMLTag for closing tags like </sub>.
	Closing bool

	// SelfClosing is set on NodeHTMLTag for tags like <br/>.
	SelfClosing bool

	// TagName is the lower-cased element name for NodeHTMLTag.
	TagName string
}

// LinkAttrs holds attributes for link and image nodes.
type LinkAttrs struct {
	// Destination is the link URL.
	Destination string

	// Title is the optional link title.
	Title string
}
