package decorate

import "github.com/yaklabco/mdlive/pkg/mdast"

// TagCounts records, for each node kind, how many ancestors of that kind
// enclose the node being visited. The node itself is not counted.
// Rules use it to derive nesting depth without walking up the tree.
type TagCounts struct {
	counts [mdast.NodeKindCount]int
}

// Get returns the number of open ancestors of kind.
func (c TagCounts) Get(kind mdast.NodeKind) int {
	if int(kind) >= len(c.counts) {
		return 0
	}
	return c.counts[kind]
}

// VisitFunc is called for each node with the counts of its ancestors.
type VisitFunc func(node *mdast.Node, tags TagCounts)

// Walk visits the nodes of the tree touching [from, to] in document order,
// maintaining ancestor counts. A negative from walks the whole tree.
// The counts live for one walk only.
func Walk(root *mdast.Node, from, to int, visit VisitFunc) {
	var tags TagCounts

	//nolint:errcheck // callbacks never fail
	mdast.WalkRange(root, from, to,
		func(n *mdast.Node) error {
			visit(n, tags)
			if int(n.Kind) < len(tags.counts) {
				tags.counts[n.Kind]++
			}
			return nil
		},
		func(n *mdast.Node) error {
			if int(n.Kind) < len(tags.counts) {
				tags.counts[n.Kind]--
			}
			return nil
		},
	)
}
