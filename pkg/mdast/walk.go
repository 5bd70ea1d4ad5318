package mdast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// If walkFunc returns a non-nil error, the walk stops immediately and
// returns that error.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	for child := root.FirstChild; child != nil; child = child.Next {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// WalkContextFunc is the function signature for WalkWithContext callbacks.
type WalkContextFunc func(n *Node) error

// WalkWithContext performs a traversal with enter and leave callbacks.
// Enter is called before visiting children, leave is called after.
// Either callback may be nil.
func WalkWithContext(root *Node, enter, leave WalkContextFunc) error {
	return WalkRange(root, -1, -1, enter, leave)
}

// WalkRange is WalkWithContext restricted to nodes touching [from, to].
// Subtrees entirely outside the range are skipped, without enter or leave
// calls. A negative from disables the restriction.
func WalkRange(root *Node, from, to int, enter, leave WalkContextFunc) error {
	if root == nil {
		return nil
	}
	if from >= 0 && (root.To < from || root.From > to) {
		return nil
	}

	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}

	for child := root.FirstChild; child != nil; child = child.Next {
		if err := WalkRange(child, from, to, enter, leave); err != nil {
			return err
		}
	}

	if leave != nil {
		if err := leave(root); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == kind
	})
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
