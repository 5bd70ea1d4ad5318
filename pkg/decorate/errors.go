package decorate

import (
	"errors"
	"fmt"
)

// ErrStaleTree matches StaleTreeError with errors.Is.
var ErrStaleTree = errors.New("syntax tree does not match document")

// StaleTreeError is returned when an engine is asked to recompute from a tree
// that was not parsed from the current document version. The engine keeps
// its previous set, mapped through the changes, instead of recomputing.
type StaleTreeError struct {
	RuleID      string
	TreeVersion uint64
	DocVersion  uint64
	Missing     bool
}

func (e *StaleTreeError) Error() string {
	if e.Missing {
		return fmt.Sprintf("rule %s: no syntax tree for document version %d", e.RuleID, e.DocVersion)
	}
	return fmt.Sprintf("rule %s: syntax tree version %d does not match document version %d",
		e.RuleID, e.TreeVersion, e.DocVersion)
}

// Is reports whether target is ErrStaleTree.
func (e *StaleTreeError) Is(target error) bool {
	return target == ErrStaleTree
}

func checkTree(ruleID string, state *State) error {
	switch {
	case state.Tree == nil || state.Tree.Root == nil:
		return &StaleTreeError{RuleID: ruleID, DocVersion: state.Doc.Version(), Missing: true}
	case state.Tree.Version != state.Doc.Version():
		return &StaleTreeError{RuleID: ruleID, TreeVersion: state.Tree.Version, DocVersion: state.Doc.Version()}
	default:
		return nil
	}
}
