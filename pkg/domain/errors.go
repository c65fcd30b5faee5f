package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTree is returned when a node lacks the shape the caller expects,
// e.g. a DecisionNode found where a probability-bearing node is required.
var ErrMalformedTree = errors.New("malformed tree")

// ErrCycleDetected is returned when a node is revisited on the current traversal path.
var ErrCycleDetected = errors.New("cycle detected")

// ErrEmptyDecision is returned when a decision has no branches to choose from.
var ErrEmptyDecision = errors.New("decision has no branches")

// MalformedTreeError describes where a tree broke its shape contract.
type MalformedTreeError struct {
	Node   string // offending node, empty when the child itself is nil
	Parent string
	Reason string
	// Err is the sentinel this error matches, ErrMalformedTree unless set.
	Err error
}

func (e *MalformedTreeError) Error() string {
	switch {
	case e.Node == "":
		return fmt.Sprintf("malformed tree under %q: %s", e.Parent, e.Reason)
	case e.Parent == "":
		return fmt.Sprintf("malformed tree at %q: %s", e.Node, e.Reason)
	}
	return fmt.Sprintf("malformed tree at %q (child of %q): %s", e.Node, e.Parent, e.Reason)
}

func (e *MalformedTreeError) Unwrap() []error {
	if e.Err != nil && e.Err != ErrMalformedTree {
		return []error{ErrMalformedTree, e.Err}
	}
	return []error{ErrMalformedTree}
}

// CycleError reports the traversal path that led back to an ancestor.
// The last element of Path is the revisited node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }
