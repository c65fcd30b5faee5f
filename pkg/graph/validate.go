package graph

import (
	"errors"
	"fmt"

	"github.com/aretw0/canopy/pkg/domain"
)

// ErrSharedNode is reported when one node object appears under two parents.
var ErrSharedNode = errors.New("node shared between parents")

// AggregateError collects every structural problem found in a tree.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d structural errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error { return e.Errors }

// Validate crawls the tree and reports nil children, empty decisions,
// cycles and nodes attached to more than one parent.
// It returns nil or an *AggregateError.
func Validate(root domain.Node) error {
	v := &validator{
		onPath: make(map[domain.Node]struct{}),
		owner:  make(map[domain.Node]string),
	}
	v.visit(root, "")
	if len(v.errs) > 0 {
		return &AggregateError{Errors: v.errs}
	}
	return nil
}

type validator struct {
	onPath map[domain.Node]struct{}
	owner  map[domain.Node]string
	path   []string
	errs   []error
}

func (v *validator) visit(n domain.Node, parent string) {
	if isNil(n) {
		v.errs = append(v.errs, &domain.MalformedTreeError{Parent: parent, Reason: "nil child node"})
		return
	}

	v.path = append(v.path, n.Label())
	defer func() { v.path = v.path[:len(v.path)-1] }()

	if _, seen := v.onPath[n]; seen {
		v.errs = append(v.errs, &domain.CycleError{Path: append([]string(nil), v.path...)})
		return
	}
	if first, seen := v.owner[n]; seen {
		// Already crawled below its first parent.
		v.errs = append(v.errs, fmt.Errorf("%w: %q under %q and %q", ErrSharedNode, n.Label(), first, parent))
		return
	}
	v.owner[n] = parent
	v.onPath[n] = struct{}{}
	defer delete(v.onPath, n)

	if d, ok := n.(*domain.DecisionNode); ok && len(d.Branches) == 0 {
		v.errs = append(v.errs, &domain.MalformedTreeError{
			Node:   d.Name,
			Parent: parent,
			Reason: "no branches to choose from",
			Err:    domain.ErrEmptyDecision,
		})
	}

	for _, child := range n.Children() {
		v.visit(child, n.Label())
	}
}
