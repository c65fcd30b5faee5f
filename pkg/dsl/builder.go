package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/canopy/pkg/domain"
)

// ErrReparented is returned by Build when one builder was attached to two parents.
var ErrReparented = errors.New("node attached to more than one parent")

// ErrNilBuilder is returned by Build when a nil builder was passed as a child.
var ErrNilBuilder = errors.New("nil builder")

// Builder is implemented by *DecisionBuilder and *ChanceBuilder.
type Builder interface {
	// Node returns the domain node under construction.
	Node() domain.Node

	attach(parent string)
	errs() []error
	children() []Builder
}

type base struct {
	attached bool
	parent   string
	errList  []error
	kids     []Builder
}

func (b *base) attach(parent string) {
	if b.attached {
		b.errList = append(b.errList, fmt.Errorf("%w: already under %q, attached again under %q",
			ErrReparented, b.parent, parent))
		return
	}
	b.attached = true
	b.parent = parent
}

func (b *base) errs() []error { return b.errList }

func (b *base) children() []Builder { return b.kids }

// DecisionBuilder provides a fluent API for configuring a decision node.
type DecisionBuilder struct {
	base
	node *domain.DecisionNode
}

// Decision starts a decision node.
func Decision(name string) *DecisionBuilder {
	return &DecisionBuilder{node: domain.NewDecisionNode(name)}
}

// Branch appends strategies to the decision in the given order.
func (d *DecisionBuilder) Branch(branches ...*ChanceBuilder) *DecisionBuilder {
	for i, b := range branches {
		if b == nil {
			d.errList = append(d.errList, fmt.Errorf("%w: branch %d of %q", ErrNilBuilder, i, d.node.Name))
			continue
		}
		b.attach(d.node.Name)
		d.node.AddBranch(b.node)
		d.kids = append(d.kids, b)
	}
	return d
}

// Node returns the underlying decision node.
func (d *DecisionBuilder) Node() domain.Node { return d.node }

// Build returns the decision, or the construction errors found in its subtree.
func (d *DecisionBuilder) Build() (*domain.DecisionNode, error) {
	if err := collect(d); err != nil {
		return nil, err
	}
	return d.node, nil
}

// ChanceBuilder provides a fluent API for configuring a chance node.
type ChanceBuilder struct {
	base
	node *domain.ChanceNode
}

// Chance starts a chance node with probability 1 and zero cost and utility.
func Chance(name string) *ChanceBuilder {
	return &ChanceBuilder{node: domain.NewChanceNode(name, 1, 0, 0)}
}

// Probability sets the probability of reaching the node from its parent.
func (c *ChanceBuilder) Probability(p float64) *ChanceBuilder {
	c.node.Probability = p
	return c
}

// Cost sets the incremental cost of the node.
func (c *ChanceBuilder) Cost(v float64) *ChanceBuilder {
	c.node.Cost = v
	return c
}

// Utility sets the incremental utility of the node.
func (c *ChanceBuilder) Utility(v float64) *ChanceBuilder {
	c.node.Utility = v
	return c
}

// Then appends children (chance or decision) in the given order.
func (c *ChanceBuilder) Then(next ...Builder) *ChanceBuilder {
	for i, b := range next {
		if isNil(b) {
			c.errList = append(c.errList, fmt.Errorf("%w: child %d of %q", ErrNilBuilder, i, c.node.Name))
			continue
		}
		b.attach(c.node.Name)
		c.node.AddNextNode(b.Node())
		c.kids = append(c.kids, b)
	}
	return c
}

// Node returns the underlying chance node.
func (c *ChanceBuilder) Node() domain.Node { return c.node }

// Build returns the chance node, or the construction errors found in its subtree.
func (c *ChanceBuilder) Build() (*domain.ChanceNode, error) {
	if err := collect(c); err != nil {
		return nil, err
	}
	return c.node, nil
}

// isNil reports untyped nils and typed nil builders alike.
func isNil(b Builder) bool {
	switch v := b.(type) {
	case nil:
		return true
	case *ChanceBuilder:
		return v == nil
	case *DecisionBuilder:
		return v == nil
	}
	return false
}

func collect(root Builder) error {
	var all []error
	seen := make(map[Builder]bool)
	var walk func(b Builder)
	walk = func(b Builder) {
		if seen[b] {
			return
		}
		seen[b] = true
		all = append(all, b.errs()...)
		for _, k := range b.children() {
			walk(k)
		}
	}
	walk(root)
	return errors.Join(all...)
}
