package graph

import (
	"fmt"
	"io"

	"github.com/aretw0/canopy/pkg/domain"
)

// Vertex is one node occurrence in the description.
type Vertex struct {
	ID    string      `json:"id"`
	Label string      `json:"label"`
	Kind  domain.Kind `json:"kind"`
	Leaf  bool        `json:"leaf"`
	// Probability, Cost and Utility are only set for chance nodes.
	Probability *float64 `json:"probability,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	Utility     *float64 `json:"utility,omitempty"`

	// Node points back at the described node for overlays. Read-only.
	Node domain.Node `json:"-"`
}

// Edge links a parent vertex to a child vertex.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	// Probability of the child, nil when the child is a decision.
	Probability *float64 `json:"probability,omitempty"`
}

// Graph is a read-only description of a tree.
type Graph struct {
	Vertices []Vertex `json:"vertices"`
	Edges    []Edge   `json:"edges"`
}

// Renderer draws a Graph.
type Renderer interface {
	Render(w io.Writer, g Graph) error
}

// Describe walks the tree rooted at root in pre-order.
// It fails on nil nodes and on cycles.
func Describe(root domain.Node) (Graph, error) {
	d := &describer{onPath: make(map[domain.Node]struct{})}
	if _, err := d.visit(root, ""); err != nil {
		return Graph{}, err
	}
	return d.g, nil
}

type describer struct {
	g      Graph
	onPath map[domain.Node]struct{}
	path   []string
}

func (d *describer) visit(n domain.Node, parent string) (string, error) {
	if isNil(n) {
		return "", &domain.MalformedTreeError{Parent: parent, Reason: "nil child node"}
	}
	d.path = append(d.path, n.Label())
	defer func() { d.path = d.path[:len(d.path)-1] }()
	if _, seen := d.onPath[n]; seen {
		return "", &domain.CycleError{Path: append([]string(nil), d.path...)}
	}
	d.onPath[n] = struct{}{}
	defer delete(d.onPath, n)

	id := fmt.Sprintf("n%d", len(d.g.Vertices))
	v := Vertex{
		ID:    id,
		Label: n.Label(),
		Kind:  n.Kind(),
		Leaf:  len(n.Children()) == 0,
		Node:  n,
	}
	if c, ok := n.(*domain.ChanceNode); ok {
		p, cost, util := c.Probability, c.Cost, c.Utility
		v.Probability, v.Cost, v.Utility = &p, &cost, &util
	}
	d.g.Vertices = append(d.g.Vertices, v)

	for _, child := range n.Children() {
		childID, err := d.visit(child, n.Label())
		if err != nil {
			return "", err
		}
		e := Edge{From: id, To: childID}
		if c, ok := child.(*domain.ChanceNode); ok {
			p := c.Probability
			e.Probability = &p
		}
		d.g.Edges = append(d.g.Edges, e)
	}
	return id, nil
}

// isNil reports untyped nils and typed nil pointers alike.
func isNil(n domain.Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *domain.ChanceNode:
		return v == nil
	case *domain.DecisionNode:
		return v == nil
	}
	return false
}

// IDsOf returns the IDs of every vertex describing one of nodes, in vertex order.
func (g Graph) IDsOf(nodes ...domain.Node) []string {
	want := make(map[domain.Node]bool, len(nodes))
	for _, n := range nodes {
		want[n] = true
	}
	var ids []string
	for _, v := range g.Vertices {
		if want[v.Node] {
			ids = append(ids, v.ID)
		}
	}
	return ids
}
