package domain

// Kind identifies the variant of a Node.
type Kind string

const (
	// KindDecision marks a branch point chosen by the decision maker.
	KindDecision Kind = "decision"
	// KindChance marks a probabilistic event.
	KindChance Kind = "chance"
)

// Node is either a *DecisionNode or a *ChanceNode.
// The set of implementations is closed: consumers switch on the concrete type.
type Node interface {
	// Label returns the node name.
	Label() string
	// Kind reports which variant the node is.
	Kind() Kind
	// Children returns the ordered child list. Callers must not modify it.
	Children() []Node

	isNode()
}

// DecisionNode represents a choice among strategies.
// It is purely structural: it has no cost, utility or probability of its own.
type DecisionNode struct {
	Name     string
	Branches []*ChanceNode
}

// NewDecisionNode creates a decision with no branches.
func NewDecisionNode(name string) *DecisionNode {
	return &DecisionNode{Name: name}
}

// AddBranch appends a strategy to the decision, preserving insertion order.
func (d *DecisionNode) AddBranch(branch *ChanceNode) {
	d.Branches = append(d.Branches, branch)
}

func (d *DecisionNode) Label() string { return d.Name }

func (d *DecisionNode) Kind() Kind { return KindDecision }

func (d *DecisionNode) Children() []Node {
	children := make([]Node, len(d.Branches))
	for i, b := range d.Branches {
		// Keep a nil branch as an untyped nil so callers can detect it.
		if b != nil {
			children[i] = b
		}
	}
	return children
}

func (d *DecisionNode) isNode() {}

// ChanceNode represents a probabilistic event or state.
type ChanceNode struct {
	Name string
	// Probability is the chance of reaching this node once its parent is reached.
	// It is applied by the parent during roll-up, never by the node itself.
	Probability float64
	// Cost is the incremental cost of reaching this node.
	Cost float64
	// Utility is the incremental outcome value (e.g. QALYs) of reaching this node.
	Utility   float64
	NextNodes []Node
}

// NewChanceNode creates a chance node with no children.
func NewChanceNode(name string, probability, cost, utility float64) *ChanceNode {
	return &ChanceNode{
		Name:        name,
		Probability: probability,
		Cost:        cost,
		Utility:     utility,
	}
}

// AddNextNode appends a child (chance or decision), preserving insertion order.
func (c *ChanceNode) AddNextNode(node Node) {
	c.NextNodes = append(c.NextNodes, node)
}

// IsLeaf reports whether the node has no children.
func (c *ChanceNode) IsLeaf() bool {
	return len(c.NextNodes) == 0
}

func (c *ChanceNode) Label() string { return c.Name }

func (c *ChanceNode) Kind() Kind { return KindChance }

func (c *ChanceNode) Children() []Node { return c.NextNodes }

func (c *ChanceNode) isNode() {}

// Outcome is an expected (cost, utility) pair.
type Outcome struct {
	Cost    float64 `json:"cost" yaml:"cost"`
	Utility float64 `json:"utility" yaml:"utility"`
}
