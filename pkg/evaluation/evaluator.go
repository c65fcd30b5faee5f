package evaluation

import (
	"log/slog"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/domain"
)

// Evaluator computes expected values over decision trees.
type Evaluator struct {
	mode   Mode
	policy Policy
	logger *slog.Logger
	hooks  domain.EvaluationHooks
}

// Option defines a functional option for configuring the Evaluator.
type Option func(*Evaluator)

// WithMode sets how nested decisions are handled (default: ModeStrict).
func WithMode(m Mode) Option {
	return func(e *Evaluator) {
		e.mode = m
	}
}

// WithPolicy sets the decision policy (default: MaxUtility).
func WithPolicy(p Policy) Option {
	return func(e *Evaluator) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithLogger sets a structured logger. Node traversal is logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.EvaluationHooks) Option {
	return func(e *Evaluator) {
		e.hooks = hooks
	}
}

// New creates an Evaluator. Without options it is strict and maximises utility.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		mode:   ModeStrict,
		policy: MaxUtility(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode returns the configured mode.
func (e *Evaluator) Mode() Mode { return e.mode }

// Policy returns the configured decision policy.
func (e *Evaluator) Policy() Policy { return e.policy }

// ExpectedValues returns the expected cost and utility rooted at node.
func (e *Evaluator) ExpectedValues(node *domain.ChanceNode) (domain.Outcome, error) {
	if node == nil {
		return domain.Outcome{}, e.fail(&domain.MalformedTreeError{Reason: "nil root node"})
	}
	w := e.newWalk()
	out, err := w.chance(node, 0)
	if err != nil {
		return domain.Outcome{}, e.fail(err)
	}
	e.logger.Debug("expected values computed", "root", node.Name, "cost", out.Cost, "utility", out.Utility)
	return out, nil
}

// Decide evaluates every branch of a decision and selects one under the Policy.
func (e *Evaluator) Decide(node *domain.DecisionNode) (Decision, error) {
	if node == nil {
		return Decision{}, e.fail(&domain.MalformedTreeError{Reason: "nil decision node"})
	}
	w := e.newWalk()
	d, err := w.decision(node, 0)
	if err != nil {
		return Decision{}, e.fail(err)
	}
	return d, nil
}

func (e *Evaluator) fail(err error) error {
	if e.hooks.OnError != nil {
		e.hooks.OnError(err)
	}
	e.logger.Debug("evaluation failed", "error", err)
	return err
}

func (e *Evaluator) newWalk() *walk {
	return &walk{
		e:      e,
		onPath: make(map[domain.Node]struct{}),
	}
}

// walk holds the per-call traversal state. It is never shared.
type walk struct {
	e      *Evaluator
	onPath map[domain.Node]struct{}
	path   []string
}

func (w *walk) enter(n domain.Node, depth int) error {
	w.path = append(w.path, n.Label())
	if _, seen := w.onPath[n]; seen {
		return &domain.CycleError{Path: append([]string(nil), w.path...)}
	}
	w.onPath[n] = struct{}{}

	if w.e.hooks.OnNodeEnter != nil {
		w.e.hooks.OnNodeEnter(&domain.NodeEvent{
			Type:  domain.EventNodeEnter,
			Name:  n.Label(),
			Kind:  n.Kind(),
			Depth: depth,
			Leaf:  len(n.Children()) == 0,
		})
	}
	w.e.logger.Debug("node enter", "name", n.Label(), "kind", n.Kind(), "depth", depth)
	return nil
}

func (w *walk) leave(n domain.Node, depth int, out domain.Outcome) {
	delete(w.onPath, n)
	w.path = w.path[:len(w.path)-1]

	if w.e.hooks.OnNodeLeave != nil {
		w.e.hooks.OnNodeLeave(&domain.NodeEvent{
			Type:    domain.EventNodeLeave,
			Name:    n.Label(),
			Kind:    n.Kind(),
			Depth:   depth,
			Leaf:    len(n.Children()) == 0,
			Outcome: &out,
		})
	}
}

func (w *walk) chance(node *domain.ChanceNode, depth int) (domain.Outcome, error) {
	if err := w.enter(node, depth); err != nil {
		return domain.Outcome{}, err
	}

	if node.IsLeaf() {
		out := domain.Outcome{Cost: node.Cost, Utility: node.Utility}
		w.leave(node, depth, out)
		return out, nil
	}

	// Children are added onto the node's own values in insertion order.
	out := domain.Outcome{Cost: node.Cost, Utility: node.Utility}

	for _, child := range node.NextNodes {
		switch c := child.(type) {
		case *domain.ChanceNode:
			if c == nil {
				return domain.Outcome{}, nilChild(node.Name)
			}
			sub, err := w.chance(c, depth+1)
			if err != nil {
				return domain.Outcome{}, err
			}
			out.Cost += c.Probability * sub.Cost
			out.Utility += c.Probability * sub.Utility

		case *domain.DecisionNode:
			if c == nil {
				return domain.Outcome{}, nilChild(node.Name)
			}
			if w.e.mode != ModeDecisionOptimal {
				return domain.Outcome{}, &domain.MalformedTreeError{
					Node:   c.Name,
					Parent: node.Name,
					Reason: "decision node carries no probability, cost or utility (strict mode); use decision-optimal mode to resolve nested decisions",
				}
			}
			d, err := w.decision(c, depth+1)
			if err != nil {
				return domain.Outcome{}, err
			}
			// The decision is reached with certainty; the chosen branch
			// already carries its own probability weight.
			chosen := d.Alternatives[d.Selected].Weighted()
			out.Cost += chosen.Cost
			out.Utility += chosen.Utility

		default:
			return domain.Outcome{}, nilChild(node.Name)
		}
	}

	w.leave(node, depth, out)
	return out, nil
}

func (w *walk) decision(node *domain.DecisionNode, depth int) (Decision, error) {
	if err := w.enter(node, depth); err != nil {
		return Decision{}, err
	}
	if len(node.Branches) == 0 {
		return Decision{}, &domain.MalformedTreeError{
			Node:   node.Name,
			Reason: "no branches to choose from",
			Err:    domain.ErrEmptyDecision,
		}
	}

	d := Decision{
		Name:         node.Name,
		Policy:       w.e.policy.Name(),
		Alternatives: make([]Alternative, 0, len(node.Branches)),
	}
	for _, branch := range node.Branches {
		if branch == nil {
			return Decision{}, nilChild(node.Name)
		}
		out, err := w.chance(branch, depth+1)
		if err != nil {
			return Decision{}, err
		}
		d.Alternatives = append(d.Alternatives, Alternative{
			Name:        branch.Name,
			Probability: branch.Probability,
			Outcome:     out,
		})
	}
	d.Selected = selectBest(w.e.policy, d.Alternatives)

	if w.e.hooks.OnDecision != nil {
		w.e.hooks.OnDecision(&domain.DecisionEvent{
			Name:     d.Name,
			Selected: d.Choice().Name,
			Policy:   d.Policy,
		})
	}
	w.e.logger.Debug("decision resolved", "name", d.Name, "selected", d.Choice().Name, "policy", d.Policy)

	w.leave(node, depth, d.Choice().Weighted())
	return d, nil
}

// selectBest returns the index of the highest-scoring alternative.
// Ties keep the earliest branch.
func selectBest(p Policy, alts []Alternative) int {
	best := 0
	bestScore := p.Score(alts[0].Weighted())
	for i := 1; i < len(alts); i++ {
		if s := p.Score(alts[i].Weighted()); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

func nilChild(parent string) error {
	return &domain.MalformedTreeError{Parent: parent, Reason: "nil child node"}
}

// ExpectedValues rolls node up with a default strict evaluator.
func ExpectedValues(node *domain.ChanceNode) (domain.Outcome, error) {
	return New().ExpectedValues(node)
}
