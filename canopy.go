package canopy

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/analysis"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/evaluation"
	"github.com/aretw0/canopy/pkg/graph"
	"github.com/aretw0/canopy/pkg/loader"
)

// Engine is the high-level entry point for the canopy library.
// It wraps the evaluator and the analysis functions behind one configuration.
type Engine struct {
	evaluator *evaluation.Evaluator
	mode      evaluation.Mode
	policy    evaluation.Policy
	wtp       float64
	hooks     domain.EvaluationHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMode sets how decisions nested below chance nodes are evaluated.
func WithMode(m evaluation.Mode) Option {
	return func(e *Engine) {
		e.mode = m
	}
}

// WithPolicy sets the policy used to pick a branch at each decision.
func WithPolicy(p evaluation.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithWillingnessToPay sets the threshold per unit of utility used to pick
// the preferred strategy. It overrides the model's own threshold.
func WithWillingnessToPay(wtp float64) Option {
	return func(e *Engine) {
		e.wtp = wtp
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.EvaluationHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New initializes an Engine. Defaults: strict mode, max-utility policy.
func New(opts ...Option) *Engine {
	eng := &Engine{
		mode:   evaluation.ModeStrict,
		policy: evaluation.MaxUtility(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.evaluator = evaluation.New(
		evaluation.WithMode(eng.mode),
		evaluation.WithPolicy(eng.policy),
		evaluation.WithLogger(eng.logger),
		evaluation.WithHooks(eng.hooks),
	)
	return eng
}

// Evaluator returns the configured evaluator.
func (e *Engine) Evaluator() *evaluation.Evaluator {
	return e.evaluator
}

// ExpectedValues rolls up the tree rooted at node.
func (e *Engine) ExpectedValues(node *domain.ChanceNode) (domain.Outcome, error) {
	return e.evaluator.ExpectedValues(node)
}

// Decide evaluates every branch of a decision and picks one under the policy.
func (e *Engine) Decide(node *domain.DecisionNode) (evaluation.Decision, error) {
	return e.evaluator.Decide(node)
}

// DecisionAnalysis is the evaluated comparison of one decision's strategies.
type DecisionAnalysis struct {
	Decision evaluation.Decision `json:"decision"`
	Rows     []analysis.Row      `json:"rows"`
	// Preferred is the frontier strategy with the highest ICER within the
	// willingness to pay. Empty when no threshold is set.
	Preferred string `json:"preferred,omitempty"`
}

// Analysis is the result of Analyze.
type Analysis struct {
	Model            string             `json:"model"`
	Mode             string             `json:"mode"`
	Policy           string             `json:"policy"`
	WillingnessToPay float64            `json:"willingness_to_pay"`
	Decisions        []DecisionAnalysis `json:"decisions"`
}

// Analyze evaluates every decision of a model and ranks its strategies on
// the cost-effectiveness frontier.
func (e *Engine) Analyze(m *loader.Model) (*Analysis, error) {
	if m == nil {
		return nil, fmt.Errorf("analyze: nil model")
	}
	wtp := e.wtp
	if wtp == 0 {
		wtp = m.WillingnessToPay
	}

	logger := e.logger
	if m.Name != "" {
		logger = logger.With("model", m.Name)
	}

	a := &Analysis{
		Model:            m.Name,
		Mode:             e.mode.String(),
		Policy:           e.policy.Name(),
		WillingnessToPay: wtp,
	}
	for _, d := range m.Decisions {
		dec, err := e.evaluator.Decide(d)
		if err != nil {
			logger.Error("decision evaluation failed", "decision", d.Name, "error", err)
			return nil, fmt.Errorf("evaluate decision %q: %w", d.Name, err)
		}

		strategies := make([]analysis.Strategy, len(dec.Alternatives))
		for i, alt := range dec.Alternatives {
			strategies[i] = analysis.Strategy{Name: alt.Name, Outcome: alt.Outcome}
		}
		da := DecisionAnalysis{
			Decision: dec,
			Rows:     analysis.Incremental(strategies),
		}
		if wtp > 0 {
			if best, ok := analysis.Preferred(da.Rows, wtp); ok {
				da.Preferred = best.Name
			}
		}
		logger.Info("decision evaluated",
			"decision", d.Name,
			"selected", dec.Choice().Name,
			"preferred", da.Preferred,
		)
		a.Decisions = append(a.Decisions, da)
	}
	return a, nil
}

// Describe returns the graph description of a decision tree together with
// the vertex IDs of every branch the policy selects, nested decisions included.
// Use graph.Describe when no selection is needed: it never evaluates the tree.
func (e *Engine) Describe(root *domain.DecisionNode) (graph.Graph, []string, error) {
	g, err := graph.Describe(root)
	if err != nil {
		return graph.Graph{}, nil, err
	}
	chosen, err := e.Chosen(g)
	if err != nil {
		return graph.Graph{}, nil, err
	}
	return g, chosen, nil
}

// Chosen evaluates every decision vertex of g and returns the IDs of the
// branches the policy selects. It fails where the mode cannot evaluate a
// decision, e.g. a decision nested under a chance node in strict mode.
func (e *Engine) Chosen(g graph.Graph) ([]string, error) {
	var chosen []domain.Node
	for _, v := range g.Vertices {
		d, ok := v.Node.(*domain.DecisionNode)
		if !ok {
			continue
		}
		dec, err := e.evaluator.Decide(d)
		if err != nil {
			return nil, fmt.Errorf("evaluate decision %q: %w", d.Name, err)
		}
		chosen = append(chosen, d.Branches[dec.Selected])
	}
	return g.IDsOf(chosen...), nil
}
