package observability

import (
	"errors"
	"log/slog"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the evaluation collectors.
type Metrics struct {
	NodeVisits *prometheus.CounterVec
	Decisions  *prometheus.CounterVec
	Errors     *prometheus.CounterVec
	LeafCost   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_node_visits_total",
				Help: "Total number of nodes visited during roll-up",
			},
			[]string{"kind"},
		),
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_decisions_total",
				Help: "Total number of decisions resolved, by policy",
			},
			[]string{"policy"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_evaluation_errors_total",
				Help: "Total number of failed evaluations, by cause",
			},
			[]string{"cause"},
		),
		LeafCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "canopy_leaf_cost",
			Help:    "Distribution of terminal outcome costs seen during roll-up",
			Buckets: prometheus.ExponentialBuckets(10, 10, 7),
		}),
	}

	for _, c := range []prometheus.Collector{m.NodeVisits, m.Decisions, m.Errors, m.LeafCost} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns evaluation hooks that record into m.
func (m *Metrics) Hooks() domain.EvaluationHooks {
	return domain.EvaluationHooks{
		OnNodeEnter: func(e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(string(e.Kind)).Inc()
		},
		OnNodeLeave: func(e *domain.NodeEvent) {
			// Outcome equals the node's own values only at leaves.
			if e.Kind == domain.KindChance && e.Leaf && e.Outcome != nil {
				m.LeafCost.Observe(e.Outcome.Cost)
			}
		},
		OnDecision: func(e *domain.DecisionEvent) {
			m.Decisions.WithLabelValues(e.Policy).Inc()
		},
		OnError: func(err error) {
			m.Errors.WithLabelValues(Cause(err)).Inc()
		},
	}
}

// Cause maps an evaluation error to a short metric label.
func Cause(err error) string {
	switch {
	case errors.Is(err, domain.ErrCycleDetected):
		return "cycle"
	case errors.Is(err, domain.ErrEmptyDecision):
		return "empty_decision"
	case errors.Is(err, domain.ErrMalformedTree):
		return "malformed"
	}
	return "other"
}

// LoggingHooks returns hooks that log every event at debug level.
func LoggingHooks(logger *slog.Logger) domain.EvaluationHooks {
	return domain.EvaluationHooks{
		OnNodeEnter: func(e *domain.NodeEvent) {
			logger.Debug("node_enter", "name", e.Name, "kind", e.Kind, "depth", e.Depth)
		},
		OnNodeLeave: func(e *domain.NodeEvent) {
			if e.Outcome != nil {
				logger.Debug("node_leave", "name", e.Name, "cost", e.Outcome.Cost, "utility", e.Outcome.Utility)
			}
		},
		OnDecision: func(e *domain.DecisionEvent) {
			logger.Info("decision", "name", e.Name, "selected", e.Selected, "policy", e.Policy)
		},
		OnError: func(err error) {
			logger.Error("evaluation failed", "error", err)
		},
	}
}

// Combine fans each event out to every set of hooks, in order.
func Combine(all ...domain.EvaluationHooks) domain.EvaluationHooks {
	return domain.EvaluationHooks{
		OnNodeEnter: func(e *domain.NodeEvent) {
			for _, h := range all {
				if h.OnNodeEnter != nil {
					h.OnNodeEnter(e)
				}
			}
		},
		OnNodeLeave: func(e *domain.NodeEvent) {
			for _, h := range all {
				if h.OnNodeLeave != nil {
					h.OnNodeLeave(e)
				}
			}
		},
		OnDecision: func(e *domain.DecisionEvent) {
			for _, h := range all {
				if h.OnDecision != nil {
					h.OnDecision(e)
				}
			}
		},
		OnError: func(err error) {
			for _, h := range all {
				if h.OnError != nil {
					h.OnError(err)
				}
			}
		},
	}
}
