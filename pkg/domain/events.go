package domain

// EventType defines the category of an evaluation event.
type EventType string

const (
	EventNodeEnter EventType = "node_enter"
	EventNodeLeave EventType = "node_leave"
	EventDecision  EventType = "decision"
)

// NodeEvent represents entry into or exit from a node during roll-up.
type NodeEvent struct {
	Type  EventType `json:"type"`
	Name  string    `json:"name"`
	Kind  Kind      `json:"kind"`
	Depth int       `json:"depth"`
	Leaf  bool      `json:"leaf"`
	// Outcome is only set on EventNodeLeave.
	Outcome *Outcome `json:"outcome,omitempty"`
}

// DecisionEvent reports which branch a decision selected.
type DecisionEvent struct {
	Name     string `json:"name"`
	Selected string `json:"selected"`
	Policy   string `json:"policy"`
}

// EvaluationHooks defines callbacks for evaluator observability.
// Hooks run synchronously on the evaluating goroutine; nil hooks are skipped.
type EvaluationHooks struct {
	OnNodeEnter func(*NodeEvent)
	OnNodeLeave func(*NodeEvent)
	OnDecision  func(*DecisionEvent)
	OnError     func(error)
}
