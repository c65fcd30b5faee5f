package evaluation

import "github.com/aretw0/canopy/pkg/domain"

// Alternative is one evaluated branch of a decision.
type Alternative struct {
	Name        string         `json:"name"`
	Probability float64        `json:"probability"`
	Outcome     domain.Outcome `json:"outcome"`
}

// Weighted returns the outcome scaled by the branch probability, which is
// what the branch contributes when its decision is rolled into a parent.
func (a Alternative) Weighted() domain.Outcome {
	return domain.Outcome{
		Cost:    a.Probability * a.Outcome.Cost,
		Utility: a.Probability * a.Outcome.Utility,
	}
}

// Decision is the result of evaluating every branch of a DecisionNode.
type Decision struct {
	Name         string        `json:"name"`
	Policy       string        `json:"policy"`
	Alternatives []Alternative `json:"alternatives"`
	// Selected indexes the alternative preferred by Policy.
	Selected int `json:"selected"`
}

// Choice returns the selected alternative.
func (d Decision) Choice() Alternative {
	return d.Alternatives[d.Selected]
}
