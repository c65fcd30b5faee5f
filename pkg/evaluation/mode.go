package evaluation

import (
	"fmt"
	"strings"
)

// Mode selects how a DecisionNode nested under a ChanceNode is evaluated.
type Mode int

const (
	// ModeStrict only accepts chance nodes below a chance node.
	ModeStrict Mode = iota
	// ModeDecisionOptimal resolves nested decisions with the evaluator's Policy.
	ModeDecisionOptimal
)

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeDecisionOptimal:
		return "optimal"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves "strict" or "optimal".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return ModeStrict, nil
	case "optimal", "decision-optimal":
		return ModeDecisionOptimal, nil
	}
	return ModeStrict, fmt.Errorf("unknown evaluation mode %q (want strict or optimal)", s)
}
