package config

import (
	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/pkg/evaluation"
)

// EngineOptions resolves the evaluation settings into facade options.
// fallbackWTP stands in when no willingness to pay is configured, so a
// net-benefit policy values utility at the model's own threshold.
func (e EvaluationConfig) EngineOptions(fallbackWTP float64) ([]canopy.Option, error) {
	mode, err := evaluation.ParseMode(e.Mode)
	if err != nil {
		return nil, err
	}
	wtp := e.WillingnessToPay
	if wtp == 0 {
		wtp = fallbackWTP
	}
	policy, err := evaluation.ParsePolicy(e.Policy, wtp)
	if err != nil {
		return nil, err
	}
	return []canopy.Option{
		canopy.WithMode(mode),
		canopy.WithPolicy(policy),
		canopy.WithWillingnessToPay(wtp),
	}, nil
}
