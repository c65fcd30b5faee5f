// Package dto holds the JSON shapes shared by the HTTP and MCP adapters.
//
// Ratios that are undefined (NaN) or unbounded (±Inf) cannot be encoded by
// encoding/json, so they travel as null pointers with an explicit flag.
package dto

import (
	"math"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/pkg/analysis"
	"github.com/aretw0/canopy/pkg/evaluation"
)

// Alternative is one evaluated branch of a decision.
type Alternative struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
	Cost        float64 `json:"cost"`
	Utility     float64 `json:"utility"`
	Selected    bool    `json:"selected,omitempty"`
}

// Row is one line of the incremental table.
type Row struct {
	Name               string   `json:"name"`
	Cost               float64  `json:"cost"`
	Utility            float64  `json:"utility"`
	Status             string   `json:"status"`
	Comparator         string   `json:"comparator,omitempty"`
	IncrementalCost    float64  `json:"incremental_cost"`
	IncrementalUtility float64  `json:"incremental_utility"`
	ICER               *float64 `json:"icer"`
}

// Decision is the evaluated comparison of one decision's strategies.
type Decision struct {
	Name         string        `json:"name"`
	Selected     string        `json:"selected"`
	Preferred    string        `json:"preferred,omitempty"`
	Alternatives []Alternative `json:"alternatives"`
	Rows         []Row         `json:"rows"`
}

// AnalysisResponse is the body returned for an evaluated model.
type AnalysisResponse struct {
	Model            string     `json:"model,omitempty"`
	Mode             string     `json:"mode"`
	Policy           string     `json:"policy"`
	WillingnessToPay float64    `json:"willingness_to_pay"`
	Decisions        []Decision `json:"decisions"`
}

// ICERRequest carries two (cost, utility) pairs; B is compared against A.
type ICERRequest struct {
	CostA    float64 `json:"cost_a"`
	UtilityA float64 `json:"utility_a"`
	CostB    float64 `json:"cost_b"`
	UtilityB float64 `json:"utility_b"`
}

// ICERResponse holds the ratio, or null with Infinite set when B gains no utility.
type ICERResponse struct {
	ICER     *float64 `json:"icer"`
	Infinite bool     `json:"infinite,omitempty"`
}

// NewICERResponse wraps a ratio returned by analysis.CalculateICER.
func NewICERResponse(icer float64) ICERResponse {
	return ICERResponse{ICER: Finite(icer), Infinite: math.IsInf(icer, 0)}
}

// Finite returns nil for NaN and infinite values.
func Finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// FromAnalysis maps a facade analysis onto its wire shape.
func FromAnalysis(a *canopy.Analysis) AnalysisResponse {
	resp := AnalysisResponse{
		Model:            a.Model,
		Mode:             a.Mode,
		Policy:           a.Policy,
		WillingnessToPay: a.WillingnessToPay,
		Decisions:        make([]Decision, 0, len(a.Decisions)),
	}
	for _, da := range a.Decisions {
		resp.Decisions = append(resp.Decisions, fromDecision(da))
	}
	return resp
}

func fromDecision(da canopy.DecisionAnalysis) Decision {
	d := Decision{
		Name:         da.Decision.Name,
		Selected:     da.Decision.Choice().Name,
		Preferred:    da.Preferred,
		Alternatives: fromAlternatives(da.Decision),
		Rows:         make([]Row, len(da.Rows)),
	}
	for i, r := range da.Rows {
		d.Rows[i] = fromRow(r)
	}
	return d
}

func fromAlternatives(dec evaluation.Decision) []Alternative {
	out := make([]Alternative, len(dec.Alternatives))
	for i, alt := range dec.Alternatives {
		out[i] = Alternative{
			Name:        alt.Name,
			Probability: alt.Probability,
			Cost:        alt.Outcome.Cost,
			Utility:     alt.Outcome.Utility,
			Selected:    i == dec.Selected,
		}
	}
	return out
}

func fromRow(r analysis.Row) Row {
	return Row{
		Name:               r.Name,
		Cost:               r.Outcome.Cost,
		Utility:            r.Outcome.Utility,
		Status:             string(r.Status),
		Comparator:         r.Comparator,
		IncrementalCost:    r.IncrementalCost,
		IncrementalUtility: r.IncrementalUtility,
		ICER:               Finite(r.ICER),
	}
}
