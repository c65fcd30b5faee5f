package dto

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/pkg/analysis"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/evaluation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinite(t *testing.T) {
	assert.Nil(t, Finite(math.NaN()))
	assert.Nil(t, Finite(math.Inf(1)))
	assert.Nil(t, Finite(math.Inf(-1)))
	require.NotNil(t, Finite(50))
	assert.Equal(t, 50.0, *Finite(50))
}

func TestNewICERResponse(t *testing.T) {
	resp := NewICERResponse(analysis.CalculateICER(100, 2, 80, 2))
	assert.Nil(t, resp.ICER)
	assert.True(t, resp.Infinite)

	resp = NewICERResponse(analysis.CalculateICER(100, 2, 150, 3))
	require.NotNil(t, resp.ICER)
	assert.Equal(t, 50.0, *resp.ICER)
	assert.False(t, resp.Infinite)
}

func TestFromAnalysis_EncodesUndefinedRatios(t *testing.T) {
	strategies := []analysis.Strategy{
		{Name: "Usual care", Outcome: domain.Outcome{Cost: 100, Utility: 2}},
		{Name: "Drug", Outcome: domain.Outcome{Cost: 150, Utility: 3}},
	}
	a := &canopy.Analysis{
		Model:  "m",
		Mode:   "strict",
		Policy: evaluation.PolicyMaxUtility,
		Decisions: []canopy.DecisionAnalysis{{
			Decision: evaluation.Decision{
				Name:     "Treat?",
				Selected: 1,
				Alternatives: []evaluation.Alternative{
					{Name: "Usual care", Probability: 1, Outcome: strategies[0].Outcome},
					{Name: "Drug", Probability: 1, Outcome: strategies[1].Outcome},
				},
			},
			Rows: analysis.Incremental(strategies),
		}},
	}

	resp := FromAnalysis(a)
	require.Len(t, resp.Decisions, 1)
	d := resp.Decisions[0]
	assert.Equal(t, "Drug", d.Selected)
	assert.True(t, d.Alternatives[1].Selected)
	assert.False(t, d.Alternatives[0].Selected)
	assert.Nil(t, d.Rows[0].ICER)
	require.NotNil(t, d.Rows[1].ICER)
	assert.Equal(t, 50.0, *d.Rows[1].ICER)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"icer":null`)
	assert.Contains(t, string(raw), `"icer":50`)
}
