package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	m, err := LoadFile("testdata/screening.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Screening programme", m.Name)
	assert.Equal(t, 30000.0, m.WillingnessToPay)
	require.Len(t, m.Decisions, 1)

	d := m.Decisions[0]
	assert.Equal(t, "Screen?", d.Name)
	require.Len(t, d.Branches, 2)

	screening := d.Branches[1]
	assert.Equal(t, "Screening", screening.Name)
	assert.Equal(t, 1.0, screening.Probability, "decision branches default to probability 1")
	assert.Equal(t, 600.0, screening.Cost)
	require.Len(t, screening.NextNodes, 2)

	early, ok := screening.NextNodes[0].(*domain.ChanceNode)
	require.True(t, ok)
	assert.Equal(t, domain.ChanceNode{Name: "Early detection", Probability: 0.1, Cost: 2000, Utility: 16}, *early)
}

func TestLoad_JSONAndNestedDecision(t *testing.T) {
	doc := `{
		"decisions": [{
			"name": "First line",
			"branches": [{
				"name": "Drug",
				"cost": 100,
				"next": [
					{"name": "Remission", "probability": 0.7, "utility": 5},
					{"name": "Progression", "probability": 0.3, "next": [
						{"name": "Second line?", "branches": [
							{"name": "Chemo", "cost": 50, "utility": 1},
							{"name": "Palliative", "utility": 0.5}
						]}
					]}
				]
			}]
		}]
	}`

	m, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	progression := m.Decisions[0].Branches[0].NextNodes[1].(*domain.ChanceNode)
	second, ok := progression.NextNodes[0].(*domain.DecisionNode)
	require.True(t, ok)
	assert.Equal(t, "Second line?", second.Name)
	assert.Len(t, second.Branches, 2)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		contains []string
	}{
		{
			name:     "empty document",
			doc:      "",
			contains: []string{"empty document"},
		},
		{
			name:     "no decisions",
			doc:      "name: nothing\n",
			contains: []string{"Document.Decisions", "required"},
		},
		{
			name: "probability out of range",
			doc: `
decisions:
  - name: d
    branches:
      - name: a
        next:
          - name: x
            probability: 1.5
`,
			contains: []string{"Document.Decisions[0].Branches[0].Next[0].Probability", "must be <= 1"},
		},
		{
			name: "missing probability below chance node",
			doc: `
decisions:
  - name: d
    branches:
      - name: a
        next:
          - name: x
`,
			contains: []string{"Document.Decisions[0].Branches[0].Next[0].Probability", "required"},
		},
		{
			name: "missing name",
			doc: `
decisions:
  - name: d
    branches:
      - probability: 1
`,
			contains: []string{"Document.Decisions[0].Branches[0].Name", "required"},
		},
		{
			name: "decision with cost",
			doc: `
decisions:
  - name: d
    cost: 10
    branches:
      - name: a
`,
			contains: []string{"decisions carry no cost or utility"},
		},
		{
			name: "empty decision",
			doc: `
decisions:
  - name: d
    type: decision
`,
			contains: []string{"at least one branch required"},
		},
		{
			name: "chance node at top level",
			doc: `
decisions:
  - name: Start
    probability: 1
    next:
      - name: A
        probability: 1
        cost: 10
`,
			contains: []string{"Document.Decisions[0]", "top-level entries must be decisions"},
		},
		{
			name: "unknown field",
			doc: `
decisions:
  - name: d
    branches:
      - name: a
        costs: 10
`,
			contains: []string{"costs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidModel), "expected ErrInvalidModel, got %v", err)
			for _, want := range tt.contains {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("decisions: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse model yaml")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}
