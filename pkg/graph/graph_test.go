package graph

import (
	"testing"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *domain.DecisionNode {
	d := domain.NewDecisionNode("Treat?")
	drug := domain.NewChanceNode("Drug", 1, 1000, 0)
	drug.AddNextNode(domain.NewChanceNode("Response", 0.6, 0, 10))
	relapse := domain.NewChanceNode("Relapse", 0.4, 500, 6)
	retreat := domain.NewDecisionNode("Retreat?")
	retreat.AddBranch(domain.NewChanceNode("Yes", 1, 200, 1))
	relapse.AddNextNode(retreat)
	drug.AddNextNode(relapse)
	d.AddBranch(drug)
	d.AddBranch(domain.NewChanceNode("Placebo", 1, 0, 7))
	return d
}

func TestDescribe(t *testing.T) {
	g, err := Describe(sampleTree())
	require.NoError(t, err)

	labels := make([]string, len(g.Vertices))
	for i, v := range g.Vertices {
		labels[i] = v.Label
		assert.Equal(t, i, indexOf(g, v.ID))
	}
	assert.Equal(t, []string{"Treat?", "Drug", "Response", "Relapse", "Retreat?", "Yes", "Placebo"}, labels)

	root := g.Vertices[0]
	assert.Equal(t, domain.KindDecision, root.Kind)
	assert.Nil(t, root.Probability)

	response := g.Vertices[2]
	assert.True(t, response.Leaf)
	require.NotNil(t, response.Probability)
	assert.Equal(t, 0.6, *response.Probability)
	assert.Equal(t, 10.0, *response.Utility)

	require.Len(t, g.Edges, 6)
	assert.Contains(t, g.Edges, Edge{From: "n0", To: "n6", Probability: ptr(1.0)})
	// Edge into a decision carries no probability.
	assert.Contains(t, g.Edges, Edge{From: "n3", To: "n4"})
}

func TestDescribe_DuplicateNamesGetDistinctIDs(t *testing.T) {
	root := domain.NewChanceNode("x", 1, 0, 0)
	root.AddNextNode(domain.NewChanceNode("x", 0.5, 0, 0))
	root.AddNextNode(domain.NewChanceNode("x", 0.5, 0, 0))

	g, err := Describe(root)
	require.NoError(t, err)
	require.Len(t, g.Vertices, 3)
	assert.NotEqual(t, g.Vertices[1].ID, g.Vertices[2].ID)
}

func TestDescribe_Errors(t *testing.T) {
	a := domain.NewChanceNode("a", 1, 0, 0)
	b := domain.NewChanceNode("b", 1, 0, 0)
	a.AddNextNode(b)
	b.AddNextNode(a)
	_, err := Describe(a)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)

	c := domain.NewChanceNode("c", 1, 0, 0)
	c.AddNextNode(nil)
	_, err = Describe(c)
	assert.ErrorIs(t, err, domain.ErrMalformedTree)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(sampleTree()))

	shared := domain.NewChanceNode("shared", 0.5, 0, 0)
	d := domain.NewDecisionNode("root")
	left := domain.NewChanceNode("left", 1, 0, 0)
	right := domain.NewChanceNode("right", 1, 0, 0)
	left.AddNextNode(shared)
	right.AddNextNode(shared)
	right.AddNextNode(domain.NewDecisionNode("empty"))
	right.AddNextNode(nil)
	d.AddBranch(left)
	d.AddBranch(right)

	err := Validate(d)
	require.Error(t, err)
	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 3)
	assert.ErrorIs(t, err, ErrSharedNode)
	assert.ErrorIs(t, err, domain.ErrEmptyDecision)
	assert.ErrorIs(t, err, domain.ErrMalformedTree)
	assert.Contains(t, err.Error(), "3 structural errors")
	assert.Contains(t, err.Error(), `"shared" under "left" and "right"`)
}

func TestValidate_Cycle(t *testing.T) {
	a := domain.NewChanceNode("a", 1, 0, 0)
	a.AddNextNode(a)
	err := Validate(a)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func indexOf(g Graph, id string) int {
	for i, v := range g.Vertices {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func ptr(f float64) *float64 { return &f }
