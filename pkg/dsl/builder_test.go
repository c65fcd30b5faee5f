package dsl

import (
	"testing"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DecisionTree(t *testing.T) {
	tree, err := Decision("Screen?").
		Branch(
			Chance("No screening").Then(
				Chance("Disease").Probability(0.1).Cost(5000).Utility(10),
				Chance("Healthy").Probability(0.9).Utility(20),
			),
			Chance("Screening").Cost(200),
			Chance("Wait"),
		).
		Build()
	require.NoError(t, err)

	require.Len(t, tree.Branches, 3)
	assert.Equal(t, "No screening", tree.Branches[0].Name)
	assert.Equal(t, "Screening", tree.Branches[1].Name)
	assert.Equal(t, "Wait", tree.Branches[2].Name)

	noScreen := tree.Branches[0]
	assert.Equal(t, 1.0, noScreen.Probability)
	require.Len(t, noScreen.NextNodes, 2)

	disease, ok := noScreen.NextNodes[0].(*domain.ChanceNode)
	require.True(t, ok)
	assert.Equal(t, domain.ChanceNode{Name: "Disease", Probability: 0.1, Cost: 5000, Utility: 10}, *disease)
}

func TestBuilder_NestedDecision(t *testing.T) {
	root, err := Chance("Relapse").Then(
		Decision("Retreat?").Branch(Chance("Yes").Cost(10), Chance("No")),
	).Build()
	require.NoError(t, err)

	require.Len(t, root.NextNodes, 1)
	d, ok := root.NextNodes[0].(*domain.DecisionNode)
	require.True(t, ok)
	assert.Len(t, d.Branches, 2)
}

func TestBuilder_RejectsReparenting(t *testing.T) {
	shared := Chance("shared")
	_, err := Decision("d").Branch(
		Chance("a").Then(shared),
		Chance("b").Then(shared),
	).Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReparented)
	assert.Contains(t, err.Error(), `already under "a", attached again under "b"`)
}

func TestBuilder_RejectsNilBuilders(t *testing.T) {
	var missing *ChanceBuilder

	_, err := Decision("d").Branch(Chance("a"), nil).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilBuilder)
	assert.Contains(t, err.Error(), `branch 1 of "d"`)

	_, err = Chance("root").Then(nil, missing).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilBuilder)
	assert.Contains(t, err.Error(), `child 0 of "root"`)
	assert.Contains(t, err.Error(), `child 1 of "root"`)

	_, err = Decision("outer").Branch(Chance("a").Then(missing)).Build()
	assert.ErrorIs(t, err, ErrNilBuilder)
}
