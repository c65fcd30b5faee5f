package canopy_test

import (
	"fmt"
	"log"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/pkg/analysis"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/evaluation"
)

// ExampleEngine_ExpectedValues rolls up a single strategy built with the plain constructors.
func ExampleEngine_ExpectedValues() {
	root := domain.NewChanceNode("Start", 1.0, 0, 0)
	root.AddNextNode(domain.NewChanceNode("A", 0.6, 1000, 5))
	root.AddNextNode(domain.NewChanceNode("B", 0.4, 2000, 8))

	out, err := canopy.New().ExpectedValues(root)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("cost=%.1f utility=%.1f\n", out.Cost, out.Utility)
	// Output: cost=1400.0 utility=6.2
}

// ExampleEngine_Decide compares two strategies and reports the ICER of the winner.
func ExampleEngine_Decide() {
	treat := domain.NewDecisionNode("Treat?")

	drug := domain.NewChanceNode("Drug", 1, 150, 0)
	drug.AddNextNode(domain.NewChanceNode("Responds", 0.5, 0, 4))
	drug.AddNextNode(domain.NewChanceNode("No response", 0.5, 0, 2))
	treat.AddBranch(drug)
	treat.AddBranch(domain.NewChanceNode("Usual care", 1, 100, 2))

	eng := canopy.New(canopy.WithMode(evaluation.ModeStrict))
	d, err := eng.Decide(treat)
	if err != nil {
		log.Fatal(err)
	}

	usual, chosen := d.Alternatives[1].Outcome, d.Choice().Outcome
	fmt.Println("choice:", d.Choice().Name)
	fmt.Println("icer:", analysis.ICER(usual, chosen))
	// Output:
	// choice: Drug
	// icer: 50
}
