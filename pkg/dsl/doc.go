/*
Package dsl provides a fluent Go DSL for constructing canopy decision trees.

It builds the same domain nodes as the plain constructors, but reads top-down
like the tree it describes and refuses to attach one subtree to two parents,
which would break the tree's ownership rule.

Example usage:

	package main

	import (
		"fmt"

		"github.com/aretw0/canopy/pkg/dsl"
		"github.com/aretw0/canopy/pkg/evaluation"
	)

	func main() {
		tree, err := dsl.Decision("Screen?").
			Branch(
				dsl.Chance("No screening").Then(
					dsl.Chance("Disease").Probability(0.1).Cost(5000).Utility(10),
					dsl.Chance("Healthy").Probability(0.9).Utility(20),
				),
				dsl.Chance("Screening").Cost(200).Then(
					dsl.Chance("Early detection").Probability(0.1).Cost(2000).Utility(15),
					dsl.Chance("Healthy").Probability(0.9).Utility(20),
				),
			).
			Build()
		if err != nil {
			panic(err)
		}

		decision, _ := evaluation.New().Decide(tree)
		fmt.Println(decision.Choice().Name)
	}
*/
package dsl
