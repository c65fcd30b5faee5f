/*
Package canopy is a health-economic decision analysis engine.

It models a decision as a tree of alternatives, rolls up the expected cost
and expected utility (e.g. quality-adjusted life years) of each alternative
by probability weighting, and compares alternatives through the Incremental
Cost-Effectiveness Ratio (ICER).

# Concept

A DecisionNode offers strategies; each strategy is a ChanceNode whose
children are further chance events (or nested decisions). Every chance node
carries its own incremental cost and utility plus the probability of being
reached from its parent. Rolling a tree up is a pure, read-only computation,
so trees can be evaluated from many goroutines at once.

# Key Features

  - Explicit evaluation modes: strict (chance-only roll-up) or
    decision-optimal (nested decisions resolved by a policy).
  - Cycle detection and descriptive errors for malformed trees.
  - ICER, net monetary benefit and cost-effectiveness frontier analysis.
  - YAML/JSON model loading, Mermaid diagrams, an HTTP API and an MCP server
    as optional adapters around the pure core.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/canopy"
		"github.com/aretw0/canopy/pkg/analysis"
		"github.com/aretw0/canopy/pkg/domain"
	)

	func main() {
		standard := domain.NewChanceNode("Standard care", 1, 0, 0)
		standard.AddNextNode(domain.NewChanceNode("Recovery", 0.6, 1000, 5))
		standard.AddNextNode(domain.NewChanceNode("Complication", 0.4, 2000, 8))

		eng := canopy.New()
		out, err := eng.ExpectedValues(standard)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(out.Cost, out.Utility) // 1400 6.2

		fmt.Println(analysis.CalculateICER(100, 2, 150, 3)) // 50
	}
*/
package canopy
