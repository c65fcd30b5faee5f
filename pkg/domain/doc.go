/*
Package domain contains the core decision-tree model of canopy.

It defines the two node variants of a decision tree and the outcome pair
produced by rolling a tree up. This package is kept pure and free of
external dependencies like I/O or persistence, so it can be shared by the
evaluator, the renderers and the input adapters alike.

# Key Entities

  - DecisionNode: A choice among strategies. Its branches are ChanceNodes.
  - ChanceNode: A probabilistic event carrying its own incremental cost and
    utility plus the probability of being reached from its parent.
  - Node: The sealed sum of both variants, used wherever a child may be
    either kind.
  - Outcome: An (expected cost, expected utility) pair.
*/
package domain
