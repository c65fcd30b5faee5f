/*
Package evaluation rolls a decision tree up into expected cost and utility.

The roll-up is a read-only, depth-first traversal. A leaf chance node
contributes exactly its own cost and utility; an inner chance node adds the
probability-weighted outcomes of its children to its own. The node's own
probability is always applied by its parent.

How a DecisionNode found below a ChanceNode is treated is an explicit choice
(Mode):

  - ModeStrict rejects it with a *domain.MalformedTreeError.
  - ModeDecisionOptimal evaluates every branch and keeps the one preferred
    by the configured Policy.

Evaluators hold only immutable configuration and can be shared between
goroutines.
*/
package evaluation
