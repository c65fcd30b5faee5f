package analysis

import (
	"math"

	"github.com/aretw0/canopy/pkg/domain"
)

// CalculateICER returns the incremental cost-effectiveness ratio of B over A:
// (costB - costA) / (utilityB - utilityA).
//
// When B gains exactly no utility over A the ratio is undefined and +Inf is
// returned instead of an error, whatever the cost difference. A negative
// result means B is either cheaper and more effective or costlier and less
// effective; classifying that is left to the caller.
func CalculateICER(costA, utilityA, costB, utilityB float64) float64 {
	deltaCost := costB - costA
	deltaUtility := utilityB - utilityA
	if deltaUtility == 0 {
		return math.Inf(1)
	}
	return deltaCost / deltaUtility
}

// ICER is CalculateICER over two outcomes.
func ICER(a, b domain.Outcome) float64 {
	return CalculateICER(a.Cost, a.Utility, b.Cost, b.Utility)
}

// NetMonetaryBenefit values an outcome at wtp per unit of utility, net of its cost.
func NetMonetaryBenefit(o domain.Outcome, wtp float64) float64 {
	return wtp*o.Utility - o.Cost
}
