package evaluation

import (
	"fmt"
	"strings"

	"github.com/aretw0/canopy/pkg/domain"
)

// Policy ranks the outcomes of a decision's branches. Higher scores win.
type Policy interface {
	Name() string
	Score(o domain.Outcome) float64
}

// Policy names accepted by ParsePolicy.
const (
	PolicyMaxUtility = "max-utility"
	PolicyMinCost    = "min-cost"
	PolicyNetBenefit = "net-benefit"
)

type maxUtility struct{}

func (maxUtility) Name() string                   { return PolicyMaxUtility }
func (maxUtility) Score(o domain.Outcome) float64 { return o.Utility }

type minCost struct{}

func (minCost) Name() string                   { return PolicyMinCost }
func (minCost) Score(o domain.Outcome) float64 { return -o.Cost }

type netBenefit struct {
	wtp float64
}

func (p netBenefit) Name() string { return fmt.Sprintf("%s(wtp=%g)", PolicyNetBenefit, p.wtp) }

func (p netBenefit) Score(o domain.Outcome) float64 { return p.wtp*o.Utility - o.Cost }

// MaxUtility prefers the branch with the highest expected utility.
func MaxUtility() Policy { return maxUtility{} }

// MinCost prefers the branch with the lowest expected cost.
func MinCost() Policy { return minCost{} }

// MaxNetBenefit prefers the branch with the highest net monetary benefit
// (wtp × utility − cost) at the given willingness to pay per unit of utility.
func MaxNetBenefit(wtp float64) Policy { return netBenefit{wtp: wtp} }

// ParsePolicy resolves a policy by name. wtp is only used by "net-benefit".
func ParsePolicy(name string, wtp float64) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyMaxUtility:
		return MaxUtility(), nil
	case PolicyMinCost:
		return MinCost(), nil
	case PolicyNetBenefit, "nmb":
		return MaxNetBenefit(wtp), nil
	}
	return nil, fmt.Errorf("unknown decision policy %q (want %s, %s or %s)",
		name, PolicyMaxUtility, PolicyMinCost, PolicyNetBenefit)
}
