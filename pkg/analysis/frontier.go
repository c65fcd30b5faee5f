package analysis

import (
	"cmp"
	"math"
	"slices"

	"github.com/aretw0/canopy/pkg/domain"
)

// Status classifies an alternative in an incremental analysis.
type Status string

const (
	// StatusFrontier marks an alternative on the cost-effectiveness frontier.
	StatusFrontier Status = "frontier"
	// StatusDominated marks an alternative that costs at least as much as a
	// cheaper one while gaining no more utility.
	StatusDominated Status = "dominated"
	// StatusExtendedlyDominated marks an alternative beaten by a combination
	// of its neighbours on the frontier.
	StatusExtendedlyDominated Status = "extendedly dominated"
)

// Strategy is a named, evaluated alternative.
type Strategy struct {
	Name    string         `json:"name"`
	Outcome domain.Outcome `json:"outcome"`
}

// Row is one line of an incremental analysis.
type Row struct {
	Strategy
	Status Status `json:"status"`
	// Comparator is the previous frontier strategy for frontier rows, or the
	// strategy responsible for the domination otherwise. Empty for the reference.
	Comparator         string  `json:"comparator,omitempty"`
	IncrementalCost    float64 `json:"incremental_cost"`
	IncrementalUtility float64 `json:"incremental_utility"`
	// ICER is NaN for the reference strategy and for dominated rows.
	ICER float64 `json:"icer"`
}

// Incremental ranks strategies by cost and classifies them against the
// cost-effectiveness frontier. Rows come back in ascending cost order, ties
// broken by descending utility then input order.
func Incremental(strategies []Strategy) []Row {
	rows := make([]Row, len(strategies))
	for i, s := range strategies {
		rows[i] = Row{Strategy: s, Status: StatusFrontier, ICER: math.NaN()}
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		if c := cmp.Compare(a.Outcome.Cost, b.Outcome.Cost); c != 0 {
			return c
		}
		return cmp.Compare(b.Outcome.Utility, a.Outcome.Utility)
	})
	if len(rows) == 0 {
		return rows
	}

	// Strong dominance: anything not strictly more effective than a
	// cheaper (or equally cheap) strategy.
	best := 0
	for i := 1; i < len(rows); i++ {
		if rows[i].Outcome.Utility <= rows[best].Outcome.Utility {
			rows[i].Status = StatusDominated
			rows[i].Comparator = rows[best].Name
			continue
		}
		best = i
	}

	// Extended dominance: ICERs along the frontier must increase.
	for {
		frontier := frontierIndexes(rows)
		removed := false
		for k := 1; k+1 < len(frontier); k++ {
			prev, cur, next := frontier[k-1], frontier[k], frontier[k+1]
			if ICER(rows[prev].Outcome, rows[cur].Outcome) > ICER(rows[cur].Outcome, rows[next].Outcome) {
				rows[cur].Status = StatusExtendedlyDominated
				rows[cur].Comparator = rows[next].Name
				removed = true
				break
			}
		}
		if !removed {
			break
		}
	}

	frontier := frontierIndexes(rows)
	for k := 1; k < len(frontier); k++ {
		prev, cur := &rows[frontier[k-1]], &rows[frontier[k]]
		cur.Comparator = prev.Name
		cur.IncrementalCost = cur.Outcome.Cost - prev.Outcome.Cost
		cur.IncrementalUtility = cur.Outcome.Utility - prev.Outcome.Utility
		cur.ICER = ICER(prev.Outcome, cur.Outcome)
	}
	return rows
}

// Preferred returns the frontier strategy with the highest ICER not above
// wtp, i.e. the most effective strategy still worth its price.
// ok is false when rows is empty.
func Preferred(rows []Row, wtp float64) (Row, bool) {
	frontier := frontierIndexes(rows)
	if len(frontier) == 0 {
		return Row{}, false
	}
	chosen := rows[frontier[0]]
	for _, i := range frontier[1:] {
		if rows[i].ICER <= wtp {
			chosen = rows[i]
		}
	}
	return chosen, true
}

func frontierIndexes(rows []Row) []int {
	var idx []int
	for i, r := range rows {
		if r.Status == StatusFrontier {
			idx = append(idx, i)
		}
	}
	return idx
}
