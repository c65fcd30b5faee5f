// Package report formats an analysis as a markdown document.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/pkg/analysis"
)

// Markdown renders one section per decision: the evaluated alternatives
// followed by the incremental cost-effectiveness table.
func Markdown(a *canopy.Analysis) string {
	var sb strings.Builder

	title := a.Model
	if title == "" {
		title = "Decision analysis"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "Mode `%s`, policy `%s`", a.Mode, a.Policy)
	if a.WillingnessToPay > 0 {
		fmt.Fprintf(&sb, ", willingness to pay %s per unit of utility", Number(a.WillingnessToPay))
	}
	sb.WriteString(".\n")

	for _, da := range a.Decisions {
		fmt.Fprintf(&sb, "\n## %s\n\n", da.Decision.Name)

		sb.WriteString("| Strategy | Probability | Expected cost | Expected utility |\n")
		sb.WriteString("|---|---:|---:|---:|\n")
		for i, alt := range da.Decision.Alternatives {
			name := alt.Name
			if i == da.Decision.Selected {
				name = "**" + name + "**"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				name, Number(alt.Probability), Number(alt.Outcome.Cost), Number(alt.Outcome.Utility))
		}
		fmt.Fprintf(&sb, "\nSelected by `%s`: **%s**.\n", da.Decision.Policy, da.Decision.Choice().Name)

		sb.WriteString("\n| Strategy | Status | Compared with | Δ cost | Δ utility | ICER |\n")
		sb.WriteString("|---|---|---|---:|---:|---:|\n")
		for _, r := range da.Rows {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
				r.Name, r.Status, dash(r.Comparator), delta(r), deltaUtility(r), Ratio(r.ICER))
		}
		if da.Preferred != "" {
			fmt.Fprintf(&sb, "\nPreferred at the willingness to pay: **%s**.\n", da.Preferred)
		}
	}
	return sb.String()
}

// Number formats a value with at most four decimals and no trailing zeros.
func Number(f float64) string {
	return strconv.FormatFloat(math.Round(f*1e4)/1e4, 'f', -1, 64)
}

// Ratio formats an ICER: "-" when undefined and "∞" when unbounded.
func Ratio(f float64) string {
	switch {
	case math.IsNaN(f):
		return "-"
	case math.IsInf(f, 1):
		return "∞"
	case math.IsInf(f, -1):
		return "-∞"
	}
	return Number(f)
}

// Increments are only meaningful between neighbours on the frontier.
func incremental(r analysis.Row) bool {
	return r.Status == analysis.StatusFrontier && r.Comparator != ""
}

func delta(r analysis.Row) string {
	if !incremental(r) {
		return "-"
	}
	return Number(r.IncrementalCost)
}

func deltaUtility(r analysis.Row) string {
	if !incremental(r) {
		return "-"
	}
	return Number(r.IncrementalUtility)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
