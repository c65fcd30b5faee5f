package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aretw0/canopy/internal/report"
	"github.com/aretw0/canopy/pkg/analysis"
	"github.com/spf13/cobra"
)

func newICERCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "icer COST_A UTILITY_A COST_B UTILITY_B",
		Short: "Compute the ICER of strategy B over strategy A",
		Long: `Prints (COST_B - COST_A) / (UTILITY_B - UTILITY_A).
When B gains no utility over A the ratio is reported as infinite.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v [4]float64
			for i, arg := range args {
				f, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("argument %d: %w", i+1, err)
				}
				v[i] = f
			}

			icer := analysis.CalculateICER(v[0], v[1], v[2], v[3])
			out := cmd.OutOrStdout()
			if math.IsInf(icer, 0) {
				fmt.Fprintf(out, "ICER: %s (B gains no utility over A)\n", report.Ratio(icer))
				return nil
			}
			fmt.Fprintf(out, "ICER: %s\n", report.Ratio(icer))
			return nil
		},
	}
}
