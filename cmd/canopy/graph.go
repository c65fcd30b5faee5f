package main

import (
	"fmt"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	var (
		overlay  bool
		decision string
	)
	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Export the decision tree as a Mermaid diagram",
		Long: `Outputs one Mermaid flowchart (graph TD) per decision of the model.
With --overlay the branches chosen by the decision policy are highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.loadModel(cmd, args[0])
			if err != nil {
				return err
			}
			opts, err := a.cfg.Evaluation.EngineOptions(model.WillingnessToPay)
			if err != nil {
				return err
			}
			eng := canopy.New(append(opts, canopy.WithLogger(a.logger))...)

			var sel graph.Selector
			if overlay {
				sel = eng
			}

			out := cmd.OutOrStdout()
			rendered := 0
			for _, d := range model.Decisions {
				if decision != "" && d.Name != decision {
					continue
				}
				diagram, err := graph.Diagram(d, sel)
				if err != nil {
					return fmt.Errorf("render %q: %w", d.Name, err)
				}
				if rendered > 0 {
					fmt.Fprintln(out)
				}
				if _, err := fmt.Fprint(out, diagram); err != nil {
					return err
				}
				rendered++
			}
			if rendered == 0 {
				return fmt.Errorf("no decision named %q", decision)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&overlay, "overlay", false, "Highlight the branches chosen by the decision policy")
	cmd.Flags().StringVar(&decision, "decision", "", "Only render the decision with this name")
	return cmd
}
