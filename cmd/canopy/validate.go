package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/internal/presentation/tui"
	"github.com/aretw0/canopy/pkg/graph"
	"github.com/spf13/cobra"
)

// errInvalid is returned once every problem has been printed.
var errInvalid = errors.New("model is invalid")

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a model for consistency",
		Long: `Loads a model and checks every decision tree for cycles, nil or shared
nodes and empty decisions, then evaluates it in the configured mode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			style := tui.NewStyler(out)

			model, err := a.loadModel(cmd, args[0])
			if err != nil {
				fmt.Fprintln(out, style.Fail(err.Error()))
				return errInvalid
			}
			opts, err := a.cfg.Evaluation.EngineOptions(model.WillingnessToPay)
			if err != nil {
				return err
			}
			eng := canopy.New(append(opts, canopy.WithLogger(a.logger))...)

			failed := false
			for _, d := range model.Decisions {
				if err := graph.Validate(d); err != nil {
					fmt.Fprintf(out, "%s: %s\n", d.Name, style.Fail(err.Error()))
					failed = true
					continue
				}
				if _, err := eng.Decide(d); err != nil {
					fmt.Fprintf(out, "%s: %s\n", d.Name, style.Warn(err.Error()))
					failed = true
					continue
				}
				fmt.Fprintf(out, "%s: ok\n", d.Name)
			}
			if failed {
				return errInvalid
			}
			fmt.Fprintln(out, "Model is valid! ✅")
			return nil
		},
	}
}
