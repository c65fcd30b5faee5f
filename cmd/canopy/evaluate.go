package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/internal/dto"
	"github.com/aretw0/canopy/internal/presentation/tui"
	"github.com/aretw0/canopy/internal/report"
	"github.com/aretw0/canopy/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	promdto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		format      string
		withMetrics bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate FILE",
		Short: "Evaluate every decision of a model",
		Long: `Loads a model document (YAML or JSON, "-" for stdin), rolls up every
strategy and prints the incremental cost-effectiveness analysis.`,
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

			reg := prometheus.NewRegistry()
			metrics, err := observability.NewMetrics(reg)
			if err != nil {
				return err
			}
			opts = append(opts,
				canopy.WithLogger(a.logger),
				canopy.WithHooks(observability.Combine(
					metrics.Hooks(),
					observability.LoggingHooks(a.logger),
				)),
			)

			analysis, err := canopy.New(opts...).Analyze(model)
			if err != nil {
				return err
			}

			if err := writeAnalysis(cmd.OutOrStdout(), format, analysis); err != nil {
				return err
			}
			if withMetrics {
				families, err := reg.Gather()
				if err != nil {
					return err
				}
				return writeMetrics(cmd.ErrOrStderr(), families)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown or json")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "Write evaluation metrics in Prometheus text format to stderr")
	return cmd
}

func writeAnalysis(w io.Writer, format string, a *canopy.Analysis) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.FromAnalysis(a))
	case "markdown", "md":
		md := report.Markdown(a)
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			width, _, err := term.GetSize(int(f.Fd()))
			if err != nil {
				width = 0
			}
			render, err := tui.NewRenderer(width)
			if err != nil {
				return err
			}
			if md, err = render(md); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, md)
		return err
	}
	return fmt.Errorf("unknown format %q (want markdown or json)", format)
}

func writeMetrics(w io.Writer, families []*promdto.MetricFamily) error {
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
