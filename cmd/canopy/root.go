package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/canopy/internal/config"
	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/loader"
	"github.com/spf13/cobra"
)

// app carries the resolved settings shared by every command.
type app struct {
	cfg    config.Config
	logger *slog.Logger

	configPath string
	logLevel   string
	mode       string
	policy     string
	wtp        float64
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "canopy",
		Short: "canopy evaluates health-economic decision trees",
		Long: `canopy rolls up the expected cost and utility of every strategy in a
decision tree and compares strategies by incremental cost-effectiveness ratio.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	// Persistent flags (available to all commands)
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "canopy.yaml", "Path to an optional YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&a.mode, "mode", "", "Evaluation mode: strict or optimal")
	flags.StringVar(&a.policy, "policy", "", "Decision policy: max-utility, min-cost or net-benefit")
	flags.Float64Var(&a.wtp, "wtp", 0, "Willingness to pay per unit of utility")

	cmd.AddCommand(
		newEvaluateCmd(a),
		newICERCmd(),
		newGraphCmd(a),
		newValidateCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the config file and environment, then applies flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("mode") {
		cfg.Evaluation.Mode = a.mode
	}
	if flags.Changed("policy") {
		cfg.Evaluation.Policy = a.policy
	}
	if flags.Changed("wtp") {
		cfg.Evaluation.WillingnessToPay = a.wtp
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	return nil
}

// loadModel reads a model document; "-" reads standard input.
func (a *app) loadModel(cmd *cobra.Command, path string) (*loader.Model, error) {
	if path == "-" {
		return loader.Load(cmd.InOrStdin())
	}
	return loader.LoadFile(path)
}
