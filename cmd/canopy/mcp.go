package main

import (
	"github.com/aretw0/canopy/pkg/adapters/mcp"
	"github.com/aretw0/canopy/pkg/observability"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server on stdio",
		Long: `Starts canopy as an MCP Server over Standard Input/Output, exposing the
evaluate_model, calculate_icer and render_graph tools to AI agents.
Logs go to stderr so they never corrupt the JSON-RPC stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mcp.NewServer(a.cfg.Evaluation,
				mcp.WithLogger(a.logger),
				mcp.WithHooks(observability.LoggingHooks(a.logger)),
			)
			a.logger.Info("Starting canopy MCP Server (Stdio)")
			if err := srv.ServeStdio(); err != nil {
				a.logger.Error("MCP Server execution failed", "error", err)
				return err
			}
			return nil
		},
	}
}
