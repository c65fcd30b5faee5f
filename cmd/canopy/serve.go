package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/internal/presentation/tui"
	httpAdapter "github.com/aretw0/canopy/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serves model evaluation over HTTP:

  POST /v1/evaluate   model document in, incremental analysis out
  POST /v1/icer       ICER of two (cost, utility) pairs
  POST /v1/graph      Mermaid diagram of each decision
  GET  /healthz
  GET  /metrics       Prometheus exposition`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.HTTP.Addr = addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			handler, err := httpAdapter.NewHandler(httpAdapter.Options{
				Evaluation: a.cfg.Evaluation,
				Logger:     a.logger,
				Registry:   reg,
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              a.cfg.HTTP.Addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				tui.PrintBanner(cmd.ErrOrStderr(), strings.TrimSpace(canopy.Version))
				a.logger.Info("Starting canopy server", "addr", srv.Addr, "mode", a.cfg.Evaluation.Mode, "policy", a.cfg.Evaluation.Policy)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)
			case <-ctx.Done():
				a.logger.Info("Start shutdown")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
					return srv.Close()
				}
				a.logger.Info("canopy server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (default from config, :8080)")
	return cmd
}
