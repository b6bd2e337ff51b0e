package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// serveCmd serves histories and report files over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve run histories and report files over HTTP.",
	Long: `Start an HTTP server for dashboards and browsers.

Routes:
  GET /runs/:id/history      History JSON ending at run :id ('latest' allowed)
  GET /runs/:id/files/*path  Files of the run's report folder; a missing .xml
                             is converted from the .srt next to it
  GET /healthz               Liveness probe
  GET /metrics               Prometheus metrics

Examples:
  rusalad serve --listen :9090 --reports-dir /var/lib/rusalad`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := server.New(cfg, afero.NewOsFs(), storeManager)
		if err := s.ListenAndServe(ctx); err != nil {
			contract.LogFatal("Server stopped", err)
		}
	},
}
