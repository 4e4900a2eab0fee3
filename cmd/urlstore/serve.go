package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/urlstore/internal/server"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP codec service",
		Long: `Run the HTTP codec service.

Routes:
  POST /v1/decode   fragment or URL to state
  POST /v1/encode   state to fragment
  GET  /v1/ws       websocket location session
  GET  /metrics     Prometheus metrics
  GET  /healthz     liveness

Examples:
  urlstore serve
  urlstore serve --port=9090
  urlstore serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}

			logger, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			srv, err := server.New(cfg, server.WithLogger(logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}
