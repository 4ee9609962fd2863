package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/middleware"
	"github.com/vango-dev/vtree/pkg/server"
)

func serveCmd(opts *projectOptions) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the inspection server",
		Long: `Serve the manifest's components over HTTP.

Routes:
  GET  /healthz
  GET  /components
  POST /components/{name}/render
  POST /components/{name}/templates/{ref}/roots
  GET  /ws/{name}      live preview over websocket
  GET  /metrics        Prometheus metrics (metrics.enabled)

Examples:
  vtree serve
  vtree serve --port=8080
  vtree serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			if port > 0 {
				p.cfg.Server.Port = port
			}
			if host != "" {
				p.cfg.Server.Host = host
			}

			srvOpts := []server.Option{
				server.WithConfig(&server.Config{Address: p.cfg.Address()}),
				server.WithLogger(p.logger.With("component", "server")),
				server.WithMiddleware(middleware.OpenTelemetry()),
			}
			if p.registry != nil {
				srvOpts = append(srvOpts,
					server.WithMetrics(p.metrics, p.registry),
					server.WithMiddleware(middleware.Prometheus(
						middleware.WithNamespace(p.cfg.Metrics.Namespace),
						middleware.WithRegistry(p.registry),
					)),
				)
			}
			srv := server.New(p.env, p.set, srvOpts...)

			out := cmd.OutOrStdout()
			success(out, "Serving %d components on http://%s", len(p.set.Components), p.cfg.Address())
			return srv.Run()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}
