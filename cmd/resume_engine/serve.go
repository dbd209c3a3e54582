package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-markup/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server that exposes rendering, job analysis and scoring as REST endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := root.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			deps := server.Deps{Services: a.svc, Logger: a.log}
			if a.database != nil {
				deps.Renders = a.database
				deps.Health = a.database
			}

			srv := server.New(deps, server.Options{
				Port:           cfg.Server.Port,
				ReadTimeout:    cfg.Server.ReadTimeout,
				WriteTimeout:   cfg.Server.WriteTimeout,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				RateLimit:      cfg.RateLimiterConfig(),
			})
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on (overrides server.port)")
	return cmd
}
