package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bengali-mteb/leaderboard/internal/webserver"
)

func newServeCommand(gf *globalFlags) *cobra.Command {
	var (
		port           int
		noBrowser      bool
		allowedOrigins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the leaderboard dashboard and JSON API",
		Long: `Start an HTTP server on 127.0.0.1 with the HTML dashboard at / and the JSON
API under /api/.

Results are loaded once at startup. POST /api/reload rebuilds them; the
previous results keep being served until the rebuild completes. The server
stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(gf)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				port = s.cfg.Server.Port
			}
			if !cmd.Flags().Changed("allow-origin") {
				allowedOrigins = s.cfg.Server.AllowedOrigins
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := webserver.New(webserver.Config{
				Port:           port,
				NoBrowser:      noBrowser,
				AllowedOrigins: allowedOrigins,
				Logger:         slog.Default(),
				Service:        s.svc,
			})
			if err != nil {
				return err
			}

			// Requests arriving before the first build wait for it.
			go func() {
				if _, err := s.store.Aggregate(ctx); err != nil && ctx.Err() == nil {
					slog.Warn("initial load failed", "error", err)
				}
			}()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", webserver.DefaultPort, "Port to listen on (default: server.port)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open a browser")
	cmd.Flags().StringSliceVar(&allowedOrigins, "allow-origin", nil, "Origins allowed to call the API cross-origin (repeatable)")
	return cmd
}
