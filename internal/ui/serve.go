package ui

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gssantosss/horariosautomaticosloga/internal/server"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the normalize API over HTTP",
		Long: `Start an HTTP server with:

  GET  /ping           liveness check
  POST /v1/normalize   multipart "file" upload, ?format=json|xlsx

Normalization thresholds default to the [normalize] config section and can
be overridden per request with gap, inclusive, evening, morning and
crossing query parameters. Rendered results are cached by upload digest.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ttl, err := a.config.CacheTTL()
			if err != nil {
				return err
			}
			logger := a.log()

			hc := server.HandlerConfig{
				Options:        a.config.Options(logger),
				CountMode:      a.config.CountMode(),
				MaxUploadBytes: a.config.MaxUploadBytes(),
				Cache:          server.NewResultCache(a.config.Server.CacheSize, ttl, logger),
				Logger:         logger,
			}
			if a.config.Storage.History {
				repo, err := a.history()
				if err != nil {
					return err
				}
				hc.Recorder = repo
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{Addr: addr, Handler: hc, Logger: logger})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", a.config.Server.Addr, "Listen address")
	return cmd
}
