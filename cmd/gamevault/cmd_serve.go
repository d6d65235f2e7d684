package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryanm101/gamevault/internal/api"
	"github.com/ryanm101/gamevault/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(app *appContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the library over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := app.service(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = app.cfg.Addr()
			}

			server := api.NewServer(app.db, svc, api.Options{
				LibraryRoot: app.cfg.GetLibraryPath(),
				APIKey:      app.cfg.Server.APIKey,
			})
			if app.cfg.Server.APIKey == "" {
				logging.Warn("no api key configured, mutating endpoints are open")
			}

			// Enrichment runs inside a request, so there is no write timeout.
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       30 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.Info("listening", "addr", addr, "library", app.cfg.GetLibraryPath())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logging.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.bind_address:server.port)")
	return cmd
}
