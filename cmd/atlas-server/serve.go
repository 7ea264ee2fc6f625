package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/3GHCRE/atlas-sub000/internal/api"
	"github.com/3GHCRE/atlas-sub000/internal/config"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API and Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := api.NewRouter(ctx, &api.RouterDeps{
		Log:         a.log,
		Network:     a.network,
		Health:      a.store,
		CORSOrigins: a.cfg.CORSOrigins,
		APIKey:      a.cfg.APIKey.Value(),
		RateLimit:   a.cfg.RateLimit,
		RateBurst:   a.cfg.RateBurst,
		Version:     config.Version,
	})

	servers := []*http.Server{
		newHTTPServer(a.cfg.Addr(), handler, a.cfg.TraverseTimeout),
		newHTTPServer(a.cfg.MetricsAddr(), api.NewMetricsHandler(), 0),
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			a.log.WithField("addr", srv.Addr).Info("listening")

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving %s: %w", srv.Addr, err)
			}

			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutting down %s: %w", srv.Addr, err))
			}
		}

		return errors.Join(errs...)
	})

	return g.Wait()
}

// newHTTPServer builds a server whose write timeout leaves room for a
// traversal that runs up to its own timeout.
func newHTTPServer(addr string, h http.Handler, work time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      work + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
