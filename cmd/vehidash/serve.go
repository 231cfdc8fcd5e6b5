package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/monicalopezucha/practica-final/internal/api"
	"github.com/monicalopezucha/practica-final/internal/config"
	"github.com/monicalopezucha/practica-final/internal/dashboard"
	"github.com/monicalopezucha/practica-final/internal/dataset"
	"github.com/monicalopezucha/practica-final/internal/events"
	"github.com/monicalopezucha/practica-final/internal/favorites"
	"github.com/monicalopezucha/practica-final/internal/prefclient"
	"github.com/monicalopezucha/practica-final/internal/storage"
)

const (
	shutdownTimeout = 15 * time.Second
	sessionTTL      = 24 * time.Hour
	sweepInterval   = 10 * time.Minute
)

var prefsCmd = &cobra.Command{
	Use:     "prefs",
	Short:   "Run the preference service",
	GroupID: "servers",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, closePub, err := newPrefsServer(cfg.Preference)
		if err != nil {
			return err
		}
		defer closePub()

		return serve(ctx, "prefs", srv)
	},
}

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Short:   "Run the vehicle dashboard",
	GroupID: "servers",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, dash, store, err := newDashboardServer(ctx, cfg.Dashboard)
		if err != nil {
			return err
		}
		defer store.Close()

		go dash.SweepSessions(ctx, sweepInterval)
		maybeOpenBrowser(cfg.Dashboard)

		return serve(ctx, "dashboard", srv)
	},
}

var allCmd = &cobra.Command{
	Use:     "all",
	Short:   "Run the preference service and the dashboard together",
	GroupID: "servers",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		prefsSrv, closePub, err := newPrefsServer(cfg.Preference)
		if err != nil {
			return err
		}
		defer closePub()

		dashSrv, dash, store, err := newDashboardServer(ctx, cfg.Dashboard)
		if err != nil {
			return err
		}
		defer store.Close()

		// Either server failing cancels ctx, which shuts the other one down.
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return serve(ctx, "prefs", prefsSrv) })
		g.Go(func() error { return serve(ctx, "dashboard", dashSrv) })
		g.Go(func() error {
			dash.SweepSessions(ctx, sweepInterval)
			return nil
		})

		maybeOpenBrowser(cfg.Dashboard)

		return g.Wait()
	},
}

// newPrefsServer builds the preference service. The returned func closes the
// event publisher.
func newPrefsServer(c config.PreferenceConfig) (*http.Server, func(), error) {
	var pub events.Publisher = &events.NoopPublisher{}
	if c.NATSURL != "" {
		np, err := events.NewNATSPublisher(c.NATSURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to NATS: %w", err)
		}
		slog.Info("publishing favorite events", "nats_url", c.NATSURL)
		pub = np
	}

	srv := newHTTPServer(c.Addr(), api.NewRouter(pub))
	return srv, func() {
		if err := pub.Close(); err != nil {
			slog.Warn("failed to close event publisher", "error", err)
		}
	}, nil
}

// newDashboardServer loads the dataset, opens the liked-brand store, and
// builds the dashboard. The caller closes the store.
func newDashboardServer(ctx context.Context, c config.DashboardConfig) (*http.Server, *dashboard.Server, *storage.Store, error) {
	data, err := dataset.Load(c.DatasetPath)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.Info("loaded dataset", "path", c.DatasetPath, "rows", data.Len(), "brands", len(data.Brands()))

	store, ctrl, err := openController(ctx, c)
	if err != nil {
		return nil, nil, nil, err
	}

	dash := dashboard.NewServer(data, store, ctrl, favorites.NewSessions(sessionTTL))
	return newHTTPServer(c.Addr(), dash.Router()), dash, store, nil
}

// openController opens the store and wires it to the preference service
// client.
func openController(ctx context.Context, c config.DashboardConfig) (*storage.Store, *favorites.Controller, error) {
	store, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening liked-brand store: %w", err)
	}
	client := prefclient.New(c.PreferenceServiceURL, c.RequestTimeout())
	return store, favorites.NewController(store, client), nil
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// serve runs srv until it fails or ctx is done, then shuts it down
// gracefully.
func serve(ctx context.Context, name string, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "service", name, "addr", "http://"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s server: %w", name, err)
	case <-ctx.Done():
	}

	slog.Info("shutting down", "service", name)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down %s server: %w", name, err)
	}
	slog.Info("server stopped", "service", name)
	return nil
}

func maybeOpenBrowser(c config.DashboardConfig) {
	if !c.AutoOpenBrowser {
		return
	}
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := openBrowser("http://" + c.Addr()); err != nil {
			slog.Debug("could not open browser", "error", err)
		}
	}()
}
