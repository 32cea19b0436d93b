// Package server boots the application: config, database, cache,
// migrations, routes, and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nkhandel/bookstock/config"
	"github.com/nkhandel/bookstock/internal/routes"
	"github.com/nkhandel/bookstock/pkg/cache"
	"github.com/nkhandel/bookstock/pkg/database"
	"github.com/nkhandel/bookstock/pkg/logger"
	"github.com/nkhandel/bookstock/pkg/metrics"
	"github.com/nkhandel/bookstock/pkg/middleware"
	"github.com/nkhandel/bookstock/pkg/migration"
	"github.com/nkhandel/bookstock/pkg/reqid"
	"github.com/nkhandel/bookstock/pkg/router"
)

// Start boots everything and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}

	// Redis is optional: without it the list endpoint reads straight from
	// the database on every request.
	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, continuing without it", "error", err)
	}

	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}

	r := NewRouter()

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bookstock listening", "addr", addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// NewRouter builds the full middleware chain and route table. Split out of
// Start so tests and route:list can construct it without listening.
func NewRouter() *router.Router {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	routes.RegisterAPI(r)
	return r
}
