package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-planner/internal/cache"
	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/config"
	"github.com/rpgo/retirement-planner/internal/server"
	"github.com/rpgo/retirement-planner/internal/service"
	"github.com/rpgo/retirement-planner/internal/store"
)

var flagSettings string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planner HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSettings, "settings", "rpgo.toml", "Settings file (TOML); defaults apply when missing")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings(flagSettings)
	if err != nil {
		return err
	}

	logger := settings.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := buildService(ctx, settings, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(svc, settings.Server, logger)
	logger.Info("starting server", "addr", settings.Server.Addr,
		"store", settings.Store.Driver, "cache", settings.Cache.Backend)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// buildService opens the record store and projection cache named by settings.
// The returned cleanup closes both.
func buildService(ctx context.Context, settings config.Settings, logger *slog.Logger) (*service.PlannerService, func(), error) {
	repo, err := store.Open(settings.Store.Driver, settings.Store.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", settings.Store.Driver, err)
	}
	closers := []func() error{repo.Close}

	engine := calculation.NewCalculationEngine()
	engine.SetLogger(calculation.NewSlogLogger(logger))

	opts := []service.Option{service.WithLogger(logger)}
	switch settings.Cache.Backend {
	case config.CacheRedis:
		rc := cache.NewRedisCache(cache.RedisOptions{
			Addr:     settings.Cache.RedisAddr,
			Password: settings.Cache.RedisPassword,
			DB:       settings.Cache.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			// Projections still work uncached.
			logger.Warn("redis unavailable, projections will not be cached", "addr", settings.Cache.RedisAddr, "error", err)
			_ = rc.Close()
		} else {
			closers = append(closers, rc.Close)
			opts = append(opts, service.WithCache(rc, settings.Cache.CacheTTL()))
		}
	case config.CacheMemory:
		opts = append(opts, service.WithCache(cache.NewMemoryCache(), settings.Cache.CacheTTL()))
	}

	cleanup := func() {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		if err := errors.Join(errs...); err != nil {
			logger.Error("shutdown cleanup", "error", err)
		}
	}
	return service.NewPlannerService(repo, engine, opts...), cleanup, nil
}
