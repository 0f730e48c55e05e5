package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cedarbank/cedar_bank/internal/config"
	"github.com/cedarbank/cedar_bank/internal/infra"
	"github.com/cedarbank/cedar_bank/internal/logging"
	"github.com/cedarbank/cedar_bank/internal/routes"
	"github.com/cedarbank/cedar_bank/internal/server"
	"github.com/cedarbank/cedar_bank/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	deps := routes.Deps{}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		deps.Store = store.NewMemory()
	case config.DriverFile:
		fs, err := store.NewFile(cfg.DataDir)
		if err != nil {
			logger.Error("open file store", "error", err)
			os.Exit(1)
		}
		deps.Store = fs
	case config.DriverPostgres:
		db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pg := store.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Error("apply schema", "error", err)
			os.Exit(1)
		}
		deps.DB = db
		deps.Store = pg
	case config.DriverRedis:
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		deps.Cache = cache
		deps.Store = store.NewRedis(cache)
	}

	// a redis cache enables the idempotency middleware even when records
	// live elsewhere
	if deps.Cache == nil && cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		deps.Cache = cache
	}

	srv, err := server.New(cfg, deps, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	logger.Info("starting server",
		"addr", cfg.Address(),
		"storage_driver", cfg.StorageDriver,
		"secret_scheme", cfg.SecretScheme,
	)

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
