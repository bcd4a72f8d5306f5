package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"omnibox_backend/internal/events"
	"omnibox_backend/internal/history"
	apphttp "omnibox_backend/internal/http"
	"omnibox_backend/internal/http/router"
	"omnibox_backend/internal/omnibox"
	"omnibox_backend/platform/config"
	"omnibox_backend/platform/logger"
	"omnibox_backend/platform/validator"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	eventBus := events.NewInMemoryBus(log)

	store, closeStore := initHistoryStore(ctx, cfg, log)
	defer closeStore()
	history.NewRecorder(store).RegisterHandlers(eventBus)

	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	omniboxModule, err := omnibox.NewModule(cfg, eventBus, store, val, log)
	if err != nil {
		log.Error("failed to initialize omnibox module", "error", err)
		panic("failed to initialize omnibox module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Env:     cfg.Env,
		Config:  cfg,
		Logger:  log,
		Health:  store,
		Modules: []apphttp.Module{omniboxModule},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		eventBus.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func initHistoryStore(ctx context.Context, cfg config.HistoryConfig, log *logger.Logger) (history.Store, func()) {
	if !cfg.IsHistoryEnabled() {
		log.Warn("REDIS_URL not configured; classification history disabled")
		return history.NopStore{}, func() {}
	}

	var rdb *redis.Client
	err := withRetry(ctx, log, "redis connection", 3, time.Second, func() error {
		client, err := history.NewRedisClient(ctx, cfg.GetRedisURL())
		if err != nil {
			return err
		}
		rdb = client
		return nil
	})
	if err != nil {
		log.Error("failed to connect to redis; classification history disabled", "error", err)
		return history.NopStore{}, func() {}
	}

	log.Info("history store initialized", "maxEntries", cfg.GetHistoryMaxEntries(), "ttl", cfg.GetHistoryTTL())
	return history.NewRedisStore(rdb, cfg.GetHistoryMaxEntries(), cfg.GetHistoryTTL()), func() {
		_ = rdb.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * baseDelay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
