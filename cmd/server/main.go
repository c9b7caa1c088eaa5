// Package main is the entrypoint for the Inkwell API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/inkwell/internal/api"
	"github.com/kiranshivaraju/inkwell/internal/api/handler"
	mw "github.com/kiranshivaraju/inkwell/internal/api/middleware"
	"github.com/kiranshivaraju/inkwell/internal/auth"
	"github.com/kiranshivaraju/inkwell/internal/config"
	"github.com/kiranshivaraju/inkwell/internal/limiter"
	"github.com/kiranshivaraju/inkwell/internal/posts"
	"github.com/kiranshivaraju/inkwell/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, cfg.Server.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Rate-limit counter
	counter, err := limiter.NewRedisCounter(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis counter: %w", err)
	}
	defer counter.Close()

	if err := counter.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Wire store, service and router
	pgStore := store.NewPostgresStore(pool)
	router := api.NewRouter(api.Dependencies{
		Auth:          mw.NewAuth(auth.NewTokenVerifier(auth.TokenConfigFrom(cfg.Auth))),
		RateLimit:     mw.NewRateLimit(counter, cfg.RateLimit.RequestsPerMinute),
		HealthHandler: handler.NewHealthHandler(pgStore, counter),
		Posts:         handler.NewPosts(posts.NewService(pgStore)),
	})

	// 6. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
