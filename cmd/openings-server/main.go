package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/openings/internal/app"
	"github.com/at-ishikawa/openings/internal/clock"
	"github.com/at-ishikawa/openings/internal/config"
	"github.com/at-ishikawa/openings/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("godotenv.Load() > %w", err)
	}
	setupLogger(os.Getenv("OPENINGS_DEBUG") != "")

	cfg, err := config.Load(os.Getenv("OPENINGS_CONFIG"))
	if err != nil {
		return fmt.Errorf("config.Load() > %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, clock.System{})
	if err != nil {
		return fmt.Errorf("app.New() > %w", err)
	}
	defer func() {
		_ = a.Close()
	}()

	if cfg.Catalog.ReloadInterval > 0 {
		reloader := app.NewReloader(a)
		if err := reloader.Start(cfg.Catalog.ReloadInterval); err != nil {
			return fmt.Errorf("reloader.Start() > %w", err)
		}
		defer reloader.Stop()
	}

	router := server.New(a.Trainer(), cfg.Server).Router()
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr, "storage", cfg.Storage.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe() > %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown() > %w", err)
	}
	return nil
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
