package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayvista/internal/server"
	"stayvista/internal/shared"

	"github.com/joho/godotenv"
)

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("no .env file, using process environment")
	}

	cfg, err := shared.LoadServerConfig()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := server.OpenStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	logger.Info("store ready", "driver", cfg.StoreDriver, "database", cfg.DBName, "collection", cfg.DBCollection)

	api := &server.API{
		Store:        store,
		Tokens:       shared.NewTokenIssuer([]byte(cfg.TokenSecret), cfg.TokenTTL),
		Policy:       cfg.Auth,
		CookieSecure: cfg.CookieSecure,
		Log:          logger,
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("sv-server listening", "addr", cfg.Addr,
			"protect_writes", cfg.Auth.ProtectWrites,
			"protect_room_reads", cfg.Auth.ProtectRoomReads,
			"protect_my_listings", cfg.Auth.ProtectMyListings,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error("listen failed", "err", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("store close", "err", err)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
