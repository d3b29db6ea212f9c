// Command timelined serves interactive timeline sessions over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"eracanvas/internal/catalog"
	"eracanvas/internal/config"
	"eracanvas/internal/logging"
	"eracanvas/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFile := flag.String("config", "", "YAML configuration file (optional)")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// A missing .env is normal outside development.
	envLoaded := godotenv.Load() == nil

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *debugFlag {
		cfg.Logging.Level = "debug"
	}

	logger := logging.New(cfg.Logging.Level)
	logger.Debug("configuration loaded", "dotenv", envLoaded, "addr", cfg.Server.Addr)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	records, err := catalog.Load(cfg.Data.ItemsDir, cfg.Data.LandmarksFile)
	if err != nil {
		return err
	}
	logger.Info("records loaded", "items", len(records.Items()), "landmarks", len(records.Landmarks()))

	opts := cfg.EngineOptions()
	opts.Logger = logger

	sessions := server.NewRegistry(records.Items(), records.Landmarks(), server.RegistryOptions{
		Engine:       opts,
		Theme:        cfg.Theme,
		TickInterval: cfg.TickInterval(),
		MaxSessions:  cfg.Server.MaxSessions,
		SessionTTL:   cfg.Server.SessionTTL,
		EventRate:    cfg.Server.EventRate,
		EventBurst:   cfg.Server.EventBurst,
		Logger:       logger,
	})
	srv := server.New(sessions, server.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Logger:       logger,
		Catalog:      records,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.SessionTTL > 0 {
		go sessions.Run(ctx, cfg.Server.SessionTTL/2)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
