// Package cli provides the startup helpers shared by the budget commands:
// logging, configuration and opening the tracker on the configured store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"budget/internal/backend"
	"budget/internal/config"
	"budget/internal/log"
	"budget/internal/services"
)

// SetupLogger builds the process logger writing to out: text for a
// terminal, JSON otherwise. It also becomes the slog default.
func SetupLogger(out *os.File, level string) *log.Logger {
	opts := &slog.HandlerOptions{Level: log.ParseLevel(level)}

	var handler slog.Handler
	if isTerminal(out) {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := log.New(log.Config{Component: log.ComponentApp, Handler: handler})
	log.SetDefault(logger)
	return logger
}

// DiscardLogger drops everything. One-shot commands use it under --quiet.
func DiscardLogger() *log.Logger {
	return log.New(log.Config{Component: log.ComponentCLI, Handler: slog.NewTextHandler(io.Discard, nil)})
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenTracker opens the configured backend and loads the tracker from it.
// Unreadable stored data is logged and the tracker starts from what could
// be read. The returned cleanup closes the store.
func OpenTracker(ctx context.Context, cfg *config.Config, logger *log.Logger, opts ...services.Option) (*services.Tracker, func() error, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		if res.Cleanup == nil {
			return nil
		}
		return res.Cleanup()
	}

	opts = append([]services.Option{
		services.WithLogger(logger),
		services.WithSeedCategories(cfg.SeedCategories),
	}, opts...)
	tracker := services.NewTracker(res.Store, opts...)

	if err := tracker.Load(ctx); err != nil {
		if errors.Is(err, services.ErrIDExhausted) {
			_ = cleanup()
			return nil, nil, err
		}
		logger.WarnContext(ctx, "Started with partially unreadable data",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeStorage)
	}
	return tracker, cleanup, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. On
// the signal, shutdown runs with a timeout-bound context.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, shutdown func(context.Context) error) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if shutdown != nil {
			if err := shutdown(shutdownCtx); err != nil {
				logger.Error("Shutdown error", log.FieldError, err)
			}
		}
		cancel()
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}
