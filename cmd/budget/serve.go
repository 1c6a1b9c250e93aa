package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"budget/internal/cli"
	apphttp "budget/internal/http"
	"budget/internal/log"
	"budget/internal/metrics"
	"budget/internal/services"
)

const shutdownTimeout = 30 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Args:  cobra.NoArgs,
	Short: "Serve the web interface",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if servePort != "" {
			cfg.Port = servePort
		}
		logger := cli.SetupLogger(os.Stdout, cfg.LogLevel)

		m := metrics.New()
		tracker, cleanup, err := cli.OpenTracker(cmd.Context(), cfg, logger, services.WithMetrics(m))
		if err != nil {
			logger.Error("Failed to open tracker", log.FieldError, err, "backend", cfg.DataBackend)
			return err
		}
		defer func() {
			if err := cleanup(); err != nil {
				logger.Error("Failed to close store", log.FieldError, err)
			}
		}()

		srv, err := apphttp.NewServer(":"+cfg.Port, tracker, apphttp.Options{
			CurrencySymbol:  cfg.CurrencySymbol,
			RateLimitRPS:    cfg.RateLimitRPS,
			RateLimitBurst:  cfg.RateLimitBurst,
			SummaryCacheTTL: cfg.SummaryCacheTTL,
			Metrics:         m,
			Logger:          logger,
		})
		if err != nil {
			return fmt.Errorf("create server: %w", err)
		}

		ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, srv.Shutdown)

		logger.Info("Starting budget server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
			return err
		}

		<-ctx.Done()
		<-done
		logger.Info("Server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port, overrides PORT.")
}
