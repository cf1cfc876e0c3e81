// Package cli consolidates process initialization shared by cmd binaries:
// logging, .env loading, config validation, and graceful shutdown.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tally/internal/backend"
	"tally/internal/config"
	"tally/internal/log"
)

// SetupLogger initializes structured logging and installs it as the default.
func SetupLogger(level string) *log.Logger {
	logger := log.New(log.ParseLevel(level), log.ComponentApp)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the configured record store or exits on failure.
func InitStore(logger *log.Logger, cfg *config.Config) *backend.Result {
	result, err := backend.New(cfg)
	if err != nil {
		logger.Error("Failed to initialize record store",
			log.FieldError, err,
			"backend", cfg.DataBackend,
			"db_path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	logger.Info("Record store ready", "backend", cfg.DataBackend)
	return result
}

// GracefulShutdown returns a context cancelled on SIGINT/SIGTERM, running
// cleanup before the cancellation propagates.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		done := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(done)
		}()

		select {
		case <-done:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		cancel()
	}()

	return ctx
}
