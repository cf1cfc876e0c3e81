package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"tally/internal/cli"
	apphttp "tally/internal/http"
	"tally/internal/log"
	"tally/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg)
	service := services.NewLedgerService(store.Store)

	srv := apphttp.NewServer(":"+cfg.Port, service, cfg.CacheTTL)

	ctx := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := service.Close(); err != nil {
			logger.Error("Store close error", log.FieldError, err)
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting tally server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
