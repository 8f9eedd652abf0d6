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

	"github.com/DanielPopoola/payment-bridge/internal/application/services"
	"github.com/DanielPopoola/payment-bridge/internal/config"
	"github.com/DanielPopoola/payment-bridge/internal/infrastructure/killbill"
	"github.com/DanielPopoola/payment-bridge/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/payment-bridge/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/payment-bridge/internal/interfaces/rest/server"
	"github.com/DanielPopoola/payment-bridge/internal/metrics"
	"github.com/DanielPopoola/payment-bridge/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	tenants, err := config.LoadTenants(cfg.Tenants.File)
	if err != nil {
		logger.Error("failed to load tenant configuration", "file", cfg.Tenants.File, "error", err)
		os.Exit(1)
	}

	logger.Info("starting payment bridge",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"tenants", tenants.IDs(),
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	directory := postgres.NewDirectory(db)
	clients := killbill.NewProvider(tenants, cfg.Retry, logger)
	defer clients.Close()

	m := metrics.New()

	bridge := services.NewBridgeService(clients, directory, tenants, cfg.Audit, logger,
		services.WithResolutionObserver(m),
		services.WithRecorder(m),
	)

	handler, err := server.NewHandler(ctx, server.Options{
		Handlers:       handlers.NewHandlers(bridge, tenants, logger),
		Metrics:        m.Handler(),
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         logger,
	})
	if err != nil {
		logger.Error("failed to build http handler", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	janitor := worker.NewJanitor(
		directory,
		directory,
		bridge,
		cfg.Worker.Interval,
		cfg.Worker.OlderThan,
		cfg.Worker.BatchSize,
		logger,
		worker.WithRunRecorder(m),
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go janitor.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
