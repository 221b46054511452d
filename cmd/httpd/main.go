package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trendscope/analyzer/internal/bootstrap"
	"github.com/trendscope/analyzer/internal/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLog.Sync() }()

	appLog.Info("Starting analyzer HTTP server",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug),
	)

	components, err := bootstrap.NewHTTPComponents(cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to initialize components", logger.Error(err))
	}
	defer components.Close()

	serverErrors := components.Server.StartAsync()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			appLog.Fatal("Server error", logger.Error(err))
		}
	case sig := <-shutdown:
		appLog.Info("Shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := components.Server.Shutdown(ctx); err != nil {
			appLog.Error("Graceful shutdown failed", logger.Error(err))
			os.Exit(1)
		}
		appLog.Info("Server stopped gracefully")
	}
}
