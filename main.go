// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"probul-backend/cmd"
	"probul-backend/internal/data/repository"
	"probul-backend/internal/notify"
	"probul-backend/internal/wire"
	"probul-backend/pkg/database"
	"probul-backend/pkg/ratelimit"
	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the dataset
	store, err := database.Open(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close store", zap.Error(err))
		}
	}()

	logger.Info("Store ready", zap.String("driver", string(store.Driver())))

	repos := repository.NewRepository(store, logger)
	notifier := notify.New(config, logger)

	limiter, closeLimiter, err := ratelimit.New(ctx, config.RateLimit, logger)
	if err != nil {
		logger.Fatal("Failed to set up rate limiter", zap.Error(err))
	}
	defer closeLimiter()

	// Wire all dependencies
	app := wire.Wiring(repos, notifier, limiter, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	logger.Info("Shutting down")
}
