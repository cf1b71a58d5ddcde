package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "foodgram api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(ctx, db, cfg.MigrationsDir, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn("redis unavailable, write rate limiting disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return err
	}
	images := service.NewImageStoreFromConfig(s3Config, log)

	srv := server.New(cfg, db, rdb, api.Services{
		Auth:         service.NewAuthService(db, cfg.JWTSecret, log),
		Catalog:      service.NewCatalogService(db, log),
		Recipes:      service.NewRecipeService(db, images, log),
		Relations:    service.NewRelationService(db, images, log),
		ShoppingList: service.NewShoppingListService(db, log),
		Users:        service.NewUserService(db, log),
	}, log)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start() }()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
