package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shsharma-work/manhwa-translator/internal/config"
	"github.com/shsharma-work/manhwa-translator/internal/database"
	"github.com/shsharma-work/manhwa-translator/internal/handlers"
	"github.com/shsharma-work/manhwa-translator/internal/repository"
	"github.com/shsharma-work/manhwa-translator/internal/security"
	"github.com/shsharma-work/manhwa-translator/internal/server"
	"github.com/shsharma-work/manhwa-translator/internal/services"
	"github.com/shsharma-work/manhwa-translator/internal/store"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting auth service in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.Connect(context.Background(), cfg.Mongo.URI, cfg.Mongo.Database, cfg.ConnectTimeout, logger)
	if err != nil {
		sugar.Fatal(err)
	}

	docStore := store.NewMongoStore(db)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := docStore.EnsureUniqueIndexes(ctx, cfg.User.Collection, "email", "username"); err != nil {
			sugar.Fatalf("failed to ensure user indexes: %v", err)
		}
		cancel()
	}

	userRepo := repository.NewUserRepository(docStore, cfg.User.Collection)
	hasher := security.NewPasswordHasher(cfg.Security.BcryptCost)
	codec := security.NewTokenCodec(cfg.JWT.Secret)

	userSvc := services.NewUserService(userRepo, hasher, services.PasswordPolicy{
		MinLength: cfg.Security.PasswordMinLength,
		MaxLength: cfg.Security.PasswordMaxLength,
	}, logger)
	authSvc := services.NewAuthService(userSvc, codec, cfg.AccessTTL, logger)
	h := handlers.NewHandler(authSvc, userSvc, logger)

	app := server.New(cfg, h, authSvc, logger)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}

	sugar.Info("Graceful shutdown complete.")
}
