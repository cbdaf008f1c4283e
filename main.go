package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"schoolerp_backend/internals/configs"
	database "schoolerp_backend/internals/databases"
	helper "schoolerp_backend/internals/helpers"
	middlewares "schoolerp_backend/internals/middlewares"
	routes "schoolerp_backend/internals/route"
	"schoolerp_backend/internals/seeds"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := configs.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	helper.SetExposeErrors(!cfg.IsProduction())

	app := fiber.New(middlewares.TrustProxies(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		DisableStartupMessage: true,
	}, cfg.TrustedProxies))

	middlewares.SetupMiddlewares(app, cfg)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.TunePool(db, cfg); err != nil {
		logger.Fatal("database pool setup failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	database.WarmUp(db, logger)

	if cfg.RunSeeds {
		if err := seeds.RunAllSeeds(db, logger.Named("seeds")); err != nil {
			logger.Error("seeding failed", zap.Error(err))
		}
	}

	routes.SetupRoutes(app, db, cfg, logger)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
