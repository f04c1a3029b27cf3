package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tanmayraut16/Neon-Chat/internal/app/delivery"
	"github.com/Tanmayraut16/Neon-Chat/internal/app/presence"
	"github.com/Tanmayraut16/Neon-Chat/internal/app/registry"
	"github.com/Tanmayraut16/Neon-Chat/internal/app/server"
	"github.com/Tanmayraut16/Neon-Chat/internal/app/worker"
	"github.com/Tanmayraut16/Neon-Chat/internal/config"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/services"
	"github.com/Tanmayraut16/Neon-Chat/internal/platform/logger"
	"github.com/Tanmayraut16/Neon-Chat/internal/platform/telemetry"
	"github.com/Tanmayraut16/Neon-Chat/internal/plugins/cloudinary"
	"github.com/Tanmayraut16/Neon-Chat/internal/plugins/postgres"
	redisPlugin "github.com/Tanmayraut16/Neon-Chat/internal/plugins/redis"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg := config.Load()

	// Logger
	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
	}
	defer func() {
		log.Info("flushing telemetry...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Infra
	var pdb *sql.DB
	if pdb, err = postgres.New(ctx, *cfg.Postgres); err != nil {
		log.Error("postgres connection failed", "DSN", cfg.Postgres.DSN)
		return
	}
	log.Info("postgres connected")
	var rdb *redis.Client
	if rdb, err = redisPlugin.NewRedisClient(ctx, *cfg.Redis); err != nil {
		log.Error("redis connection failed", "url", cfg.Redis.URL)
		return
	}
	log.Info("redis connected")

	// Adapters
	userRepo := postgres.NewUserRepository(pdb)
	msgRepo := postgres.NewMessageRepo(pdb)
	sessions := redisPlugin.NewRedisSessionStore(rdb)
	media := cloudinary.NewClient(*cfg.Cloudinary)

	// Real-time core
	hub := registry.NewRegistry(log)
	announcer := presence.NewBroadcaster(log)
	router := delivery.NewRouter(log, hub)

	// Core services
	txManager := postgres.NewTxManager(log, pdb)
	tokenSvc := services.NewTokenService(cfg.SecretToken)
	userSvc := services.NewUserService(log, userRepo, media, txManager)
	msgSvc := services.NewMessageService(log, msgRepo, router, media, txManager)

	// Revoked-session reaper
	reaper := worker.NewReaper(log, hub, sessions, cfg.Worker.ReapInterval)
	go reaper.Run(ctx)

	// Server
	secureCookies := cfg.Service.Env != "development"
	srv := server.NewServer(log, cfg.Service.Name, cfg.Service.Addr, secureCookies,
		userSvc, msgSvc, tokenSvc, sessions, hub, announcer)
	if err := srv.Start(ctx); err != nil {
		log.Error("server stopped", "err", err)
	}
}
