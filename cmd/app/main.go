package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnquest/internal/config"
	"learnquest/internal/db"
	httpServer "learnquest/internal/http"
	"learnquest/internal/http/handlers"
	"learnquest/internal/http/middleware"
	"learnquest/internal/logger"
	"learnquest/internal/planner"
	"learnquest/internal/repository"
	"learnquest/internal/service"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.IsProduction())
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	dbPool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database", "error", err)
	}
	defer dbPool.Close()

	redisClient, err := middleware.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		// rate limiting fails open without Redis
		logger.Warn("redis unavailable, rate limiting disabled", "addr", cfg.Redis.Addr, "error", err)
		redisClient = nil
	}
	var cachePing func(context.Context) error
	if redisClient != nil {
		defer redisClient.Close()
		cachePing = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	tx := db.NewTransactor(dbPool)
	users := repository.NewUserRepository(dbPool)
	catalogRepo := repository.NewCatalogRepository(dbPool)
	progressRepo := repository.NewProgressRepository(dbPool)
	skillRepo := repository.NewSkillRepository(dbPool)
	themeRepo := repository.NewThemeRepository(dbPool)
	ledgerRepo := repository.NewTransactionRepository(dbPool)
	resetRepo := repository.NewPasswordResetRepository(dbPool)
	auditRepo := repository.NewAuditRepository(dbPool)

	audit := service.NewAuditService(auditRepo)
	tokens := service.NewTokenService(service.TokenConfig{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}, users)
	accounts := service.NewAccountService(tx, users, resetRepo, tokens, audit, service.AccountConfig{
		HashCost: cfg.BcryptCost,
		ResetTTL: cfg.ResetTokenTTL,
	})
	progression := service.NewProgressionService(tx, users, catalogRepo, progressRepo, skillRepo, ledgerRepo, audit)
	shop := service.NewShopService(tx, users, themeRepo, ledgerRepo, audit)
	catalog := service.NewCatalogService(catalogRepo, skillRepo, users)

	var gen planner.Generator
	if cfg.Gemini.APIKey != "" {
		g, err := planner.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Warn("gemini disabled", "error", err)
		} else {
			gen = g
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, serving fallback plans")
	}
	plans := planner.NewService(gen, cfg.Gemini.Timeout)

	r := httpServer.NewRouter(httpServer.Deps{
		Handler: &handlers.Handler{
			Accounts:    accounts,
			Tokens:      tokens,
			Progression: progression,
			Shop:        shop,
			Catalog:     catalog,
			Planner:     plans,
			Activity:    audit,
			DevMode:     cfg.DevMode,
		},
		Health:   handlers.NewHealthHandler(dbPool, cachePing, version),
		Resolver: tokens,
		Limiter:  middleware.NewRateLimiter(redisClient),
		Config:   cfg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
