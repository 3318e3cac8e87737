package main

import (
	"context"
	"flag"

	"learnquest/internal/config"
	"learnquest/internal/db"
	"learnquest/internal/logger"
	"learnquest/internal/repository"
	"learnquest/internal/service"
)

func main() {
	username := flag.String("username", "testuser", "username")
	email := flag.String("email", "testuser@example.com", "email")
	password := flag.String("password", "testpassword", "password, at least 8 characters")
	firstName := flag.String("first-name", "Tester", "first name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "error", err)
	}
	logger.Init(cfg.LogLevel, false)
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database", "error", err)
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool)

	// try to find existing user
	if u, err := users.GetByUsername(ctx, *username); err == nil {
		logger.Info("user already exists", "id", u.ID, "username", u.Username)
		return
	}

	tokens := service.NewTokenService(service.TokenConfig{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}, users)
	accounts := service.NewAccountService(
		db.NewTransactor(pool),
		users,
		repository.NewPasswordResetRepository(pool),
		tokens,
		service.NewAuditService(repository.NewAuditRepository(pool)),
		service.AccountConfig{HashCost: cfg.BcryptCost, ResetTTL: cfg.ResetTokenTTL},
	)

	res, err := accounts.Register(ctx, service.RegisterInput{
		Username:  *username,
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
	})
	if err != nil {
		logger.Fatal("create user failed", "error", err)
	}

	logger.Info("user created", "id", res.User.ID, "username", res.User.Username)
	logger.Info("access token", "token", res.Tokens.AccessToken)
}
