package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"learnquest/internal/db"
	"learnquest/internal/logger"
	"learnquest/internal/migrations"

	"github.com/joho/godotenv"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations (default lists them)")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), false)
	defer logger.Sync()

	if !*apply {
		names, err := migrations.Names()
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		logger.Fatal("database", "error", err)
	}
	defer pool.Close()

	err = migrations.Apply(ctx, pool, func(name string) {
		logger.Info("applied migration", "file", name)
	})
	if err != nil {
		logger.Fatal("migrate", "error", err)
	}
}
