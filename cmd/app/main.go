package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"taxfiler/internal/adapters/cli"
	"taxfiler/internal/app"
	"taxfiler/internal/config"
	"taxfiler/internal/core"
	"taxfiler/internal/db"
	"taxfiler/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	svc := app.NewService(core.NewFilingService(pool))
	cli.Execute(cli.New(svc, cfg.OutputDir))
}
