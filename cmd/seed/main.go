package main

import (
	"context"
	"log"
	"time"

	"github.com/maisaeducacao/students-api/internal/infrastructure/config"
	"github.com/maisaeducacao/students-api/internal/infrastructure/logging"
	"github.com/maisaeducacao/students-api/internal/infrastructure/persistence/postgres"
	"github.com/maisaeducacao/students-api/internal/infrastructure/security"
	"github.com/maisaeducacao/students-api/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := logging.NewSlogLogger(cfg.Logging.Level)

	db, err := postgres.NewDatabaseConnection(&cfg.Database, cfg.Logging.Level, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	if err := postgres.RunMigrations(sqlDB, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	seeder := seed.NewSeeder(
		postgres.NewUnitOfWork(db),
		postgres.NewUserRepository(db),
		security.NewBcryptHasher(security.DefaultCost),
		logger,
	)

	result, err := seeder.Run(ctx)
	if err != nil {
		logger.Error("seed failed", "error", err)
		log.Fatal(err)
	}

	logger.Info("seed finished", "created", result.Created, "skipped", result.Skipped)
}
