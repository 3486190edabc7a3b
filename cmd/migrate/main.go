// This file is used to run database migrations.
// How to run:
// go run cmd/migrate/main.go            # Apply the current schema
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/legaltext/finetuner/internal/config"
	"github.com/legaltext/finetuner/internal/db"
	"github.com/legaltext/finetuner/internal/logger"
)

func main() {
	logger.InitializeAndConfigure()
	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file loaded: %v", err)
	}

	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", "localhost"),
		User:     config.GetEnv("DB_USER", "postgres"),
		Password: config.GetEnv("DB_PASSWORD", ""),
		DBName:   config.GetEnv("DB_NAME", ""),
		Port:     config.GetEnvInt("DB_PORT", 5432),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	logger.Info("migrations applied")
}
