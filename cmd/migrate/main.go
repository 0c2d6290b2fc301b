package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ballotline/ballotline-api/internal/config"
	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/storage/migrations"
	"github.com/ballotline/ballotline-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger.Initialize("info")
	log := logger.Migration()

	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "Show migration status")
	flag.Parse()

	db, err := postgres.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer postgres.Close()

	switch {
	case *status:
		applied, err := migrations.Status(db)
		if err != nil {
			log.Error("Failed to read migration status", "error", err)
			os.Exit(1)
		}
		for _, m := range migrations.GetMigrations() {
			state := "pending"
			if applied[m.ID] {
				state = "applied"
			}
			fmt.Printf("%-6s %-30s %s\n", m.ID, m.Name, state)
		}

	case *rollback:
		log.Info("Rolling back last migration...")
		if err := migrations.RollbackLastMigration(db); err != nil {
			log.Error("Migration rollback failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migration rollback completed successfully")

	default:
		log.Info("Running migrations...")
		if err := migrations.RunMigrations(db); err != nil {
			log.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migrations completed successfully")
	}
}
