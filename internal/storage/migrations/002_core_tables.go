package migrations

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// migration002Up creates all core tables using GORM AutoMigrate
func migration002Up(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// migration002Down drops all core tables
func migration002Down(db *gorm.DB) error {
	tables := []string{
		"activity_logs",
		"reports",
		"notifications",
		"comments",
		"favorites",
		"votes",
		"candidates",
		"event_categories",
		"events",
		"categories",
		"profiles",
		"users",
	}

	for _, table := range tables {
		if err := db.Exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(table) + " CASCADE").Error; err != nil {
			return err
		}
	}

	return nil
}
