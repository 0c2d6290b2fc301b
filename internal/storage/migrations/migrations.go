package migrations

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/logger"
)

// Migration represents a database migration
type Migration struct {
	ID   string
	Name string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

// schemaMigration tracks applied migrations
type schemaMigration struct {
	ID        string    `gorm:"primaryKey;size:10"`
	Name      string    `gorm:"size:100;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// GetMigrations returns all available migrations in order
func GetMigrations() []Migration {
	return []Migration{
		{
			ID:   "001",
			Name: "create_extensions",
			Up:   migration001Up,
			Down: migration001Down,
		},
		{
			ID:   "002",
			Name: "create_core_tables",
			Up:   migration002Up,
			Down: migration002Down,
		},
		{
			ID:   "003",
			Name: "create_indexes",
			Up:   migration003Up,
			Down: migration003Down,
		},
		{
			ID:   "004",
			Name: "insert_seed_categories",
			Up:   migration004Up,
			Down: migration004Down,
		},
	}
}

// RunMigrations executes all pending migrations
func RunMigrations(db *gorm.DB) error {
	log := logger.Migration()

	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range GetMigrations() {
		if hasBeenRun(db, migration.ID) {
			log.Debug("Migration already applied, skipping", "id", migration.ID, "name", migration.Name)
			continue
		}

		log.Info("Running migration", "id", migration.ID, "name", migration.Name)

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return fmt.Errorf("failed to run migration %s: %w", migration.ID, err)
			}
			return markAsRun(tx, migration)
		})
		if err != nil {
			log.Error("Migration failed", "id", migration.ID, "name", migration.Name, "error", err)
			return err
		}

		log.Info("Migration applied", "id", migration.ID, "name", migration.Name)
	}

	return nil
}

// RollbackLastMigration reverts the most recently applied migration
func RollbackLastMigration(db *gorm.DB) error {
	log := logger.Migration()

	var last schemaMigration
	if err := db.Order("id DESC").First(&last).Error; err != nil {
		return fmt.Errorf("no migrations to roll back: %w", err)
	}

	for _, migration := range GetMigrations() {
		if migration.ID != last.ID {
			continue
		}

		log.Info("Rolling back migration", "id", migration.ID, "name", migration.Name)

		return db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Down(tx); err != nil {
				return fmt.Errorf("failed to roll back migration %s: %w", migration.ID, err)
			}
			return tx.Delete(&schemaMigration{}, "id = ?", migration.ID).Error
		})
	}

	return fmt.Errorf("migration %s not found in registry", last.ID)
}

// Status returns the applied/pending state of every migration
func Status(db *gorm.DB) (map[string]bool, error) {
	if err := createMigrationsTable(db); err != nil {
		return nil, err
	}

	status := make(map[string]bool)
	for _, migration := range GetMigrations() {
		status[migration.ID+"_"+migration.Name] = hasBeenRun(db, migration.ID)
	}
	return status, nil
}

func createMigrationsTable(db *gorm.DB) error {
	return db.AutoMigrate(&schemaMigration{})
}

func hasBeenRun(db *gorm.DB, id string) bool {
	var count int64
	db.Model(&schemaMigration{}).Where("id = ?", id).Count(&count)
	return count > 0
}

func markAsRun(db *gorm.DB, migration Migration) error {
	return db.Create(&schemaMigration{
		ID:        migration.ID,
		Name:      migration.Name,
		AppliedAt: time.Now().UTC(),
	}).Error
}
