package migrations

import "gorm.io/gorm"

// migration001Up enables the extensions the schema relies on
func migration001Up(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error
}

// migration001Down leaves the extension in place; other databases in the
// cluster may depend on it
func migration001Down(db *gorm.DB) error {
	return nil
}
