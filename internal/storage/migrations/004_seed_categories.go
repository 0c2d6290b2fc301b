package migrations

import (
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/domain/event"
)

// defaultCategories are seeded once so fresh installs have something to
// attach events to
var defaultCategories = []string{
	"Politics",
	"Sports",
	"Entertainment",
	"Education",
	"Technology",
	"Community",
}

// migration004Up inserts the default category set, skipping names that
// already exist
func migration004Up(db *gorm.DB) error {
	for _, name := range defaultCategories {
		var count int64
		if err := db.Model(&event.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&event.Category{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

// migration004Down removes the default categories if no event references them
func migration004Down(db *gorm.DB) error {
	for _, name := range defaultCategories {
		err := db.Where("name = ? AND id NOT IN (SELECT category_id FROM event_categories)", name).
			Delete(&event.Category{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
