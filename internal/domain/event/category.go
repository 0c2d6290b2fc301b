package event

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category labels events; shared many-to-many, owned by no single event
type Category struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name string    `json:"name" gorm:"not null;uniqueIndex"`
}

// TableName overrides the table name used by GORM
func (Category) TableName() string {
	return "categories"
}

// BeforeCreate sets a UUID before creating the record
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
