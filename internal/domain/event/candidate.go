package event

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Candidate represents a choice voters pick within an event. VotesCount is
// mutated only by the vote ledger through a relative update.
type Candidate struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID     uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	ImageKey    string    `json:"image_key,omitempty"`
	VotesCount  int       `json:"votes_count" gorm:"not null;default:0"`
}

// TableName overrides the table name used by GORM
func (Candidate) TableName() string {
	return "candidates"
}

// BeforeCreate sets a UUID before creating the record
func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NewCandidate creates a candidate owned by the given event
func NewCandidate(eventID uuid.UUID, name, description string) *Candidate {
	return &Candidate{
		ID:          uuid.New(),
		EventID:     eventID,
		Name:        name,
		Description: description,
	}
}

// Validate checks if the candidate data is valid
func (c *Candidate) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.VotesCount < 0 {
		return fmt.Errorf("votes_count cannot be negative")
	}
	return nil
}
