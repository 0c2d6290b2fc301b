package event

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessTokenLength is the length of the opaque token guarding private events
const AccessTokenLength = 10

// Event represents a time-bounded voting event with candidates
type Event struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name        string      `json:"name" gorm:"not null"`
	StartTime   time.Time   `json:"start_time" gorm:"not null"`
	EndTime     time.Time   `json:"end_time" gorm:"not null"`
	IsPrivate   bool        `json:"is_private" gorm:"not null;default:false"`
	AccessToken string      `json:"access_token,omitempty" gorm:"size:10"`
	CreatedByID uuid.UUID   `json:"created_by" gorm:"type:uuid;not null;index"`
	Categories  []Category  `json:"categories" gorm:"many2many:event_categories"`
	Candidates  []Candidate `json:"candidates" gorm:"foreignKey:EventID"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updated_at" gorm:"autoUpdateTime"`

	// Status is derived from the time boundaries on every read, never stored
	Status Status `json:"status" gorm:"-"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

// BeforeCreate sets a UUID before creating the record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewEvent creates a new event with the given parameters. Private events are
// issued an access token; public events carry none.
func NewEvent(name string, createdByID uuid.UUID, startTime, endTime time.Time, isPrivate bool) *Event {
	e := &Event{
		ID:          uuid.New(),
		Name:        name,
		CreatedByID: createdByID,
		StartTime:   startTime.UTC(),
		EndTime:     endTime.UTC(),
		IsPrivate:   isPrivate,
		CreatedAt:   time.Now().UTC(),
	}
	if isPrivate {
		e.AccessToken = NewAccessToken()
	}
	return e
}

// NewAccessToken generates a short opaque token for private events. The UUID
// source is crypto/rand backed, which is adequate for an access token of this
// size.
func NewAccessToken() string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:])[:AccessTokenLength])
}

// IsCreator checks if the given user ID created this event
func (e *Event) IsCreator(userID uuid.UUID) bool {
	return e.CreatedByID == userID
}

// OwnerID implements policy.Resource
func (e *Event) OwnerID() uuid.UUID {
	return e.CreatedByID
}

// Candidate returns the candidate with the given ID if this event owns it
func (e *Event) Candidate(candidateID uuid.UUID) (*Candidate, bool) {
	for i := range e.Candidates {
		if e.Candidates[i].ID == candidateID {
			return &e.Candidates[i], true
		}
	}
	return nil, false
}

// Validate checks if the event data is valid. Time boundaries must be
// timezone-aware already; callers coerce naive input at the parse boundary.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if e.CreatedByID == uuid.Nil {
		return fmt.Errorf("created_by is required")
	}
	if e.StartTime.IsZero() || e.EndTime.IsZero() {
		return fmt.Errorf("start_time and end_time are required")
	}
	if !e.StartTime.Before(e.EndTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	return nil
}

// Implement common.EventInterface for consistency with other domains
func (e *Event) GetID() uuid.UUID {
	return e.ID
}

func (e *Event) GetName() string {
	return e.Name
}
