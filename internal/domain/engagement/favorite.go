package engagement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/domain/common"
)

// Favorite marks an event as favorited by a user. Presence of the row is the
// only state; the (user, event) pair is unique.
type Favorite struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:uq_favorites_user_event"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:uq_favorites_user_event"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Relations - using shared types to avoid circular imports
	User  common.SharedUser  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Event common.SharedEvent `json:"event,omitempty" gorm:"foreignKey:EventID"`
}

// TableName overrides the table name used by GORM
func (Favorite) TableName() string {
	return "favorites"
}

// BeforeCreate sets a UUID before creating the record
func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// NewFavorite creates a favorite for the (user, event) pair
func NewFavorite(userID, eventID uuid.UUID) *Favorite {
	return &Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: time.Now().UTC(),
	}
}
