package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLog is an append-only record of a security-relevant action
type ActivityLog struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID    *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Action    string     `json:"action" gorm:"size:200;not null"`
	IPAddress string     `json:"ip_address" gorm:"size:45;not null"`
	Timestamp time.Time  `json:"timestamp" gorm:"autoCreateTime;index"`
}

// TableName overrides the table name used by GORM
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// BeforeCreate sets a UUID before creating the record
func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// NewEntry creates an activity log entry. A nil userID records a system or
// anonymous action.
func NewEntry(userID *uuid.UUID, action, ipAddress string) *ActivityLog {
	return &ActivityLog{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		IPAddress: ipAddress,
		Timestamp: time.Now().UTC(),
	}
}
