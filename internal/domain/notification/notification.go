package notification

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type classifies a notification
type Type byte

const (
	TypeEventStart Type = iota
	TypeEventReminder
	TypeCommentReply
	TypeVoteUpdate
)

func (t Type) String() string {
	switch t {
	case TypeEventStart:
		return "event_start"
	case TypeEventReminder:
		return "event_reminder"
	case TypeCommentReply:
		return "comment_reply"
	case TypeVoteUpdate:
		return "vote_update"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (t Type) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (t *Type) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	parsed, valid := TypeFromString(str)
	if !valid {
		return fmt.Errorf("invalid notification type: %s", str)
	}
	*t = parsed
	return nil
}

// TypeFromString converts a string to a notification Type
func TypeFromString(s string) (Type, bool) {
	switch s {
	case "event_start":
		return TypeEventStart, true
	case "event_reminder":
		return TypeEventReminder, true
	case "comment_reply":
		return TypeCommentReply, true
	case "vote_update":
		return TypeVoteUpdate, true
	default:
		return TypeEventStart, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (t *Type) Scan(value interface{}) error {
	if value == nil {
		*t = TypeEventStart
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into notification Type", value)
	}

	parsed, valid := TypeFromString(str)
	if !valid {
		return fmt.Errorf("invalid notification type value: %s", str)
	}
	*t = parsed
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (t Type) Value() (driver.Value, error) {
	return t.String(), nil
}

// Notification is a per-user message about platform activity
type Notification struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID           uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	NotificationType Type       `json:"notification_type" gorm:"size:20;not null"`
	Message          string     `json:"message" gorm:"type:text;not null"`
	RelatedEventID   *uuid.UUID `json:"related_event_id,omitempty" gorm:"type:uuid;index"`
	RelatedCommentID *uuid.UUID `json:"related_comment_id,omitempty" gorm:"type:uuid"`
	IsRead           bool       `json:"is_read" gorm:"not null;default:false;index"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName overrides the table name used by GORM
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate sets a UUID before creating the record
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// New creates a notification for a user
func New(userID uuid.UUID, notificationType Type, message string) *Notification {
	return &Notification{
		ID:               uuid.New(),
		UserID:           userID,
		NotificationType: notificationType,
		Message:          message,
		CreatedAt:        time.Now().UTC(),
	}
}
