package engagement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/domain/common"
)

// Comment is a threaded discussion entry on an event. Top-level comments
// have no parent; replies reference their parent comment.
type Comment struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID         uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID  `json:"user_id" gorm:"type:uuid;not null"`
	Content         string     `json:"content" gorm:"type:text;not null"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty" gorm:"type:uuid;index"`
	IsApproved      bool       `json:"is_approved" gorm:"not null;default:true"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`

	// Relations - using shared types to avoid circular imports
	User    common.SharedUser  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Event   common.SharedEvent `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Replies []Comment          `json:"replies,omitempty" gorm:"foreignKey:ParentCommentID"`
}

// TableName overrides the table name used by GORM
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate sets a UUID before creating the record
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NewComment creates a comment; a non-nil parentID makes it a reply
func NewComment(eventID, userID uuid.UUID, content string, parentID *uuid.UUID) *Comment {
	return &Comment{
		ID:              uuid.New(),
		EventID:         eventID,
		UserID:          userID,
		Content:         content,
		ParentCommentID: parentID,
		IsApproved:      true,
		CreatedAt:       time.Now().UTC(),
	}
}

// Validate checks if the comment data is valid
func (c *Comment) Validate() error {
	if c.EventID == uuid.Nil {
		return fmt.Errorf("event_id is required")
	}
	if c.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}

// IsReply reports whether this comment answers another comment
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
