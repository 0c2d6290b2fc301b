package moderation

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentKind is a tagged variant over the content types a report may
// reference. The referenced row is validated against the matching store when
// the report is created, never left as an unchecked loose reference.
type ContentKind byte

const (
	ContentEvent ContentKind = iota
	ContentComment
	ContentUser
)

func (k ContentKind) String() string {
	switch k {
	case ContentEvent:
		return "event"
	case ContentComment:
		return "comment"
	case ContentUser:
		return "user"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (k ContentKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (k *ContentKind) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	kind, valid := ContentKindFromString(str)
	if !valid {
		return fmt.Errorf("invalid content kind: %s", str)
	}
	*k = kind
	return nil
}

// ContentKindFromString converts a string to a ContentKind
func ContentKindFromString(s string) (ContentKind, bool) {
	switch s {
	case "event":
		return ContentEvent, true
	case "comment":
		return ContentComment, true
	case "user":
		return ContentUser, true
	default:
		return ContentEvent, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (k *ContentKind) Scan(value interface{}) error {
	if value == nil {
		*k = ContentEvent
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into ContentKind", value)
	}

	kind, valid := ContentKindFromString(str)
	if !valid {
		return fmt.Errorf("invalid content kind value: %s", str)
	}
	*k = kind
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (k ContentKind) Value() (driver.Value, error) {
	return k.String(), nil
}

// ReportStatus tracks the review lifecycle of a report
type ReportStatus byte

const (
	StatusPending ReportStatus = iota
	StatusInvestigating
	StatusResolved
)

func (s ReportStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInvestigating:
		return "investigating"
	case StatusResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s ReportStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// ReportStatusFromString converts a string to a ReportStatus
func ReportStatusFromString(v string) (ReportStatus, bool) {
	switch v {
	case "pending":
		return StatusPending, true
	case "investigating":
		return StatusInvestigating, true
	case "resolved":
		return StatusResolved, true
	default:
		return StatusPending, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *ReportStatus) Scan(value interface{}) error {
	if value == nil {
		*s = StatusPending
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into ReportStatus", value)
	}

	status, valid := ReportStatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid report status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s ReportStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

// Report flags abusive content for moderator review
type Report struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ReporterID  uuid.UUID    `json:"reporter_id" gorm:"type:uuid;not null;index"`
	ContentKind ContentKind  `json:"content_kind" gorm:"size:10;not null;index:idx_reports_content"`
	ContentID   uuid.UUID    `json:"content_id" gorm:"type:uuid;not null;index:idx_reports_content"`
	Reason      string       `json:"reason" gorm:"type:text;not null"`
	Status      ReportStatus `json:"status" gorm:"size:15;not null;default:'pending';index"`
	AdminNotes  string       `json:"admin_notes,omitempty" gorm:"type:text"`
	CreatedAt   time.Time    `json:"created_at" gorm:"autoCreateTime;index"`
	ResolvedAt  *time.Time   `json:"resolved_at,omitempty"`
}

// TableName overrides the table name used by GORM
func (Report) TableName() string {
	return "reports"
}

// BeforeCreate sets a UUID before creating the record
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewReport creates a pending report against the referenced content
func NewReport(reporterID uuid.UUID, kind ContentKind, contentID uuid.UUID, reason string) *Report {
	return &Report{
		ID:          uuid.New(),
		ReporterID:  reporterID,
		ContentKind: kind,
		ContentID:   contentID,
		Reason:      reason,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

// Resolve marks the report resolved with optional moderator notes
func (r *Report) Resolve(notes string) {
	r.Status = StatusResolved
	r.AdminNotes = notes
	now := time.Now().UTC()
	r.ResolvedAt = &now
}
