package postgres

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/engagement"
	"github.com/ballotline/ballotline-api/internal/logger"
)

// PostgresCommentRepository implements CommentRepository using GORM
type PostgresCommentRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresCommentRepository creates a new PostgreSQL comment repository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{
		db:  db,
		log: logger.Repository("comment"),
	}
}

func (r *PostgresCommentRepository) Create(c *engagement.Comment) error {
	r.log.Debug("creating comment", "comment_id", c.ID, "event_id", c.EventID, "parent", c.ParentCommentID)

	if err := c.Validate(); err != nil {
		return apperr.Validation("comment validation failed: %v", err)
	}

	if err := r.db.Omit("User", "Event", "Replies").Create(c).Error; err != nil {
		r.log.Error("failed to create comment", "error", err, "comment_id", c.ID)
		return apperr.Unexpected("failed to create comment", err)
	}

	r.log.Info("comment created successfully", "comment_id", c.ID, "event_id", c.EventID)
	return nil
}

func (r *PostgresCommentRepository) GetByID(id uuid.UUID) (*engagement.Comment, error) {
	var c engagement.Comment
	if err := r.db.Preload("User").Preload("Replies").First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment %s not found", id)
		}
		r.log.Error("failed to retrieve comment", "comment_id", id, "error", err)
		return nil, apperr.Unexpected("failed to retrieve comment", err)
	}
	return &c, nil
}

// ListTopLevelByEvent returns the approved discussion roots with their
// replies
func (r *PostgresCommentRepository) ListTopLevelByEvent(eventID uuid.UUID) ([]*engagement.Comment, error) {
	r.log.Debug("listing comments", "event_id", eventID)

	var comments []*engagement.Comment
	err := r.db.Preload("User").Preload("Replies").Preload("Replies.User").
		Where("event_id = ? AND parent_comment_id IS NULL AND is_approved = ?", eventID, true).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		r.log.Error("failed to list comments", "event_id", eventID, "error", err)
		return nil, apperr.Unexpected("failed to list comments", err)
	}

	return comments, nil
}

func (r *PostgresCommentRepository) Exists(id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&engagement.Comment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperr.Unexpected("failed to check comment existence", err)
	}
	return count > 0, nil
}
