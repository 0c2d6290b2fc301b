package postgres

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/notification"
	"github.com/ballotline/ballotline-api/internal/logger"
)

// PostgresNotificationRepository implements NotificationRepository using GORM
type PostgresNotificationRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresNotificationRepository creates a new PostgreSQL notification repository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{
		db:  db,
		log: logger.Repository("notification"),
	}
}

func (r *PostgresNotificationRepository) Create(n *notification.Notification) error {
	r.log.Debug("creating notification", "notification_id", n.ID, "user_id", n.UserID, "type", n.NotificationType)

	if err := r.db.Create(n).Error; err != nil {
		r.log.Error("failed to create notification", "error", err, "notification_id", n.ID)
		return apperr.Unexpected("failed to create notification", err)
	}

	return nil
}

func (r *PostgresNotificationRepository) ListByUser(userID uuid.UUID) ([]*notification.Notification, error) {
	var notifications []*notification.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		r.log.Error("failed to list notifications", "user_id", userID, "error", err)
		return nil, apperr.Unexpected("failed to list notifications", err)
	}
	return notifications, nil
}

// MarkRead flags the notification as read; scoped by user so one user cannot
// touch another's notifications
func (r *PostgresNotificationRepository) MarkRead(id, userID uuid.UUID) error {
	result := r.db.Model(&notification.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		r.log.Error("failed to mark notification read", "notification_id", id, "error", result.Error)
		return apperr.Unexpected("failed to mark notification read", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("notification %s not found", id)
	}
	return nil
}
