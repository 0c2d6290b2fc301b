package postgres

import (
	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/audit"
	"github.com/ballotline/ballotline-api/internal/logger"
)

// PostgresActivityLogRepository implements ActivityLogRepository using GORM.
// It also satisfies the vote ledger's AuditSink.
type PostgresActivityLogRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresActivityLogRepository creates a new PostgreSQL activity log repository
func NewPostgresActivityLogRepository(db *gorm.DB) *PostgresActivityLogRepository {
	return &PostgresActivityLogRepository{
		db:  db,
		log: logger.Repository("activity_log"),
	}
}

func (r *PostgresActivityLogRepository) Append(entry *audit.ActivityLog) error {
	r.log.Debug("appending activity entry", "entry_id", entry.ID, "action", entry.Action)

	if err := r.db.Create(entry).Error; err != nil {
		r.log.Error("failed to append activity entry", "error", err, "entry_id", entry.ID)
		return apperr.Unexpected("failed to append activity entry", err)
	}

	return nil
}

func (r *PostgresActivityLogRepository) ListRecent(limit int) ([]*audit.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []*audit.ActivityLog
	if err := r.db.Order("timestamp DESC").Limit(limit).Find(&entries).Error; err != nil {
		r.log.Error("failed to list activity entries", "error", err)
		return nil, apperr.Unexpected("failed to list activity entries", err)
	}
	return entries, nil
}
