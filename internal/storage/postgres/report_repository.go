package postgres

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/moderation"
	"github.com/ballotline/ballotline-api/internal/logger"
)

// PostgresReportRepository implements ReportRepository using GORM
type PostgresReportRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresReportRepository creates a new PostgreSQL report repository
func NewPostgresReportRepository(db *gorm.DB) *PostgresReportRepository {
	return &PostgresReportRepository{
		db:  db,
		log: logger.Repository("report"),
	}
}

func (r *PostgresReportRepository) Create(report *moderation.Report) error {
	r.log.Debug("creating report", "report_id", report.ID, "content_kind", report.ContentKind, "content_id", report.ContentID)

	if err := r.db.Create(report).Error; err != nil {
		r.log.Error("failed to create report", "error", err, "report_id", report.ID)
		return apperr.Unexpected("failed to create report", err)
	}

	r.log.Info("report created successfully", "report_id", report.ID)
	return nil
}

func (r *PostgresReportRepository) GetByID(id uuid.UUID) (*moderation.Report, error) {
	var report moderation.Report
	if err := r.db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("report %s not found", id)
		}
		r.log.Error("failed to retrieve report", "report_id", id, "error", err)
		return nil, apperr.Unexpected("failed to retrieve report", err)
	}
	return &report, nil
}

func (r *PostgresReportRepository) ListByStatus(status moderation.ReportStatus) ([]*moderation.Report, error) {
	var reports []*moderation.Report
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		r.log.Error("failed to list reports", "status", status, "error", err)
		return nil, apperr.Unexpected("failed to list reports", err)
	}
	return reports, nil
}

func (r *PostgresReportRepository) Update(report *moderation.Report) error {
	result := r.db.Model(&moderation.Report{}).Where("id = ?", report.ID).Updates(map[string]any{
		"status":      report.Status,
		"admin_notes": report.AdminNotes,
		"resolved_at": report.ResolvedAt,
	})
	if result.Error != nil {
		r.log.Error("failed to update report", "report_id", report.ID, "error", result.Error)
		return apperr.Unexpected("failed to update report", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("report %s not found", report.ID)
	}
	return nil
}
