package services

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/moderation"
	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/storage/postgres"
)

// ReportService handles content reports
type ReportService struct {
	reports  postgres.ReportRepository
	events   postgres.EventRepository
	comments postgres.CommentRepository
	users    postgres.UserRepository
	log      *log.Logger
}

// NewReportService creates a new report service
func NewReportService(
	reports postgres.ReportRepository,
	events postgres.EventRepository,
	comments postgres.CommentRepository,
	users postgres.UserRepository,
) *ReportService {
	return &ReportService{
		reports:  reports,
		events:   events,
		comments: comments,
		users:    users,
		log:      logger.Service("report"),
	}
}

// ReportRequest represents a request to report content
type ReportRequest struct {
	ContentKind string `json:"content_kind" binding:"required"`
	ContentID   string `json:"content_id" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

// CreateReport files a report against a piece of content. The referenced
// content is verified against its store before the report row is written.
func (s *ReportService) CreateReport(reporterID uuid.UUID, req ReportRequest) (*moderation.Report, error) {
	kind, ok := moderation.ContentKindFromString(req.ContentKind)
	if !ok {
		return nil, apperr.Validation("content_kind must be one of event, comment, user")
	}

	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		return nil, apperr.Validation("content_id is not a valid UUID")
	}

	if req.Reason == "" {
		return nil, apperr.Validation("reason is required")
	}

	exists, err := s.contentExists(kind, contentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("%s %s not found", kind, contentID)
	}

	report := moderation.NewReport(reporterID, kind, contentID, req.Reason)
	if err := s.reports.Create(report); err != nil {
		return nil, err
	}

	s.log.Info("report filed", "report_id", report.ID, "kind", kind.String(), "content_id", contentID)
	return report, nil
}

// ListReports returns reports in the given status, defaulting to pending
func (s *ReportService) ListReports(status string) ([]*moderation.Report, error) {
	st := moderation.StatusPending
	if status != "" {
		parsed, ok := moderation.ReportStatusFromString(status)
		if !ok {
			return nil, apperr.Validation("unknown report status: %s", status)
		}
		st = parsed
	}
	return s.reports.ListByStatus(st)
}

// ResolveReport marks a report resolved with moderator notes
func (s *ReportService) ResolveReport(reportID uuid.UUID, notes string) (*moderation.Report, error) {
	report, err := s.reports.GetByID(reportID)
	if err != nil {
		return nil, err
	}
	if report.Status == moderation.StatusResolved {
		return nil, apperr.Conflict("report %s is already resolved", reportID)
	}

	report.Resolve(notes)
	if err := s.reports.Update(report); err != nil {
		return nil, err
	}

	s.log.Info("report resolved", "report_id", reportID)
	return report, nil
}

// contentExists dispatches the existence check to the store matching the kind
func (s *ReportService) contentExists(kind moderation.ContentKind, id uuid.UUID) (bool, error) {
	switch kind {
	case moderation.ContentEvent:
		return s.events.Exists(id)
	case moderation.ContentComment:
		return s.comments.Exists(id)
	case moderation.ContentUser:
		return s.users.Exists(id)
	default:
		return false, apperr.Validation("unknown content kind")
	}
}
