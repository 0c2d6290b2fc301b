package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/engagement"
	"github.com/ballotline/ballotline-api/internal/domain/event"
	"github.com/ballotline/ballotline-api/internal/domain/vote"
	"github.com/ballotline/ballotline-api/internal/logger"
)

// PostgresEventRepository implements EventRepository using GORM
type PostgresEventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresEventRepository creates a new PostgreSQL event repository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

func (r *PostgresEventRepository) CreateWithRelations(e *event.Event, categoryIDs []uuid.UUID, candidates []CandidateSpec) error {
	r.log.Debug("creating event with relations", "event_id", e.ID, "categories", len(categoryIDs), "candidates", len(candidates))

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories", "Candidates").Create(e).Error; err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}

		if err := r.replaceCategories(tx, e, categoryIDs); err != nil {
			return err
		}

		for _, spec := range candidates {
			candidate := event.NewCandidate(e.ID, spec.Name, spec.Description)
			if err := tx.Create(candidate).Error; err != nil {
				return fmt.Errorf("failed to create candidate %q: %w", spec.Name, err)
			}
		}

		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return err
		}
		r.log.Error("failed to create event", "error", err, "event_id", e.ID)
		return apperr.Unexpected("failed to create event", err)
	}

	r.log.Info("event created successfully", "event_id", e.ID, "name", e.Name)
	return r.reload(e)
}

func (r *PostgresEventRepository) UpdateWithRelations(e *event.Event, categoryIDs []uuid.UUID, candidates []CandidateSpec) error {
	r.log.Debug("updating event with relations", "event_id", e.ID, "categories", len(categoryIDs), "candidates", len(candidates))

	err := r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":         e.Name,
			"start_time":   e.StartTime,
			"end_time":     e.EndTime,
			"is_private":   e.IsPrivate,
			"access_token": e.AccessToken,
		}
		if err := tx.Model(&event.Event{}).Where("id = ?", e.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update event fields: %w", err)
		}

		if err := r.replaceCategories(tx, e, categoryIDs); err != nil {
			return err
		}

		// Upsert candidates: a known id updates the owned candidate,
		// anything else inserts. Candidates absent from the list are left
		// untouched.
		var existing []event.Candidate
		if err := tx.Where("event_id = ?", e.ID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load candidates: %w", err)
		}
		owned := make(map[uuid.UUID]bool, len(existing))
		for _, c := range existing {
			owned[c.ID] = true
		}

		for _, spec := range candidates {
			if spec.ID != nil && owned[*spec.ID] {
				fields := map[string]any{
					"name":        spec.Name,
					"description": spec.Description,
				}
				if err := tx.Model(&event.Candidate{}).Where("id = ? AND event_id = ?", *spec.ID, e.ID).Updates(fields).Error; err != nil {
					return fmt.Errorf("failed to update candidate %s: %w", *spec.ID, err)
				}
				continue
			}
			candidate := event.NewCandidate(e.ID, spec.Name, spec.Description)
			if err := tx.Create(candidate).Error; err != nil {
				return fmt.Errorf("failed to create candidate %q: %w", spec.Name, err)
			}
		}

		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return err
		}
		r.log.Error("failed to update event", "error", err, "event_id", e.ID)
		return apperr.Unexpected("failed to update event", err)
	}

	r.log.Info("event updated successfully", "event_id", e.ID)
	return r.reload(e)
}

// replaceCategories swaps the full category association for the supplied set
func (r *PostgresEventRepository) replaceCategories(tx *gorm.DB, e *event.Event, categoryIDs []uuid.UUID) error {
	categories := make([]event.Category, len(categoryIDs))
	if len(categoryIDs) > 0 {
		if err := tx.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		if len(categories) != len(categoryIDs) {
			return apperr.NotFound("one or more categories do not exist")
		}
	}

	if err := tx.Model(e).Association("Categories").Replace(categories); err != nil {
		return fmt.Errorf("failed to replace category association: %w", err)
	}
	return nil
}

// reload refreshes the event with its relations after a write
func (r *PostgresEventRepository) reload(e *event.Event) error {
	fresh, err := r.GetWithCandidates(e.ID)
	if err != nil {
		return err
	}
	*e = *fresh
	return nil
}

func (r *PostgresEventRepository) GetByID(id uuid.UUID) (*event.Event, error) {
	r.log.Debug("retrieving event by ID", "event_id", id)

	var e event.Event
	if err := r.db.Preload("Categories").First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event %s not found", id)
		}
		r.log.Error("failed to retrieve event", "event_id", id, "error", err)
		return nil, apperr.Unexpected("failed to retrieve event", err)
	}

	return &e, nil
}

func (r *PostgresEventRepository) GetWithCandidates(id uuid.UUID) (*event.Event, error) {
	r.log.Debug("retrieving event with candidates", "event_id", id)

	var e event.Event
	if err := r.db.Preload("Categories").Preload("Candidates").First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event %s not found", id)
		}
		r.log.Error("failed to retrieve event", "event_id", id, "error", err)
		return nil, apperr.Unexpected("failed to retrieve event", err)
	}

	return &e, nil
}

func (r *PostgresEventRepository) List(filter EventFilter) ([]*event.Event, error) {
	r.log.Debug("listing events", "status", filter.Status, "category", filter.Category, "search", filter.Search)

	query := r.db.Model(&event.Event{}).
		Preload("Categories").
		Preload("Candidates").
		Order("created_at DESC")

	if filter.Status != "" {
		now := filter.Now
		switch filter.Status {
		case "ongoing":
			query = query.Where("start_time <= ? AND end_time >= ?", now, now)
		case "upcoming":
			query = query.Where("start_time > ?", now)
		case "ended":
			query = query.Where("end_time < ?", now)
		default:
			return nil, apperr.Validation("unknown status filter: %s", filter.Status)
		}
	}

	if filter.Category != "" {
		query = query.
			Joins("JOIN event_categories ec ON ec.event_id = events.id").
			Joins("JOIN categories c ON c.id = ec.category_id").
			Where("c.name = ?", filter.Category)
	}

	if filter.Search != "" {
		query = query.Where("events.name ILIKE ?", "%"+filter.Search+"%")
	}

	if filter.IsPrivate != nil {
		query = query.Where("is_private = ?", *filter.IsPrivate)
	}

	var events []*event.Event
	if err := query.Find(&events).Error; err != nil {
		r.log.Error("failed to list events", "error", err)
		return nil, apperr.Unexpected("failed to list events", err)
	}

	r.log.Debug("events listed successfully", "count", len(events))
	return events, nil
}

func (r *PostgresEventRepository) ListByCreator(creatorID uuid.UUID) ([]*event.Event, error) {
	var events []*event.Event
	if err := r.db.Preload("Categories").Preload("Candidates").
		Where("created_by_id = ?", creatorID).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		r.log.Error("failed to list events by creator", "creator_id", creatorID, "error", err)
		return nil, apperr.Unexpected("failed to list events by creator", err)
	}
	return events, nil
}

// Delete removes the event and everything it owns under one transaction.
// Dependent rows go first so a failure never leaves an orphaned event.
func (r *PostgresEventRepository) Delete(id uuid.UUID) error {
	r.log.Debug("deleting event with cascade", "event_id", id)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var e event.Event
		if err := tx.First(&e, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("event %s not found", id)
			}
			return fmt.Errorf("failed to load event: %w", err)
		}

		if err := tx.Where("event_id = ?", id).Delete(&vote.Vote{}).Error; err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}
		if err := tx.Where("event_id = ?", id).Delete(&engagement.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Where("event_id = ?", id).Delete(&engagement.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}
		if err := tx.Where("event_id = ?", id).Delete(&event.Candidate{}).Error; err != nil {
			return fmt.Errorf("failed to delete candidates: %w", err)
		}
		if err := tx.Model(&e).Association("Categories").Clear(); err != nil {
			return fmt.Errorf("failed to clear category association: %w", err)
		}
		if err := tx.Delete(&e).Error; err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return err
		}
		r.log.Error("failed to delete event", "event_id", id, "error", err)
		return apperr.Unexpected("failed to delete event", err)
	}

	r.log.Info("event deleted successfully", "event_id", id)
	return nil
}

func (r *PostgresEventRepository) Exists(id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&event.Event{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperr.Unexpected("failed to check event existence", err)
	}
	return count > 0, nil
}

func (r *PostgresEventRepository) UpdateCandidateImage(candidateID uuid.UUID, imageKey string) error {
	result := r.db.Model(&event.Candidate{}).Where("id = ?", candidateID).Update("image_key", imageKey)
	if result.Error != nil {
		r.log.Error("failed to update candidate image", "candidate_id", candidateID, "error", result.Error)
		return apperr.Unexpected("failed to update candidate image", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("candidate %s not found", candidateID)
	}
	return nil
}

func (r *PostgresEventRepository) GetCategoriesByIDs(ids []uuid.UUID) ([]event.Category, error) {
	var categories []event.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, apperr.Unexpected("failed to load categories", err)
	}
	return categories, nil
}

func (r *PostgresEventRepository) ListCategories() ([]event.Category, error) {
	var categories []event.Category
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		return nil, apperr.Unexpected("failed to list categories", err)
	}
	return categories, nil
}
