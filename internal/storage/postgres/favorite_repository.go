package postgres

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/engagement"
	"github.com/ballotline/ballotline-api/internal/domain/event"
	"github.com/ballotline/ballotline-api/internal/logger"
)

// PostgresFavoriteRepository implements FavoriteRepository using GORM
type PostgresFavoriteRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresFavoriteRepository creates a new PostgreSQL favorite repository
func NewPostgresFavoriteRepository(db *gorm.DB) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{
		db:  db,
		log: logger.Repository("favorite"),
	}
}

// Add creates the (user, event) favorite if absent. ON CONFLICT DO NOTHING
// keeps the call idempotent under concurrent toggles.
func (r *PostgresFavoriteRepository) Add(userID, eventID uuid.UUID) error {
	r.log.Debug("adding favorite", "user_id", userID, "event_id", eventID)

	favorite := engagement.NewFavorite(userID, eventID)
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
		DoNothing: true,
	}).Omit("User", "Event").Create(favorite).Error
	if err != nil {
		r.log.Error("failed to add favorite", "user_id", userID, "event_id", eventID, "error", err)
		return apperr.Unexpected("failed to add favorite", err)
	}

	return nil
}

// Remove deletes the favorite if present; removing an absent row is a no-op
func (r *PostgresFavoriteRepository) Remove(userID, eventID uuid.UUID) error {
	r.log.Debug("removing favorite", "user_id", userID, "event_id", eventID)

	err := r.db.Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&engagement.Favorite{}).Error
	if err != nil {
		r.log.Error("failed to remove favorite", "user_id", userID, "event_id", eventID, "error", err)
		return apperr.Unexpected("failed to remove favorite", err)
	}

	return nil
}

func (r *PostgresFavoriteRepository) Exists(userID, eventID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&engagement.Favorite{}).Where("user_id = ? AND event_id = ?", userID, eventID).Count(&count).Error; err != nil {
		return false, apperr.Unexpected("failed to check favorite", err)
	}
	return count > 0, nil
}

func (r *PostgresFavoriteRepository) ListEventsByUser(userID uuid.UUID) ([]*event.Event, error) {
	r.log.Debug("listing favorited events", "user_id", userID)

	var events []*event.Event
	err := r.db.Preload("Categories").Preload("Candidates").
		Joins("JOIN favorites f ON f.event_id = events.id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC").
		Find(&events).Error
	if err != nil {
		r.log.Error("failed to list favorited events", "user_id", userID, "error", err)
		return nil, apperr.Unexpected("failed to list favorited events", err)
	}

	return events, nil
}
