package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/event"
	"github.com/ballotline/ballotline-api/internal/domain/vote"
	"github.com/ballotline/ballotline-api/internal/logger"
)

// PostgresVoteRepository implements VoteRepository using GORM
type PostgresVoteRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresVoteRepository creates a new PostgreSQL vote repository
func NewPostgresVoteRepository(db *gorm.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{
		db:  db,
		log: logger.Repository("vote"),
	}
}

// CreateAndTally inserts the vote row and bumps the candidate tally in a
// single transaction. The tally update is relative (votes_count =
// votes_count + 1), never a read-then-write of a fetched count, so
// concurrent votes for the same candidate all land. The unique index over
// (event_id, voter_id) decides duplicate voters; its violation is translated
// to a Conflict and never leaked raw.
func (r *PostgresVoteRepository) CreateAndTally(v *vote.Vote) error {
	r.log.Debug("recording vote", "vote_id", v.ID, "event_id", v.EventID, "candidate_id", v.CandidateID)

	if err := v.Validate(); err != nil {
		r.log.Error("vote validation failed", "error", err, "vote_id", v.ID)
		return apperr.Validation("vote validation failed: %v", err)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&event.Candidate{}).
			Where("id = ? AND event_id = ?", v.CandidateID, v.EventID).
			Update("votes_count", gorm.Expr("votes_count + ?", 1))
		if result.Error != nil {
			return fmt.Errorf("failed to increment tally: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("candidate %s does not belong to event %s", v.CandidateID, v.EventID)
		}

		if err := tx.Omit("Event", "Candidate", "Voter").Create(v).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("you have already voted in this event")
			}
			return fmt.Errorf("failed to create vote: %w", err)
		}

		return nil
	})
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindConflict, apperr.KindNotFound:
			r.log.Debug("vote rejected", "vote_id", v.ID, "reason", err)
			return err
		default:
			r.log.Error("failed to record vote", "error", err, "vote_id", v.ID)
			return apperr.Unexpected("failed to record vote", err)
		}
	}

	r.log.Info("vote recorded successfully", "vote_id", v.ID, "event_id", v.EventID, "candidate_id", v.CandidateID)
	return nil
}

func (r *PostgresVoteRepository) HasVoted(eventID, voterID uuid.UUID) (bool, error) {
	r.log.Debug("checking if voter has voted", "event_id", eventID, "voter_id", voterID)

	if eventID == uuid.Nil || voterID == uuid.Nil {
		return false, apperr.Validation("event_id and voter_id are required")
	}

	var count int64
	if err := r.db.Model(&vote.Vote{}).Where("event_id = ? AND voter_id = ?", eventID, voterID).Count(&count).Error; err != nil {
		r.log.Error("failed to check voting status", "event_id", eventID, "voter_id", voterID, "error", err)
		return false, apperr.Unexpected("failed to check voting status", err)
	}

	return count > 0, nil
}

func (r *PostgresVoteRepository) GetByEventID(eventID uuid.UUID) ([]*vote.Vote, error) {
	r.log.Debug("retrieving votes by event ID", "event_id", eventID)

	var votes []*vote.Vote
	if err := r.db.Preload("Candidate").Preload("Voter").Where("event_id = ?", eventID).Find(&votes).Error; err != nil {
		r.log.Error("failed to retrieve votes by event ID", "event_id", eventID, "error", err)
		return nil, apperr.Unexpected("failed to retrieve votes", err)
	}

	// Display-anonymous votes drop the identity link on the way out
	for _, v := range votes {
		if v.IsAnonymous {
			v.Voter = nil
		}
	}

	r.log.Debug("votes retrieved successfully", "event_id", eventID, "count", len(votes))
	return votes, nil
}

func (r *PostgresVoteRepository) CountByEvent(eventID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&vote.Vote{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return 0, apperr.Unexpected("failed to count votes", err)
	}
	return count, nil
}
