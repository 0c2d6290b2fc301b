package vote

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/domain/common"
)

// Vote records a single choice by a voter in an event. The (event_id,
// voter_id) pair is unique at the storage layer; a vote is immutable once
// created.
type Vote struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID     uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:uq_votes_event_voter"`
	CandidateID uuid.UUID  `json:"candidate_id" gorm:"type:uuid;not null;index"`
	VoterID     *uuid.UUID `json:"voter_id,omitempty" gorm:"type:uuid;uniqueIndex:uq_votes_event_voter"`
	IsAnonymous bool       `json:"is_anonymous" gorm:"not null;default:false"`
	CastAt      time.Time  `json:"cast_at" gorm:"autoCreateTime"`

	// Relations - using shared types to avoid circular imports
	Event     common.SharedEvent     `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Candidate common.SharedCandidate `json:"candidate,omitempty" gorm:"foreignKey:CandidateID"`
	Voter     *common.SharedUser     `json:"voter,omitempty" gorm:"foreignKey:VoterID"`
}

// TableName overrides the table name
func (Vote) TableName() string {
	return "votes"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// NewVote creates a vote row. A nil voterID keeps no identity link at all.
func NewVote(eventID, candidateID uuid.UUID, voterID *uuid.UUID, isAnonymous bool) *Vote {
	return &Vote{
		ID:          uuid.New(),
		EventID:     eventID,
		CandidateID: candidateID,
		VoterID:     voterID,
		IsAnonymous: isAnonymous,
		CastAt:      time.Now().UTC(),
	}
}

// Validate checks if the vote data is valid
func (v *Vote) Validate() error {
	if v.EventID == uuid.Nil {
		return fmt.Errorf("event_id is required")
	}
	if v.CandidateID == uuid.Nil {
		return fmt.Errorf("candidate_id is required")
	}
	if v.VoterID != nil && *v.VoterID == uuid.Nil {
		return fmt.Errorf("voter_id cannot be the nil UUID")
	}
	return nil
}

// VoterDisplay returns the voter reference for audit and display purposes
func (v *Vote) VoterDisplay() string {
	if v.VoterID == nil || v.IsAnonymous {
		return "anonymous"
	}
	return v.VoterID.String()
}
