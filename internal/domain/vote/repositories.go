package vote

import (
	"time"

	"github.com/google/uuid"

	"github.com/ballotline/ballotline-api/internal/domain/audit"
	"github.com/ballotline/ballotline-api/internal/domain/event"
)

// VoteStore persists votes and candidate tallies
type VoteStore interface {
	// HasVoted reports whether a vote row exists for the pair. It is an
	// optimization only; CreateAndTally remains the source of truth.
	HasVoted(eventID, voterID uuid.UUID) (bool, error)

	// CreateAndTally inserts the vote row and increments the candidate tally
	// by one in a single transaction. The increment must be relative
	// (read-modify-write-safe); a duplicate (event, voter) insert must
	// surface as an apperr Conflict.
	CreateAndTally(v *Vote) error
}

// EventStore loads events with their candidates for precondition checks
type EventStore interface {
	GetWithCandidates(eventID uuid.UUID) (*event.Event, error)
}

// Throttle is the external rate-limit collaborator, keyed by scope and
// caller identity
type Throttle interface {
	Allow(scope, key string) (bool, time.Duration)
}

// AuditSink accepts append-only activity entries. Callers treat failures as
// non-fatal.
type AuditSink interface {
	Append(entry *audit.ActivityLog) error
}
