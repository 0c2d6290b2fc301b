package vote

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/audit"
	"github.com/ballotline/ballotline-api/internal/logger"
)

// Throttle scopes, one bucket per caller class
const (
	ScopeVote     = "vote"
	ScopeAnonVote = "anon_vote"
)

// CastRequest carries everything the ledger needs to record a vote
type CastRequest struct {
	EventID     uuid.UUID
	CandidateID uuid.UUID

	// VoterID is uuid.Nil for anonymous callers
	VoterID uuid.UUID

	// Anonymous hides the voter in display output; the vote row may still
	// carry the voter for uniqueness enforcement
	Anonymous bool

	// ClientIP is the caller's originating network address, recorded in the
	// audit trail and used as the anonymous throttle key
	ClientIP string
}

// Receipt confirms a recorded vote
type Receipt struct {
	VoteID      uuid.UUID `json:"vote_id"`
	EventID     uuid.UUID `json:"event_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
}

// Ledger enforces at-most-one-vote-per-voter-per-event and keeps candidate
// tallies consistent under concurrent access
type Ledger struct {
	votes    VoteStore
	events   EventStore
	throttle Throttle
	audit    AuditSink
	log      *log.Logger
}

// NewLedger creates a vote ledger
func NewLedger(votes VoteStore, events EventStore, throttle Throttle, auditSink AuditSink) *Ledger {
	return &Ledger{
		votes:    votes,
		events:   events,
		throttle: throttle,
		audit:    auditSink,
		log:      logger.Service("vote_ledger"),
	}
}

// Cast records a vote. Preconditions run in order: throttle, duplicate
// pre-check, candidate ownership. The storage-level unique constraint over
// (event, voter) is the sole source of truth for duplicates; the pre-check
// only avoids useless writes. The tally increment and vote insert commit
// together; the audit entry is best-effort.
func (l *Ledger) Cast(req CastRequest) (*Receipt, error) {
	scope, key := l.throttleKey(req)
	if allowed, retryAfter := l.throttle.Allow(scope, key); !allowed {
		l.log.Warn("vote attempt throttled", "scope", scope, "key", key, "retry_after", retryAfter)
		return nil, apperr.RateLimited(retryAfter)
	}

	ev, err := l.events.GetWithCandidates(req.EventID)
	if err != nil {
		return nil, err
	}

	if req.VoterID != uuid.Nil {
		voted, err := l.votes.HasVoted(req.EventID, req.VoterID)
		if err != nil {
			return nil, apperr.Unexpected("failed to check voting status", err)
		}
		if voted {
			l.log.Debug("duplicate vote rejected by pre-check", "event_id", req.EventID, "voter_id", req.VoterID)
			return nil, apperr.Conflict("you have already voted in this event")
		}
	}

	candidate, ok := ev.Candidate(req.CandidateID)
	if !ok {
		return nil, apperr.NotFound("candidate %s does not belong to event %s", req.CandidateID, req.EventID)
	}

	var voterID *uuid.UUID
	if req.VoterID != uuid.Nil {
		id := req.VoterID
		voterID = &id
	}

	v := NewVote(req.EventID, req.CandidateID, voterID, req.Anonymous)
	if err := v.Validate(); err != nil {
		return nil, apperr.Validation("invalid vote: %v", err)
	}

	// Two concurrent requests from the same voter can both pass the
	// pre-check; the unique index decides the loser here.
	if err := l.votes.CreateAndTally(v); err != nil {
		return nil, err
	}

	l.log.Info("vote recorded",
		"vote_id", v.ID,
		"event_id", req.EventID,
		"candidate_id", req.CandidateID,
		"voter", v.VoterDisplay())

	l.appendAudit(v, candidate.Name, ev.Name, req.ClientIP)

	return &Receipt{
		VoteID:      v.ID,
		EventID:     v.EventID,
		CandidateID: v.CandidateID,
		CastAt:      v.CastAt,
	}, nil
}

// throttleKey picks the scope and bucket key for the caller. Authenticated
// callers are keyed by user, anonymous callers by network address.
func (l *Ledger) throttleKey(req CastRequest) (string, string) {
	if req.VoterID != uuid.Nil {
		return ScopeVote, req.VoterID.String()
	}
	return ScopeAnonVote, req.ClientIP
}

// appendAudit writes the activity entry. Sink failures are logged and
// swallowed; the vote itself already committed.
func (l *Ledger) appendAudit(v *Vote, candidateName, eventName, clientIP string) {
	var actor *uuid.UUID
	if v.VoterID != nil && !v.IsAnonymous {
		actor = v.VoterID
	}

	action := fmt.Sprintf("Voted for %s (ID: %s) in %s (ID: %s)",
		candidateName, v.CandidateID, eventName, v.EventID)

	if err := l.audit.Append(audit.NewEntry(actor, action, clientIP)); err != nil {
		l.log.Error("failed to append audit entry", "error", err, "vote_id", v.ID)
	}
}
