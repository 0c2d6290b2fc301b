package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/ballotline/ballotline-api/internal/domain/audit"
	"github.com/ballotline/ballotline-api/internal/domain/engagement"
	"github.com/ballotline/ballotline-api/internal/domain/event"
	"github.com/ballotline/ballotline-api/internal/domain/moderation"
	"github.com/ballotline/ballotline-api/internal/domain/notification"
	"github.com/ballotline/ballotline-api/internal/domain/user"
	"github.com/ballotline/ballotline-api/internal/domain/vote"
)

// EventFilter narrows event listings. Status uses the same boundary
// semantics as the status resolver, computed against Now.
type EventFilter struct {
	Status    string
	Category  string
	Search    string
	IsPrivate *bool
	Now       time.Time
}

// CandidateSpec is one candidate entry in a nested event write. A non-nil ID
// matching an event-owned candidate updates that candidate; otherwise a new
// candidate is inserted.
type CandidateSpec struct {
	ID          *uuid.UUID
	Name        string
	Description string
}

// EventRepository persists events together with their candidates and
// category associations
type EventRepository interface {
	// CreateWithRelations persists the event row, its category set and its
	// candidates in one transaction.
	CreateWithRelations(e *event.Event, categoryIDs []uuid.UUID, candidates []CandidateSpec) error

	// UpdateWithRelations applies event field updates, replaces the category
	// association with the supplied set, and upserts candidates, atomically.
	// Candidates not mentioned are left untouched.
	UpdateWithRelations(e *event.Event, categoryIDs []uuid.UUID, candidates []CandidateSpec) error

	GetByID(id uuid.UUID) (*event.Event, error)
	GetWithCandidates(id uuid.UUID) (*event.Event, error)
	List(filter EventFilter) ([]*event.Event, error)
	ListByCreator(creatorID uuid.UUID) ([]*event.Event, error)

	// Delete removes the event and all dependent rows (votes, comments,
	// favorites, candidates) in one transaction.
	Delete(id uuid.UUID) error

	Exists(id uuid.UUID) (bool, error)
	UpdateCandidateImage(candidateID uuid.UUID, imageKey string) error
	GetCategoriesByIDs(ids []uuid.UUID) ([]event.Category, error)
	ListCategories() ([]event.Category, error)
}

// VoteRepository persists votes and candidate tallies
type VoteRepository interface {
	// CreateAndTally inserts the vote and increments the candidate tally in
	// one transaction; duplicate (event, voter) inserts surface as Conflict.
	CreateAndTally(v *vote.Vote) error

	HasVoted(eventID, voterID uuid.UUID) (bool, error)
	GetByEventID(eventID uuid.UUID) ([]*vote.Vote, error)
	CountByEvent(eventID uuid.UUID) (int64, error)
}

// FavoriteRepository persists user-event favorites
type FavoriteRepository interface {
	// Add is idempotent: it creates the (user, event) row if absent and
	// no-ops if present.
	Add(userID, eventID uuid.UUID) error

	// Remove is idempotent: removing an absent favorite is not an error.
	Remove(userID, eventID uuid.UUID) error

	Exists(userID, eventID uuid.UUID) (bool, error)
	ListEventsByUser(userID uuid.UUID) ([]*event.Event, error)
}

// UserRepository persists users and their profiles
type UserRepository interface {
	// CreateWithProfile creates the user row and its default profile in one
	// transaction, as an explicit registration step.
	CreateWithProfile(u *user.User) error

	GetByID(id uuid.UUID) (*user.User, error)
	GetByUsername(username string) (*user.User, error)
	GetByEmail(email string) (*user.User, error)
	UpdateProfile(p *user.Profile) error
	Exists(id uuid.UUID) (bool, error)
}

// CommentRepository persists threaded event comments
type CommentRepository interface {
	Create(c *engagement.Comment) error
	GetByID(id uuid.UUID) (*engagement.Comment, error)
	ListTopLevelByEvent(eventID uuid.UUID) ([]*engagement.Comment, error)
	Exists(id uuid.UUID) (bool, error)
}

// NotificationRepository persists per-user notifications
type NotificationRepository interface {
	Create(n *notification.Notification) error
	ListByUser(userID uuid.UUID) ([]*notification.Notification, error)
	MarkRead(id, userID uuid.UUID) error
}

// ReportRepository persists content reports
type ReportRepository interface {
	Create(r *moderation.Report) error
	GetByID(id uuid.UUID) (*moderation.Report, error)
	ListByStatus(status moderation.ReportStatus) ([]*moderation.Report, error)
	Update(r *moderation.Report) error
}

// ActivityLogRepository appends audit entries
type ActivityLogRepository interface {
	Append(entry *audit.ActivityLog) error
	ListRecent(limit int) ([]*audit.ActivityLog, error)
}
