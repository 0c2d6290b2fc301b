// Package services contains the business logic between the HTTP handlers and
// the storage layer. Services validate input, enforce the ownership policy
// and translate everything into the application error taxonomy.
package services

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/event"
	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/policy"
	"github.com/ballotline/ballotline-api/internal/storage/postgres"
	"github.com/ballotline/ballotline-api/internal/validation"
)

// ImageStore uploads candidate pictures and returns their object keys
type ImageStore interface {
	PutCandidateImage(ctx context.Context, candidateID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

// EventService handles event business logic
type EventService struct {
	events    postgres.EventRepository
	users     postgres.UserRepository
	images    ImageStore
	validator validation.EventValidation
	log       *log.Logger
}

// NewEventService creates a new event service. images may be nil when no
// object store is configured; image uploads then fail with a validation error.
func NewEventService(events postgres.EventRepository, users postgres.UserRepository, images ImageStore) *EventService {
	return &EventService{
		events: events,
		users:  users,
		images: images,
		log:    logger.Service("event"),
	}
}

// CandidateInput is one candidate in a create or update request. On update,
// an ID matching a candidate owned by the event updates that candidate;
// anything else inserts a new one.
type CandidateInput struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateEventRequest represents a request to create an event. Timestamps are
// RFC 3339; values without a zone are treated as UTC.
type CreateEventRequest struct {
	Name        string           `json:"name" binding:"required"`
	StartTime   string           `json:"start_time" binding:"required"`
	EndTime     string           `json:"end_time" binding:"required"`
	IsPrivate   bool             `json:"is_private"`
	CategoryIDs []string         `json:"category_ids"`
	Candidates  []CandidateInput `json:"candidates"`
}

// UpdateEventRequest replaces the event fields, its category set and the
// mentioned candidates
type UpdateEventRequest struct {
	Name        string           `json:"name" binding:"required"`
	StartTime   string           `json:"start_time" binding:"required"`
	EndTime     string           `json:"end_time" binding:"required"`
	IsPrivate   bool             `json:"is_private"`
	CategoryIDs []string         `json:"category_ids"`
	Candidates  []CandidateInput `json:"candidates"`
}

// ListEventsRequest carries the listing filters together with the viewer
type ListEventsRequest struct {
	Status    string
	Category  string
	Search    string
	IsPrivate *bool
	ViewerID  uuid.UUID
	Timezone  string
}

// CreateEvent creates an event with its categories and candidates. Private
// events are issued an access token at creation.
func (s *EventService) CreateEvent(creatorID uuid.UUID, req CreateEventRequest) (*event.Event, error) {
	if creatorID == uuid.Nil {
		return nil, apperr.PermissionDenied("authentication required to create events")
	}

	start, end, err := s.validateEventFields(req.Name, req.StartTime, req.EndTime, req.Candidates)
	if err != nil {
		return nil, err
	}

	categoryIDs, err := parseUUIDList(req.CategoryIDs, "category_ids")
	if err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(creatorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user %s not found", creatorID)
	}

	newEvent := event.NewEvent(req.Name, creatorID, start, end, req.IsPrivate)
	if err := s.events.CreateWithRelations(newEvent, categoryIDs, candidateSpecs(req.Candidates)); err != nil {
		return nil, err
	}

	s.log.Info("event created", "event_id", newEvent.ID, "creator_id", creatorID, "private", newEvent.IsPrivate)

	newEvent.Status = event.ResolveStatus(newEvent, time.Now())
	return newEvent, nil
}

// UpdateEvent applies a full update to an event the actor created. The
// authorization check runs before any validation or write.
func (s *EventService) UpdateEvent(actorID, eventID uuid.UUID, req UpdateEventRequest) (*event.Event, error) {
	existing, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutate(actorID, existing) {
		s.log.Warn("event update denied", "event_id", eventID, "actor_id", actorID, "creator_id", existing.CreatedByID)
		return nil, apperr.PermissionDenied("only the event creator can modify this event")
	}

	start, end, err := s.validateEventFields(req.Name, req.StartTime, req.EndTime, req.Candidates)
	if err != nil {
		return nil, err
	}

	categoryIDs, err := parseUUIDList(req.CategoryIDs, "category_ids")
	if err != nil {
		return nil, err
	}

	specs, err := candidateSpecsWithIDs(req.Candidates)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.StartTime = start.UTC()
	existing.EndTime = end.UTC()
	existing.IsPrivate = req.IsPrivate
	// An event turned private after creation still needs a token; tokens are
	// never rotated once issued.
	if existing.IsPrivate && existing.AccessToken == "" {
		existing.AccessToken = event.NewAccessToken()
	}

	if err := s.events.UpdateWithRelations(existing, categoryIDs, specs); err != nil {
		return nil, err
	}

	s.log.Info("event updated", "event_id", eventID, "actor_id", actorID)

	existing.Status = event.ResolveStatus(existing, time.Now())
	return existing, nil
}

// GetEvent retrieves an event with its candidates. Private events are hidden
// from everyone but their creator unless the correct access token is
// presented.
func (s *EventService) GetEvent(viewerID, eventID uuid.UUID, accessToken, timezone string) (*event.Event, error) {
	ev, err := s.events.GetWithCandidates(eventID)
	if err != nil {
		return nil, err
	}

	if ev.IsPrivate && !ev.IsCreator(viewerID) && accessToken != ev.AccessToken {
		s.log.Debug("private event access rejected", "event_id", eventID, "viewer_id", viewerID)
		return nil, apperr.NotFound("event %s not found", eventID)
	}

	// The token is only echoed back to the creator
	if !ev.IsCreator(viewerID) {
		ev.AccessToken = ""
	}

	ev.Status = event.ResolveStatusIn(ev, time.Now(), timezone)
	return ev, nil
}

// ListEvents lists public events matching the filters, newest first. Asking
// for private events returns only those the viewer created.
func (s *EventService) ListEvents(req ListEventsRequest) ([]*event.Event, error) {
	wantPrivate := req.IsPrivate != nil && *req.IsPrivate
	if wantPrivate && req.ViewerID == uuid.Nil {
		return nil, apperr.PermissionDenied("authentication required to list private events")
	}

	publicOnly := false
	filter := postgres.EventFilter{
		Status:    req.Status,
		Category:  req.Category,
		Search:    req.Search,
		IsPrivate: req.IsPrivate,
		Now:       time.Now().UTC(),
	}
	if req.IsPrivate == nil {
		filter.IsPrivate = &publicOnly
	}

	events, err := s.events.List(filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := events[:0]
	for _, ev := range events {
		if ev.IsPrivate && !ev.IsCreator(req.ViewerID) {
			continue
		}
		if !ev.IsCreator(req.ViewerID) {
			ev.AccessToken = ""
		}
		ev.Status = event.ResolveStatusIn(ev, now, req.Timezone)
		out = append(out, ev)
	}
	return out, nil
}

// DeleteEvent removes an event and everything it owns. Only the creator may
// delete.
func (s *EventService) DeleteEvent(actorID, eventID uuid.UUID) error {
	existing, err := s.events.GetByID(eventID)
	if err != nil {
		return err
	}

	if !policy.CanMutate(actorID, existing) {
		s.log.Warn("event delete denied", "event_id", eventID, "actor_id", actorID)
		return apperr.PermissionDenied("only the event creator can delete this event")
	}

	if err := s.events.Delete(eventID); err != nil {
		return err
	}

	s.log.Info("event deleted", "event_id", eventID, "actor_id", actorID)
	return nil
}

// ListCategories returns all known categories ordered by name
func (s *EventService) ListCategories() ([]event.Category, error) {
	return s.events.ListCategories()
}

// AttachCandidateImage uploads a picture for a candidate of an event the
// actor created and stores the resulting object key on the candidate.
func (s *EventService) AttachCandidateImage(ctx context.Context, actorID, eventID, candidateID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if s.images == nil {
		return "", apperr.Validation("image storage is not configured")
	}

	ev, err := s.events.GetWithCandidates(eventID)
	if err != nil {
		return "", err
	}

	if !policy.CanMutate(actorID, ev) {
		return "", apperr.PermissionDenied("only the event creator can manage candidate images")
	}

	if _, ok := ev.Candidate(candidateID); !ok {
		return "", apperr.NotFound("candidate %s does not belong to event %s", candidateID, eventID)
	}

	key, err := s.images.PutCandidateImage(ctx, candidateID, filename, reader, size, contentType)
	if err != nil {
		return "", apperr.Validation("image upload rejected: %v", err)
	}

	if err := s.events.UpdateCandidateImage(candidateID, key); err != nil {
		return "", err
	}

	s.log.Info("candidate image attached", "candidate_id", candidateID, "key", key)
	return key, nil
}

// validateEventFields checks the name, parses and orders the time boundaries
// and validates candidate names
func (s *EventService) validateEventFields(name, startRaw, endRaw string, candidates []CandidateInput) (time.Time, time.Time, error) {
	var zero time.Time

	if err := s.validator.ValidateEventName(name); err != nil {
		return zero, zero, apperr.Validation("%v", err)
	}

	start, err := validation.ParseEventTime(startRaw, "start_time")
	if err != nil {
		return zero, zero, apperr.Validation("%v", err)
	}
	end, err := validation.ParseEventTime(endRaw, "end_time")
	if err != nil {
		return zero, zero, apperr.Validation("%v", err)
	}
	if err := validation.ValidateTimeRange(start, end); err != nil {
		return zero, zero, apperr.Validation("%v", err)
	}

	for _, c := range candidates {
		if err := s.validator.ValidateCandidateName(c.Name); err != nil {
			return zero, zero, apperr.Validation("%v", err)
		}
	}

	return start, end, nil
}

// candidateSpecs converts inputs to storage specs, ignoring any IDs
func candidateSpecs(inputs []CandidateInput) []postgres.CandidateSpec {
	specs := make([]postgres.CandidateSpec, 0, len(inputs))
	for _, in := range inputs {
		specs = append(specs, postgres.CandidateSpec{Name: in.Name, Description: in.Description})
	}
	return specs
}

// candidateSpecsWithIDs converts inputs to storage specs, parsing the
// optional candidate IDs used for upserts
func candidateSpecsWithIDs(inputs []CandidateInput) ([]postgres.CandidateSpec, error) {
	specs := make([]postgres.CandidateSpec, 0, len(inputs))
	for _, in := range inputs {
		spec := postgres.CandidateSpec{Name: in.Name, Description: in.Description}
		if in.ID != "" {
			id, err := uuid.Parse(in.ID)
			if err != nil {
				return nil, apperr.Validation("candidate id %q is not a valid UUID", in.ID)
			}
			spec.ID = &id
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// parseUUIDList parses a list of UUID strings
func parseUUIDList(values []string, fieldName string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, apperr.Validation("%s contains an invalid UUID: %s", fieldName, v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
