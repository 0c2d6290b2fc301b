package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/engagement"
	"github.com/ballotline/ballotline-api/internal/domain/event"
	"github.com/ballotline/ballotline-api/internal/domain/moderation"
	"github.com/ballotline/ballotline-api/internal/domain/notification"
	"github.com/ballotline/ballotline-api/internal/domain/user"
	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/storage/postgres"
)

func init() {
	logger.Initialize("error")
}

// InMemoryEventRepository is a map-backed stand-in for the event repository
type InMemoryEventRepository struct {
	mu         sync.Mutex
	events     map[uuid.UUID]*event.Event
	categories map[uuid.UUID]event.Category
	writes     int
}

func NewInMemoryEventRepository() *InMemoryEventRepository {
	return &InMemoryEventRepository{
		events:     make(map[uuid.UUID]*event.Event),
		categories: make(map[uuid.UUID]event.Category),
	}
}

func (r *InMemoryEventRepository) AddCategory(name string) event.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := event.Category{ID: uuid.New(), Name: name}
	r.categories[c.ID] = c
	return c
}

func (r *InMemoryEventRepository) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *InMemoryEventRepository) resolveCategoriesLocked(ids []uuid.UUID) ([]event.Category, error) {
	out := make([]event.Category, 0, len(ids))
	for _, id := range ids {
		c, ok := r.categories[id]
		if !ok {
			return nil, apperr.NotFound("one or more categories do not exist")
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *InMemoryEventRepository) CreateWithRelations(e *event.Event, categoryIDs []uuid.UUID, candidates []postgres.CandidateSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cats, err := r.resolveCategoriesLocked(categoryIDs)
	if err != nil {
		return err
	}

	e.Categories = cats
	e.Candidates = nil
	for _, spec := range candidates {
		e.Candidates = append(e.Candidates, *event.NewCandidate(e.ID, spec.Name, spec.Description))
	}

	stored := *e
	r.events[e.ID] = &stored
	r.writes++
	return nil
}

func (r *InMemoryEventRepository) UpdateWithRelations(e *event.Event, categoryIDs []uuid.UUID, candidates []postgres.CandidateSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.events[e.ID]
	if !ok {
		return apperr.NotFound("event %s not found", e.ID)
	}

	cats, err := r.resolveCategoriesLocked(categoryIDs)
	if err != nil {
		return err
	}

	stored.Name = e.Name
	stored.StartTime = e.StartTime
	stored.EndTime = e.EndTime
	stored.IsPrivate = e.IsPrivate
	stored.AccessToken = e.AccessToken
	stored.Categories = cats

	owned := make(map[uuid.UUID]int, len(stored.Candidates))
	for i, c := range stored.Candidates {
		owned[c.ID] = i
	}
	for _, spec := range candidates {
		if spec.ID != nil {
			if i, ok := owned[*spec.ID]; ok {
				stored.Candidates[i].Name = spec.Name
				stored.Candidates[i].Description = spec.Description
				continue
			}
		}
		stored.Candidates = append(stored.Candidates, *event.NewCandidate(stored.ID, spec.Name, spec.Description))
	}

	*e = *stored
	r.writes++
	return nil
}

func (r *InMemoryEventRepository) GetByID(id uuid.UUID) (*event.Event, error) {
	return r.GetWithCandidates(id)
}

func (r *InMemoryEventRepository) GetWithCandidates(id uuid.UUID) (*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.events[id]
	if !ok {
		return nil, apperr.NotFound("event %s not found", id)
	}
	copy := *stored
	copy.Candidates = append([]event.Candidate(nil), stored.Candidates...)
	return &copy, nil
}

func (r *InMemoryEventRepository) List(filter postgres.EventFilter) ([]*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*event.Event
	for _, stored := range r.events {
		if filter.IsPrivate != nil && stored.IsPrivate != *filter.IsPrivate {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(stored.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Category != "" {
			found := false
			for _, c := range stored.Categories {
				if c.Name == filter.Category {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		if filter.Status != "" {
			now := filter.Now
			switch filter.Status {
			case "ongoing":
				if now.Before(stored.StartTime) || now.After(stored.EndTime) {
					continue
				}
			case "upcoming":
				if !now.Before(stored.StartTime) {
					continue
				}
			case "ended":
				if !now.After(stored.EndTime) {
					continue
				}
			default:
				return nil, apperr.Validation("unknown status filter: %s", filter.Status)
			}
		}
		copy := *stored
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryEventRepository) ListByCreator(creatorID uuid.UUID) ([]*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*event.Event
	for _, stored := range r.events {
		if stored.CreatedByID == creatorID {
			copy := *stored
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *InMemoryEventRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return apperr.NotFound("event %s not found", id)
	}
	delete(r.events, id)
	r.writes++
	return nil
}

func (r *InMemoryEventRepository) Exists(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.events[id]
	return ok, nil
}

func (r *InMemoryEventRepository) UpdateCandidateImage(candidateID uuid.UUID, imageKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.events {
		for i := range stored.Candidates {
			if stored.Candidates[i].ID == candidateID {
				stored.Candidates[i].ImageKey = imageKey
				return nil
			}
		}
	}
	return apperr.NotFound("candidate %s not found", candidateID)
}

func (r *InMemoryEventRepository) GetCategoriesByIDs(ids []uuid.UUID) ([]event.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveCategoriesLocked(ids)
}

func (r *InMemoryEventRepository) ListCategories() ([]event.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]event.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// InMemoryUserRepository is a map-backed stand-in for the user repository
type InMemoryUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[uuid.UUID]*user.User)}
}

func (r *InMemoryUserRepository) CreateWithProfile(u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return apperr.Conflict("username or email already taken")
		}
	}
	if u.Profile == nil {
		u.Profile = user.NewProfile(u.ID)
	}
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *InMemoryUserRepository) GetByID(id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("user %s not found", id)
	}
	copy := *u
	return &copy, nil
}

func (r *InMemoryUserRepository) GetByUsername(username string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, apperr.NotFound("user %s not found", username)
}

func (r *InMemoryUserRepository) GetByEmail(email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, apperr.NotFound("user %s not found", email)
}

func (r *InMemoryUserRepository) UpdateProfile(p *user.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[p.UserID]
	if !ok {
		return apperr.NotFound("user %s not found", p.UserID)
	}
	copy := *p
	u.Profile = &copy
	return nil
}

func (r *InMemoryUserRepository) Exists(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

// InMemoryFavoriteRepository tracks favorites against a shared event repo
type InMemoryFavoriteRepository struct {
	mu     sync.Mutex
	pairs  map[[2]uuid.UUID]bool
	events *InMemoryEventRepository
}

func NewInMemoryFavoriteRepository(events *InMemoryEventRepository) *InMemoryFavoriteRepository {
	return &InMemoryFavoriteRepository{
		pairs:  make(map[[2]uuid.UUID]bool),
		events: events,
	}
}

func (r *InMemoryFavoriteRepository) Add(userID, eventID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[[2]uuid.UUID{userID, eventID}] = true
	return nil
}

func (r *InMemoryFavoriteRepository) Remove(userID, eventID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pairs, [2]uuid.UUID{userID, eventID})
	return nil
}

func (r *InMemoryFavoriteRepository) Exists(userID, eventID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairs[[2]uuid.UUID{userID, eventID}], nil
}

func (r *InMemoryFavoriteRepository) ListEventsByUser(userID uuid.UUID) ([]*event.Event, error) {
	r.mu.Lock()
	ids := make([]uuid.UUID, 0)
	for pair := range r.pairs {
		if pair[0] == userID {
			ids = append(ids, pair[1])
		}
	}
	r.mu.Unlock()

	var out []*event.Event
	for _, id := range ids {
		ev, err := r.events.GetWithCandidates(id)
		if err == nil {
			out = append(out, ev)
		}
	}
	return out, nil
}

// InMemoryCommentRepository is a map-backed stand-in for the comment repository
type InMemoryCommentRepository struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*engagement.Comment
}

func NewInMemoryCommentRepository() *InMemoryCommentRepository {
	return &InMemoryCommentRepository{comments: make(map[uuid.UUID]*engagement.Comment)}
}

func (r *InMemoryCommentRepository) Create(c *engagement.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *c
	r.comments[c.ID] = &stored
	return nil
}

func (r *InMemoryCommentRepository) GetByID(id uuid.UUID) (*engagement.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.comments[id]
	if !ok {
		return nil, apperr.NotFound("comment %s not found", id)
	}
	copy := *c
	return &copy, nil
}

func (r *InMemoryCommentRepository) ListTopLevelByEvent(eventID uuid.UUID) ([]*engagement.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*engagement.Comment
	for _, c := range r.comments {
		if c.EventID != eventID || c.ParentCommentID != nil || !c.IsApproved {
			continue
		}
		copy := *c
		for _, reply := range r.comments {
			if reply.ParentCommentID != nil && *reply.ParentCommentID == c.ID {
				copy.Replies = append(copy.Replies, *reply)
			}
		}
		out = append(out, &copy)
	}
	return out, nil
}

func (r *InMemoryCommentRepository) Exists(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.comments[id]
	return ok, nil
}

// InMemoryNotificationRepository collects notifications; failCreate makes
// Create fail
type InMemoryNotificationRepository struct {
	mu            sync.Mutex
	notifications []*notification.Notification
	failCreate    error
}

func NewInMemoryNotificationRepository() *InMemoryNotificationRepository {
	return &InMemoryNotificationRepository{}
}

func (r *InMemoryNotificationRepository) Create(n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	stored := *n
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *InMemoryNotificationRepository) ListByUser(userID uuid.UUID) ([]*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*notification.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			copy := *n
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *InMemoryNotificationRepository) MarkRead(id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return apperr.NotFound("notification %s not found", id)
}

// InMemoryReportRepository is a map-backed stand-in for the report repository
type InMemoryReportRepository struct {
	mu      sync.Mutex
	reports map[uuid.UUID]*moderation.Report
}

func NewInMemoryReportRepository() *InMemoryReportRepository {
	return &InMemoryReportRepository{reports: make(map[uuid.UUID]*moderation.Report)}
}

func (r *InMemoryReportRepository) Create(report *moderation.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *report
	r.reports[report.ID] = &stored
	return nil
}

func (r *InMemoryReportRepository) GetByID(id uuid.UUID) (*moderation.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[id]
	if !ok {
		return nil, apperr.NotFound("report %s not found", id)
	}
	copy := *report
	return &copy, nil
}

func (r *InMemoryReportRepository) ListByStatus(status moderation.ReportStatus) ([]*moderation.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*moderation.Report
	for _, report := range r.reports {
		if report.Status == status {
			copy := *report
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *InMemoryReportRepository) Update(report *moderation.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reports[report.ID]; !ok {
		return apperr.NotFound("report %s not found", report.ID)
	}
	stored := *report
	r.reports[report.ID] = &stored
	return nil
}

// fakeImageStore records uploads without touching an object store
type fakeImageStore struct {
	lastFilename string
	key          string
	err          error
}

func (s *fakeImageStore) PutCandidateImage(ctx context.Context, candidateID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastFilename = filename
	if s.key == "" {
		s.key = "candidates/" + candidateID.String() + "/test.png"
	}
	return s.key, nil
}

// registeredUser creates a user directly in the repository
func registeredUser(r *InMemoryUserRepository, username string) *user.User {
	u, err := user.NewUser(username, username+"@example.com", "password123")
	if err != nil {
		panic(err)
	}
	if err := r.CreateWithProfile(u); err != nil {
		panic(err)
	}
	return u
}

// storedEvent creates an event directly in the repository
func storedEvent(r *InMemoryEventRepository, creatorID uuid.UUID, private bool, start, end time.Time) *event.Event {
	ev := event.NewEvent("Stored Event", creatorID, start, end, private)
	if err := r.CreateWithRelations(ev, nil, []postgres.CandidateSpec{{Name: "Alice"}, {Name: "Bob"}}); err != nil {
		panic(err)
	}
	return ev
}
