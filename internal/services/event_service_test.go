package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/event"
)

func newEventServiceFixture() (*EventService, *InMemoryEventRepository, *InMemoryUserRepository, *fakeImageStore) {
	events := NewInMemoryEventRepository()
	users := NewInMemoryUserRepository()
	images := &fakeImageStore{}
	return NewEventService(events, users, images), events, users, images
}

func validCreateRequest() CreateEventRequest {
	return CreateEventRequest{
		Name:      "Neighborhood Vote",
		StartTime: "2026-09-01T10:00:00Z",
		EndTime:   "2026-09-03T10:00:00Z",
		Candidates: []CandidateInput{
			{Name: "Alice"},
			{Name: "Bob", Description: "Second option"},
		},
	}
}

func TestCreateEventValidation(t *testing.T) {
	svc, events, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")

	tests := []struct {
		name   string
		mutate func(*CreateEventRequest)
	}{
		{"empty name", func(r *CreateEventRequest) { r.Name = "" }},
		{"short name", func(r *CreateEventRequest) { r.Name = "ab" }},
		{"unparseable start", func(r *CreateEventRequest) { r.StartTime = "tomorrow" }},
		{"end before start", func(r *CreateEventRequest) {
			r.StartTime = "2026-09-03T10:00:00Z"
			r.EndTime = "2026-09-01T10:00:00Z"
		}},
		{"start equals end", func(r *CreateEventRequest) { r.EndTime = r.StartTime }},
		{"blank candidate name", func(r *CreateEventRequest) { r.Candidates[0].Name = "  " }},
		{"bad category id", func(r *CreateEventRequest) { r.CategoryIDs = []string{"not-a-uuid"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := events.Writes()

			req := validCreateRequest()
			tt.mutate(&req)

			_, err := svc.CreateEvent(creator.ID, req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

			// A rejected request persists nothing
			assert.Equal(t, before, events.Writes())
		})
	}
}

func TestCreateEventRequiresAuthentication(t *testing.T) {
	svc, _, _, _ := newEventServiceFixture()

	_, err := svc.CreateEvent(uuid.Nil, validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
}

func TestCreateEventUnknownCreator(t *testing.T) {
	svc, _, _, _ := newEventServiceFixture()

	_, err := svc.CreateEvent(uuid.New(), validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateEventMixedTimezoneBoundaries(t *testing.T) {
	svc, _, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")

	// Start is aware (-03:00), end is naive (UTC); as instants the range is
	// valid even though the wall-clock end precedes the start
	req := validCreateRequest()
	req.StartTime = "2026-09-01T10:00:00-03:00" // 13:00 UTC
	req.EndTime = "2026-09-01T14:00:00"         // 14:00 UTC

	ev, err := svc.CreateEvent(creator.ID, req)
	require.NoError(t, err)
	assert.True(t, ev.StartTime.Before(ev.EndTime))
}

func TestCreateEventPrivateToken(t *testing.T) {
	svc, _, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")

	t.Run("private", func(t *testing.T) {
		req := validCreateRequest()
		req.IsPrivate = true

		ev, err := svc.CreateEvent(creator.ID, req)
		require.NoError(t, err)
		assert.Len(t, ev.AccessToken, event.AccessTokenLength)
		assert.Equal(t, strings.ToUpper(ev.AccessToken), ev.AccessToken)
	})

	t.Run("public", func(t *testing.T) {
		ev, err := svc.CreateEvent(creator.ID, validCreateRequest())
		require.NoError(t, err)
		assert.Empty(t, ev.AccessToken)
	})
}

func TestCreateEventPersistsRelations(t *testing.T) {
	svc, events, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")
	politics := events.AddCategory("Politics")

	req := validCreateRequest()
	req.CategoryIDs = []string{politics.ID.String()}

	ev, err := svc.CreateEvent(creator.ID, req)
	require.NoError(t, err)

	stored, err := events.GetWithCandidates(ev.ID)
	require.NoError(t, err)
	require.Len(t, stored.Categories, 1)
	assert.Equal(t, "Politics", stored.Categories[0].Name)
	require.Len(t, stored.Candidates, 2)
	assert.Equal(t, creator.ID, stored.CreatedByID)
}

func TestCreateEventUnknownCategory(t *testing.T) {
	svc, _, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")

	req := validCreateRequest()
	req.CategoryIDs = []string{uuid.NewString()}

	_, err := svc.CreateEvent(creator.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateEventAuthorization(t *testing.T) {
	svc, events, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")
	stranger := registeredUser(users, "stranger")

	ev := storedEvent(events, creator.ID, false, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

	req := UpdateEventRequest{
		Name:      "Hijacked",
		StartTime: "2026-09-01T10:00:00Z",
		EndTime:   "2026-09-03T10:00:00Z",
	}

	_, err := svc.UpdateEvent(stranger.ID, ev.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	_, err = svc.UpdateEvent(uuid.Nil, ev.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	// Untouched
	stored, err := events.GetWithCandidates(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stored Event", stored.Name)
}

func TestUpdateEventReplacesCategoriesAndUpsertsCandidates(t *testing.T) {
	svc, events, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")
	politics := events.AddCategory("Politics")
	sports := events.AddCategory("Sports")

	req := validCreateRequest()
	req.CategoryIDs = []string{politics.ID.String()}
	ev, err := svc.CreateEvent(creator.ID, req)
	require.NoError(t, err)
	require.Len(t, ev.Candidates, 2)

	alice := ev.Candidates[0]

	updated, err := svc.UpdateEvent(creator.ID, ev.ID, UpdateEventRequest{
		Name:        "Neighborhood Vote v2",
		StartTime:   "2026-09-01T10:00:00Z",
		EndTime:     "2026-09-05T10:00:00Z",
		CategoryIDs: []string{sports.ID.String()},
		Candidates: []CandidateInput{
			{ID: alice.ID.String(), Name: "Alice Updated"},
			{Name: "Carol"},
		},
	})
	require.NoError(t, err)

	// Categories fully replaced
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "Sports", updated.Categories[0].Name)

	// Alice updated in place, Bob untouched, Carol added
	require.Len(t, updated.Candidates, 3)
	names := map[string]bool{}
	for _, c := range updated.Candidates {
		names[c.Name] = true
		if c.ID == alice.ID {
			assert.Equal(t, "Alice Updated", c.Name)
		}
	}
	assert.True(t, names["Bob"])
	assert.True(t, names["Carol"])
}

func TestUpdateEventTurnedPrivateGetsToken(t *testing.T) {
	svc, events, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")
	ev := storedEvent(events, creator.ID, false, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

	updated, err := svc.UpdateEvent(creator.ID, ev.ID, UpdateEventRequest{
		Name:      "Now Private",
		StartTime: "2026-09-01T10:00:00Z",
		EndTime:   "2026-09-03T10:00:00Z",
		IsPrivate: true,
	})
	require.NoError(t, err)
	assert.Len(t, updated.AccessToken, event.AccessTokenLength)

	// The token is stable across further updates
	again, err := svc.UpdateEvent(creator.ID, ev.ID, UpdateEventRequest{
		Name:      "Still Private",
		StartTime: "2026-09-01T10:00:00Z",
		EndTime:   "2026-09-03T10:00:00Z",
		IsPrivate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, updated.AccessToken, again.AccessToken)
}

func TestGetEventPrivateAccess(t *testing.T) {
	svc, events, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")
	stranger := registeredUser(users, "stranger")

	ev := storedEvent(events, creator.ID, true, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NotEmpty(t, ev.AccessToken)

	t.Run("creator sees the event and the token", func(t *testing.T) {
		got, err := svc.GetEvent(creator.ID, ev.ID, "", "")
		require.NoError(t, err)
		assert.Equal(t, ev.AccessToken, got.AccessToken)
	})

	t.Run("stranger without token gets not found", func(t *testing.T) {
		_, err := svc.GetEvent(stranger.ID, ev.ID, "", "")
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("wrong token gets not found", func(t *testing.T) {
		_, err := svc.GetEvent(stranger.ID, ev.ID, "WRONGTOKEN", "")
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("correct token grants access but hides the token", func(t *testing.T) {
		got, err := svc.GetEvent(stranger.ID, ev.ID, ev.AccessToken, "")
		require.NoError(t, err)
		assert.Empty(t, got.AccessToken)
		assert.Equal(t, event.StatusOngoing, got.Status)
	})

	t.Run("anonymous with token also works", func(t *testing.T) {
		_, err := svc.GetEvent(uuid.Nil, ev.ID, ev.AccessToken, "")
		require.NoError(t, err)
	})
}

func TestGetEventResolvesStatus(t *testing.T) {
	svc, events, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")

	upcoming := storedEvent(events, creator.ID, false, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	got, err := svc.GetEvent(uuid.Nil, upcoming.ID, "", "America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	assert.Equal(t, event.StatusUpcoming, got.Status)
}

func TestListEventsHidesPrivateByDefault(t *testing.T) {
	svc, events, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")

	public := storedEvent(events, creator.ID, false, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	private := storedEvent(events, creator.ID, true, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	listed, err := svc.ListEvents(ListEventsRequest{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, public.ID, listed[0].ID)
	assert.Equal(t, event.StatusOngoing, listed[0].Status)

	// Explicitly asking for private events requires authentication
	wantPrivate := true
	_, err = svc.ListEvents(ListEventsRequest{IsPrivate: &wantPrivate})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	// The creator sees only their own private events
	listed, err = svc.ListEvents(ListEventsRequest{IsPrivate: &wantPrivate, ViewerID: creator.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, private.ID, listed[0].ID)
}

func TestListEventsStatusFilter(t *testing.T) {
	svc, events, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")

	storedEvent(events, creator.ID, false, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
	ongoing := storedEvent(events, creator.ID, false, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	storedEvent(events, creator.ID, false, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

	listed, err := svc.ListEvents(ListEventsRequest{Status: "ongoing"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, ongoing.ID, listed[0].ID)

	_, err = svc.ListEvents(ListEventsRequest{Status: "paused"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDeleteEventOnlyCreator(t *testing.T) {
	svc, events, users, _ := newEventServiceFixture()
	creator := registeredUser(users, "creator")
	stranger := registeredUser(users, "stranger")

	ev := storedEvent(events, creator.ID, false, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

	err := svc.DeleteEvent(stranger.ID, ev.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	require.NoError(t, svc.DeleteEvent(creator.ID, ev.ID))

	exists, err := events.Exists(ev.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	err = svc.DeleteEvent(creator.ID, ev.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAttachCandidateImage(t *testing.T) {
	svc, events, users, images := newEventServiceFixture()
	creator := registeredUser(users, "creator")
	stranger := registeredUser(users, "stranger")

	ev := storedEvent(events, creator.ID, false, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	candidate := ev.Candidates[0]
	ctx := context.Background()
	body := strings.NewReader("image-bytes")

	t.Run("stranger denied", func(t *testing.T) {
		_, err := svc.AttachCandidateImage(ctx, stranger.ID, ev.ID, candidate.ID, "a.png", body, 11, "image/png")
		require.Error(t, err)
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})

	t.Run("unknown candidate", func(t *testing.T) {
		_, err := svc.AttachCandidateImage(ctx, creator.ID, ev.ID, uuid.New(), "a.png", body, 11, "image/png")
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("store rejection surfaces as validation", func(t *testing.T) {
		images.err = errors.New("unsupported image extension: .exe")
		defer func() { images.err = nil }()

		_, err := svc.AttachCandidateImage(ctx, creator.ID, ev.ID, candidate.ID, "a.exe", body, 11, "application/octet-stream")
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("success stores the key", func(t *testing.T) {
		key, err := svc.AttachCandidateImage(ctx, creator.ID, ev.ID, candidate.ID, "a.png", body, 11, "image/png")
		require.NoError(t, err)
		require.NotEmpty(t, key)

		stored, err := events.GetWithCandidates(ev.ID)
		require.NoError(t, err)
		got, ok := stored.Candidate(candidate.ID)
		require.True(t, ok)
		assert.Equal(t, key, got.ImageKey)
	})
}
