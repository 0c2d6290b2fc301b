package services

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/engagement"
	"github.com/ballotline/ballotline-api/internal/domain/event"
	"github.com/ballotline/ballotline-api/internal/domain/notification"
	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/storage/postgres"
)

// EngagementService handles favorites, comments and notifications
type EngagementService struct {
	favorites     postgres.FavoriteRepository
	comments      postgres.CommentRepository
	notifications postgres.NotificationRepository
	events        postgres.EventRepository
	log           *log.Logger
}

// NewEngagementService creates a new engagement service
func NewEngagementService(
	favorites postgres.FavoriteRepository,
	comments postgres.CommentRepository,
	notifications postgres.NotificationRepository,
	events postgres.EventRepository,
) *EngagementService {
	return &EngagementService{
		favorites:     favorites,
		comments:      comments,
		notifications: notifications,
		events:        events,
		log:           logger.Service("engagement"),
	}
}

// SetFavorite marks or unmarks an event as a favorite of the user. Both
// directions are idempotent: favoriting twice or removing an absent favorite
// succeeds without effect.
func (s *EngagementService) SetFavorite(userID, eventID uuid.UUID, add bool) error {
	exists, err := s.events.Exists(eventID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("event %s not found", eventID)
	}

	if add {
		if err := s.favorites.Add(userID, eventID); err != nil {
			return err
		}
		s.log.Debug("event favorited", "user_id", userID, "event_id", eventID)
		return nil
	}

	if err := s.favorites.Remove(userID, eventID); err != nil {
		return err
	}
	s.log.Debug("event unfavorited", "user_id", userID, "event_id", eventID)
	return nil
}

// IsFavorited reports whether the user has favorited the event
func (s *EngagementService) IsFavorited(userID, eventID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	return s.favorites.Exists(userID, eventID)
}

// ListFavoriteEvents returns the user's favorite events with their status
// resolved in the given timezone
func (s *EngagementService) ListFavoriteEvents(userID uuid.UUID, timezone string) ([]*event.Event, error) {
	events, err := s.favorites.ListEventsByUser(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, ev := range events {
		if !ev.IsCreator(userID) {
			ev.AccessToken = ""
		}
		ev.Status = event.ResolveStatusIn(ev, now, timezone)
	}
	return events, nil
}

// CommentRequest represents a request to comment on an event. A non-empty
// ParentID makes the comment a reply.
type CommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID string `json:"parent_comment_id"`
}

// CreateComment posts a comment on an event. Replying to a comment notifies
// the parent author; notification failures never fail the comment.
func (s *EngagementService) CreateComment(authorID, eventID uuid.UUID, req CommentRequest) (*engagement.Comment, error) {
	ev, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}

	var parentID *uuid.UUID
	var parent *engagement.Comment
	if req.ParentID != "" {
		id, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, apperr.Validation("parent_comment_id is not a valid UUID")
		}
		parent, err = s.comments.GetByID(id)
		if err != nil {
			return nil, err
		}
		if parent.EventID != eventID {
			return nil, apperr.Validation("parent comment belongs to a different event")
		}
		parentID = &id
	}

	comment := engagement.NewComment(eventID, authorID, req.Content, parentID)
	if err := comment.Validate(); err != nil {
		return nil, apperr.Validation("%v", err)
	}

	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}

	s.log.Info("comment created", "comment_id", comment.ID, "event_id", eventID, "reply", comment.IsReply())

	if parent != nil && parent.UserID != authorID {
		s.notifyReply(parent, ev, comment)
	}

	return comment, nil
}

// ListComments returns the approved top-level comments of an event with
// their replies
func (s *EngagementService) ListComments(eventID uuid.UUID) ([]*engagement.Comment, error) {
	exists, err := s.events.Exists(eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("event %s not found", eventID)
	}
	return s.comments.ListTopLevelByEvent(eventID)
}

// ListNotifications returns the user's notifications, newest first
func (s *EngagementService) ListNotifications(userID uuid.UUID) ([]*notification.Notification, error) {
	return s.notifications.ListByUser(userID)
}

// MarkNotificationRead marks one of the user's notifications as read
func (s *EngagementService) MarkNotificationRead(userID, notificationID uuid.UUID) error {
	return s.notifications.MarkRead(notificationID, userID)
}

// notifyReply creates a comment_reply notification for the parent author.
// The comment already committed; failures here are logged and swallowed.
func (s *EngagementService) notifyReply(parent *engagement.Comment, ev *event.Event, reply *engagement.Comment) {
	n := notification.New(parent.UserID, notification.TypeCommentReply,
		fmt.Sprintf("Someone replied to your comment on %s", ev.Name))
	n.RelatedEventID = &ev.ID
	n.RelatedCommentID = &reply.ID

	if err := s.notifications.Create(n); err != nil {
		s.log.Error("failed to create reply notification", "error", err, "comment_id", reply.ID)
	}
}
