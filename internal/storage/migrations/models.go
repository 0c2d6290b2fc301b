package migrations

import (
	"github.com/ballotline/ballotline-api/internal/domain/audit"
	"github.com/ballotline/ballotline-api/internal/domain/engagement"
	"github.com/ballotline/ballotline-api/internal/domain/event"
	"github.com/ballotline/ballotline-api/internal/domain/moderation"
	"github.com/ballotline/ballotline-api/internal/domain/notification"
	"github.com/ballotline/ballotline-api/internal/domain/user"
	"github.com/ballotline/ballotline-api/internal/domain/vote"
)

// AllModels returns every model in dependency order for AutoMigrate
func AllModels() []any {
	return []any{
		&user.User{},
		&user.Profile{},
		&event.Category{},
		&event.Event{},
		&event.Candidate{},
		&vote.Vote{},
		&engagement.Favorite{},
		&engagement.Comment{},
		&notification.Notification{},
		&moderation.Report{},
		&audit.ActivityLog{},
	}
}
