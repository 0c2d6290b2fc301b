package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/config"
	"github.com/ballotline/ballotline-api/internal/logger"
)

// RepositoryContainer bundles every repository behind one initialization
type RepositoryContainer interface {
	Events() EventRepository
	Votes() VoteRepository
	Favorites() FavoriteRepository
	Users() UserRepository
	Comments() CommentRepository
	Notifications() NotificationRepository
	Reports() ReportRepository
	ActivityLogs() ActivityLogRepository
	DB() *gorm.DB
	Health() error
	Close() error
}

// Container implements RepositoryContainer
type Container struct {
	db               *gorm.DB
	log              *log.Logger
	eventRepo        EventRepository
	voteRepo         VoteRepository
	favoriteRepo     FavoriteRepository
	userRepo         UserRepository
	commentRepo      CommentRepository
	notificationRepo NotificationRepository
	reportRepo       ReportRepository
	activityLogRepo  ActivityLogRepository
}

// NewContainer creates a repository container with all repositories initialized
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)

	if err := container.Health(); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB wires repositories over an existing connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:               db,
		log:              logger.Repository("postgres_container"),
		eventRepo:        NewPostgresEventRepository(db),
		voteRepo:         NewPostgresVoteRepository(db),
		favoriteRepo:     NewPostgresFavoriteRepository(db),
		userRepo:         NewPostgresUserRepository(db),
		commentRepo:      NewPostgresCommentRepository(db),
		notificationRepo: NewPostgresNotificationRepository(db),
		reportRepo:       NewPostgresReportRepository(db),
		activityLogRepo:  NewPostgresActivityLogRepository(db),
	}
}

func (c *Container) Events() EventRepository                 { return c.eventRepo }
func (c *Container) Votes() VoteRepository                   { return c.voteRepo }
func (c *Container) Favorites() FavoriteRepository           { return c.favoriteRepo }
func (c *Container) Users() UserRepository                   { return c.userRepo }
func (c *Container) Comments() CommentRepository             { return c.commentRepo }
func (c *Container) Notifications() NotificationRepository   { return c.notificationRepo }
func (c *Container) Reports() ReportRepository               { return c.reportRepo }
func (c *Container) ActivityLogs() ActivityLogRepository     { return c.activityLogRepo }

// DB exposes the underlying connection for server wiring
func (c *Container) DB() *gorm.DB { return c.db }

// Health checks the underlying database connection
func (c *Container) Health() error {
	return HealthCheck(c.db)
}

// Close releases the underlying database connection
func (c *Container) Close() error {
	return Close()
}
