package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/user"
	"github.com/ballotline/ballotline-api/internal/logger"
)

// PostgresUserRepository implements UserRepository using GORM
type PostgresUserRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{
		db:  db,
		log: logger.Repository("user"),
	}
}

// CreateWithProfile creates the user and its default profile in one
// transaction. The profile step is explicit rather than a side effect of the
// user insert.
func (r *PostgresUserRepository) CreateWithProfile(u *user.User) error {
	r.log.Debug("creating user with profile", "user_id", u.ID, "username", u.Username)

	if err := u.Validate(); err != nil {
		return apperr.Validation("user validation failed: %v", err)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("username or email already taken")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		profile := u.Profile
		if profile == nil {
			profile = user.NewProfile(u.ID)
		} else {
			profile.UserID = u.ID
			if profile.ID == uuid.Nil {
				profile.ID = uuid.New()
			}
			if profile.Timezone == "" {
				profile.Timezone = "UTC"
			}
		}
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		u.Profile = profile

		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return err
		}
		r.log.Error("failed to create user", "error", err, "username", u.Username)
		return apperr.Unexpected("failed to create user", err)
	}

	r.log.Info("user created successfully", "user_id", u.ID, "username", u.Username)
	return nil
}

func (r *PostgresUserRepository) GetByID(id uuid.UUID) (*user.User, error) {
	r.log.Debug("retrieving user by ID", "user_id", id)

	var u user.User
	if err := r.db.Preload("Profile").First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		r.log.Error("failed to retrieve user", "user_id", id, "error", err)
		return nil, apperr.Unexpected("failed to retrieve user", err)
	}

	return &u, nil
}

func (r *PostgresUserRepository) GetByUsername(username string) (*user.User, error) {
	var u user.User
	if err := r.db.Preload("Profile").First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", username)
		}
		r.log.Error("failed to retrieve user by username", "username", username, "error", err)
		return nil, apperr.Unexpected("failed to retrieve user", err)
	}
	return &u, nil
}

func (r *PostgresUserRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	if err := r.db.Preload("Profile").First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no user with email %s", email)
		}
		r.log.Error("failed to retrieve user by email", "email", email, "error", err)
		return nil, apperr.Unexpected("failed to retrieve user", err)
	}
	return &u, nil
}

func (r *PostgresUserRepository) UpdateProfile(p *user.Profile) error {
	r.log.Debug("updating profile", "user_id", p.UserID)

	result := r.db.Model(&user.Profile{}).Where("user_id = ?", p.UserID).Updates(map[string]any{
		"timezone":    p.Timezone,
		"birthday":    p.Birthday,
		"picture_key": p.PictureKey,
	})
	if result.Error != nil {
		r.log.Error("failed to update profile", "user_id", p.UserID, "error", result.Error)
		return apperr.Unexpected("failed to update profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("profile for user %s not found", p.UserID)
	}

	return nil
}

func (r *PostgresUserRepository) Exists(id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&user.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperr.Unexpected("failed to check user existence", err)
	}
	return count > 0, nil
}
