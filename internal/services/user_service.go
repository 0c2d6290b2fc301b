package services

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ballotline/ballotline-api/internal/apperr"
	"github.com/ballotline/ballotline-api/internal/domain/user"
	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/middleware"
	"github.com/ballotline/ballotline-api/internal/storage/postgres"
	"github.com/ballotline/ballotline-api/internal/validation"
)

// UserService handles registration, login and profile management
type UserService struct {
	users     postgres.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	validator validation.UserValidation
	log       *log.Logger
}

// NewUserService creates a new user service
func NewUserService(users postgres.UserRepository, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       logger.Service("user"),
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Timezone string `json:"timezone"`
}

// LoginRequest represents a login request. Login accepts the username or the
// email address in the same field.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest updates the viewer's profile preferences
type UpdateProfileRequest struct {
	Timezone string `json:"timezone"`
	Birthday string `json:"birthday"`
}

// Register creates a user account together with its profile. The profile is
// an explicit step of the registration transaction, not a side effect of the
// user insert.
func (s *UserService) Register(req RegisterRequest) (*user.User, error) {
	if err := s.validator.ValidateUsername(req.Username); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if err := s.validator.ValidateUserEmail(req.Email); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if err := s.validator.ValidatePassword(req.Password); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if err := validation.ValidateTimezone(req.Timezone); err != nil {
		return nil, apperr.Validation("%v", err)
	}

	newUser, err := user.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, apperr.Unexpected("failed to prepare user", err)
	}
	if req.Timezone != "" {
		profile := user.NewProfile(newUser.ID)
		profile.Timezone = req.Timezone
		newUser.Profile = profile
	}

	if err := s.users.CreateWithProfile(newUser); err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", newUser.ID, "username", newUser.Username)
	return newUser, nil
}

// Login verifies the credentials and issues a signed token. The same error
// covers unknown account and wrong password.
func (s *UserService) Login(req LoginRequest) (string, *user.User, error) {
	var (
		u   *user.User
		err error
	)
	if strings.Contains(req.Username, "@") {
		u, err = s.users.GetByEmail(req.Username)
	} else {
		u, err = s.users.GetByUsername(req.Username)
	}
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return "", nil, apperr.PermissionDenied("invalid credentials")
		}
		return "", nil, err
	}

	if !u.CheckPassword(req.Password) {
		s.log.Warn("login rejected", "username", req.Username)
		return "", nil, apperr.PermissionDenied("invalid credentials")
	}

	token, err := middleware.IssueToken(s.jwtSecret, u.ID, s.tokenTTL)
	if err != nil {
		return "", nil, apperr.Unexpected("failed to issue token", err)
	}

	s.log.Info("user logged in", "user_id", u.ID, "username", u.Username)
	return token, u, nil
}

// Me returns the account of the authenticated viewer
func (s *UserService) Me(userID uuid.UUID) (*user.User, error) {
	return s.users.GetByID(userID)
}

// UpdateProfile updates the viewer's profile preferences
func (s *UserService) UpdateProfile(userID uuid.UUID, req UpdateProfileRequest) (*user.Profile, error) {
	if err := validation.ValidateTimezone(req.Timezone); err != nil {
		return nil, apperr.Validation("%v", err)
	}

	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	profile := u.Profile
	if profile == nil {
		profile = user.NewProfile(userID)
	}

	if req.Timezone != "" {
		profile.Timezone = req.Timezone
	}
	if req.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return nil, apperr.Validation("birthday must be a YYYY-MM-DD date")
		}
		profile.Birthday = &birthday
	}

	if err := s.users.UpdateProfile(profile); err != nil {
		return nil, err
	}

	s.log.Info("profile updated", "user_id", userID)
	return profile, nil
}

// ViewerTimezone returns the viewer's preferred timezone, or empty for
// anonymous viewers and lookups that fail. Status resolution falls back to
// UTC on empty.
func (s *UserService) ViewerTimezone(userID uuid.UUID) string {
	if userID == uuid.Nil {
		return ""
	}
	u, err := s.users.GetByID(userID)
	if err != nil || u.Profile == nil {
		return ""
	}
	return u.Profile.Timezone
}
