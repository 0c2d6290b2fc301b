package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an account that creates events, votes and comments
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Username     string    `json:"username" gorm:"not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}

// Profile holds per-user preferences, notably the timezone used when
// resolving event status for this viewer
type Profile struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Timezone string    `json:"timezone" gorm:"size:63;not null;default:'UTC'"`
	Birthday *time.Time `json:"birthday,omitempty"`
	PictureKey string   `json:"picture_key,omitempty"`
}

// TableName overrides the table name used by GORM
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name used by GORM
func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate sets a UUID before creating the record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate sets a UUID before creating the record
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewUser creates a user with a bcrypt-hashed password
func NewUser(username, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// NewProfile creates the default profile for a freshly registered user
func NewProfile(userID uuid.UUID) *Profile {
	return &Profile{
		ID:       uuid.New(),
		UserID:   userID,
		Timezone: "UTC",
	}
}

// CheckPassword compares a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Validate checks if the user data is valid
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("email must have a valid format")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// Implement common.UserInterface for consistency with other domains
func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetUsername() string {
	return u.Username
}
