package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotline/ballotline-api/internal/apperr"
)

const testJWTSecret = "test-secret"

func newUserServiceFixture() (*UserService, *InMemoryUserRepository) {
	users := NewInMemoryUserRepository()
	return NewUserService(users, testJWTSecret, time.Hour), users
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newUserServiceFixture()

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"empty username", func(r *RegisterRequest) { r.Username = "" }},
		{"one-char username", func(r *RegisterRequest) { r.Username = "a" }},
		{"bad email", func(r *RegisterRequest) { r.Email = "nope" }},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }},
		{"unknown timezone", func(r *RegisterRequest) { r.Timezone = "Mars/Olympus_Mons" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(&req)

			_, err := svc.Register(req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestRegisterCreatesProfile(t *testing.T) {
	svc, users := newUserServiceFixture()

	req := validRegisterRequest()
	req.Timezone = "America/Argentina/Buenos_Aires"

	u, err := svc.Register(req)
	require.NoError(t, err)

	stored, err := users.GetByID(u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Profile)
	assert.Equal(t, "America/Argentina/Buenos_Aires", stored.Profile.Timezone)

	// The password never round-trips in plain form
	assert.NotContains(t, stored.PasswordHash, "password123")
	assert.True(t, stored.CheckPassword("password123"))
}

func TestRegisterDefaultsTimezoneToUTC(t *testing.T) {
	svc, users := newUserServiceFixture()

	u, err := svc.Register(validRegisterRequest())
	require.NoError(t, err)

	stored, err := users.GetByID(u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Profile)
	assert.Equal(t, "UTC", stored.Profile.Timezone)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newUserServiceFixture()

	_, err := svc.Register(validRegisterRequest())
	require.NoError(t, err)

	_, err = svc.Register(validRegisterRequest())
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	svc, _ := newUserServiceFixture()

	registered, err := svc.Register(validRegisterRequest())
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		token, u, err := svc.Login(LoginRequest{Username: "alice", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("by email", func(t *testing.T) {
		_, u, err := svc.Login(LoginRequest{Username: "alice@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(LoginRequest{Username: "alice", Password: "wrongwrong"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})

	t.Run("unknown account gets the same error", func(t *testing.T) {
		_, _, err := svc.Login(LoginRequest{Username: "nobody", Password: "password123"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})
}

func TestLoginTokenIsWellFormed(t *testing.T) {
	svc, _ := newUserServiceFixture()

	_, err := svc.Register(validRegisterRequest())
	require.NoError(t, err)

	token, _, err := svc.Login(LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."), "expected a compact JWT")
}

func TestUpdateProfile(t *testing.T) {
	svc, users := newUserServiceFixture()
	u := registeredUser(users, "bob")

	t.Run("timezone and birthday", func(t *testing.T) {
		profile, err := svc.UpdateProfile(u.ID, UpdateProfileRequest{
			Timezone: "Europe/Madrid",
			Birthday: "1990-07-15",
		})
		require.NoError(t, err)
		assert.Equal(t, "Europe/Madrid", profile.Timezone)
		require.NotNil(t, profile.Birthday)
		assert.Equal(t, 1990, profile.Birthday.Year())

		assert.Equal(t, "Europe/Madrid", svc.ViewerTimezone(u.ID))
	})

	t.Run("bad timezone", func(t *testing.T) {
		_, err := svc.UpdateProfile(u.ID, UpdateProfileRequest{Timezone: "Nope/Nope"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("bad birthday", func(t *testing.T) {
		_, err := svc.UpdateProfile(u.ID, UpdateProfileRequest{Birthday: "15/07/1990"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateProfile(uuid.New(), UpdateProfileRequest{Timezone: "UTC"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestViewerTimezoneAnonymous(t *testing.T) {
	svc, _ := newUserServiceFixture()
	assert.Empty(t, svc.ViewerTimezone(uuid.Nil))
	assert.Empty(t, svc.ViewerTimezone(uuid.New()))
}
