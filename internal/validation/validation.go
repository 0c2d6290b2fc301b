package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Accepted timestamp layouts. The naive layout carries no zone and is
// coerced to UTC so aware and naive values are never compared raw.
const (
	naiveLayout = "2006-01-02T15:04:05"
)

// ValidateRequired validates that a field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength validates the minimum length of a string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return fmt.Errorf("%s must be at least %d characters long", fieldName, minLength)
	}
	return nil
}

// ValidateMaxLength validates the maximum length of a string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return fmt.Errorf("%s must be at most %d characters long", fieldName, maxLength)
	}
	return nil
}

// ValidateUUID validates that a string is a valid UUID
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidateEmail validates basic email format
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return errors.New("email must have a valid format")
	}
	return nil
}

// ParseEventTime parses an event boundary timestamp. RFC 3339 input keeps
// its zone; naive input is coerced to UTC.
func ParseEventTime(value, fieldName string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(naiveLayout, value, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp", fieldName)
}

// ValidateTimeRange validates that start precedes end. Both values are
// timezone-aware by the time they reach this check.
func ValidateTimeRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errors.New("start_time and end_time are required")
	}
	if !start.Before(end) {
		return errors.New("end_time must be after start_time")
	}
	return nil
}

// ValidateTimezone reports whether the value names a known IANA zone
func ValidateTimezone(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.LoadLocation(value); err != nil {
		return fmt.Errorf("unknown timezone: %s", value)
	}
	return nil
}

// EventValidation contains event-specific validations
type EventValidation struct{}

// ValidateEventName validates the name of an event
func (v EventValidation) ValidateEventName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 3, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 100, "name"); err != nil {
		return err
	}
	return nil
}

// ValidateCandidateName validates the name of a candidate
func (v EventValidation) ValidateCandidateName(name string) error {
	if err := ValidateRequired(name, "candidate name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 100, "candidate name")
}

// UserValidation contains user-specific validations
type UserValidation struct{}

// ValidateUsername validates the username of a user
func (v UserValidation) ValidateUsername(name string) error {
	if err := ValidateRequired(name, "username"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 2, "username"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 50, "username")
}

// ValidateUserEmail validates the email of a user
func (v UserValidation) ValidateUserEmail(email string) error {
	if err := ValidateRequired(email, "email"); err != nil {
		return err
	}
	return ValidateEmail(email)
}

// ValidatePassword validates a plaintext password before hashing
func (v UserValidation) ValidatePassword(password string) error {
	return ValidateMinLength(password, 8, "password")
}
