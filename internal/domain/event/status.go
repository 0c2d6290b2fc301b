package event

import (
	"fmt"
	"time"
)

// Status represents the derived lifecycle phase of an event
type Status byte

const (
	StatusUpcoming Status = iota
	StatusOngoing
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusUpcoming:
		return "upcoming"
	case StatusOngoing:
		return "ongoing"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status: %s", str)
	}
	*s = status
	return nil
}

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "upcoming":
		return StatusUpcoming, true
	case "ongoing":
		return StatusOngoing, true
	case "ended":
		return StatusEnded, true
	default:
		return StatusUpcoming, false
	}
}

// ResolveStatus derives the lifecycle phase of e at the given instant.
// Boundary instants belong to ongoing: start <= now <= end. Pure function,
// safe on every read.
func ResolveStatus(e *Event, now time.Time) Status {
	start := e.StartTime.In(now.Location())
	end := e.EndTime.In(now.Location())

	if !now.Before(start) && !now.After(end) {
		return StatusOngoing
	}
	if now.Before(start) {
		return StatusUpcoming
	}
	return StatusEnded
}

// ResolveStatusIn derives the status with now converted into the viewer's
// time zone first. A missing or malformed zone falls back to UTC without
// raising; instants are unaffected by the conversion, so the fallback is
// always safe.
func ResolveStatusIn(e *Event, now time.Time, viewerTimezone string) Status {
	loc := time.UTC
	if viewerTimezone != "" {
		if parsed, err := time.LoadLocation(viewerTimezone); err == nil {
			loc = parsed
		}
	}
	return ResolveStatus(e, now.In(loc))
}
