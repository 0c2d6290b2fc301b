package common

import "github.com/google/uuid"

// SharedEvent represents the minimal Event structure used across domains
type SharedEvent struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name"`
}

// SharedUser represents the minimal User structure used across domains
type SharedUser struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username string    `json:"username"`
}

// SharedCandidate represents the minimal Candidate structure used across domains
type SharedCandidate struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name    string    `json:"name"`
	EventID uuid.UUID `json:"event_id"`
}

func (SharedEvent) TableName() string     { return "events" }
func (SharedUser) TableName() string      { return "users" }
func (SharedCandidate) TableName() string { return "candidates" }

// Interfaces for type safety without circular imports

type UserInterface interface {
	GetID() uuid.UUID
	GetUsername() string
}

type EventInterface interface {
	GetID() uuid.UUID
	GetName() string
}
