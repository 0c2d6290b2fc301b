// Package policy holds the ownership-based authorization rules applied
// uniformly to events and their candidates: everyone reads, only the creator
// mutates.
package policy

import "github.com/google/uuid"

// Resource is anything owned by a single user. Candidate authorization is
// derived through the owning event, so candidates never implement this
// directly; callers resolve the event first.
type Resource interface {
	OwnerID() uuid.UUID
}

// CanRead reports whether actor may read the resource. Reads are always
// permitted, including for anonymous actors.
func CanRead(actor uuid.UUID, r Resource) bool {
	return true
}

// CanMutate reports whether actor may write or delete the resource
func CanMutate(actor uuid.UUID, r Resource) bool {
	return actor != uuid.Nil && actor == r.OwnerID()
}
