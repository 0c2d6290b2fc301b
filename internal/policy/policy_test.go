package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type ownedThing struct {
	owner uuid.UUID
}

func (o ownedThing) OwnerID() uuid.UUID { return o.owner }

func TestCanRead(t *testing.T) {
	res := ownedThing{owner: uuid.New()}

	assert.True(t, CanRead(uuid.New(), res))
	assert.True(t, CanRead(uuid.Nil, res), "anonymous callers can read")
}

func TestCanMutate(t *testing.T) {
	owner := uuid.New()
	res := ownedThing{owner: owner}

	assert.True(t, CanMutate(owner, res))
	assert.False(t, CanMutate(uuid.New(), res))
	assert.False(t, CanMutate(uuid.Nil, res), "anonymous callers never mutate")

	// An ownerless resource is mutable by nobody, not by everybody
	assert.False(t, CanMutate(uuid.Nil, ownedThing{}))
}
