// Package storage opens the backing store for the API.
package storage

import (
	"github.com/ballotline/ballotline-api/internal/config"
	"github.com/ballotline/ballotline-api/internal/storage/postgres"
)

// Open connects the postgres-backed repository container. Kept as a small
// indirection so cmd wiring does not reach into the postgres package.
func Open(cfg *config.Config) (postgres.RepositoryContainer, error) {
	return postgres.NewContainer(cfg)
}
