package repomanager

import (
	"context"
	"database/sql"

	"github.com/vkarpov/authkeeper/internal/dbx"
	"github.com/vkarpov/authkeeper/internal/server/repositories/users"
)

// InMemoryRepositoryManager backs the service with map-based repositories.
// Used in tests and local development; the DBTX handle is ignored.
type InMemoryRepositoryManager struct {
	users *users.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}
