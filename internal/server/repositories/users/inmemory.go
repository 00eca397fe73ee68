package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vkarpov/authkeeper/internal/common"
	"github.com/vkarpov/authkeeper/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and local
// development. It mirrors the storage-layer guarantees of the Postgres
// implementation, including email uniqueness.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, common.ErrorConflict
		}
	}

	now := time.Now()
	created := *user
	created.ID = uuid.NewString()
	if created.Avatar == "" {
		created.Avatar = models.DefaultAvatar
	}
	if created.Role == "" {
		created.Role = models.RoleUser
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.users[created.ID] = created
	out := created
	return &out, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := u
	return &out, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.PasswordHash = user.PasswordHash
	stored.Avatar = user.Avatar
	stored.Role = user.Role
	stored.UpdatedAt = time.Now()

	r.users[user.ID] = stored
	out := stored
	return &out, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	return nil
}
