// Package users contains the account repository implementations.
package users

import (
	"context"

	"github.com/vkarpov/authkeeper/internal/server/models"
)

// Repository is the persistent store of account records. Email uniqueness is
// enforced at the storage layer; Create returns common.ErrorConflict when
// the email is already taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
