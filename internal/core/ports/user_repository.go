package ports

import (
	"context"

	"github.com/platformsec/user-access-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// Email uniqueness is enforced by the storage layer (unique index); Create
// surfaces a conflicting insert as domain.ErrUserExists rather than relying
// on a racy check-then-create.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns all users. Implementations must exclude the password
	// hash from the projection.
	List(ctx context.Context) ([]*domain.User, error)
	// DeleteByEmail removes a user and returns the removed record, or
	// domain.ErrUserNotFound.
	DeleteByEmail(ctx context.Context, email string) (*domain.User, error)
}
