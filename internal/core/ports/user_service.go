package ports

import (
	"context"

	"github.com/platformsec/user-access-api/internal/core/domain"
)

// CreateUserInput carries the data needed to create a user. Role is decided
// by the caller: the superadmin endpoint passes the requested role, the
// admin endpoint always passes domain.RoleUser.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UserService defines use-case operations for user management.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, email string) error
}
