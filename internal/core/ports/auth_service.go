package ports

import (
	"context"

	"github.com/platformsec/user-access-api/internal/core/domain"
)

// AuthService issues signed access tokens.
type AuthService interface {
	// Login validates an email/password pair and returns a signed token
	// plus the matching user. Unknown email and wrong password both yield
	// domain.ErrInvalidCredentials so callers cannot enumerate accounts.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// GenerateToken mints a token embedding the given email and role
	// without any credential check.
	GenerateToken(ctx context.Context, email, role string) (string, error)
}
