package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/platformsec/user-access-api/internal/api/metrics"
	"github.com/platformsec/user-access-api/internal/core/domain"
	"github.com/platformsec/user-access-api/internal/core/ports"
)

// IdentityInvalidator drops cached identity entries (Redis). Optional; a nil
// invalidator disables invalidation.
type IdentityInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// UserService implements privileged user management.
type UserService struct {
	users ports.UserRepository
	cache IdentityInvalidator
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, cache IdentityInvalidator, log zerolog.Logger) *UserService {
	return &UserService{users: users, cache: cache, log: log}
}

// Create hashes the password and inserts the user. A duplicate email is
// reported by the repository's unique index as domain.ErrUserExists; there
// is deliberately no existence pre-check here.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" || input.Role == "" {
		return nil, domain.ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		IsAdmin:      input.Role.IsAdmin(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.UsersCreatedTotal.WithLabelValues(string(created.Role)).Inc()
	s.log.Info().Str("email", created.Email).Str("role", string(created.Role)).Msg("user created")

	return created, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Delete removes a user by email and invalidates any cached identity so the
// access guard stops honoring tokens for the deleted account promptly.
func (s *UserService) Delete(ctx context.Context, email string) error {
	deleted, err := s.users.DeleteByEmail(ctx, email)
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, deleted.ID); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("identity cache invalidation failed")
		}
	}

	metrics.UsersDeletedTotal.Inc()
	s.log.Info().Str("email", email).Msg("user deleted")

	return nil
}
