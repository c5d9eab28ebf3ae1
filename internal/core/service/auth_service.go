package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/platformsec/user-access-api/internal/api/metrics"
	"github.com/platformsec/user-access-api/internal/core/domain"
	"github.com/platformsec/user-access-api/internal/core/ports"
)

// AuthService implements login and token generation.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Login validates credentials and mints a token whose subject is the user ID.
// Unknown email and wrong password collapse into the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.sign(jwt.MapClaims{"sub": user.ID})
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("login").Inc()
	s.log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("user logged in")

	return token, user, nil
}

// GenerateToken mints a token carrying the email and role claims directly.
// No credential check is performed; access to the endpoint is expected to be
// restricted at the deployment edge.
func (s *AuthService) GenerateToken(ctx context.Context, email, role string) (string, error) {
	token, err := s.sign(jwt.MapClaims{"email": email, "role": role})
	if err != nil {
		return "", err
	}

	metrics.TokensIssuedTotal.WithLabelValues("manual").Inc()
	s.log.Info().Str("email", email).Str("role", role).Msg("token generated")

	return token, nil
}

func (s *AuthService) sign(claims jwt.MapClaims) (string, error) {
	if s.jwtSecret == "" {
		return "", domain.ErrSigningSecretMissing
	}

	now := time.Now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.tokenTTL).Unix()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
