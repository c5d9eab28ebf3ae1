package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/platformsec/user-access-api/internal/api/metrics"
	"github.com/platformsec/user-access-api/internal/core/domain"
)

// UserLoader resolves a token subject to a stored user. The access guard
// needs it because login tokens carry only the user ID, not the role.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth validates the bearer JWT and injects identity claims into context.
//
// Tokens minted by the generate-token endpoint embed email and role claims
// and are trusted as-is. Login tokens carry only a subject ID; the user is
// loaded so the stored role decides authorization.
func Auth(jwtSecret string, loader UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthDeniedTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					metrics.AuthDeniedTotal.WithLabelValues("expired_token").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "Token expired")
				}
				metrics.AuthDeniedTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			if !tkn.Valid {
				metrics.AuthDeniedTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			if rawRole, ok := claims["role"].(string); ok && rawRole != "" {
				role, perr := domain.ParseRole(rawRole)
				if perr != nil {
					metrics.AuthDeniedTotal.WithLabelValues("invalid_token").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
				}
				email, _ := claims["email"].(string)
				c.Set("email", email)
				c.Set("role", role)
				return next(c)
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				metrics.AuthDeniedTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			user, err := loader.FindByID(c.Request().Context(), sub)
			if err != nil {
				metrics.AuthDeniedTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user_id", user.ID)
			c.Set("email", user.Email)
			c.Set("role", user.Role)

			return next(c)
		}
	}
}
