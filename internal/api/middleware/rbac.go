package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/platformsec/user-access-api/internal/api/metrics"
	"github.com/platformsec/user-access-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth, which
// stores the resolved role in context.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			if _, ok := allowed[role]; !ok {
				metrics.AuthDeniedTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}
			return next(c)
		}
	}
}
