package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/platformsec/user-access-api/internal/core/domain"
	"github.com/platformsec/user-access-api/internal/core/ports"
)

// AuthHandler handles the unauthenticated credential endpoints.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates an email/password pair and returns a signed token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password produce the same body.
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Invalid credentials"})
		}
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
		Token: token,
	})
}

// GenerateToken mints a token with the supplied email and role claims. The
// endpoint itself requires no authentication.
//
// @Summary      Generate a token for a given email and role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      generateTokenRequest  true  "Token claims"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/generate-token [post]
func (h *AuthHandler) GenerateToken(c echo.Context) error {
	var req generateTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}
	if req.Email == "" || req.Role == "" {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Email and role are required."})
	}

	token, err := h.authService.GenerateToken(c.Request().Context(), req.Email, req.Role)
	if err != nil {
		if errors.Is(err, domain.ErrSigningSecretMissing) {
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: "JWT secret is not configured."})
		}
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}
