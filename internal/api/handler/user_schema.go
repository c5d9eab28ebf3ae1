package handler

import (
	"time"

	"github.com/platformsec/user-access-api/internal/core/domain"
)

// messageResponse is the standard envelope for errors and confirmations.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type generateTokenRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

// createMemberRequest deliberately has no role field; the admin create
// endpoint always assigns the "user" role.
type createMemberRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal domain changes. None of them carry the password hash.

type tokenResponse struct {
	Token string `json:"token"`
}

type loginResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type createdResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}
