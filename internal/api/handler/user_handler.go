package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/platformsec/user-access-api/internal/core/domain"
	"github.com/platformsec/user-access-api/internal/core/ports"
)

// UserHandler handles privileged user management endpoints. All routes are
// gated by the auth and RBAC middleware before reaching these methods.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// SuperAdminCreate creates a user with any requested role.
//
// @Summary      Create a user with an explicit role (superadmin only)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /superadmin/create [post]
func (h *UserHandler) SuperAdminCreate(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "All fields are required."})
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid role."})
	}

	return h.create(c, ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
}

// AdminCreate creates a regular user. Any role supplied in the payload is
// ignored; admins cannot elevate privilege of users they create.
//
// @Summary      Create a regular user (admin only)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMemberRequest  true  "User details"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /admin/create [post]
func (h *UserHandler) AdminCreate(c echo.Context) error {
	var req createMemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "All fields are required."})
	}

	return h.create(c, ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.RoleUser,
	})
}

func (h *UserHandler) create(c echo.Context, input ports.CreateUserInput) error {
	user, err := h.users.Create(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "All fields are required."})
		case errors.Is(err, domain.ErrUserExists):
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "User already exists."})
		}
		return err
	}

	return c.JSON(http.StatusCreated, createdResponse{
		Message: "User created successfully",
		User:    toUserResponse(user),
	})
}

// List returns all users. The password hash is excluded both by the store
// projection and by the response type.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /all [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, out)
}

// Delete removes a user by email.
//
// @Summary      Delete a user by email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Email of the user to delete"
// @Success      200    {object}  messageResponse
// @Failure      404    {object}  messageResponse
// @Router       /{email} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	email := c.Param("email")

	if err := h.users.Delete(c.Request().Context(), email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, messageResponse{Message: "User not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
