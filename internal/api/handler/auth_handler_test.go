package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/platformsec/user-access-api/internal/core/domain"
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	generateFn func(ctx context.Context, email, role string) (string, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) GenerateToken(ctx context.Context, email, role string) (string, error) {
	return s.generateFn(ctx, email, role)
}

func newTestContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "a@x.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "u1", Name: "Alice", Email: email, Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(e, http.MethodPost, "/login", `{"email":"a@x.com","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	if resp["role"] != "admin" || resp["email"] != "a@x.com" || resp["id"] != "u1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatalf("password must not appear in login response")
	}
}

func TestAuthHandler_Login_SameBodyForUnknownUserAndWrongPassword(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	})

	bodies := make([]string, 0, 2)
	for _, payload := range []string{
		`{"email":"ghost@x.com","password":"whatever"}`,
		`{"email":"a@x.com","password":"wrong"}`,
	} {
		c, rec := newTestContext(e, http.MethodPost, "/login", payload)
		_ = handler.Login(c)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}

	if bodies[0] != bodies[1] {
		t.Fatalf("401 bodies differ, enumeration leak: %q vs %q", bodies[0], bodies[1])
	}
	if !strings.Contains(bodies[0], "Invalid credentials") {
		t.Fatalf("unexpected body: %s", bodies[0])
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	})

	c, rec := newTestContext(e, http.MethodPost, "/login", "{")
	_ = handler.Login(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_GenerateToken_Success(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{
		generateFn: func(ctx context.Context, email, role string) (string, error) {
			if email != "ops@x.com" || role != "superadmin" {
				t.Fatalf("unexpected args: %s %s", email, role)
			}
			return "minted", nil
		},
	})

	c, rec := newTestContext(e, http.MethodPost, "/auth/generate-token", `{"email":"ops@x.com","role":"superadmin"}`)
	if err := handler.GenerateToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "minted") {
		t.Fatalf("expected token in body, got %s", rec.Body.String())
	}
}

func TestAuthHandler_GenerateToken_MissingFields(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{
		generateFn: func(ctx context.Context, email, role string) (string, error) {
			t.Fatalf("should not be called")
			return "", nil
		},
	})

	for _, payload := range []string{`{"email":"ops@x.com"}`, `{"role":"admin"}`, `{}`} {
		c, rec := newTestContext(e, http.MethodPost, "/auth/generate-token", payload)
		_ = handler.GenerateToken(c)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, rec.Code)
		}
	}
}

func TestAuthHandler_GenerateToken_MissingSecret(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{
		generateFn: func(ctx context.Context, email, role string) (string, error) {
			return "", domain.ErrSigningSecretMissing
		},
	})

	c, rec := newTestContext(e, http.MethodPost, "/auth/generate-token", `{"email":"ops@x.com","role":"admin"}`)
	_ = handler.GenerateToken(c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
