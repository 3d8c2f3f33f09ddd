package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forgo/packlist/internal/model"
	"github.com/forgo/packlist/pkg/jwt"
)

// ============================================================================
// Mock AuthService
// ============================================================================

type mockAuthService struct {
	validateFunc func(token string) (*jwt.Claims, error)
}

func (m *mockAuthService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	return m.validateFunc(token)
}

// successAuthService returns valid claims for any token
func successAuthService(userID, username, email string) *mockAuthService {
	return &mockAuthService{
		validateFunc: func(token string) (*jwt.Claims, error) {
			return &jwt.Claims{UserID: userID, Username: username, Email: email}, nil
		},
	}
}

// errorAuthService returns the specified error
func errorAuthService(err error) *mockAuthService {
	return &mockAuthService{
		validateFunc: func(token string) (*jwt.Claims, error) {
			return nil, err
		},
	}
}

// ============================================================================
// Test Helpers
// ============================================================================

func newTestRequest(authHeader string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return req
}

// captureHandler captures the request context for inspection
type captureHandler struct {
	called bool
	ctx    context.Context
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

func decodeProblem(t *testing.T, rr *httptest.ResponseRecorder) model.ProblemDetails {
	t.Helper()
	var p model.ProblemDetails
	if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
		t.Fatalf("failed to decode problem: %v", err)
	}
	return p
}

// ============================================================================
// Auth() Middleware Tests
// ============================================================================

func TestAuth_BadHeaders_ReturnUnauthorized(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"", "Basic sometoken", "Bearer", "Bearer   ", "sometoken"} {
		handler := &captureHandler{}
		rr := httptest.NewRecorder()

		Auth(successAuthService("user:1", "alice", ""))(handler).ServeHTTP(rr, newTestRequest(header))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected status 401, got %d", header, rr.Code)
		}
		if handler.called {
			t.Errorf("header %q: handler should not have been called", header)
		}
		if rr.Header().Get("WWW-Authenticate") == "" {
			t.Errorf("header %q: missing WWW-Authenticate", header)
		}
	}
}

func TestAuth_ExpiredToken_ReturnsTokenExpiredCode(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	rr := httptest.NewRecorder()

	Auth(errorAuthService(jwt.ErrTokenExpired))(handler).ServeHTTP(rr, newTestRequest("Bearer old"))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
	if p := decodeProblem(t, rr); p.Code != model.ErrCodeTokenExpired {
		t.Errorf("expected code %d, got %d", model.ErrCodeTokenExpired, p.Code)
	}
}

func TestAuth_InvalidSignature_ReturnsTokenInvalidCode(t *testing.T) {
	t.Parallel()
	rr := httptest.NewRecorder()

	Auth(errorAuthService(jwt.ErrInvalidSignature))(&captureHandler{}).ServeHTTP(rr, newTestRequest("Bearer forged"))

	p := decodeProblem(t, rr)
	if p.Code != model.ErrCodeTokenInvalid || p.Detail != "invalid token signature" {
		t.Errorf("unexpected problem %+v", p)
	}
}

func TestAuth_WrappedError_StillClassified(t *testing.T) {
	t.Parallel()
	rr := httptest.NewRecorder()
	err := errors.Join(errors.New("context"), jwt.ErrTokenExpired)

	Auth(errorAuthService(err))(&captureHandler{}).ServeHTTP(rr, newTestRequest("Bearer x"))

	if p := decodeProblem(t, rr); p.Code != model.ErrCodeTokenExpired {
		t.Errorf("expected code %d, got %d", model.ErrCodeTokenExpired, p.Code)
	}
}

func TestAuth_ValidToken_SetsPrincipal(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	rr := httptest.NewRecorder()

	var seen string
	svc := &mockAuthService{validateFunc: func(token string) (*jwt.Claims, error) {
		seen = token
		return &jwt.Claims{UserID: "user:1", Username: "alice", Email: "alice@example.com"}, nil
	}}

	Auth(svc)(handler).ServeHTTP(rr, newTestRequest("bearer the-token"))

	if !handler.called {
		t.Fatal("handler should have been called")
	}
	if seen != "the-token" {
		t.Errorf("expected token %q, got %q", "the-token", seen)
	}
	if got := GetUserID(handler.ctx); got != "user:1" {
		t.Errorf("GetUserID() = %q", got)
	}
	if got := GetUsername(handler.ctx); got != "alice" {
		t.Errorf("GetUsername() = %q", got)
	}
	if got := GetUserEmail(handler.ctx); got != "alice@example.com" {
		t.Errorf("GetUserEmail() = %q", got)
	}
	if claims := GetClaims(handler.ctx); claims == nil || claims.UserID != "user:1" {
		t.Errorf("GetClaims() = %+v", claims)
	}
}

func TestContextGetters_EmptyContext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if GetUserID(ctx) != "" || GetUsername(ctx) != "" || GetUserEmail(ctx) != "" || GetClaims(ctx) != nil {
		t.Error("expected zero values from an empty context")
	}
}
