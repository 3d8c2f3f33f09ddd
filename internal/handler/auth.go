package handler

import (
	"context"
	"net/http"

	"github.com/forgo/packlist/internal/model"
	"github.com/forgo/packlist/internal/service"
)

// AuthService is the account behaviour the handlers need
type AuthService interface {
	Register(ctx context.Context, req service.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req service.LoginRequest) (string, error)
	Refresh(ctx context.Context, caller service.Principal) (string, error)
}

// AuthHandler handles registration and token endpoints
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// TokenResponse is the body of login and refresh responses
type TokenResponse struct {
	AuthToken string `json:"authToken"`
}

// Register handles POST /api/users
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+user.ID)
	WriteJSON(w, http.StatusCreated, user.Serialize())
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	switch {
	case req.Username == "":
		WriteError(w, model.NewBadRequestError("missing 'username' in request body"))
		return
	case req.Password == "":
		WriteError(w, model.NewBadRequestError("missing 'password' in request body"))
		return
	}

	token, err := h.authService.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{AuthToken: token})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := h.authService.Refresh(r.Context(), principal(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{AuthToken: token})
}
