package handler

import (
	"context"
	"net/http"

	"github.com/forgo/packlist/internal/middleware"
	"github.com/forgo/packlist/internal/model"
	"github.com/forgo/packlist/internal/service"
)

// PackListService is the packing list behaviour the handlers need
type PackListService interface {
	Create(ctx context.Context, caller service.Principal, f model.PackListFields) (*model.PackListView, error)
	Get(ctx context.Context, id string) (*model.PackListView, error)
	ListByOwner(ctx context.Context, username string) ([]*model.PackListView, error)
	Update(ctx context.Context, id string, f model.PackListFields) (model.PackListFields, error)
	Delete(ctx context.Context, caller service.Principal, id string) error
}

// PackListHandler handles the /api/packList endpoints
type PackListHandler struct {
	packLists PackListService
}

// NewPackListHandler creates a new packing list handler
func NewPackListHandler(packLists PackListService) *PackListHandler {
	return &PackListHandler{packLists: packLists}
}

// Create handles POST /api/packList
func (h *PackListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields model.PackListFields
	if err := DecodeJSON(w, r, &fields); err != nil {
		writeBadBody(w, err)
		return
	}

	view, err := h.packLists.Create(r.Context(), principal(r), fields)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/packList/"+view.ID)
	WriteJSON(w, http.StatusCreated, view)
}

// ListByOwner handles GET /api/packList/db/{username}
func (h *PackListHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	views, err := h.packLists.ListByOwner(r.Context(), r.PathValue("username"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, views)
}

// Get handles GET /api/packList/{id}
func (h *PackListHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.packLists.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// Update handles PUT /api/packList/{id}
func (h *PackListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var fields model.PackListFields
	if err := DecodeJSON(w, r, &fields); err != nil {
		writeBadBody(w, err)
		return
	}

	updated, err := h.packLists.Update(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/packList/{id}
func (h *PackListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.packLists.Delete(r.Context(), principal(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteNoContent(w)
}

// principal reads the authenticated caller placed on the context by
// middleware.Auth.
func principal(r *http.Request) service.Principal {
	ctx := r.Context()
	return service.Principal{
		UserID:   middleware.GetUserID(ctx),
		Username: middleware.GetUsername(ctx),
		Email:    middleware.GetUserEmail(ctx),
	}
}
