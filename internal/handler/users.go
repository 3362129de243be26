// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swapcycle/exchange-platform/internal/middleware"
	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/internal/service"
	"github.com/swapcycle/exchange-platform/pkg/logger"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		logger:  log,
	}
}

// Ensure handles POST /api/v1/users/ensure
//
// The body is optional; with no overrides the record is materialized from
// the JWT claims alone.
func (h *UserHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	var req model.EnsureUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Ensure(ctx, identity, &req)
	if err != nil {
		h.logger.Error("failed to ensure user")
		writeServiceError(w, err, "failed to ensure user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Get handles GET /api/v1/users/:id
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
