package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swapcycle/exchange-platform/internal/middleware"
	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/internal/service"
	"github.com/swapcycle/exchange-platform/pkg/logger"
)

// ItemHandler handles catalog endpoints.
type ItemHandler struct {
	catalog *service.CatalogService
	users   *service.UserService
	logger  *logger.Logger
}

// NewItemHandler creates a new item handler.
func NewItemHandler(catalog *service.CatalogService, users *service.UserService, log *logger.Logger) *ItemHandler {
	return &ItemHandler{
		catalog: catalog,
		users:   users,
		logger:  log,
	}
}

// Create handles POST /api/v1/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	var req model.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The owner document is materialized on first contact, so listing an
	// item straight after login cannot fail on a missing profile.
	owner, err := h.users.Ensure(ctx, identity, nil)
	if err != nil {
		h.logger.Error("failed to resolve owner")
		writeServiceError(w, err, "failed to create item")
		return
	}

	item, err := h.catalog.Create(ctx, owner, &req)
	if err != nil {
		writeServiceError(w, err, "failed to create item")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// List handles GET /api/v1/items with an optional ?theme= filter.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var items []*model.Item
	if themeID := r.URL.Query().Get("theme"); themeID != "" {
		items = h.catalog.ListByTheme(ctx, themeID)
	} else {
		items = h.catalog.ListAll(ctx)
	}

	resp := model.ListItemsResponse{
		Items: make([]model.Item, 0, len(items)),
		Total: len(items),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, *item)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/items/:id
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if err := middleware.ValidateItemID(itemID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.catalog.Get(r.Context(), itemID)
	if err != nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Update handles PUT /api/v1/items/:id
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	itemID := chi.URLParam(r, "id")

	if err := middleware.ValidateItemID(itemID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.catalog.Get(ctx, itemID)
	if err != nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if item.OwnerID != userID {
		writeError(w, http.StatusForbidden, "not the item owner")
		return
	}

	var req model.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.catalog.Update(ctx, itemID, &req)
	if err != nil {
		writeServiceError(w, err, "failed to update item")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/items/:id
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	itemID := chi.URLParam(r, "id")

	if err := middleware.ValidateItemID(itemID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.catalog.Get(ctx, itemID)
	if err != nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if item.OwnerID != userID {
		writeError(w, http.StatusForbidden, "not the item owner")
		return
	}

	if err := h.catalog.Delete(ctx, itemID); err != nil {
		writeServiceError(w, err, "failed to delete item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Vote handles POST /api/v1/items/:id/vote
func (h *ItemHandler) Vote(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if err := middleware.ValidateItemID(itemID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	votes, err := h.catalog.Vote(r.Context(), itemID)
	if err != nil {
		writeServiceError(w, err, "failed to register vote")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"votes": votes})
}
