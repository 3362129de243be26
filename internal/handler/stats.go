package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swapcycle/exchange-platform/internal/service"
)

// StatsHandler handles public counter endpoints.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Global handles GET /api/v1/stats
func (h *StatsHandler) Global(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Global(r.Context()))
}

// ByTheme handles GET /api/v1/stats/themes/:id
func (h *StatsHandler) ByTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ByTheme(r.Context(), chi.URLParam(r, "id")))
}
