package handler

import (
	"net/http"

	"github.com/swapcycle/exchange-platform/internal/events"
	"github.com/swapcycle/exchange-platform/internal/store"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store  store.Client
	events *events.Client
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(st store.Client, ev *events.Client) *HealthHandler {
	return &HealthHandler{
		store:  st,
		events: ev,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "store not reachable",
		})
		return
	}

	if h.events == nil || !h.events.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
