package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/swapcycle/exchange-platform/internal/theme"
)

// ThemeHandler serves the rotation schedule. It has no state; the schedule
// is pure arithmetic over the clock.
type ThemeHandler struct{}

// NewThemeHandler creates a new theme handler.
func NewThemeHandler() *ThemeHandler {
	return &ThemeHandler{}
}

// List handles GET /api/v1/themes
func (h *ThemeHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"themes": theme.Themes,
	})
}

// Get handles GET /api/v1/themes/:id
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	t := theme.ByID(chi.URLParam(r, "id"))
	if t == nil {
		writeError(w, http.StatusNotFound, "theme not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Current handles GET /api/v1/themes/current
func (h *ThemeHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, theme.Current(time.Now()))
}

// Upcoming handles GET /api/v1/themes/upcoming?count=N
func (h *ThemeHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	count := 3
	if c := r.URL.Query().Get("count"); c != "" {
		if parsed, err := strconv.Atoi(c); err == nil && parsed > 0 && parsed <= 20 {
			count = parsed
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"upcoming": theme.Upcoming(time.Now(), count),
	})
}
