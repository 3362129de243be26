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

// ExchangeHandler handles exchange workflow endpoints.
type ExchangeHandler struct {
	service *service.ExchangeService
	logger  *logger.Logger
}

// NewExchangeHandler creates a new exchange handler.
func NewExchangeHandler(svc *service.ExchangeService, log *logger.Logger) *ExchangeHandler {
	return &ExchangeHandler{
		service: svc,
		logger:  log,
	}
}

// Propose handles POST /api/v1/exchanges
func (h *ExchangeHandler) Propose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.ProposeExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateConversationID(req.ConversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exchange, err := h.service.Propose(ctx, userID, req.ConversationID, &req)
	if err != nil {
		writeServiceError(w, err, "failed to propose exchange")
		return
	}

	writeJSON(w, http.StatusCreated, model.ProposeExchangeResponse{ExchangeID: exchange.ID})
}

// Get handles GET /api/v1/exchanges/:id
func (h *ExchangeHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	exchangeID := chi.URLParam(r, "id")

	if err := middleware.ValidateExchangeID(exchangeID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exchange, err := h.service.Details(ctx, userID, exchangeID)
	if err != nil {
		writeServiceError(w, err, "failed to load exchange")
		return
	}

	writeJSON(w, http.StatusOK, exchange)
}

// Accept handles POST /api/v1/exchanges/:id/accept
func (h *ExchangeHandler) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	exchangeID := chi.URLParam(r, "id")

	if err := middleware.ValidateExchangeID(exchangeID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exchange, err := h.service.Accept(ctx, userID, exchangeID)
	if err != nil {
		writeServiceError(w, err, "failed to accept exchange")
		return
	}

	writeJSON(w, http.StatusOK, exchange)
}

// Refuse handles POST /api/v1/exchanges/:id/refuse
func (h *ExchangeHandler) Refuse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	exchangeID := chi.URLParam(r, "id")

	if err := middleware.ValidateExchangeID(exchangeID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.RefuseExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exchange, err := h.service.Refuse(ctx, userID, exchangeID, req.Reason)
	if err != nil {
		writeServiceError(w, err, "failed to refuse exchange")
		return
	}

	writeJSON(w, http.StatusOK, exchange)
}
