package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/internal/service"
	"github.com/swapcycle/exchange-platform/pkg/logger"
)

// DescribeHandler handles the description generation proxy endpoint.
type DescribeHandler struct {
	service *service.DescribeService
	logger  *logger.Logger
}

// NewDescribeHandler creates a new describe handler.
func NewDescribeHandler(svc *service.DescribeService, log *logger.Logger) *DescribeHandler {
	return &DescribeHandler{
		service: svc,
		logger:  log,
	}
}

// Generate handles POST /api/v1/describe
func (h *DescribeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req model.DescribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	description, err := h.service.Generate(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNoProvider) {
			writeError(w, http.StatusServiceUnavailable, "description generation is not configured")
			return
		}
		if errors.Is(err, service.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("description generation failed")
		writeError(w, http.StatusBadGateway, "failed to generate description")
		return
	}

	writeJSON(w, http.StatusOK, model.DescribeResponse{
		Success:     true,
		Description: description,
	})
}
