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

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: svc,
		logger:  log,
	}
}

// Open handles POST /api/v1/conversations
//
// Get-or-create: opening the same pair-and-item twice returns the same
// thread.
func (h *ConversationHandler) Open(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.OpenConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.service.GetOrCreate(ctx, userID, req.OtherUserID, req.ItemID)
	if err != nil {
		writeServiceError(w, err, "failed to open conversation")
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// List handles GET /api/v1/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	convs, err := h.service.ListForUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to list conversations")
		writeError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}

	resp := model.ListConversationsResponse{
		Conversations: make([]model.Conversation, 0, len(convs)),
		Total:         len(convs),
	}
	for _, conv := range convs {
		resp.Conversations = append(resp.Conversations, *conv)
	}

	writeJSON(w, http.StatusOK, resp)
}

// UnreadCount handles GET /api/v1/conversations/unread-count
func (h *ConversationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	unread, err := h.service.UnreadCount(ctx, userID)
	if err != nil {
		h.logger.Error("failed to count unread messages")
		writeError(w, http.StatusInternalServerError, "failed to count unread messages")
		return
	}

	writeJSON(w, http.StatusOK, model.UnreadCountResponse{Unread: unread})
}

// Messages handles GET /api/v1/conversations/:id/messages
func (h *ConversationHandler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.service.Get(ctx, conversationID, userID); err != nil {
		writeServiceError(w, err, "failed to load conversation")
		return
	}

	msgs, err := h.service.Messages(ctx, conversationID)
	if err != nil {
		h.logger.Error("failed to list messages")
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	resp := model.ListMessagesResponse{
		Messages: make([]model.Message, 0, len(msgs)),
		Total:    len(msgs),
	}
	for _, msg := range msgs {
		resp.Messages = append(resp.Messages, *msg)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Send handles POST /api/v1/conversations/:id/messages
func (h *ConversationHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessageContent(req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.Send(ctx, conversationID, userID, req.Text, model.MessageTypeText, "")
	if err != nil {
		writeServiceError(w, err, "failed to send message")
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// MarkRead handles POST /api/v1/conversations/:id/read
func (h *ConversationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.service.Get(ctx, conversationID, userID); err != nil {
		writeServiceError(w, err, "failed to load conversation")
		return
	}

	h.service.MarkRead(ctx, conversationID, userID)
	w.WriteHeader(http.StatusNoContent)
}
