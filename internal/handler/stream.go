package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/swapcycle/exchange-platform/internal/events"
	"github.com/swapcycle/exchange-platform/internal/middleware"
	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/internal/service"
	"github.com/swapcycle/exchange-platform/pkg/logger"
	"github.com/swapcycle/exchange-platform/pkg/metrics"
)

const heartbeatInterval = 30 * time.Second

// StreamHandler handles SSE streaming endpoints. Every change notification
// triggers a re-read of the full result set; the stream never carries
// deltas, so a dropped notification costs freshness, not correctness.
type StreamHandler struct {
	conversations *service.ConversationService
	events        *events.Client
	logger        *logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(convs *service.ConversationService, ev *events.Client, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		conversations: convs,
		events:        ev,
		logger:        log,
	}
}

// Messages handles GET /api/v1/conversations/:id/stream
//
// Emits the thread's full message list immediately, then again on every
// change, with heartbeats in between.
func (h *StreamHandler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.conversations.Get(ctx, conversationID, userID); err != nil {
		writeServiceError(w, err, "failed to load conversation")
		return
	}

	flusher, ok := setupSSE(w)
	if !ok {
		return
	}

	notify := make(chan struct{}, 1)
	unsubscribe, err := h.events.SubscribeConversation(conversationID, func() {
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	if err != nil {
		h.logger.Error("failed to subscribe to conversation feed",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}
	defer unsubscribe()

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	sendSSEEvent(w, flusher, "connected", map[string]string{
		"conversation_id": conversationID,
	})

	send := func() {
		msgs, err := h.conversations.Messages(ctx, conversationID)
		if err != nil {
			h.logger.Error("failed to load messages for stream",
				zap.String("conversation_id", conversationID),
				zap.Error(err),
			)
			sendSSEEvent(w, flusher, "error", &model.ErrorEvent{
				Code:    "read_error",
				Message: "Failed to load messages",
			})
			return
		}

		resp := model.ListMessagesResponse{
			Messages: make([]model.Message, 0, len(msgs)),
			Total:    len(msgs),
		}
		for _, msg := range msgs {
			resp.Messages = append(resp.Messages, *msg)
		}
		sendSSEEvent(w, flusher, "messages", resp)
	}

	send()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("SSE client disconnected",
				zap.String("conversation_id", conversationID),
			)
			return
		case <-notify:
			send()
		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", &model.HeartbeatEvent{
				Timestamp: time.Now(),
			})
		}
	}
}

// Conversations handles GET /api/v1/conversations/stream
//
// Emits the caller's full conversation list immediately, then again
// whenever any of their threads changes.
func (h *StreamHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	flusher, ok := setupSSE(w)
	if !ok {
		return
	}

	notify := make(chan struct{}, 1)
	unsubscribe, err := h.events.SubscribeUserConversations(userID, func() {
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	if err != nil {
		h.logger.Error("failed to subscribe to user feed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}
	defer unsubscribe()

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	sendSSEEvent(w, flusher, "connected", map[string]string{
		"user_id": userID,
	})

	send := func() {
		convs, err := h.conversations.ListForUser(ctx, userID)
		if err != nil {
			h.logger.Error("failed to load conversations for stream",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			sendSSEEvent(w, flusher, "error", &model.ErrorEvent{
				Code:    "read_error",
				Message: "Failed to load conversations",
			})
			return
		}

		resp := model.ListConversationsResponse{
			Conversations: make([]model.Conversation, 0, len(convs)),
			Total:         len(convs),
		}
		for _, conv := range convs {
			resp.Conversations = append(resp.Conversations, *conv)
		}
		sendSSEEvent(w, flusher, "conversations", resp)
	}

	send()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("SSE client disconnected",
				zap.String("user_id", userID),
			)
			return
		case <-notify:
			send()
		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", &model.HeartbeatEvent{
				Timestamp: time.Now(),
			})
		}
	}
}

func setupSSE(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	return flusher, true
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}
