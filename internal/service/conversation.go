package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/internal/store"
	"github.com/swapcycle/exchange-platform/pkg/logger"
	"github.com/swapcycle/exchange-platform/pkg/metrics"
)

// ChangeFeed receives notifications about touched conversations so live
// subscribers can re-read their view.
type ChangeFeed interface {
	ConversationUpdated(conv *model.Conversation)
}

// ConversationService handles message threads.
type ConversationService struct {
	store  store.Client
	feed   ChangeFeed
	logger *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(st store.Client, feed ChangeFeed, log *logger.Logger) *ConversationService {
	return &ConversationService{store: st, feed: feed, logger: log}
}

// GetOrCreate returns the thread between two users about an item, creating
// it on first contact. The thread id is a deterministic composite of the
// sorted pair and the item, so concurrent first contacts from both sides
// converge on the same document instead of racing into duplicates.
func (s *ConversationService) GetOrCreate(ctx context.Context, userID, otherUserID, itemID string) (*model.Conversation, error) {
	if otherUserID == "" || itemID == "" {
		return nil, fmt.Errorf("%w: other user and item are required", ErrValidation)
	}
	if otherUserID == userID {
		return nil, fmt.Errorf("%w: cannot open a conversation with yourself", ErrValidation)
	}

	id := model.ConversationID(userID, otherUserID, itemID)

	conv, err := s.store.FindConversation(id)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup conversation: %w", err)
	}

	a, b := userID, otherUserID
	if a > b {
		a, b = b, a
	}

	now := time.Now().UTC()
	conv = &model.Conversation{
		ID:            id,
		ParticipantA:  a,
		ParticipantB:  b,
		ItemID:        itemID,
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.SaveConversation(conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	s.logger.Info("conversation created",
		zap.String("conversation_id", conv.ID),
		zap.String("item_id", itemID),
	)
	return conv, nil
}

// Get returns a conversation, requiring the caller to be a participant.
func (s *ConversationService) Get(ctx context.Context, conversationID, userID string) (*model.Conversation, error) {
	conv, err := s.store.FindConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrForbidden)
	}
	return conv, nil
}

// ListForUser returns the user's threads, most recently updated first.
func (s *ConversationService) ListForUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	return s.store.FindConversationsByParticipant(userID)
}

// Messages returns a thread's messages in creation order.
func (s *ConversationService) Messages(ctx context.Context, conversationID string) ([]*model.Message, error) {
	return s.store.FindMessagesByConversation(conversationID)
}

// Send appends a message to a thread and refreshes the thread's denormalized
// preview fields. The two writes are not one transaction; if the preview
// update fails the thread list shows a stale preview until the next message,
// which is an accepted degraded state rather than data loss.
func (s *ConversationService) Send(ctx context.Context, conversationID, senderID, text string, msgType model.MessageType, exchangeID string) (*model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrValidation)
	}

	conv, err := s.store.FindConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrForbidden)
	}

	if msgType == "" {
		msgType = model.MessageTypeText
	}

	msg := &model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		Type:           msgType,
		ExchangeID:     exchangeID,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.SaveMessage(msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	conv.LastMessage = text
	conv.LastMessageAt = msg.CreatedAt
	conv.UpdatedAt = msg.CreatedAt
	if err := s.store.SaveConversation(conv); err != nil {
		s.logger.Warn("failed to refresh conversation preview",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
	}

	metrics.MessagesTotal.WithLabelValues(string(msgType)).Inc()
	s.feed.ConversationUpdated(conv)

	return msg, nil
}

// MarkRead flips the read flag on every message in the thread not authored
// by the reader. Callers treat it as fire-and-forget; failures are logged.
func (s *ConversationService) MarkRead(ctx context.Context, conversationID, readerID string) {
	flipped, err := s.store.MarkMessagesRead(conversationID, readerID)
	if err != nil {
		s.logger.Error("failed to mark messages read",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		return
	}
	if flipped > 0 {
		s.logger.Debug("messages marked read",
			zap.String("conversation_id", conversationID),
			zap.Int("count", flipped),
		)
	}
}

// UnreadCount totals the unread messages addressed to the user across all
// of their threads.
func (s *ConversationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	convs, err := s.store.FindConversationsByParticipant(userID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, conv := range convs {
		n, err := s.store.CountUnreadMessages(conv.ID, userID)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
