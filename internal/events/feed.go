package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/swapcycle/exchange-platform/internal/model"
)

const (
	// SubjectPrefix is the prefix for all change-feed subjects.
	SubjectPrefix = "market"
)

// ConversationSubject is the subject notified when a conversation's message
// sequence changes.
func ConversationSubject(conversationID string) string {
	return fmt.Sprintf("%s.conversations.%s", SubjectPrefix, conversationID)
}

// UserConversationsSubject is the subject notified when any of a user's
// conversations changes.
func UserConversationsSubject(userID string) string {
	return fmt.Sprintf("%s.users.%s.conversations", SubjectPrefix, userID)
}

// ConversationUpdated publishes change notifications for a touched
// conversation: one on the thread's own subject and one per participant's
// conversation-list subject. Publish failures are logged, not surfaced;
// subscribers resynchronize on the next event.
func (c *Client) ConversationUpdated(conv *model.Conversation) {
	event := model.ChangeEvent{
		ConversationID: conv.ID,
		UpdatedAt:      conv.UpdatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("failed to marshal change event", zap.Error(err))
		return
	}

	subjects := []string{ConversationSubject(conv.ID)}
	for _, userID := range conv.Participants() {
		subjects = append(subjects, UserConversationsSubject(userID))
	}

	for _, subject := range subjects {
		if err := c.conn.Publish(subject, data); err != nil {
			c.logger.Error("failed to publish change event",
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}
}

// SubscribeConversation invokes fn whenever the conversation's message
// sequence changes. The returned function tears the subscription down.
func (c *Client) SubscribeConversation(conversationID string, fn func()) (func(), error) {
	return c.subscribe(ConversationSubject(conversationID), fn)
}

// SubscribeUserConversations invokes fn whenever any of the user's
// conversations changes. The returned function tears the subscription down.
func (c *Client) SubscribeUserConversations(userID string, fn func()) (func(), error) {
	return c.subscribe(UserConversationsSubject(userID), fn)
}

func (c *Client) subscribe(subject string, fn func()) (func(), error) {
	sub, err := c.conn.Subscribe(subject, func(_ *nats.Msg) {
		fn()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Warn("failed to unsubscribe",
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}, nil
}
