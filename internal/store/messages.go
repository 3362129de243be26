package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"

	"github.com/swapcycle/exchange-platform/internal/model"
)

// SaveMessage appends a message document.
func (c *strm) SaveMessage(msg *model.Message) error {
	if err := c.db.Save(msg); err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// FindMessagesByConversation returns a thread's messages in creation order.
func (c *strm) FindMessagesByConversation(conversationID string) ([]*model.Message, error) {
	msgs := make([]*model.Message, 0)
	err := c.db.Select(q.Eq("ConversationID", conversationID)).Find(&msgs)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, fmt.Errorf("find messages: %w", err)
	}

	sort.Slice(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

// MarkMessagesRead flips the read flag on every message in the conversation
// not authored by readerID, in one write transaction.
func (c *strm) MarkMessagesRead(conversationID, readerID string) (int, error) {
	tx, err := c.db.Begin(true)
	if err != nil {
		return 0, fmt.Errorf("begin read-marking transaction: %w", err)
	}
	defer tx.Rollback()

	msgs := make([]*model.Message, 0)
	err = tx.Select(q.Eq("ConversationID", conversationID)).Find(&msgs)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return 0, fmt.Errorf("find messages: %w", err)
	}

	flipped := 0
	for _, msg := range msgs {
		if msg.SenderID == readerID || msg.Read {
			continue
		}
		msg.Read = true
		if err := tx.Save(msg); err != nil {
			return 0, fmt.Errorf("save message: %w", err)
		}
		flipped++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit read-marking: %w", err)
	}
	return flipped, nil
}

// CountUnreadMessages counts the messages in a conversation that were sent
// to readerID and not yet read.
func (c *strm) CountUnreadMessages(conversationID, readerID string) (int, error) {
	n, err := c.db.Select(
		q.Eq("ConversationID", conversationID),
		q.Eq("Read", false),
		q.Not(q.Eq("SenderID", readerID)),
	).Count(&model.Message{})
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}
