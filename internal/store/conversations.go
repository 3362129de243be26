package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"

	"github.com/swapcycle/exchange-platform/internal/model"
)

// SaveConversation inserts or updates a conversation document.
func (c *strm) SaveConversation(conv *model.Conversation) error {
	if err := c.db.Save(conv); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

// FindConversation returns the conversation for the given id.
func (c *strm) FindConversation(id string) (*model.Conversation, error) {
	var conv model.Conversation
	if err := c.db.One("ID", id, &conv); err != nil {
		return nil, fmt.Errorf("find conversation: %w", notFound(err))
	}
	return &conv, nil
}

// FindConversationsByParticipant returns the user's threads, most recently
// updated first.
func (c *strm) FindConversationsByParticipant(userID string) ([]*model.Conversation, error) {
	convs := make([]*model.Conversation, 0)
	err := c.db.Select(q.Or(
		q.Eq("ParticipantA", userID),
		q.Eq("ParticipantB", userID),
	)).Find(&convs)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, fmt.Errorf("find conversations: %w", err)
	}

	sort.Slice(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
	return convs, nil
}
