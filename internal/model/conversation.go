package model

import (
	"strings"
	"time"
)

// Conversation is a message thread between exactly two users about one item.
//
// The ID is a deterministic composite of the sorted participant pair and the
// item, so two users contacting each other about the same item always land in
// the same thread regardless of who initiated.
type Conversation struct {
	ID            string    `json:"id" storm:"id"`
	ParticipantA  string    `json:"participant_a" storm:"index"`
	ParticipantB  string    `json:"participant_b" storm:"index"`
	ItemID        string    `json:"item_id" storm:"index"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ConversationID derives the deterministic thread identifier for a
// participant pair and an item. Participant order does not matter.
func ConversationID(userA, userB, itemID string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return strings.Join([]string{userA, userB, itemID}, ":")
}

// Participants returns both participant ids.
func (c *Conversation) Participants() []string {
	return []string{c.ParticipantA, c.ParticipantB}
}

// HasParticipant reports whether userID takes part in the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// OpenConversationRequest is the request to get or create a conversation.
type OpenConversationRequest struct {
	OtherUserID string `json:"other_user_id"`
	ItemID      string `json:"item_id"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}

// UnreadCountResponse reports unread messages across all conversations.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
