package model

import (
	"time"
)

// MessageType distinguishes plain text from structured exchange notices.
type MessageType string

const (
	MessageTypeText             MessageType = "text"
	MessageTypeExchangeProposal MessageType = "exchange_proposal"
	MessageTypeExchangeAccepted MessageType = "exchange_accepted"
	MessageTypeExchangeRefused  MessageType = "exchange_refused"
)

// Message is an immutable entry in a conversation. Only the Read flag is
// mutated after creation.
type Message struct {
	ID             string      `json:"id" storm:"id"`
	ConversationID string      `json:"conversation_id" storm:"index"`
	SenderID       string      `json:"sender_id"`
	Text           string      `json:"text"`
	Type           MessageType `json:"type"`
	ExchangeID     string      `json:"exchange_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	Read           bool        `json:"read"`
}

// SendMessageRequest is the request to append a text message.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// ListMessagesResponse is the response for listing a thread's messages.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}
