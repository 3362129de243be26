package model

import (
	"time"
)

// ExchangeStatus is the state of an exchange proposal. Pending is the only
// non-terminal state.
type ExchangeStatus string

const (
	ExchangeStatusPending  ExchangeStatus = "pending"
	ExchangeStatusAccepted ExchangeStatus = "accepted"
	ExchangeStatusRefused  ExchangeStatus = "refused"
)

// ProposedItem is a value snapshot of the object offered in an exchange.
// It is copied at proposal time so later edits never rewrite history.
type ProposedItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Condition   Condition `json:"condition"`
	ImageURL    string    `json:"image_url"`
}

// Exchange is a structured item-for-item swap proposal scoped to a
// conversation.
type Exchange struct {
	ID              string         `json:"id" storm:"id"`
	ProposerID      string         `json:"proposer_id"`
	RecipientID     string         `json:"recipient_id"`
	ProposedItem    ProposedItem   `json:"proposed_item"`
	RequestedItemID string         `json:"requested_item_id"`
	ConversationID  string         `json:"conversation_id" storm:"index"`
	Status          ExchangeStatus `json:"status"`
	RefuseReason    string         `json:"refuse_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	AcceptedAt      *time.Time     `json:"accepted_at,omitempty"`
}

// ProposeExchangeRequest is the request to open an exchange proposal.
type ProposeExchangeRequest struct {
	ConversationID  string       `json:"conversation_id"`
	RecipientID     string       `json:"recipient_id"`
	ProposedItem    ProposedItem `json:"proposed_item"`
	RequestedItemID string       `json:"requested_item_id"`
}

// ProposeExchangeResponse returns the identifier of the created proposal.
type ProposeExchangeResponse struct {
	ExchangeID string `json:"exchange_id"`
}

// RefuseExchangeRequest carries the optional refusal reason.
type RefuseExchangeRequest struct {
	Reason string `json:"reason"`
}
