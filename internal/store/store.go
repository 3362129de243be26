// Package store persists the marketplace collections in an embedded
// document database.
package store

import (
	"errors"
	"time"

	"github.com/swapcycle/exchange-platform/internal/model"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotPending is returned when a terminal transition is attempted on
	// an exchange that already left the pending state.
	ErrNotPending = errors.New("exchange is not pending")
)

// Client is the document-store boundary. All multi-document mutations that
// must not partially apply (exchange settlement, read-marking, vote
// increments) run inside a single write transaction.
type Client interface {
	Close() error
	Ping() error

	UserStore
	ItemStore
	ConversationStore
	MessageStore
	ExchangeStore
}

// UserStore holds the users collection.
type UserStore interface {
	SaveUser(user *model.User) error
	FindUser(id string) (*model.User, error)
	CountUsers() (int, error)
}

// ItemStore holds the items collection.
type ItemStore interface {
	SaveItem(item *model.Item) error
	FindItem(id string) (*model.Item, error)
	// FindItems returns every item, newest first.
	FindItems() ([]*model.Item, error)
	// FindItemsByTheme returns the items listed under a theme, newest first.
	FindItemsByTheme(themeID string) ([]*model.Item, error)
	DeleteItem(id string) error
	// IncrementItemVotes atomically adds one vote and returns the new count.
	IncrementItemVotes(id string) (int, error)
	CountItems() (int, error)
	CountItemsByTheme(themeID string) (int, error)
}

// ConversationStore holds the conversations collection.
type ConversationStore interface {
	SaveConversation(conv *model.Conversation) error
	FindConversation(id string) (*model.Conversation, error)
	// FindConversationsByParticipant returns the user's threads, most
	// recently updated first.
	FindConversationsByParticipant(userID string) ([]*model.Conversation, error)
}

// MessageStore holds the per-conversation message sequences.
type MessageStore interface {
	SaveMessage(msg *model.Message) error
	// FindMessagesByConversation returns a thread's messages in creation
	// order.
	FindMessagesByConversation(conversationID string) ([]*model.Message, error)
	// MarkMessagesRead flips the read flag on every message in the
	// conversation not authored by readerID. Returns how many were flipped.
	MarkMessagesRead(conversationID, readerID string) (int, error)
	CountUnreadMessages(conversationID, readerID string) (int, error)
}

// ExchangeStore holds the exchanges collection.
type ExchangeStore interface {
	SaveExchange(ex *model.Exchange) error
	FindExchange(id string) (*model.Exchange, error)
	// AcceptExchange settles a pending exchange in one transaction: the
	// exchange turns accepted, the requested item turns exchanged and is
	// linked back, and both participants' counters advance.
	AcceptExchange(id string, acceptedAt time.Time, co2Kg int) (*model.Exchange, error)
	// RefuseExchange settles a pending exchange as refused with the given
	// reason. The requested item is left untouched.
	RefuseExchange(id, reason string) (*model.Exchange, error)
}
