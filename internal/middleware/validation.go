package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("content cannot be empty")
	}
	if len(content) > 100000 {
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateConversationID validates a conversation ID. Thread ids are
// composite pair:pair:item strings, not UUIDs.
func ValidateConversationID(id string) error {
	if id == "" {
		return errors.New("conversation ID cannot be empty")
	}
	if len(id) > 256 {
		return errors.New("conversation ID exceeds maximum length")
	}
	if strings.Count(id, ":") < 2 {
		return errors.New("invalid conversation ID format")
	}
	return nil
}

// ValidateItemID validates an item ID.
func ValidateItemID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid item ID format")
	}
	return nil
}

// ValidateExchangeID validates an exchange ID.
func ValidateExchangeID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid exchange ID format")
	}
	return nil
}
