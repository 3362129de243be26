// Package model defines data structures for the exchange marketplace.
package model

import (
	"fmt"
	"net/url"
	"time"
)

// User represents a marketplace participant.
//
// ExchangedItems and CO2SavedKg are running counters incremented when an
// exchange the user took part in is accepted.
type User struct {
	ID             string    `json:"id" storm:"id"`
	DisplayName    string    `json:"display_name"`
	Email          string    `json:"email" storm:"unique"`
	AvatarURL      string    `json:"avatar_url"`
	JoinedAt       time.Time `json:"joined_at"`
	ExchangedItems int       `json:"exchanged_items"`
	CO2SavedKg     int       `json:"co2_saved_kg"`
}

// PlaceholderAvatarURL builds a generated avatar for identities that did not
// supply a picture of their own.
func PlaceholderAvatarURL(displayName string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=10b981&color=fff",
		url.QueryEscape(displayName))
}

// EnsureUserRequest is the request to materialize the caller's user record.
// All fields are optional; missing values fall back to the JWT claims.
type EnsureUserRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}
