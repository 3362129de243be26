package model

import (
	"time"
)

// Condition grades the physical state of a listed item.
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
)

// Valid reports whether c is one of the known condition grades.
func (c Condition) Valid() bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair:
		return true
	}
	return false
}

// ItemStatus is the lifecycle state of a listed item.
type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusExchanged ItemStatus = "exchanged"
)

// ThemeNone marks items listed outside any weekly theme.
const ThemeNone = "none"

// Item represents a listed object.
//
// OwnerName and OwnerAvatar are denormalized copies taken at listing time;
// they do not follow later edits to the owner's profile.
type Item struct {
	ID          string     `json:"id" storm:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Condition   Condition  `json:"condition"`
	ImageURL    string     `json:"image_url"`
	OwnerID     string     `json:"owner_id" storm:"index"`
	OwnerName   string     `json:"owner_name"`
	OwnerAvatar string     `json:"owner_avatar"`
	CreatedAt   time.Time  `json:"created_at"`
	ThemeID     string     `json:"theme_id" storm:"index"`
	Votes       int        `json:"votes"`
	Status      ItemStatus `json:"status"`
	ExchangeID  string     `json:"exchange_id,omitempty"`
}

// CreateItemRequest is the request to list a new item.
type CreateItemRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Condition   Condition `json:"condition"`
	ImageURL    string    `json:"image_url"`
	ThemeID     string    `json:"theme_id"`
}

// UpdateItemRequest is the request to edit an existing listing.
// Zero-valued fields are left unchanged.
type UpdateItemRequest struct {
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Condition   Condition `json:"condition,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	ThemeID     string    `json:"theme_id,omitempty"`
}

// ListItemsResponse is the response for listing items.
type ListItemsResponse struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}
