package model

import (
	"time"
)

// ChangeEvent is the notification published on the change feed whenever a
// conversation is touched. Subscribers re-read the full result set; the
// event itself carries no message payload.
type ChangeEvent struct {
	ConversationID string    `json:"conversation_id"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HeartbeatEvent keeps SSE connections alive through idle proxies.
type HeartbeatEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// ErrorEvent reports a failure on an SSE stream.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatsResponse reports marketplace-wide counts for display.
type StatsResponse struct {
	Participants     int `json:"participants"`
	ObjectsAvailable int `json:"objects_available"`
}

// DescribeRequest is the input to the description generation proxy.
type DescribeRequest struct {
	Title     string `json:"title"`
	Theme     string `json:"theme"`
	Condition string `json:"condition"`
}

// DescribeResponse is the output of the description generation proxy.
type DescribeResponse struct {
	Success     bool   `json:"success"`
	Description string `json:"description"`
}
