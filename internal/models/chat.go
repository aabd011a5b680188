package models

import (
	"time"
)

type ChatMessage struct {
	ID            string    `db:"id" json:"id"`
	RideRequestID string    `db:"ride_request_id" json:"ride_request_id"`
	SenderID      string    `db:"sender_id" json:"sender_id"`
	Message       string    `db:"message" json:"message"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ChatMessageDetail is a message joined with the sender's display name.
type ChatMessageDetail struct {
	ChatMessage
	SenderName string `db:"sender_name" json:"sender_name"`
}

type PostMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=1000"`
}

type ChatResponse struct {
	Messages    []*ChatMessageDetail `json:"messages"`
	ChatEnabled bool                 `json:"chat_enabled"`
}

// ChatEnabled reports whether new messages may be posted on a request. Chat
// opens once a match exists and closes when the trip finishes; history stays
// readable regardless.
func ChatEnabled(requestStatus string) bool {
	return requestStatus == RequestStatusAccepted || requestStatus == RequestStatusOngoing
}
