package domain

import "time"

// MessageType differentiates chat entries from lifecycle markers.
type MessageType string

const (
	MessageTypeChat         MessageType = "message"
	MessageTypeStatusUpdate MessageType = "status-update"
)

// SystemSenderID and SystemSenderName identify entries written by the service itself.
const (
	SystemSenderID   = "system"
	SystemSenderName = "System"
)

// Message is an append-only entry in a complaint thread.
type Message struct {
	ID          string
	ComplaintID string
	SenderID    string
	SenderName  string
	SenderRole  Role
	Content     string
	Type        MessageType
	Timestamp   time.Time
}
