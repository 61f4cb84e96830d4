package events

import (
	"time"

	"github.com/resolvenow/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintMessageAdded  EventType = "complaint_message_added"
	EventComplaintDeleted       EventType = "complaint_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	ComplaintID string    `json:"complaint_id"`
	Actor       Actor     `json:"actor"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     any       `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Title    string                   `json:"title"`
	Product  string                   `json:"product"`
	Priority domain.ComplaintPriority `json:"priority"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	AgentID string `json:"agent_id"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
}

// ComplaintMessageAddedPayload payload.
type ComplaintMessageAddedPayload struct {
	MessageID   string             `json:"message_id"`
	MessageType domain.MessageType `json:"message_type"`
	SenderRole  domain.Role        `json:"sender_role"`
	BodyPreview string             `json:"body_preview"`
}

// ComplaintDeletedPayload payload.
type ComplaintDeletedPayload struct {
	OwnerID string `json:"owner_id"`
}
