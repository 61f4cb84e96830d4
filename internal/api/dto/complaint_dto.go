package dto

import (
	"time"

	"github.com/resolvenow/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required,min=20"`
	Product      string   `json:"product" validate:"required"`
	PurchaseDate string   `json:"purchaseDate" validate:"required,datetime=2006-01-02"`
	Address      string   `json:"address" validate:"required"`
	ContactInfo  string   `json:"contactInfo" validate:"required"`
	Attachments  []string `json:"attachments"`
}

// AssignRequest payload.
type AssignRequest struct {
	AgentID string `json:"agentId" validate:"required"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending assigned in-progress resolved"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// ComplaintResponse is the full complaint including its thread.
type ComplaintResponse struct {
	ID            string                   `json:"id"`
	UserID        string                   `json:"userId"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	Product       string                   `json:"product"`
	PurchaseDate  string                   `json:"purchaseDate"`
	Address       string                   `json:"address"`
	ContactInfo   string                   `json:"contactInfo"`
	Status        domain.ComplaintStatus   `json:"status"`
	Priority      domain.ComplaintPriority `json:"priority"`
	AssignedAgent *string                  `json:"assignedAgent,omitempty"`
	Attachments   []string                 `json:"attachments"`
	Messages      []MessageResponse        `json:"messages"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// MessageResponse represents a thread entry.
type MessageResponse struct {
	ID         string             `json:"id"`
	SenderID   string             `json:"senderId"`
	SenderName string             `json:"senderName"`
	SenderRole domain.Role        `json:"senderRole"`
	Content    string             `json:"content"`
	Type       domain.MessageType `json:"type"`
	Timestamp  time.Time          `json:"timestamp"`
}

// StatsResponse carries per-status counts.
type StatsResponse struct {
	Total      int                            `json:"total"`
	ByStatus   map[domain.ComplaintStatus]int `json:"byStatus"`
	TotalUsers *int                           `json:"totalUsers,omitempty"`
}

func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	attachments := c.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return ComplaintResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		Title:         c.Title,
		Description:   c.Description,
		Product:       c.Product,
		PurchaseDate:  c.PurchaseDate,
		Address:       c.Address,
		ContactInfo:   c.ContactInfo,
		Status:        c.Status,
		Priority:      c.Priority,
		AssignedAgent: c.AssignedAgent,
		Attachments:   attachments,
		Messages:      NewMessageList(c.Messages),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func NewComplaintList(list []domain.Complaint) []ComplaintResponse {
	items := make([]ComplaintResponse, 0, len(list))
	for i := range list {
		items = append(items, NewComplaintResponse(&list[i]))
	}
	return items
}

func NewMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		SenderRole: m.SenderRole,
		Content:    m.Content,
		Type:       m.Type,
		Timestamp:  m.Timestamp,
	}
}

func NewMessageList(messages []domain.Message) []MessageResponse {
	items := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, NewMessageResponse(&messages[i]))
	}
	return items
}
