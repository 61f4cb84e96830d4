package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusAssigned   ComplaintStatus = "assigned"
	StatusInProgress ComplaintStatus = "in-progress"
	StatusResolved   ComplaintStatus = "resolved"
)

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "low"
	PriorityMedium ComplaintPriority = "medium"
	PriorityHigh   ComplaintPriority = "high"
)

// Complaint is the aggregate for a customer-submitted issue and its thread.
type Complaint struct {
	ID            string
	UserID        string
	Title         string
	Description   string
	Product       string
	PurchaseDate  string
	Address       string
	ContactInfo   string
	Status        ComplaintStatus
	Priority      ComplaintPriority
	AssignedAgent *string
	Attachments   []string
	Messages      []Message
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAssignedTo reports whether agentID is the complaint's assigned agent.
func (c *Complaint) IsAssignedTo(agentID string) bool {
	return c.AssignedAgent != nil && *c.AssignedAgent == agentID
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (c *Complaint) Clone() *Complaint {
	if c == nil {
		return nil
	}
	cp := *c
	if c.AssignedAgent != nil {
		agent := *c.AssignedAgent
		cp.AssignedAgent = &agent
	}
	cp.Attachments = append([]string(nil), c.Attachments...)
	cp.Messages = append([]Message(nil), c.Messages...)
	return &cp
}
