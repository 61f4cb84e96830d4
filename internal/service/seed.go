package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resolvenow/complaint-service/internal/domain"
	"github.com/resolvenow/complaint-service/internal/repository"
)

type demoAccount struct {
	email    string
	fullName string
	password string
	role     domain.Role
}

var demoAccounts = []demoAccount{
	{email: "admin@resolvenow.com", fullName: "Admin User", password: "admin123", role: domain.RoleAdmin},
	{email: "agent@resolvenow.com", fullName: "Support Agent", password: "agent123", role: domain.RoleAgent},
	{email: "user@resolvenow.com", fullName: "John Doe", password: "user123", role: domain.RoleUser},
}

// Seeder loads demo accounts and complaints into an empty store.
type Seeder struct {
	auth       *AuthService
	complaints repository.ComplaintRepository
	logger     *zap.Logger
}

func NewSeeder(authService *AuthService, complaints repository.ComplaintRepository, logger *zap.Logger) *Seeder {
	return &Seeder{auth: authService, complaints: complaints, logger: logger}
}

// Run is a no-op when the demo admin already exists.
func (s *Seeder) Run(ctx context.Context) error {
	accounts := make(map[domain.Role]*domain.User, len(demoAccounts))
	for _, acc := range demoAccounts {
		user, err := s.auth.CreateAccount(ctx, acc.fullName, acc.email, acc.password, acc.role)
		if errors.Is(err, domain.ErrEmailExists) {
			s.logger.Info("demo data already present; skipping seed")
			return nil
		}
		if err != nil {
			return err
		}
		accounts[acc.role] = user
	}

	customer := accounts[domain.RoleUser]
	agent := accounts[domain.RoleAgent]
	for _, c := range demoComplaints(customer, agent) {
		if err := s.complaints.Create(ctx, c); err != nil {
			return err
		}
	}
	s.logger.Info("demo data seeded", zap.Int("accounts", len(accounts)))
	return nil
}

func demoComplaints(customer, agent *domain.User) []*domain.Complaint {
	ts := func(v string) time.Time {
		t, _ := time.Parse(time.RFC3339, v)
		return t
	}
	assignedID := uuid.NewString()
	agentID := agent.ID

	return []*domain.Complaint{
		{
			ID:            assignedID,
			UserID:        customer.ID,
			Title:         "Product not delivered on time",
			Description:   "I ordered a laptop on December 15th and it was supposed to be delivered within 3 business days. It has been over a week now and I still haven't received my order.",
			Product:       "Gaming Laptop - Model XYZ",
			PurchaseDate:  "2024-12-15",
			Address:       "123 Main Street, New York, NY 10001",
			ContactInfo:   "+1 (555) 123-4567",
			Status:        domain.StatusAssigned,
			Priority:      domain.PriorityHigh,
			AssignedAgent: &agentID,
			Attachments:   []string{},
			Messages: []domain.Message{
				{
					ID:          uuid.NewString(),
					ComplaintID: assignedID,
					SenderID:    customer.ID,
					SenderName:  customer.FullName,
					SenderRole:  domain.RoleUser,
					Content:     "I really need this laptop for work. Can you please expedite the delivery?",
					Type:        domain.MessageTypeChat,
					Timestamp:   ts("2024-12-21T09:15:00Z"),
				},
				{
					ID:          uuid.NewString(),
					ComplaintID: assignedID,
					SenderID:    agent.ID,
					SenderName:  agent.FullName,
					SenderRole:  domain.RoleAgent,
					Content:     "I understand your concern. I've contacted our logistics team and your order is now being prioritized. You should receive it by tomorrow.",
					Type:        domain.MessageTypeChat,
					Timestamp:   ts("2024-12-21T14:20:00Z"),
				},
			},
			CreatedAt: ts("2024-12-20T10:30:00Z"),
			UpdatedAt: ts("2024-12-21T14:20:00Z"),
		},
		{
			ID:           uuid.NewString(),
			UserID:       customer.ID,
			Title:        "Defective smartphone screen",
			Description:  "The smartphone I purchased has a defective screen with dead pixels. This is affecting my daily usage and I would like a replacement.",
			Product:      "Smartphone Pro Max 256GB",
			PurchaseDate: "2024-12-10",
			Address:      "123 Main Street, New York, NY 10001",
			ContactInfo:  "+1 (555) 123-4567",
			Status:       domain.StatusPending,
			Priority:     domain.PriorityMedium,
			Attachments:  []string{},
			Messages:     []domain.Message{},
			CreatedAt:    ts("2024-12-22T08:45:00Z"),
			UpdatedAt:    ts("2024-12-22T08:45:00Z"),
		},
	}
}
