package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/resolvenow/complaint-service/internal/domain"
	"github.com/resolvenow/complaint-service/internal/repository"
)

// ComplaintStore holds complaints with their threads. Reads return deep copies.
type ComplaintStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*domain.Complaint
}

var _ repository.ComplaintRepository = (*ComplaintStore)(nil)

func NewComplaintStore() *ComplaintStore {
	return &ComplaintStore{byID: make(map[string]*domain.Complaint)}
}

func (s *ComplaintStore) Create(_ context.Context, complaint *domain.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := complaint.Clone()
	if stored.Attachments == nil {
		stored.Attachments = []string{}
	}
	if stored.Messages == nil {
		stored.Messages = []domain.Message{}
	}
	s.byID[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	return nil
}

func (s *ComplaintStore) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *ComplaintStore) List(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	s.mu.RLock()
	result := []domain.Complaint{}
	for _, id := range s.order {
		c := s.byID[id]
		if matches(c, filter) {
			result = append(result, *c.Clone())
		}
	}
	s.mu.RUnlock()

	key := func(c domain.Complaint) time.Time { return c.CreatedAt }
	if filter.SortBy == repository.SortByUpdated {
		key = func(c domain.Complaint) time.Time { return c.UpdatedAt }
	}
	sort.SliceStable(result, func(i, j int) bool {
		return key(result[i]).After(key(result[j]))
	})
	return result, nil
}

func (s *ComplaintStore) SaveTransition(_ context.Context, complaint *domain.Complaint, from domain.ComplaintStatus, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[complaint.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if c.Status != from {
		return domain.ErrInvalidTransition
	}
	c.Status = complaint.Status
	c.AssignedAgent = nil
	if complaint.AssignedAgent != nil {
		agent := *complaint.AssignedAgent
		c.AssignedAgent = &agent
	}
	c.UpdatedAt = complaint.UpdatedAt
	msg.ComplaintID = c.ID
	c.Messages = append(c.Messages, *msg)
	return nil
}

func (s *ComplaintStore) AppendMessage(_ context.Context, complaintID string, msg *domain.Message, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[complaintID]
	if !ok {
		return domain.ErrNotFound
	}
	msg.ComplaintID = complaintID
	c.Messages = append(c.Messages, *msg)
	if updatedAt.After(c.UpdatedAt) {
		c.UpdatedAt = updatedAt
	}
	return nil
}

func (s *ComplaintStore) DeletePending(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok || c.Status != domain.StatusPending {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

func matches(c *domain.Complaint, filter repository.ComplaintFilter) bool {
	if filter.UserID != nil && c.UserID != *filter.UserID {
		return false
	}
	if filter.AssignedAgent != nil && !c.IsAssignedTo(*filter.AssignedAgent) {
		return false
	}
	if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, c.Status) {
		return false
	}
	return true
}
