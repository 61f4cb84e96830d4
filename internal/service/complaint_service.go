package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resolvenow/complaint-service/internal/auth"
	"github.com/resolvenow/complaint-service/internal/domain"
	"github.com/resolvenow/complaint-service/internal/events"
	"github.com/resolvenow/complaint-service/internal/repository"
	apperrors "github.com/resolvenow/complaint-service/pkg/util/errorutil"
)

const assignedMessage = "Complaint has been assigned to an agent"

// ComplaintService coordinates complaint workflows.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	locks      *complaintLocks
	now        func() time.Time
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// SubmitInput describes complaint creation payload.
type SubmitInput struct {
	Title        string
	Description  string
	Product      string
	PurchaseDate string
	Address      string
	ContactInfo  string
	Attachments  []string
}

// ComplaintStats counts complaints per status within the caller's scope.
type ComplaintStats struct {
	Total      int
	ByStatus   map[domain.ComplaintStatus]int
	TotalUsers *int
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		locks:      newComplaintLocks(),
		now:        time.Now,
	}
}

// WithClock overrides the time source.
func (s *ComplaintService) WithClock(now func() time.Time) *ComplaintService {
	s.now = now
	return s
}

// Submit files a new pending complaint owned by the caller.
func (s *ComplaintService) Submit(ctx context.Context, owner *domain.User, input SubmitInput) (*domain.Complaint, error) {
	if !auth.HasRole(owner, domain.RoleUser) {
		return nil, apperrors.NewUnauthorized(apperrors.ReasonRoleRequired, "only users can submit complaints")
	}

	now := s.now().UTC()
	complaint := &domain.Complaint{
		ID:           uuid.NewString(),
		UserID:       owner.ID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Product:      strings.TrimSpace(input.Product),
		PurchaseDate: strings.TrimSpace(input.PurchaseDate),
		Address:      strings.TrimSpace(input.Address),
		ContactInfo:  strings.TrimSpace(input.ContactInfo),
		Status:       domain.StatusPending,
		Priority:     domain.DeterminePriority(input.Description),
		Attachments:  append([]string{}, input.Attachments...),
		Messages:     []domain.Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("complaint submitted",
		zap.String("complaint_id", complaint.ID),
		zap.String("actor_id", owner.ID),
		zap.String("priority", string(complaint.Priority)))
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       actorOf(owner),
		Payload: events.ComplaintCreatedPayload{
			Title:    complaint.Title,
			Product:  complaint.Product,
			Priority: complaint.Priority,
		},
	})
	return complaint, nil
}

// ListForUser returns the user's complaints, newest first.
func (s *ComplaintService) ListForUser(ctx context.Context, userID string) ([]domain.Complaint, error) {
	return s.list(ctx, repository.ComplaintFilter{UserID: &userID, SortBy: repository.SortByCreated})
}

// ListAll returns every complaint newest first, optionally narrowed to one status.
func (s *ComplaintService) ListAll(ctx context.Context, status *domain.ComplaintStatus) ([]domain.Complaint, error) {
	filter := repository.ComplaintFilter{SortBy: repository.SortByCreated}
	if status != nil {
		filter.Statuses = []domain.ComplaintStatus{*status}
	}
	return s.list(ctx, filter)
}

// ListForAgent returns the complaints assigned to the agent, most recently updated first.
func (s *ComplaintService) ListForAgent(ctx context.Context, agentID string) ([]domain.Complaint, error) {
	return s.list(ctx, repository.ComplaintFilter{AssignedAgent: &agentID, SortBy: repository.SortByUpdated})
}

// Get fetches a complaint without access checks.
func (s *ComplaintService) Get(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "complaint", id)
	}
	return complaint, nil
}

// GetForViewer fetches a complaint the viewer participates in.
func (s *ComplaintService) GetForViewer(ctx context.Context, viewer *domain.User, id string) (*domain.Complaint, error) {
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isParticipant(viewer, complaint) {
		return nil, apperrors.NewUnauthorized(apperrors.ReasonNotParticipant, "not a participant of this complaint")
	}
	return complaint, nil
}

// Assign hands a pending complaint to an agent. Only admins may assign.
func (s *ComplaintService) Assign(ctx context.Context, admin *domain.User, id, agentID string) (*domain.Complaint, error) {
	if !auth.HasRole(admin, domain.RoleAdmin) {
		return nil, apperrors.NewUnauthorized(apperrors.ReasonRoleRequired, "only admins can assign complaints")
	}

	unlock := s.locks.lock(id)
	defer unlock()

	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	agent, err := s.users.GetByID(ctx, agentID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}
	if agent == nil || agent.Role != domain.RoleAgent {
		return nil, apperrors.NewValidationError("agentId must reference an agent", map[string]any{"agentId": agentID})
	}
	if !domain.CanTransition(complaint.Status, domain.StatusAssigned) {
		return nil, apperrors.NewInvalidTransition(complaint.Status, domain.StatusAssigned)
	}

	oldStatus := complaint.Status
	now := s.touch(complaint)
	complaint.Status = domain.StatusAssigned
	complaint.AssignedAgent = &agent.ID
	msg := domain.Message{
		ID:         uuid.NewString(),
		SenderID:   domain.SystemSenderID,
		SenderName: domain.SystemSenderName,
		SenderRole: domain.RoleAdmin,
		Content:    assignedMessage,
		Type:       domain.MessageTypeStatusUpdate,
		Timestamp:  now,
	}
	if err := s.complaints.SaveTransition(ctx, complaint, oldStatus, &msg); err != nil {
		return nil, mapTransitionError(err, id, oldStatus, domain.StatusAssigned)
	}
	complaint.Messages = append(complaint.Messages, msg)

	s.logger.Info("complaint assigned",
		zap.String("complaint_id", complaint.ID),
		zap.String("status", string(complaint.Status)),
		zap.String("actor_id", admin.ID),
		zap.String("agent_id", agent.ID))
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		Actor:       actorOf(admin),
		Payload:     events.ComplaintAssignedPayload{AgentID: agent.ID},
	})
	s.publishStatusChanged(ctx, admin, complaint.ID, oldStatus, complaint.Status)
	return complaint, nil
}

// UpdateStatus advances a complaint to its next status. Only the assigned agent may
// do so, and only one stage at a time.
func (s *ComplaintService) UpdateStatus(ctx context.Context, agent *domain.User, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	if agent == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}

	unlock := s.locks.lock(id)
	defer unlock()

	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !complaint.IsAssignedTo(agent.ID) {
		return nil, apperrors.NewUnauthorized(apperrors.ReasonWrongAgent, "complaint is assigned to another agent")
	}
	if !domain.CanTransition(complaint.Status, status) {
		return nil, apperrors.NewInvalidTransition(complaint.Status, status)
	}

	oldStatus := complaint.Status
	now := s.touch(complaint)
	complaint.Status = status
	msg := domain.Message{
		ID:         uuid.NewString(),
		SenderID:   agent.ID,
		SenderName: agent.FullName,
		SenderRole: agent.Role,
		Content:    "Status updated to: " + status.Label(),
		Type:       domain.MessageTypeStatusUpdate,
		Timestamp:  now,
	}
	if err := s.complaints.SaveTransition(ctx, complaint, oldStatus, &msg); err != nil {
		return nil, mapTransitionError(err, id, oldStatus, status)
	}
	complaint.Messages = append(complaint.Messages, msg)

	s.logger.Info("complaint status changed",
		zap.String("complaint_id", complaint.ID),
		zap.String("status", string(status)),
		zap.String("actor_id", agent.ID))
	s.publishStatusChanged(ctx, agent, complaint.ID, oldStatus, status)
	return complaint, nil
}

// AddMessage appends a chat entry to the complaint thread.
func (s *ComplaintService) AddMessage(ctx context.Context, sender *domain.User, id, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("message content is required", map[string]any{"content": "required"})
	}

	unlock := s.locks.lock(id)
	defer unlock()

	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isParticipant(sender, complaint) {
		return nil, apperrors.NewUnauthorized(apperrors.ReasonNotParticipant, "not a participant of this complaint")
	}
	if complaint.AssignedAgent == nil {
		return nil, apperrors.NewUnauthorized(apperrors.ReasonNotAssigned, "chat opens once an agent is assigned")
	}

	now := s.touch(complaint)
	msg := &domain.Message{
		ID:         uuid.NewString(),
		SenderID:   sender.ID,
		SenderName: sender.FullName,
		SenderRole: sender.Role,
		Content:    content,
		Type:       domain.MessageTypeChat,
		Timestamp:  now,
	}
	if err := s.complaints.AppendMessage(ctx, complaint.ID, msg, now); err != nil {
		return nil, mapRepoError(err, "complaint", id)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintMessageAdded,
		ComplaintID: complaint.ID,
		Actor:       actorOf(sender),
		Payload: events.ComplaintMessageAddedPayload{
			MessageID:   msg.ID,
			MessageType: msg.Type,
			SenderRole:  msg.SenderRole,
			BodyPreview: stringPreview(msg.Content, 120),
		},
	})
	return msg, nil
}

// ListMessages returns the thread of a complaint the viewer participates in.
func (s *ComplaintService) ListMessages(ctx context.Context, viewer *domain.User, id string) ([]domain.Message, error) {
	complaint, err := s.GetForViewer(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	return complaint.Messages, nil
}

// Delete removes a complaint. Only the owner may delete, and only while pending.
func (s *ComplaintService) Delete(ctx context.Context, owner *domain.User, id string) error {
	if owner == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}

	unlock := s.locks.lock(id)
	defer unlock()

	complaint, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if complaint.UserID != owner.ID {
		return apperrors.NewUnauthorized(apperrors.ReasonNotOwner, "only the submitter can delete a complaint")
	}
	if complaint.Status != domain.StatusPending {
		return apperrors.NewUnauthorized(apperrors.ReasonNotPending, "only pending complaints can be deleted")
	}
	if err := s.complaints.DeletePending(ctx, id); err != nil {
		return mapRepoError(err, "complaint", id)
	}

	s.logger.Info("complaint deleted", zap.String("complaint_id", id), zap.String("actor_id", owner.ID))
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintDeleted,
		ComplaintID: id,
		Actor:       actorOf(owner),
		Payload:     events.ComplaintDeletedPayload{OwnerID: complaint.UserID},
	})
	return nil
}

// Stats counts complaints per status. Users see their own complaints, agents their
// assignments and admins everything plus the account total.
func (s *ComplaintService) Stats(ctx context.Context, viewer *domain.User) (*ComplaintStats, error) {
	if viewer == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}

	var (
		list []domain.Complaint
		err  error
	)
	switch viewer.Role {
	case domain.RoleAdmin:
		list, err = s.ListAll(ctx, nil)
	case domain.RoleAgent:
		list, err = s.ListForAgent(ctx, viewer.ID)
	default:
		list, err = s.ListForUser(ctx, viewer.ID)
	}
	if err != nil {
		return nil, err
	}

	stats := &ComplaintStats{Total: len(list), ByStatus: make(map[domain.ComplaintStatus]int)}
	for _, status := range domain.AllStatuses() {
		stats.ByStatus[status] = 0
	}
	for _, c := range list {
		stats.ByStatus[c.Status]++
	}

	if viewer.Role == domain.RoleAdmin {
		users, err := s.users.List(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		total := len(users)
		stats.TotalUsers = &total
	}
	return stats, nil
}

func (s *ComplaintService) list(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	list, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

// touch moves updatedAt forward and returns the new value. It never goes backwards.
func (s *ComplaintService) touch(complaint *domain.Complaint) time.Time {
	now := s.now().UTC()
	if now.Before(complaint.UpdatedAt) {
		now = complaint.UpdatedAt
	}
	complaint.UpdatedAt = now
	return now
}

func (s *ComplaintService) publishStatusChanged(ctx context.Context, actor *domain.User, id string, from, to domain.ComplaintStatus) {
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: id,
		Actor:       actorOf(actor),
		Payload:     events.ComplaintStatusChangedPayload{OldStatus: from, NewStatus: to},
	})
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("complaint_id", event.ComplaintID),
			zap.Error(err))
	}
}

func isParticipant(user *domain.User, complaint *domain.Complaint) bool {
	if user == nil {
		return false
	}
	switch user.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAgent:
		return complaint.IsAssignedTo(user.ID)
	default:
		return complaint.UserID == user.ID
	}
}

func actorOf(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: user.ID, Role: user.Role}
}

func mapRepoError(err error, resource, id string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.NewInternalError(err)
}

// mapTransitionError reports a write that lost a race with another transition as
// INVALID_TRANSITION from the status this caller observed.
func mapTransitionError(err error, id string, from, to domain.ComplaintStatus) error {
	if errors.Is(err, domain.ErrInvalidTransition) {
		return apperrors.NewInvalidTransition(from, to)
	}
	return mapRepoError(err, "complaint", id)
}

func stringPreview(body string, limit int) string {
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit]) + "..."
}
