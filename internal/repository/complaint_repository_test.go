package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/resolvenow/complaint-service/internal/domain"
)

var (
	complaintCols = []string{"id", "user_id", "title", "description", "product", "purchase_date", "address",
		"contact_info", "status", "priority", "assigned_agent", "attachments", "created_at", "updated_at"}
	messageCols = []string{"id", "complaint_id", "sender_id", "sender_name", "sender_role", "content", "type", "created_at"}
	baseTime    = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
)

func addComplaintRow(rows *pgxmock.Rows, id string, status domain.ComplaintStatus, agent *string) *pgxmock.Rows {
	var assigned any
	if agent != nil {
		assigned = agent
	}
	return rows.AddRow(id, "u1", "Broken laptop screen", "The screen flickers constantly after a week of use.",
		"Laptop", "2024-01-10", "1 Main St", "555-0100", status, domain.PriorityMedium, assigned,
		[]string{}, baseTime, baseTime)
}

func sampleComplaint() *domain.Complaint {
	return &domain.Complaint{
		ID:           "c1",
		UserID:       "u1",
		Title:        "Broken laptop screen",
		Description:  "The screen flickers constantly after a week of use.",
		Product:      "Laptop",
		PurchaseDate: "2024-01-10",
		Address:      "1 Main St",
		ContactInfo:  "555-0100",
		Status:       domain.StatusPending,
		Priority:     domain.PriorityMedium,
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
}

func TestComplaintRepository_Create_NilAttachmentsStoredEmpty(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	c := sampleComplaint()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO complaints`)).
		WithArgs(c.ID, c.UserID, c.Title, c.Description, c.Product, c.PurchaseDate, c.Address, c.ContactInfo,
			domain.StatusPending, domain.PriorityMedium, (*string)(nil), []string{}, baseTime, baseTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Create(context.Background(), c))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_GetByID_LoadsThread(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	agent := "a1"
	mock.ExpectQuery(regexp.QuoteMeta(`FROM complaints WHERE id=$1`)).
		WithArgs("c1").
		WillReturnRows(addComplaintRow(pgxmock.NewRows(complaintCols), "c1", domain.StatusAssigned, &agent))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM complaint_messages WHERE complaint_id = ANY($1) ORDER BY seq ASC`)).
		WithArgs([]string{"c1"}).
		WillReturnRows(pgxmock.NewRows(messageCols).
			AddRow("m1", "c1", domain.SystemSenderID, domain.SystemSenderName, domain.RoleAdmin,
				"Complaint has been assigned to an agent", domain.MessageTypeStatusUpdate, baseTime).
			AddRow("m2", "c1", "a1", "Support Agent", domain.RoleAgent,
				"Looking into it", domain.MessageTypeChat, baseTime.Add(time.Minute)))

	got, err := r.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusAssigned, got.Status)
	require.True(t, got.IsAssignedTo("a1"))
	require.Len(t, got.Messages, 2)
	require.Equal(t, "m1", got.Messages[0].ID)
	require.Equal(t, domain.MessageTypeChat, got.Messages[1].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_GetByID_NotFound(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM complaints WHERE id=$1`)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := r.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComplaintRepository_List_StatusFilterAndOrder(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	rows := pgxmock.NewRows(complaintCols)
	addComplaintRow(rows, "c2", domain.StatusPending, nil)
	addComplaintRow(rows, "c1", domain.StatusPending, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE 1=1 AND status IN ($1) ORDER BY created_at DESC, seq ASC`)).
		WithArgs(domain.StatusPending).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM complaint_messages`)).
		WithArgs([]string{"c2", "c1"}).
		WillReturnRows(pgxmock.NewRows(messageCols))

	list, err := r.List(context.Background(), ComplaintFilter{Statuses: []domain.ComplaintStatus{domain.StatusPending}})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "c2", list[0].ID)
	require.Nil(t, list[0].AssignedAgent)
	require.Empty(t, list[0].Messages)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_List_AgentSortedByUpdated(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	agent := "a1"
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE 1=1 AND assigned_agent=$1 ORDER BY updated_at DESC, seq ASC`)).
		WithArgs("a1").
		WillReturnRows(pgxmock.NewRows(complaintCols))

	list, err := r.List(context.Background(), ComplaintFilter{AssignedAgent: &agent, SortBy: SortByUpdated})
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_SaveTransition_Commits(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	agent := "a1"
	c := sampleComplaint()
	c.Status = domain.StatusAssigned
	c.AssignedAgent = &agent
	msg := &domain.Message{ID: "m1", SenderID: domain.SystemSenderID, SenderName: domain.SystemSenderName,
		SenderRole: domain.RoleAdmin, Content: "Complaint has been assigned to an agent",
		Type: domain.MessageTypeStatusUpdate, Timestamp: baseTime}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE complaints SET status=$1, assigned_agent=$2, updated_at=$3`)).
		WithArgs(domain.StatusAssigned, &agent, baseTime, "c1", domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO complaint_messages`)).
		WithArgs("m1", "c1", domain.SystemSenderID, domain.SystemSenderName, domain.RoleAdmin,
			"Complaint has been assigned to an agent", domain.MessageTypeStatusUpdate, baseTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, r.SaveTransition(context.Background(), c, domain.StatusPending, msg))
	require.Equal(t, "c1", msg.ComplaintID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_SaveTransition_MissingRollsBack(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	c := sampleComplaint()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE complaints SET status=$1`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "c1", domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM complaints WHERE id=$1)`)).
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err := r.SaveTransition(context.Background(), c, domain.StatusPending, &domain.Message{ID: "m1"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_SaveTransition_StaleStatusRollsBack(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	agent := "a1"
	c := sampleComplaint()
	c.Status = domain.StatusInProgress
	c.AssignedAgent = &agent

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE complaints SET status=$1, assigned_agent=$2, updated_at=$3`)).
		WithArgs(domain.StatusInProgress, &agent, baseTime, "c1", domain.StatusAssigned).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM complaints WHERE id=$1)`)).
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	msg := &domain.Message{ID: "m2", Type: domain.MessageTypeStatusUpdate, Timestamp: baseTime}
	err := r.SaveTransition(context.Background(), c, domain.StatusAssigned, msg)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_AppendMessage_InsertFailureRollsBack(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	boom := errors.New("insert failed")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE complaints SET updated_at=GREATEST(updated_at, $1) WHERE id=$2`)).
		WithArgs(baseTime, "c1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO complaint_messages`)).
		WithArgs(pgxmock.AnyArg(), "c1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(boom)
	mock.ExpectRollback()

	msg := &domain.Message{ID: "m9", SenderID: "u1", SenderName: "John Doe", SenderRole: domain.RoleUser,
		Content: "Any update?", Type: domain.MessageTypeChat, Timestamp: baseTime}
	err := r.AppendMessage(context.Background(), "c1", msg, baseTime)
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_AppendMessage_NeverRewindsUpdatedAt(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	earlier := baseTime.Add(-time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE complaints SET updated_at=GREATEST(updated_at, $1) WHERE id=$2`)).
		WithArgs(earlier, "c1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO complaint_messages`)).
		WithArgs("m7", "c1", "u1", "John Doe", domain.RoleUser, "late reply", domain.MessageTypeChat, earlier).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	msg := &domain.Message{ID: "m7", SenderID: "u1", SenderName: "John Doe", SenderRole: domain.RoleUser,
		Content: "late reply", Type: domain.MessageTypeChat, Timestamp: earlier}
	require.NoError(t, r.AppendMessage(context.Background(), "c1", msg, earlier))
	require.Equal(t, "c1", msg.ComplaintID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_DeletePending(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM complaints WHERE id=$1 AND status=$2`)).
		WithArgs("c1", domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM complaints WHERE id=$1 AND status=$2`)).
		WithArgs("c1", domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, r.DeletePending(context.Background(), "c1"))
	require.ErrorIs(t, r.DeletePending(context.Background(), "c1"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_Create_WithThread(t *testing.T) {
	mock := newPool(t)
	defer mock.Close()
	r := NewComplaintRepository(mock)

	c := sampleComplaint()
	c.Messages = []domain.Message{
		{ID: "m1", SenderID: "u1", SenderName: "John Doe", SenderRole: domain.RoleUser,
			Content: "hello", Type: domain.MessageTypeChat, Timestamp: baseTime},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO complaints`)).
		WithArgs(c.ID, c.UserID, c.Title, c.Description, c.Product, c.PurchaseDate, c.Address, c.ContactInfo,
			domain.StatusPending, domain.PriorityMedium, (*string)(nil), []string{}, baseTime, baseTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO complaint_messages`)).
		WithArgs("m1", "c1", "u1", "John Doe", domain.RoleUser, "hello", domain.MessageTypeChat, baseTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, r.Create(context.Background(), c))
	require.NoError(t, mock.ExpectationsWereMet())
}
