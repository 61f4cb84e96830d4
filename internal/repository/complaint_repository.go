package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/resolvenow/complaint-service/internal/domain"
	"github.com/resolvenow/complaint-service/internal/persistence"
)

// ComplaintSort selects the ordering of list results. Both orders are most-recent-first
// with ties kept in insertion order.
type ComplaintSort string

const (
	SortByCreated ComplaintSort = "created"
	SortByUpdated ComplaintSort = "updated"
)

// ComplaintFilter captures listing parameters.
type ComplaintFilter struct {
	UserID        *string
	AssignedAgent *string
	Statuses      []domain.ComplaintStatus
	SortBy        ComplaintSort
}

// ComplaintRepository encapsulates complaint and thread persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	// SaveTransition persists status, assignment and updated_at together with the
	// status-update message describing the change. The write applies only while the
	// stored status still equals from; otherwise it returns domain.ErrInvalidTransition.
	SaveTransition(ctx context.Context, complaint *domain.Complaint, from domain.ComplaintStatus, msg *domain.Message) error
	// AppendMessage adds msg to the thread. updated_at only moves forward.
	AppendMessage(ctx context.Context, complaintID string, msg *domain.Message, updatedAt time.Time) error
	// DeletePending removes the complaint only while it is still pending.
	DeletePending(ctx context.Context, id string) error
}

type complaintRepository struct {
	pool persistence.PgxPool
}

// NewComplaintRepository instantiates the Postgres repository.
func NewComplaintRepository(pool persistence.PgxPool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, user_id, title, description, product, purchase_date, address, contact_info,
               status, priority, assigned_agent, attachments, created_at, updated_at`

const messageColumns = `id, complaint_id, sender_id, sender_name, sender_role, content, type, created_at`

const insertComplaintSQL = `
        INSERT INTO complaints (id, user_id, title, description, product, purchase_date, address, contact_info,
            status, priority, assigned_agent, attachments, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

// Create inserts the complaint. A pre-filled thread is written in the same transaction.
func (r *complaintRepository) Create(ctx context.Context, c *domain.Complaint) (err error) {
	if len(c.Messages) == 0 {
		_, err = r.pool.Exec(ctx, insertComplaintSQL, complaintArgs(c)...)
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, insertComplaintSQL, complaintArgs(c)...); err != nil {
		return err
	}
	for i := range c.Messages {
		c.Messages[i].ComplaintID = c.ID
		if err = insertMessage(ctx, tx, &c.Messages[i]); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func complaintArgs(c *domain.Complaint) []any {
	attachments := c.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return []any{
		c.ID,
		c.UserID,
		c.Title,
		c.Description,
		c.Product,
		c.PurchaseDate,
		c.Address,
		c.ContactInfo,
		c.Status,
		c.Priority,
		c.AssignedAgent,
		attachments,
		c.CreatedAt,
		c.UpdatedAt,
	}
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	c, err := scanComplaint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	threads, err := r.messagesFor(ctx, []string{c.ID})
	if err != nil {
		return nil, err
	}
	c.Messages = threads[c.ID]
	return c, nil
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.AssignedAgent != nil {
		args = append(args, *filter.AssignedAgent)
		clauses = append(clauses, fmt.Sprintf("assigned_agent=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	order := "created_at DESC, seq ASC"
	if filter.SortBy == SortByUpdated {
		order = "updated_at DESC, seq ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY %s`,
		complaintColumns, strings.Join(clauses, " AND "), order)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Complaint{}
	ids := []string{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return result, nil
	}

	threads, err := r.messagesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Messages = threads[result[i].ID]
	}
	return result, nil
}

func (r *complaintRepository) SaveTransition(ctx context.Context, c *domain.Complaint, from domain.ComplaintStatus, msg *domain.Message) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const update = `
        UPDATE complaints SET status=$1, assigned_agent=$2, updated_at=$3
        WHERE id=$4 AND status=$5`
	cmd, err := tx.Exec(ctx, update, c.Status, c.AssignedAgent, c.UpdatedAt, c.ID, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM complaints WHERE id=$1)`, c.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return domain.ErrInvalidTransition
		}
		return domain.ErrNotFound
	}
	msg.ComplaintID = c.ID
	if err = insertMessage(ctx, tx, msg); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *complaintRepository) AppendMessage(ctx context.Context, complaintID string, msg *domain.Message, updatedAt time.Time) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const touch = `UPDATE complaints SET updated_at=GREATEST(updated_at, $1) WHERE id=$2`
	cmd, err := tx.Exec(ctx, touch, updatedAt, complaintID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	msg.ComplaintID = complaintID
	if err = insertMessage(ctx, tx, msg); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *complaintRepository) DeletePending(ctx context.Context, id string) error {
	const query = `DELETE FROM complaints WHERE id=$1 AND status=$2`
	cmd, err := r.pool.Exec(ctx, query, id, domain.StatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *complaintRepository) messagesFor(ctx context.Context, complaintIDs []string) (map[string][]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM complaint_messages WHERE complaint_id = ANY($1) ORDER BY seq ASC`
	rows, err := r.pool.Query(ctx, query, complaintIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := make(map[string][]domain.Message, len(complaintIDs))
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ComplaintID,
			&msg.SenderID,
			&msg.SenderName,
			&msg.SenderRole,
			&msg.Content,
			&msg.Type,
			&msg.Timestamp,
		); err != nil {
			return nil, err
		}
		threads[msg.ComplaintID] = append(threads[msg.ComplaintID], msg)
	}
	return threads, rows.Err()
}

func insertMessage(ctx context.Context, tx pgx.Tx, msg *domain.Message) error {
	const query = `
        INSERT INTO complaint_messages (id, complaint_id, sender_id, sender_name, sender_role, content, type, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := tx.Exec(ctx, query,
		msg.ID,
		msg.ComplaintID,
		msg.SenderID,
		msg.SenderName,
		msg.SenderRole,
		msg.Content,
		msg.Type,
		msg.Timestamp,
	)
	return err
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var c domain.Complaint
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Title,
		&c.Description,
		&c.Product,
		&c.PurchaseDate,
		&c.Address,
		&c.ContactInfo,
		&c.Status,
		&c.Priority,
		&c.AssignedAgent,
		&c.Attachments,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
