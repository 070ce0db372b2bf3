package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/simako/simako-backend/internal/model"
)

// MessagesRepository defines persistence for the messages table.
type MessagesRepository interface {
	Insert(ctx context.Context, m model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	List(ctx context.Context, f model.MessageFilter, limit, skip int) ([]model.Message, int64, error)
	MarkProcessed(ctx context.Context, id string, at time.Time) (bool, error)
}

type MessagesRepositoryImpl struct {
	db *sqlx.DB
}

func NewMessagesRepository(db *sqlx.DB) *MessagesRepositoryImpl {
	return &MessagesRepositoryImpl{db: db}
}

var _ MessagesRepository = (*MessagesRepositoryImpl)(nil)

const messageColumns = `id, sim_id, kind, from_number, to_number, body, timestamp, processed, processed_at, metadata, created_at`

func (r *MessagesRepositoryImpl) Insert(ctx context.Context, m model.Message) error {
	const q = `
		INSERT INTO messages
		    (id, sim_id, kind, from_number, to_number, body, timestamp, processed, metadata, created_at)
		VALUES
		    (?,  ?,      ?,    ?,           ?,         ?,    ?,         ?,         ?,        ?)
	`
	_, err := r.db.ExecContext(ctx, q,
		m.ID, m.SimID, m.Kind.String(), m.From, m.To, m.Body,
		m.Timestamp, m.Processed, m.Metadata, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessagesRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var m model.Message
	err := r.db.GetContext(ctx, &m, `
		SELECT `+messageColumns+`
		  FROM messages
		 WHERE id = ? LIMIT 1
	`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return &m, nil
}

// List returns one page of messages matching the filter, newest timestamp
// first, plus the total match count ignoring pagination.
func (r *MessagesRepositoryImpl) List(ctx context.Context, f model.MessageFilter, limit, skip int) ([]model.Message, int64, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	where := " WHERE 1=1"
	args := []any{}
	if f.SimID != "" {
		where += " AND sim_id = ?"
		args = append(args, f.SimID)
	}
	if f.Kind != "" {
		where += " AND kind = ?"
		args = append(args, f.Kind.String())
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM messages"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	q := "SELECT " + messageColumns + " FROM messages" + where +
		" ORDER BY timestamp DESC LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	rows := []model.Message{}
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	return rows, total, nil
}

// MarkProcessed stamps processed/processed_at. Returns false when no row with
// that id exists. Re-invoking on an already-processed row re-stamps
// processed_at; that matches the ingestion contract.
func (r *MessagesRepositoryImpl) MarkProcessed(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages
		   SET processed = TRUE, processed_at = ?
		 WHERE id = ?
	`, at, id)
	if err != nil {
		return false, fmt.Errorf("mark processed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark processed rows: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	// the driver counts changed rows, not matched rows: an UPDATE writing an
	// identical processed_at reports 0, so confirm absence before NotFound
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}
