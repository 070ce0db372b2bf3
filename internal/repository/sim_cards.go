package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/simako/simako-backend/internal/model"
)

// ErrDuplicateSimID is returned when an insert hits the UNIQUE key on sim_id.
// The unique key makes registration a single conditional write, so concurrent
// registrations of the same SIM cannot both succeed.
var ErrDuplicateSimID = errors.New("sim_id already registered")

// SimCardsRepository defines persistence for the sim_cards table.
type SimCardsRepository interface {
	Insert(ctx context.Context, s model.SimCard) error
	ListAll(ctx context.Context) ([]model.SimCard, error)
}

type SimCardsRepositoryImpl struct {
	db *sqlx.DB
}

func NewSimCardsRepository(db *sqlx.DB) *SimCardsRepositoryImpl {
	return &SimCardsRepositoryImpl{db: db}
}

var _ SimCardsRepository = (*SimCardsRepositoryImpl)(nil)

const mysqlErrDupEntry = 1062

func (r *SimCardsRepositoryImpl) Insert(ctx context.Context, s model.SimCard) error {
	const q = `
		INSERT INTO sim_cards
		    (id, sim_id, phone_number, carrier, is_active, created_at, last_seen)
		VALUES
		    (?,  ?,      ?,            ?,       ?,         ?,          ?)
	`
	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.SimID, s.PhoneNumber, s.Carrier, s.IsActive, s.CreatedAt, s.LastSeen,
	)
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlErrDupEntry {
		return ErrDuplicateSimID
	}
	if err != nil {
		return fmt.Errorf("insert sim card: %w", err)
	}
	return nil
}

func (r *SimCardsRepositoryImpl) ListAll(ctx context.Context) ([]model.SimCard, error) {
	rows := []model.SimCard{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, sim_id, phone_number, carrier, is_active, created_at, last_seen
		  FROM sim_cards
		 ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sim cards: %w", err)
	}
	return rows, nil
}
