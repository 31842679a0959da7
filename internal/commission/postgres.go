package commission

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresRepository stores commissions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a commission record.
func (r *PostgresRepository) Create(ctx context.Context, c Commission) (Commission, error) {
	id := uuid.New()
	row := r.db.QueryRow(ctx, `INSERT INTO commissions (id, customer_id, initiator_id, recipient_id, amount, kind, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`,
		id, c.CustomerID, c.InitiatorID, c.RecipientID, c.Amount.String(), string(c.Kind), string(c.Status))
	if err := row.Scan(&c.CreatedAt); err != nil {
		return Commission{}, err
	}
	c.ID = id.String()
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

// ListByRecipient returns commissions newest first.
func (r *PostgresRepository) ListByRecipient(ctx context.Context, recipientID string) ([]Commission, error) {
	query := `SELECT id, customer_id, initiator_id, recipient_id, amount::text, kind, status, created_at
        FROM commissions`
	args := []any{}
	if recipientID != "" {
		rid, err := uuid.Parse(recipientID)
		if err != nil {
			return nil, ErrNotFound
		}
		query += ` WHERE recipient_id = $1`
		args = append(args, rid)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Commission
	for rows.Next() {
		var (
			c      Commission
			id     uuid.UUID
			amount string
			kind   string
			status string
		)
		if err := rows.Scan(&id, &c.CustomerID, &c.InitiatorID, &c.RecipientID, &amount, &kind, &status, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.ID = id.String()
		c.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		c.Kind = Kind(kind)
		c.Status = Status(status)
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateStatus progresses a record's settlement state.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	commissionID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE commissions SET status = $1 WHERE id = $2`, string(status), commissionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
