package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the PIN ledger in PostgreSQL. Balance mutations for
// a promoter are serialized through a row lock on the promoters row, and the
// transaction insert plus the balance update commit together.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Record applies the delta inside its own database transaction.
func (s *PostgresStore) Record(ctx context.Context, userID string, action ActionType, delta int64, note string) (Transaction, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	entry, err := PostInTx(ctx, tx, userID, action, delta, note)
	if err != nil {
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}
	return entry, nil
}

// PostInTx posts one ledger entry inside a caller-owned transaction. The
// PIN request approval flow uses this to credit the promoter and flip the
// request status in a single commit.
func PostInTx(ctx context.Context, tx pgx.Tx, userID string, action ActionType, delta int64, note string) (Transaction, error) {
	if !action.Valid() {
		return Transaction{}, fmt.Errorf("invalid action type %q", action)
	}
	promoterID, err := uuid.Parse(userID)
	if err != nil {
		return Transaction{}, ErrUserNotFound
	}

	// Lock the balance row; concurrent writers for the same promoter queue
	// here.
	var current int64
	if err := tx.QueryRow(ctx, `SELECT pins FROM promoters WHERE id = $1 FOR UPDATE`, promoterID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrUserNotFound
		}
		return Transaction{}, err
	}

	balanceAfter := current + delta
	if balanceAfter < 0 {
		return Transaction{}, ErrInsufficientBalance
	}

	entry := Transaction{
		ID:           uuid.NewString(),
		UserID:       promoterID.String(),
		Action:       action,
		Delta:        delta,
		BalanceAfter: balanceAfter,
		Note:         note,
	}

	// The code comes from a database sequence so concurrent writers can
	// never collide.
	row := tx.QueryRow(ctx, `INSERT INTO pin_transactions (id, code, user_id, action_type, delta, balance_after, note)
        VALUES ($1, 'PIN-' || lpad(nextval('pin_tx_code_seq')::text, 8, '0'), $2, $3, $4, $5, $6)
        RETURNING code, created_at`,
		entry.ID, promoterID, string(action), delta, balanceAfter, note)
	if err := row.Scan(&entry.Code, &entry.CreatedAt); err != nil {
		return Transaction{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE promoters SET pins = $1 WHERE id = $2`, balanceAfter, promoterID); err != nil {
		return Transaction{}, err
	}

	entry.CreatedAt = entry.CreatedAt.UTC()
	return entry, nil
}

// Balance returns the denormalized balance field, which the invariants keep
// equal to the replayed transaction history.
func (s *PostgresStore) Balance(ctx context.Context, userID string) (int64, error) {
	promoterID, err := uuid.Parse(userID)
	if err != nil {
		return 0, ErrUserNotFound
	}
	var balance int64
	if err := s.db.QueryRow(ctx, `SELECT pins FROM promoters WHERE id = $1`, promoterID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

// List returns transactions newest first, paged by limit/offset.
func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Transaction, error) {
	limit := clampLimit(f.Limit)

	query := `SELECT id, code, user_id, action_type, delta, balance_after, note, created_at
        FROM pin_transactions`
	args := []any{}
	if f.UserID != "" {
		promoterID, err := uuid.Parse(f.UserID)
		if err != nil {
			return nil, ErrUserNotFound
		}
		query += ` WHERE user_id = $1 ORDER BY created_at DESC, code DESC LIMIT $2 OFFSET $3`
		args = append(args, promoterID, limit, f.Offset)
	} else {
		query += ` ORDER BY created_at DESC, code DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, f.Offset)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			entry  Transaction
			id     uuid.UUID
			userID uuid.UUID
			action string
		)
		if err := rows.Scan(&id, &entry.Code, &userID, &action, &entry.Delta, &entry.BalanceAfter, &entry.Note, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.ID = id.String()
		entry.UserID = userID.String()
		entry.Action = ActionType(action)
		entry.CreatedAt = entry.CreatedAt.UTC()
		out = append(out, entry)
	}
	return out, rows.Err()
}
