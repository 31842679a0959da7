package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresRepository stores withdrawal requests in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a pending withdrawal request.
func (r *PostgresRepository) Create(ctx context.Context, w Withdrawal) (Withdrawal, error) {
	promoterID, err := uuid.Parse(w.PromoterID)
	if err != nil {
		return Withdrawal{}, ErrNotFound
	}
	id := uuid.New()
	row := r.db.QueryRow(ctx, `INSERT INTO withdrawals (id, promoter_id, amount, status)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`,
		id, promoterID, w.Amount.String(), string(StatusPending))
	if err := row.Scan(&w.CreatedAt); err != nil {
		return Withdrawal{}, err
	}
	w.ID = id.String()
	w.PromoterID = promoterID.String()
	w.Status = StatusPending
	w.CreatedAt = w.CreatedAt.UTC()
	return w, nil
}

// Get fetches one withdrawal request.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Withdrawal, error) {
	withdrawalID, err := uuid.Parse(id)
	if err != nil {
		return Withdrawal{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, promoter_id, amount::text, status, admin_id, decided_at, created_at
        FROM withdrawals WHERE id = $1`, withdrawalID)
	return scanWithdrawal(row)
}

// ListByPromoter returns the promoter's withdrawals newest first.
func (r *PostgresRepository) ListByPromoter(ctx context.Context, promoterID string) ([]Withdrawal, error) {
	id, err := uuid.Parse(promoterID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, promoter_id, amount::text, status, admin_id, decided_at, created_at
        FROM withdrawals WHERE promoter_id = $1 ORDER BY created_at DESC, id DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// SumByStatus totals the promoter's withdrawals in the given status.
func (r *PostgresRepository) SumByStatus(ctx context.Context, promoterID string, status WithdrawalStatus) (decimal.Decimal, error) {
	id, err := uuid.Parse(promoterID)
	if err != nil {
		return decimal.Zero, ErrNotFound
	}
	var sum string
	err = r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::text
        FROM withdrawals WHERE promoter_id = $1 AND status = $2`, id, string(status)).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(sum)
}

// Approve flips pending to approved after re-verifying, inside the same
// transaction, that the amount still fits the promoter's available balance.
// Concurrent approvals queue on the row lock, so the second sees the first's
// effect on the withdrawn total.
func (r *PostgresRepository) Approve(ctx context.Context, id, adminID string) (Withdrawal, error) {
	var approved Withdrawal
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		w, err := lockWithdrawal(ctx, tx, id)
		if err != nil {
			return err
		}

		available, err := availableInTx(ctx, tx, w.PromoterID)
		if err != nil {
			return err
		}
		if w.Amount.GreaterThan(available) {
			return ErrInsufficientFunds
		}

		approved, err = decideWithdrawal(ctx, tx, w, StatusApproved, adminID)
		return err
	})
	if err != nil {
		return Withdrawal{}, err
	}
	return approved, nil
}

// Reject flips pending to rejected.
func (r *PostgresRepository) Reject(ctx context.Context, id, adminID string) (Withdrawal, error) {
	var rejected Withdrawal
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		w, err := lockWithdrawal(ctx, tx, id)
		if err != nil {
			return err
		}
		rejected, err = decideWithdrawal(ctx, tx, w, StatusRejected, adminID)
		return err
	})
	if err != nil {
		return Withdrawal{}, err
	}
	return rejected, nil
}

func (r *PostgresRepository) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func lockWithdrawal(ctx context.Context, tx pgx.Tx, id string) (Withdrawal, error) {
	withdrawalID, err := uuid.Parse(id)
	if err != nil {
		return Withdrawal{}, ErrNotFound
	}
	row := tx.QueryRow(ctx, `SELECT id, promoter_id, amount::text, status, admin_id, decided_at, created_at
        FROM withdrawals WHERE id = $1 FOR UPDATE`, withdrawalID)
	w, err := scanWithdrawal(row)
	if err != nil {
		return Withdrawal{}, err
	}
	if w.Status != StatusPending {
		return Withdrawal{}, ErrAlreadyProcessed
	}
	return w, nil
}

// availableInTx computes earned-minus-withdrawn under the caller's
// transaction. It first locks the promoter row so concurrent approvals of
// different withdrawals for the same promoter serialize; without that lock
// each transaction would aggregate the approved sum before the other commits
// and both could clear.
func availableInTx(ctx context.Context, tx pgx.Tx, promoterID string) (decimal.Decimal, error) {
	id, err := uuid.Parse(promoterID)
	if err != nil {
		return decimal.Zero, ErrNotFound
	}

	var locked int
	if err := tx.QueryRow(ctx, `SELECT 1 FROM promoters WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, err
	}

	var earnedStr, withdrawnStr string
	row := tx.QueryRow(ctx, `SELECT
        COALESCE((SELECT SUM(amount) FROM commissions WHERE recipient_id = $1 AND status IN ('credited','completed')), 0)::text,
        COALESCE((SELECT SUM(amount) FROM withdrawals WHERE promoter_id = $1 AND status = 'approved'), 0)::text`, id)
	if err := row.Scan(&earnedStr, &withdrawnStr); err != nil {
		return decimal.Zero, err
	}

	earned, err := decimal.NewFromString(earnedStr)
	if err != nil {
		return decimal.Zero, err
	}
	withdrawn, err := decimal.NewFromString(withdrawnStr)
	if err != nil {
		return decimal.Zero, err
	}
	return earned.Sub(withdrawn), nil
}

func decideWithdrawal(ctx context.Context, tx pgx.Tx, w Withdrawal, status WithdrawalStatus, adminID string) (Withdrawal, error) {
	decider, err := uuid.Parse(adminID)
	if err != nil {
		return Withdrawal{}, errors.New("invalid admin id")
	}
	var decidedAt time.Time
	row := tx.QueryRow(ctx, `UPDATE withdrawals SET status = $1, admin_id = $2, decided_at = now()
        WHERE id = $3 RETURNING decided_at`, string(status), decider, w.ID)
	if err := row.Scan(&decidedAt); err != nil {
		return Withdrawal{}, err
	}
	decidedAt = decidedAt.UTC()

	w.Status = status
	w.AdminID = decider.String()
	w.DecidedAt = &decidedAt
	return w, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWithdrawal(row rowScanner) (Withdrawal, error) {
	var (
		w          Withdrawal
		id         uuid.UUID
		promoterID uuid.UUID
		amount     string
		status     string
		adminID    *uuid.UUID
		decidedAt  *time.Time
	)
	if err := row.Scan(&id, &promoterID, &amount, &status, &adminID, &decidedAt, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Withdrawal{}, ErrNotFound
		}
		return Withdrawal{}, err
	}
	w.ID = id.String()
	w.PromoterID = promoterID.String()
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Withdrawal{}, err
	}
	w.Amount = parsed
	w.Status = WithdrawalStatus(status)
	if adminID != nil {
		w.AdminID = adminID.String()
	}
	if decidedAt != nil {
		utc := decidedAt.UTC()
		w.DecidedAt = &utc
	}
	w.CreatedAt = w.CreatedAt.UTC()
	return w, nil
}
