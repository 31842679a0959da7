package pinrequest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promohub/promohub/internal/ledger"
)

const uniqueViolation = "23505"

// PostgresStore persists PIN requests in PostgreSQL. The one-pending-per-
// promoter rule is a partial unique index on (promoter_id) WHERE
// status='pending', so concurrent submissions cannot both land.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed request store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the pending request, mapping the unique-index violation to
// ErrDuplicatePending.
func (s *PostgresStore) Create(ctx context.Context, req Request) (Request, error) {
	promoterID, err := uuid.Parse(req.PromoterID)
	if err != nil {
		return Request{}, ledger.ErrUserNotFound
	}
	requestID := uuid.New()

	row := s.db.QueryRow(ctx, `INSERT INTO pin_requests (id, promoter_id, requested_pins, reason, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING number, created_at`,
		requestID, promoterID, req.RequestedPins, req.Reason, string(StatusPending))
	if err := row.Scan(&req.Number, &req.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Request{}, ErrDuplicatePending
		}
		return Request{}, err
	}

	req.ID = requestID.String()
	req.PromoterID = promoterID.String()
	req.Status = StatusPending
	req.CreatedAt = req.CreatedAt.UTC()
	return req, nil
}

// Approve credits the promoter and marks the request approved in one commit.
func (s *PostgresStore) Approve(ctx context.Context, requestID, adminID, notes string) (Request, ledger.Transaction, error) {
	var (
		req   Request
		entry ledger.Transaction
	)
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		locked, err := lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}

		note := fmt.Sprintf("pin request #%d approved", locked.Number)
		entry, err = ledger.PostInTx(ctx, tx, locked.PromoterID, ledger.ActionAdminAllocation, locked.RequestedPins, note)
		if err != nil {
			return err
		}

		req, err = decideRequest(ctx, tx, locked, StatusApproved, adminID, notes)
		return err
	})
	if err != nil {
		return Request{}, ledger.Transaction{}, err
	}
	return req, entry, nil
}

// Reject marks the request rejected. The ledger is untouched.
func (s *PostgresStore) Reject(ctx context.Context, requestID, adminID, notes string) (Request, error) {
	var req Request
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		locked, err := lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		req, err = decideRequest(ctx, tx, locked, StatusRejected, adminID, notes)
		return err
	})
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

// Get fetches a single request by id.
func (s *PostgresStore) Get(ctx context.Context, requestID string) (Request, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return Request{}, ErrNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT id, number, promoter_id, requested_pins, reason, status, approver_id, admin_notes, decided_at, created_at
        FROM pin_requests WHERE id = $1`, id)
	return scanRequest(row)
}

// List returns requests newest first, optionally narrowed to one promoter or
// to the pending admin queue.
func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Request, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `SELECT id, number, promoter_id, requested_pins, reason, status, approver_id, admin_notes, decided_at, created_at
        FROM pin_requests`
	var (
		conds []string
		args  []any
	)
	if f.PromoterID != "" {
		promoterID, err := uuid.Parse(f.PromoterID)
		if err != nil {
			return nil, ledger.ErrUserNotFound
		}
		args = append(args, promoterID)
		conds = append(conds, fmt.Sprintf("promoter_id = $%d", len(args)))
	}
	if f.PendingOnly {
		args = append(args, string(StatusPending))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, number DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *PostgresStore) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// lockRequest fetches the request FOR UPDATE and enforces the pending guard.
func lockRequest(ctx context.Context, tx pgx.Tx, requestID string) (Request, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return Request{}, ErrNotFound
	}
	row := tx.QueryRow(ctx, `SELECT id, number, promoter_id, requested_pins, reason, status, approver_id, admin_notes, decided_at, created_at
        FROM pin_requests WHERE id = $1 FOR UPDATE`, id)
	req, err := scanRequest(row)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, ErrAlreadyProcessed
	}
	return req, nil
}

func decideRequest(ctx context.Context, tx pgx.Tx, req Request, status Status, adminID, notes string) (Request, error) {
	approverID, err := uuid.Parse(adminID)
	if err != nil {
		return Request{}, fmt.Errorf("invalid approver id: %w", err)
	}
	var decidedAt time.Time
	row := tx.QueryRow(ctx, `UPDATE pin_requests
        SET status = $1, approver_id = $2, admin_notes = $3, decided_at = now()
        WHERE id = $4
        RETURNING decided_at`, string(status), approverID, notes, req.ID)
	if err := row.Scan(&decidedAt); err != nil {
		return Request{}, err
	}
	decidedAt = decidedAt.UTC()

	req.Status = status
	req.ApproverID = approverID.String()
	req.AdminNotes = notes
	req.DecidedAt = &decidedAt
	return req, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (Request, error) {
	var (
		req        Request
		id         uuid.UUID
		promoterID uuid.UUID
		status     string
		approverID *uuid.UUID
		decidedAt  *time.Time
	)
	if err := row.Scan(&id, &req.Number, &promoterID, &req.RequestedPins, &req.Reason, &status, &approverID, &req.AdminNotes, &decidedAt, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}
	req.ID = id.String()
	req.PromoterID = promoterID.String()
	req.Status = Status(status)
	if approverID != nil {
		req.ApproverID = approverID.String()
	}
	if decidedAt != nil {
		utc := decidedAt.UTC()
		req.DecidedAt = &utc
	}
	req.CreatedAt = req.CreatedAt.UTC()
	return req, nil
}
