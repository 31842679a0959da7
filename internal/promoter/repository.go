package promoter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promohub/promohub/internal/session"
)

// ErrNotFound indicates the promoter does not exist.
var ErrNotFound = errors.New("promoter not found")

// Repository persists promoters. The pins column is excluded from every
// update here; only the ledger store writes it.
type Repository interface {
	Create(ctx context.Context, p Promoter) error
	FindByID(ctx context.Context, id string) (Promoter, error)
	FindByPhone(ctx context.Context, phone string) (Promoter, error)
	UpdateRole(ctx context.Context, id string, role session.Role) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed promoter repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new promoter with a zero PIN balance.
func (r *PostgresRepository) Create(ctx context.Context, p Promoter) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO promoters (id, phone, name, role, pins, credential_hash, created_at)
        VALUES ($1, $2, $3, $4, 0, $5, $6)`,
		id, p.Phone, p.Name, p.Role.String(), p.CredentialHash, p.CreatedAt.UTC())
	return err
}

// FindByID fetches a promoter by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Promoter, error) {
	promoterID, err := uuid.Parse(id)
	if err != nil {
		return Promoter{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, phone, name, role, pins, credential_hash, created_at
        FROM promoters WHERE id = $1`, promoterID)
	return scanPromoter(row)
}

// FindByPhone fetches a promoter by phone number.
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) (Promoter, error) {
	row := r.db.QueryRow(ctx, `SELECT id, phone, name, role, pins, credential_hash, created_at
        FROM promoters WHERE phone = $1`, phone)
	return scanPromoter(row)
}

// UpdateRole changes the promoter's role.
func (r *PostgresRepository) UpdateRole(ctx context.Context, id string, role session.Role) error {
	promoterID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE promoters SET role = $1 WHERE id = $2`, role.String(), promoterID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPromoter(row pgx.Row) (Promoter, error) {
	var (
		p         Promoter
		id        uuid.UUID
		role      string
		createdAt time.Time
	)
	if err := row.Scan(&id, &p.Phone, &p.Name, &role, &p.Pins, &p.CredentialHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Promoter{}, ErrNotFound
		}
		return Promoter{}, err
	}
	p.ID = id.String()
	parsed, err := session.ParseRole(role)
	if err != nil {
		return Promoter{}, err
	}
	p.Role = parsed
	p.CreatedAt = createdAt.UTC()
	return p, nil
}
