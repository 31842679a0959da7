package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Up applies all pending migrations against the given database URL.
func Up(ctx context.Context, databaseURL string) error {
	return run(ctx, databaseURL, func(ctx context.Context, db *sql.DB) error {
		return goose.UpContext(ctx, db, "migrations")
	})
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, databaseURL string) error {
	return run(ctx, databaseURL, func(ctx context.Context, db *sql.DB) error {
		return goose.DownContext(ctx, db, "migrations")
	})
}

// Status prints the migration status to stdout.
func Status(ctx context.Context, databaseURL string) error {
	return run(ctx, databaseURL, func(ctx context.Context, db *sql.DB) error {
		return goose.StatusContext(ctx, db, "migrations")
	})
}

func run(ctx context.Context, databaseURL string, fn func(context.Context, *sql.DB) error) error {
	if databaseURL == "" {
		return fmt.Errorf("database url is required")
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	return fn(ctx, db)
}
