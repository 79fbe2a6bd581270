package migration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Migration is one idempotent schema step.
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// Migrations lists the ledger schema in order.
var Migrations = []Migration{
	{Name: "create_render_jobs", Up: createRenderJobs},
	{Name: "index_render_jobs_created_at", Up: indexRenderJobsCreatedAt},
}

// RunMigrations applies every migration on startup. A nil pool means the
// ledger is disabled and nothing runs.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		slog.Info("Job ledger disabled, skipping migrations")
		return nil
	}
	slog.Info("Starting database migrations")

	for _, m := range Migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

func createRenderJobs(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS render_jobs (
			id           UUID PRIMARY KEY,
			kind         TEXT NOT NULL,
			template     TEXT NOT NULL DEFAULT '',
			color_scheme TEXT NOT NULL DEFAULT '',
			status       TEXT NOT NULL,
			stage        TEXT NOT NULL DEFAULT '',
			pages        INTEGER NOT NULL DEFAULT 0,
			error        TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

func indexRenderJobsCreatedAt(ctx context.Context, pool *pgxpool.Pool) error {
	query := `CREATE INDEX IF NOT EXISTS render_jobs_created_at_idx ON render_jobs (created_at);`

	if _, err := pool.Exec(ctx, query); err != nil {
		// the ledger works without the index
		slog.Warn("Error creating render_jobs index", "error", err)
	}
	return nil
}
