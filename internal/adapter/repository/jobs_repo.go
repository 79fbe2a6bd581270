package repository

import (
	"context"
	"errors"

	"resume-optimizer/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrNotFound is returned by Get for unknown ids and whenever the ledger is
// disabled.
var ErrNotFound = errors.New("job not found")

type JobsRepo struct {
	pool *pgxpool.Pool
}

// NewJobsRepo returns a ledger backed by pool. A nil pool turns every call
// into a no-op.
func NewJobsRepo(pool *pgxpool.Pool) *JobsRepo {
	return &JobsRepo{pool: pool}
}

func (r *JobsRepo) Enabled() bool { return r != nil && r.pool != nil }

func (r *JobsRepo) Save(ctx context.Context, j *domain.RenderJob) error {
	if !r.Enabled() {
		return nil
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO render_jobs (id, kind, template, color_scheme, status, stage, pages, error, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET template = EXCLUDED.template, color_scheme = EXCLUDED.color_scheme, status = EXCLUDED.status, stage = EXCLUDED.stage, pages = EXCLUDED.pages, error = EXCLUDED.error, updated_at = EXCLUDED.updated_at`,
		j.ID, j.Kind, j.Template, j.ColorScheme, j.Status, j.Stage, j.Pages, j.Error, j.CreatedAt, j.UpdatedAt)
	return err
}

func (r *JobsRepo) Get(ctx context.Context, id uuid.UUID) (*domain.RenderJob, error) {
	if !r.Enabled() {
		return nil, ErrNotFound
	}

	var j domain.RenderJob
	err := r.pool.QueryRow(ctx, `SELECT id, kind, template, color_scheme, status, stage, pages, error, created_at, updated_at
		FROM render_jobs WHERE id = $1`, id).
		Scan(&j.ID, &j.Kind, &j.Template, &j.ColorScheme, &j.Status, &j.Stage, &j.Pages, &j.Error, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}
