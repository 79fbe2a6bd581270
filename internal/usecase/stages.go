package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"resume-optimizer/internal/domain"
)

// Stage is one state of the render pipeline.
type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageBuildingHeader
	StageBuildingSections
	StagePaginating
	StageExporting
	StageDone
	StageFailed
)

var stageNames = [...]string{
	StageIdle:             "idle",
	StageValidating:       "validating",
	StageBuildingHeader:   "building_header",
	StageBuildingSections: "building_sections",
	StagePaginating:       "paginating",
	StageExporting:        "exporting",
	StageDone:             "done",
	StageFailed:           "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Terminal reports whether no further transition is allowed.
func (s Stage) Terminal() bool { return s == StageDone || s == StageFailed }

// canAdvance allows moving forward through the pipeline, skipping stages
// (generation jumps straight to exporting when a remote renderer is used),
// or failing from any non-terminal stage.
func (s Stage) canAdvance(to Stage) bool {
	if s.Terminal() {
		return false
	}
	return to == StageFailed || to > s
}

// run tracks one job through the stages, logging every transition with the
// time spent in the stage being left and saving the ledger record.
type run struct {
	job     *domain.RenderJob
	stage   Stage
	entered time.Time
	started time.Time
	log     *slog.Logger
	repo    JobsRepo
}

func newRun(ctx context.Context, job *domain.RenderJob, log *slog.Logger, repo JobsRepo) *run {
	now := time.Now()
	r := &run{job: job, stage: StageIdle, entered: now, started: now, log: log.With("job_id", job.ID.String(), "kind", job.Kind), repo: repo}
	r.save(ctx)
	return r
}

// advance moves to the next stage. An invalid transition is a programming
// error and is reported rather than applied.
func (r *run) advance(ctx context.Context, to Stage) error {
	if !r.stage.canAdvance(to) {
		return fmt.Errorf("invalid stage transition %s -> %s", r.stage, to)
	}
	now := time.Now()
	r.log.Info("pipeline stage",
		"stage", to.String(),
		"from", r.stage.String(),
		"template", r.job.Template,
		"duration", now.Sub(r.entered),
	)
	r.stage, r.entered = to, now
	r.job.Stage = to.String()
	switch to {
	case StageDone:
		r.job.Status = domain.StatusCompleted
	case StageFailed:
		r.job.Status = domain.StatusFailed
	}
	if to == StageValidating || to.Terminal() {
		r.save(ctx)
	}
	return nil
}

// fail records err and moves to StageFailed. It returns err unchanged.
func (r *run) fail(ctx context.Context, err error) error {
	if r.stage.Terminal() {
		return err
	}
	r.job.Error = err.Error()
	r.log.Warn("pipeline failed", "stage", r.stage.String(), "template", r.job.Template, "error", err, "elapsed", time.Since(r.started))
	_ = r.advance(ctx, StageFailed)
	return err
}

func (r *run) elapsed() time.Duration { return time.Since(r.started) }

// save writes the ledger record. Ledger failures never fail the request.
func (r *run) save(ctx context.Context) {
	if r.repo == nil {
		return
	}
	r.job.UpdatedAt = time.Now().UTC()
	if err := r.repo.Save(context.WithoutCancel(ctx), r.job); err != nil {
		r.log.Warn("job ledger save failed", "error", err)
	}
}
