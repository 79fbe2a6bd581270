package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job kinds.
const (
	KindRender   = "render"
	KindGenerate = "generate"
	KindLegacy   = "legacy"
)

// Job statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RenderJob is the ledger record of one pipeline run. It holds operational
// metadata only, never resume content.
type RenderJob struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	Template    string    `json:"template"`
	ColorScheme string    `json:"color_scheme"`
	Status      string    `json:"status"`
	Stage       string    `json:"stage"`
	Pages       int       `json:"pages"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewRenderJob(kind, template, colorScheme string) *RenderJob {
	now := time.Now().UTC()
	return &RenderJob{
		ID:          uuid.New(),
		Kind:        kind,
		Template:    template,
		ColorScheme: colorScheme,
		Status:      StatusRunning,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
