package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"resume-optimizer/internal/domain"
)

func TestJobsRepo_NilPoolIsNoop(t *testing.T) {
	r := NewJobsRepo(nil)
	assert.False(t, r.Enabled())

	j := domain.NewRenderJob(domain.KindRender, "modern", "blue")
	assert.NoError(t, r.Save(context.Background(), j))

	_, err := r.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRenderJob(t *testing.T) {
	j := domain.NewRenderJob(domain.KindGenerate, "minimal", "green")
	assert.NotEqual(t, uuid.Nil, j.ID)
	assert.Equal(t, domain.StatusRunning, j.Status)
	assert.Equal(t, j.CreatedAt, j.UpdatedAt)
	assert.Equal(t, "minimal", j.Template)
}
