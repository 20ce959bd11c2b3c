package statemachine

import (
	"context"
	"errors"
	"testing"

	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJob(status string) *models.ExportJob {
	return &models.ExportJob{ID: "job-1", OwnerID: "u1", Status: status, Target: models.TargetDocument}
}

func TestExportJobFSMCompletes(t *testing.T) {
	ctx := context.Background()
	job := newJob(models.ExportJobStatusQueued)
	f := NewExportJobFSM(job)

	require.NoError(t, f.Start(ctx))
	assert.Equal(t, models.ExportJobStatusRendering, job.Status)
	assert.True(t, f.Can("complete"))

	rendered := &models.RenderedReport{Data: []byte("%PDF"), ContentType: "application/pdf", Filename: "report_20260315_093005.pdf"}
	require.NoError(t, f.Complete(ctx, "exports/2026/03/15/a.pdf", rendered))

	assert.Equal(t, models.ExportJobStatusCompleted, job.Status)
	assert.Equal(t, "exports/2026/03/15/a.pdf", job.Path)
	assert.Equal(t, "report_20260315_093005.pdf", job.Filename)
	assert.Equal(t, 4, job.Size)
	assert.NotNil(t, job.FinishedAt)
	assert.True(t, job.IsFinished())
}

func TestExportJobFSMFailsFromQueued(t *testing.T) {
	job := newJob(models.ExportJobStatusQueued)
	f := NewExportJobFSM(job)

	require.NoError(t, f.Fail(context.Background(), errors.New("cola llena")))
	assert.Equal(t, models.ExportJobStatusFailed, job.Status)
	assert.Equal(t, "cola llena", job.Error)
	assert.NotNil(t, job.FinishedAt)
}

func TestExportJobFSMRejectsInvalidTransitions(t *testing.T) {
	ctx := context.Background()

	completed := newJob(models.ExportJobStatusCompleted)
	f := NewExportJobFSM(completed)
	assert.Error(t, f.Start(ctx))
	assert.Error(t, f.Fail(ctx, nil))
	assert.Equal(t, models.ExportJobStatusCompleted, completed.Status)

	queued := newJob(models.ExportJobStatusQueued)
	f = NewExportJobFSM(queued)
	assert.False(t, f.Can("complete"))
	assert.Error(t, f.Complete(ctx, "x.pdf", &models.RenderedReport{}))
	assert.Equal(t, models.ExportJobStatusQueued, f.Current())
}
