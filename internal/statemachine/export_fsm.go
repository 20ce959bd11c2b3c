package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/looplab/fsm"
)

// ExportJobFSM wraps an export job with its state machine
type ExportJobFSM struct {
	job *models.ExportJob
	fsm *fsm.FSM
}

// NewExportJobFSM creates a new export job state machine
func NewExportJobFSM(job *models.ExportJob) *ExportJobFSM {
	jfsm := &ExportJobFSM{
		job: job,
	}

	jfsm.fsm = fsm.NewFSM(
		job.Status,
		fsm.Events{
			// queued → rendering
			{Name: "start", Src: []string{models.ExportJobStatusQueued}, Dst: models.ExportJobStatusRendering},

			// rendering → completed
			{Name: "complete", Src: []string{models.ExportJobStatusRendering}, Dst: models.ExportJobStatusCompleted},

			// queued/rendering → failed
			{Name: "fail", Src: []string{models.ExportJobStatusQueued, models.ExportJobStatusRendering}, Dst: models.ExportJobStatusFailed},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				job.UpdatedAt = time.Now()
			},
		},
	)

	return jfsm
}

// Start transitions the job to rendering
func (j *ExportJobFSM) Start(ctx context.Context) error {
	if !j.job.MayStart() {
		return fmt.Errorf("export job cannot be started in current state: %s", j.job.Status)
	}

	if err := j.fsm.Event(ctx, "start"); err != nil {
		return fmt.Errorf("failed to start export job: %w", err)
	}

	j.job.Status = j.fsm.Current()
	return nil
}

// Complete records the artifact and transitions the job to completed
func (j *ExportJobFSM) Complete(ctx context.Context, path string, rendered *models.RenderedReport) error {
	if err := j.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete export job: %w", err)
	}

	now := time.Now()
	j.job.Status = j.fsm.Current()
	j.job.Path = path
	j.job.Filename = rendered.Filename
	j.job.ContentType = rendered.ContentType
	j.job.Size = len(rendered.Data)
	j.job.FinishedAt = &now
	return nil
}

// Fail records the cause and transitions the job to failed
func (j *ExportJobFSM) Fail(ctx context.Context, cause error) error {
	if err := j.fsm.Event(ctx, "fail"); err != nil {
		return fmt.Errorf("failed to fail export job: %w", err)
	}

	now := time.Now()
	j.job.Status = j.fsm.Current()
	if cause != nil {
		j.job.Error = cause.Error()
	}
	j.job.FinishedAt = &now
	return nil
}

// Current returns the current state
func (j *ExportJobFSM) Current() string {
	return j.fsm.Current()
}

// Can checks if a transition is possible
func (j *ExportJobFSM) Can(event string) bool {
	return j.fsm.Can(event)
}
