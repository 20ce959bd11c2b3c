package models

import (
	"time"
)

// ExportJob is an asynchronous export request and its artifact
type ExportJob struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"owner_id"`
	Status      string        `json:"status"`
	Target      ExportTarget  `json:"target"`
	Request     ReportRequest `json:"request"`
	Path        string        `json:"-"`
	Filename    string        `json:"filename,omitempty"`
	ContentType string        `json:"content_type,omitempty"`
	Size        int           `json:"size,omitempty"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
}

// Export job status constants
const (
	ExportJobStatusQueued    = "queued"
	ExportJobStatusRendering = "rendering"
	ExportJobStatusCompleted = "completed"
	ExportJobStatusFailed    = "failed"
)

// IsFinished returns true once the job can no longer change
func (j *ExportJob) IsFinished() bool {
	return j.Status == ExportJobStatusCompleted || j.Status == ExportJobStatusFailed
}

// MayStart returns true if the job is waiting for a worker
func (j *ExportJob) MayStart() bool {
	return j.Status == ExportJobStatusQueued
}

// VisibleTo returns true if the caller may see the job
func (j *ExportJob) VisibleTo(callerID string, privileged bool) bool {
	return privileged || j.OwnerID == callerID
}
