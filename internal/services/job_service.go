package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guiaturistica/reportes-api/internal/jobs"
	"github.com/guiaturistica/reportes-api/internal/metrics"
	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/guiaturistica/reportes-api/internal/statemachine"
	"github.com/guiaturistica/reportes-api/internal/storage"
	"github.com/guiaturistica/reportes-api/pkg/logger"
)

const exportsDir = "exports"

// JobService runs exports in the background and keeps their artifacts
// until they expire
type JobService struct {
	exporter *ExportService
	worker   *jobs.Worker
	storage  *storage.LocalStorage
	ttl      time.Duration
	now      func() time.Time

	mu   sync.RWMutex
	jobs map[string]*models.ExportJob
}

func NewJobService(exporter *ExportService, worker *jobs.Worker, store *storage.LocalStorage, ttl time.Duration) *JobService {
	return &JobService{
		exporter: exporter,
		worker:   worker,
		storage:  store,
		ttl:      ttl,
		now:      time.Now,
		jobs:     make(map[string]*models.ExportJob),
	}
}

// Submit validates the request and queues an export job owned by the caller
func (s *JobService) Submit(ctx context.Context, req models.ReportRequest, target models.ExportTarget, callerID string, privileged bool) (*models.ExportJob, error) {
	params, err := req.ToParams(callerID, privileged)
	if err != nil {
		return nil, err
	}
	if !s.exporter.Supports(target) {
		return nil, &RendererUnavailableError{Target: target}
	}

	now := s.now()
	job := &models.ExportJob{
		ID:        uuid.NewString(),
		OwnerID:   callerID,
		Status:    models.ExportJobStatusQueued,
		Target:    target,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}

	queued := s.snapshot(job)
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	metrics.ExportJobsActive.Inc()

	options := req.Options()
	err = s.worker.Enqueue("export:"+job.ID, func(workerCtx context.Context) error {
		return s.run(workerCtx, job.ID, params, options)
	})
	if err != nil {
		s.finish(ctx, job.ID, func(f *statemachine.ExportJobFSM) error { return f.Fail(ctx, err) })
		return nil, fmt.Errorf("failed to queue export job: %w", err)
	}

	logger.FromContext(ctx).Info("Export job queued",
		"job_id", job.ID,
		"target", target,
		"report_type", req.ReportType,
		"owner_id", callerID,
	)
	return queued, nil
}

// run renders one job; failures are recorded on the job, not returned to
// the caller that submitted it. A panic fails the job before it reaches the
// worker.
func (s *JobService) run(ctx context.Context, id string, params models.ReportParams, options models.RenderOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("export panic: %v", r)
			s.finish(ctx, id, func(f *statemachine.ExportJobFSM) error { return f.Fail(ctx, err) })
		}
	}()

	var target models.ExportTarget
	err = s.transition(id, func(job *models.ExportJob, f *statemachine.ExportJobFSM) error {
		target = job.Target
		return f.Start(ctx)
	})
	if err != nil {
		return err
	}

	rendered, err := s.exporter.Export(ctx, params, options, target)
	if err != nil {
		s.finish(ctx, id, func(f *statemachine.ExportJobFSM) error { return f.Fail(ctx, err) })
		return err
	}

	path, err := s.storage.Save(exportsDir, rendered.Filename, rendered.Data)
	if err != nil {
		s.finish(ctx, id, func(f *statemachine.ExportJobFSM) error { return f.Fail(ctx, err) })
		return err
	}

	s.finish(ctx, id, func(f *statemachine.ExportJobFSM) error { return f.Complete(ctx, path, rendered) })
	return nil
}

// transition applies fn to the job under the lock
func (s *JobService) transition(id string, fn func(*models.ExportJob, *statemachine.ExportJobFSM) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	return fn(job, statemachine.NewExportJobFSM(job))
}

// finish moves a job to a final state and records it
func (s *JobService) finish(ctx context.Context, id string, fn func(*statemachine.ExportJobFSM) error) {
	var status string
	err := s.transition(id, func(job *models.ExportJob, f *statemachine.ExportJobFSM) error {
		if err := fn(f); err != nil {
			return err
		}
		status = job.Status
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Error("Export job transition failed", "job_id", id, "error", err)
		return
	}

	metrics.ExportJobsActive.Dec()
	metrics.ExportJobsTotal.WithLabelValues(status).Inc()
	logger.FromContext(ctx).Info("Export job finished", "job_id", id, "status", status)
}

// FailPending fails every job that has not finished, e.g. jobs the worker
// dropped on shutdown. It returns how many jobs were failed.
func (s *JobService) FailPending(ctx context.Context, cause error) int {
	s.mu.RLock()
	var pending []string
	for id, job := range s.jobs {
		if !job.IsFinished() {
			pending = append(pending, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range pending {
		s.finish(ctx, id, func(f *statemachine.ExportJobFSM) error { return f.Fail(ctx, cause) })
	}
	return len(pending)
}

// Get returns a copy of the job when the caller may see it
func (s *JobService) Get(id, callerID string, privileged bool) (*models.ExportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok || !job.VisibleTo(callerID, privileged) {
		return nil, ErrNotFound
	}
	return s.snapshot(job), nil
}

// Open returns the artifact of a completed job
func (s *JobService) Open(id, callerID string, privileged bool) (*models.ExportJob, *os.File, error) {
	job, err := s.Get(id, callerID, privileged)
	if err != nil {
		return nil, nil, err
	}
	if job.Status != models.ExportJobStatusCompleted {
		return job, nil, ErrInvalidState
	}
	f, err := s.storage.Open(job.Path)
	if err != nil {
		return job, nil, fmt.Errorf("failed to open export artifact: %w", err)
	}
	return job, f, nil
}

// Purge drops finished jobs older than the TTL together with their files
func (s *JobService) Purge(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*models.ExportJob
	for id, job := range s.jobs {
		if job.IsFinished() && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			expired = append(expired, job)
			delete(s.jobs, id)
		}
	}
	s.mu.Unlock()

	var firstErr error
	for _, job := range expired {
		if job.Path == "" {
			continue
		}
		if err := s.storage.Delete(job.Path); err != nil {
			logger.FromContext(ctx).Warn("Failed to delete export artifact", "job_id", job.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if len(expired) > 0 {
		logger.FromContext(ctx).Info("Purged expired export jobs", "count", len(expired))
	}
	return len(expired), firstErr
}

// GetStatus reports the worker pool and job counts
func (s *JobService) GetStatus() map[string]interface{} {
	stats := s.worker.GetStats()

	byStatus := map[string]int{}
	s.mu.RLock()
	for _, job := range s.jobs {
		byStatus[job.Status]++
	}
	s.mu.RUnlock()

	return map[string]interface{}{
		"active_jobs":    stats.ActiveJobs,
		"completed_jobs": stats.CompletedJobs,
		"failed_jobs":    stats.FailedJobs,
		"queue_length":   stats.QueueLength,
		"queue_capacity": stats.QueueCapacity,
		"workers":        stats.Workers,
		"export_jobs":    byStatus,
	}
}

func (s *JobService) snapshot(job *models.ExportJob) *models.ExportJob {
	cp := *job
	if job.FinishedAt != nil {
		finished := *job.FinishedAt
		cp.FinishedAt = &finished
	}
	return &cp
}
