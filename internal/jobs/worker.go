package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/guiaturistica/reportes-api/pkg/logger"
)

// ErrQueueFull is returned when the pool cannot take more work
var ErrQueueFull = errors.New("cola de trabajos llena")

// ErrStopped is returned after Shutdown
var ErrStopped = errors.New("worker detenido")

// Job is a unit of background work
type Job func(ctx context.Context) error

type task struct {
	name string
	run  Job
}

// Worker runs queued jobs on a fixed pool and periodic jobs on tickers
type Worker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	queue   chan task
	workers int

	mu      sync.RWMutex
	stopped bool
	stats   WorkerStats
}

// WorkerStats holds statistics about the worker
type WorkerStats struct {
	ActiveJobs    int   `json:"active_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	QueueLength   int   `json:"queue_length"`
	QueueCapacity int   `json:"queue_capacity"`
	Workers       int   `json:"workers"`
}

// NewWorker starts numWorkers processors sharing a queue of queueSize
func NewWorker(numWorkers, queueSize int) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueSize < 1 {
		queueSize = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		ctx:     ctx,
		cancel:  cancel,
		queue:   make(chan task, queueSize),
		workers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}
	return w
}

// Enqueue hands a job to the pool without blocking
func (w *Worker) Enqueue(name string, job Job) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrStopped
	}

	select {
	case w.queue <- task{name: name, run: job}:
		return nil
	default:
		logger.Warn("Worker queue full", "job", name, "capacity", cap(w.queue))
		return ErrQueueFull
	}
}

func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	for {
		// queued jobs are left for Shutdown once cancelled
		if w.ctx.Err() != nil {
			return
		}
		select {
		case <-w.ctx.Done():
			return
		case t, ok := <-w.queue:
			if !ok {
				return
			}
			w.run(fmt.Sprintf("worker-%d", workerID), t)
		}
	}
}

// run executes one job, recovering panics so a bad job cannot kill the pool
func (w *Worker) run(runner string, t task) {
	w.trackStart()
	start := time.Now()
	failed := true
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panic", "runner", runner, "job", t.name, "panic", r)
		}
		w.trackEnd(failed)
	}()

	if err := t.run(w.ctx); err != nil {
		logger.Error("Job failed", "runner", runner, "job", t.name, "error", err)
		return
	}
	failed = false
	logger.Debug("Job completed", "runner", runner, "job", t.name, "duration", time.Since(start))
}

// ScheduleEvery runs a job at fixed intervals. The first run happens after
// one interval.
func (w *Worker) ScheduleEvery(name string, interval time.Duration, job Job) {
	w.schedule(name, interval, job, false)
}

// ScheduleEveryImmediate runs a job once at startup, then at fixed intervals
func (w *Worker) ScheduleEveryImmediate(name string, interval time.Duration, job Job) {
	w.schedule(name, interval, job, true)
}

func (w *Worker) schedule(name string, interval time.Duration, job Job, immediate bool) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		t := task{name: name, run: job}
		if immediate {
			w.run("scheduler", t)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run("scheduler", t)
			}
		}
	}()
}

// Shutdown stops accepting jobs, cancels running ones and waits for the
// pool. Jobs still queued are discarded; it returns their names.
func (w *Worker) Shutdown() []string {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	w.mu.Unlock()

	w.cancel()
	close(w.queue)
	w.wg.Wait()

	var dropped []string
	for t := range w.queue {
		dropped = append(dropped, t.name)
	}
	if len(dropped) > 0 {
		logger.Warn("Discarded queued jobs on shutdown", "count", len(dropped))
	}
	return dropped
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	stats.QueueCapacity = cap(w.queue)
	stats.Workers = w.workers
	return stats
}

func (w *Worker) trackStart() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.ActiveJobs++
}

// trackEnd counts a finished job; FailedJobs is a subset of CompletedJobs
func (w *Worker) trackEnd(failed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
	if failed {
		w.stats.FailedJobs++
	}
}
