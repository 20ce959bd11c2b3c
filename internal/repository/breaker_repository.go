package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guiaturistica/reportes-api/internal/metrics"
	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/guiaturistica/reportes-api/pkg/logger"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerSettings configures the data source circuit breaker
type BreakerSettings struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
}

type breakerRepository struct {
	next RecordRepository
	cb   *gobreaker.CircuitBreaker[[]models.Record]
	name string
}

// NewBreakerRepository guards a record repository with a circuit breaker.
// Once FailureThreshold consecutive queries fail, further queries fail fast
// with gobreaker.ErrOpenState until Timeout has elapsed. Failures are never
// retried here.
func NewBreakerRepository(next RecordRepository, settings BreakerSettings) RecordRepository {
	if settings.Name == "" {
		settings.Name = "record-source"
	}
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(settings.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]models.Record](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// cancelled requests say nothing about the data source
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrUnknownKind)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state transition",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &breakerRepository{next: next, cb: cb, name: settings.Name}
}

func (r *breakerRepository) GetRecords(ctx context.Context, kind models.RecordKind, start, end time.Time) ([]models.Record, error) {
	started := time.Now()
	records, err := r.cb.Execute(func() ([]models.Record, error) {
		return r.next.GetRecords(ctx, kind, start, end)
	})
	metrics.ObserveQuery(string(kind), started, err)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(r.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(r.name, "failure").Inc()
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(r.name, "success").Inc()
	return records, nil
}

// GetActor is a single-row lookup and is not counted by the breaker, but it
// is refused while the circuit is open.
func (r *breakerRepository) GetActor(ctx context.Context, actorID string) (*models.ActorRef, error) {
	if r.cb.State() == gobreaker.StateOpen {
		metrics.CircuitBreakerRequests.WithLabelValues(r.name, "rejected").Inc()
		return nil, gobreaker.ErrOpenState
	}
	return r.next.GetActor(ctx, actorID)
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return 0
}
