package params

import (
	"context"
	"errors"
	"time"

	pipelineerrors "chainy-backend/internal/errors"
	"chainy-backend/internal/infrastructure/observability"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds circuit breaker settings for a Store
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the breaker settings used for the parameter store
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.5,
		MinRequests:      3,
	}
}

// BreakerStore stops calling an unhealthy Store for a cool-down period so
// callers fail fast onto their fallback path. Missing parameters are a
// successful answer from the store and never trip the breaker.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerStore wraps next with a circuit breaker
func NewBreakerStore(next Store, config BreakerConfig, logger *zap.Logger, metrics *observability.Metrics) *BreakerStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.RecordBreakerTransition(name, to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || pipelineerrors.IsParameterNotFound(err)
		},
	})

	return &BreakerStore{next: next, cb: cb}
}

// GetParameter reads through the breaker
func (b *BreakerStore) GetParameter(ctx context.Context, name string, decrypt bool) (string, error) {
	value, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.GetParameter(ctx, name, decrypt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", pipelineerrors.NewParameterFetchError(name, err)
		}
		return "", err
	}
	return value.(string), nil
}

// State reports the current breaker state
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}
