package params

import (
	"context"
	"errors"
	"testing"
	"time"

	pipelineerrors "chainy-backend/internal/errors"
	"chainy-backend/internal/infrastructure/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBreakerConfig() BreakerConfig {
	config := DefaultBreakerConfig("test-params")
	config.Timeout = time.Hour
	return config
}

func TestBreakerStore_PassesThrough(t *testing.T) {
	store := new(MockStore)
	store.On("GetParameter", mock.Anything, "name", true).Return("value", nil)

	breaker := NewBreakerStore(store, testBreakerConfig(), zap.NewNop(), nil)
	value, err := breaker.GetParameter(context.Background(), "name", true)

	require.NoError(t, err)
	assert.Equal(t, "value", value)
	assert.Equal(t, gobreaker.StateClosed, breaker.State())
}

func TestBreakerStore_OpensOnFailures(t *testing.T) {
	store := new(MockStore)
	store.On("GetParameter", mock.Anything, "name", true).
		Return("", pipelineerrors.NewParameterFetchError("name", errors.New("timeout")))
	metrics := observability.NewMetrics("test")

	breaker := NewBreakerStore(store, testBreakerConfig(), zap.NewNop(), metrics)
	for i := 0; i < 3; i++ {
		_, err := breaker.GetParameter(context.Background(), "name", true)
		require.Error(t, err)
		assert.True(t, pipelineerrors.IsParameterFetch(err))
	}
	assert.Equal(t, gobreaker.StateOpen, breaker.State())

	_, err := breaker.GetParameter(context.Background(), "name", true)
	require.Error(t, err)
	assert.True(t, pipelineerrors.IsParameterFetch(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	store.AssertNumberOfCalls(t, "GetParameter", 3)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BreakerTransitions.WithLabelValues("test-params", "open")))
}

func TestBreakerStore_NotFoundDoesNotTrip(t *testing.T) {
	store := new(MockStore)
	store.On("GetParameter", mock.Anything, "missing", true).
		Return("", pipelineerrors.NewParameterNotFoundError("missing"))

	breaker := NewBreakerStore(store, testBreakerConfig(), nil, nil)
	for i := 0; i < 5; i++ {
		_, err := breaker.GetParameter(context.Background(), "missing", true)
		assert.True(t, pipelineerrors.IsParameterNotFound(err))
	}

	assert.Equal(t, gobreaker.StateClosed, breaker.State())
	store.AssertNumberOfCalls(t, "GetParameter", 5)
}
