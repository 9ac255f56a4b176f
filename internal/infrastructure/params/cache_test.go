package params

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	pipelineerrors "chainy-backend/internal/errors"
	"chainy-backend/internal/infrastructure/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCache_HitWithinTTL(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	clock := newFakeClock()
	store.On("GetParameter", mock.Anything, "/chainy/prod/hash-salt", true).Return("s3cret", nil).Once()

	cache := NewCache(store, WithClock(clock.Now), WithLogger(zap.NewNop()))

	first, err := cache.GetParameter(ctx, "/chainy/prod/hash-salt")
	require.NoError(t, err)
	clock.Advance(4*time.Minute + 59*time.Second)
	second, err := cache.GetParameter(ctx, "/chainy/prod/hash-salt")
	require.NoError(t, err)

	assert.Equal(t, "s3cret", first)
	assert.Equal(t, "s3cret", second)
	store.AssertNumberOfCalls(t, "GetParameter", 1)
	store.AssertExpectations(t)
}

func TestCache_RefetchAfterTTL(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	clock := newFakeClock()
	store.On("GetParameter", mock.Anything, "salt", true).Return("v1", nil).Once()
	store.On("GetParameter", mock.Anything, "salt", true).Return("v2", nil).Once()

	cache := NewCache(store, WithClock(clock.Now))

	_, err := cache.GetParameter(ctx, "salt")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = cache.GetParameter(ctx, "salt")
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	value, err := cache.GetParameter(ctx, "salt")
	require.NoError(t, err)

	assert.Equal(t, "v2", value)
	store.AssertNumberOfCalls(t, "GetParameter", 2)
}

func TestCache_KeyedByName(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("GetParameter", mock.Anything, "a", true).Return("1", nil).Once()
	store.On("GetParameter", mock.Anything, "b", true).Return("2", nil).Once()

	cache := NewCache(store)

	a, err := cache.GetParameter(ctx, "a")
	require.NoError(t, err)
	b, err := cache.GetParameter(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, "1", a)
	assert.Equal(t, "2", b)
	store.AssertExpectations(t)
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	fetchErr := pipelineerrors.NewParameterFetchError("salt", errors.New("throttled"))
	store.On("GetParameter", mock.Anything, "salt", true).Return("", fetchErr).Once()
	store.On("GetParameter", mock.Anything, "salt", true).Return("ok", nil).Once()

	cache := NewCache(store)

	_, err := cache.GetParameter(ctx, "salt")
	require.Error(t, err)
	assert.True(t, pipelineerrors.IsParameterFetch(err))

	value, err := cache.GetParameter(ctx, "salt")
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	store.AssertNumberOfCalls(t, "GetParameter", 2)
}

func TestCache_NotFoundPropagates(t *testing.T) {
	store := new(MockStore)
	store.On("GetParameter", mock.Anything, "missing", true).
		Return("", pipelineerrors.NewParameterNotFoundError("missing"))

	_, err := NewCache(store).GetParameter(context.Background(), "missing")

	assert.True(t, pipelineerrors.IsParameterNotFound(err))
}

func TestCache_CustomTTL(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	clock := newFakeClock()
	store.On("GetParameter", mock.Anything, "salt", true).Return("v", nil)

	cache := NewCache(store, WithClock(clock.Now), WithTTL(10*time.Second))

	_, _ = cache.GetParameter(ctx, "salt")
	clock.Advance(10 * time.Second)
	_, _ = cache.GetParameter(ctx, "salt")

	store.AssertNumberOfCalls(t, "GetParameter", 2)
}

func TestCache_ConcurrentMissesConverge(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("GetParameter", mock.Anything, "salt", true).Return("shared", nil)

	cache := NewCache(store)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err := cache.GetParameter(ctx, "salt")
			assert.NoError(t, err)
			results[i] = value
		}(i)
	}
	wg.Wait()

	for _, value := range results {
		assert.Equal(t, "shared", value)
	}
	calls := len(store.Calls)
	assert.GreaterOrEqual(t, calls, 1)
	assert.LessOrEqual(t, calls, len(results))
}

func TestCache_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("GetParameter", mock.Anything, "salt", true).Return("v", nil)
	metrics := observability.NewMetrics("test")

	cache := NewCache(store, WithMetrics(metrics))
	_, _ = cache.GetParameter(ctx, "salt")
	_, _ = cache.GetParameter(ctx, "salt")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ParameterCacheMisses))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ParameterCacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ParameterFetches.WithLabelValues(observability.StatusSuccess)))
}
