package params

import (
	"context"
	"errors"
	"testing"

	pipelineerrors "chainy-backend/internal/errors"
	"chainy-backend/internal/infrastructure/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func saltConfig() SaltConfig {
	return SaltConfig{
		HashSaltParameter:   "/chainy/dev/hash-salt",
		IPHashSaltParameter: "/chainy/dev/ip-hash-salt",
	}
}

func TestSaltResolver_FromParameterStore(t *testing.T) {
	getter := new(MockParameterGetter)
	getter.On("GetParameter", mock.Anything, "/chainy/dev/hash-salt").Return("hash", nil)
	getter.On("GetParameter", mock.Anything, "/chainy/dev/ip-hash-salt").Return("ip", nil)

	resolver := NewSaltResolver(getter, saltConfig(), zap.NewNop(), nil)
	salts, err := resolver.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Salts{HashSalt: "hash", IPHashSalt: "ip"}, salts)
	getter.AssertExpectations(t)
}

func TestSaltResolver_MissingParameterNames(t *testing.T) {
	tests := []struct {
		name    string
		config  SaltConfig
		wantKey string
	}{
		{"hash salt name", SaltConfig{IPHashSaltParameter: "ip"}, HashSaltParameterKey},
		{"ip salt name", SaltConfig{HashSaltParameter: "hash"}, IPHashSaltParameterKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getter := new(MockParameterGetter)
			tt.config.HashSaltOverride = "fallback"
			tt.config.IPHashSaltOverride = "fallback"

			_, err := NewSaltResolver(getter, tt.config, nil, nil).Resolve(context.Background())

			require.Error(t, err)
			assert.True(t, pipelineerrors.IsConfiguration(err))
			assert.Contains(t, err.Error(), tt.wantKey)
			getter.AssertNotCalled(t, "GetParameter", mock.Anything, mock.Anything)
		})
	}
}

func TestSaltResolver_FallbackOnFetchFailure(t *testing.T) {
	getter := new(MockParameterGetter)
	getter.On("GetParameter", mock.Anything, "/chainy/dev/hash-salt").Return("hash", nil).Maybe()
	getter.On("GetParameter", mock.Anything, "/chainy/dev/ip-hash-salt").
		Return("", pipelineerrors.NewParameterFetchError("/chainy/dev/ip-hash-salt", errors.New("throttled")))

	cfg := saltConfig()
	cfg.HashSaltOverride = "env-hash"
	cfg.IPHashSaltOverride = "env-ip"
	metrics := observability.NewMetrics("test")

	salts, err := NewSaltResolver(getter, cfg, zap.NewNop(), metrics).Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Salts{HashSalt: "env-hash", IPHashSalt: "env-ip"}, salts)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.SaltFallbacks))
}

func TestSaltResolver_NoFallbackAvailable(t *testing.T) {
	tests := []struct {
		name     string
		hashOver string
		ipOver   string
	}{
		{"no overrides", "", ""},
		{"only hash override", "env-hash", ""},
		{"only ip override", "", "env-ip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getter := new(MockParameterGetter)
			getter.On("GetParameter", mock.Anything, "/chainy/dev/hash-salt").
				Return("", pipelineerrors.NewParameterNotFoundError("/chainy/dev/hash-salt"))
			getter.On("GetParameter", mock.Anything, "/chainy/dev/ip-hash-salt").Return("ip", nil).Maybe()

			cfg := saltConfig()
			cfg.HashSaltOverride = tt.hashOver
			cfg.IPHashSaltOverride = tt.ipOver

			_, err := NewSaltResolver(getter, cfg, nil, nil).Resolve(context.Background())

			require.Error(t, err)
			assert.True(t, pipelineerrors.IsSaltResolution(err))
			assert.True(t, pipelineerrors.IsParameterNotFound(errors.Unwrap(pipelineerrors.GetError(err))))
		})
	}
}

func TestSaltResolver_ThroughCache(t *testing.T) {
	store := new(MockStore)
	store.On("GetParameter", mock.Anything, "/chainy/dev/hash-salt", true).Return("hash", nil).Once()
	store.On("GetParameter", mock.Anything, "/chainy/dev/ip-hash-salt", true).Return("ip", nil).Once()

	resolver := NewSaltResolver(NewCache(store), saltConfig(), nil, nil)

	for i := 0; i < 3; i++ {
		salts, err := resolver.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "hash", salts.HashSalt)
		assert.Equal(t, "ip", salts.IPHashSalt)
	}
	store.AssertNumberOfCalls(t, "GetParameter", 2)
}
