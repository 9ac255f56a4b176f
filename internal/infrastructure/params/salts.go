package params

import (
	"context"
	"fmt"

	pipelineerrors "chainy-backend/internal/errors"
	"chainy-backend/internal/infrastructure/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Salts are the two independent secrets mixed into sanitizer hashes. They are
// resolved per emission and never persisted.
type Salts struct {
	HashSalt   string
	IPHashSalt string
}

// SaltConfig names the salt parameters and the optional fallback values
type SaltConfig struct {
	HashSaltParameter   string
	IPHashSaltParameter string

	HashSaltOverride   string
	IPHashSaltOverride string
}

// Configuration keys reported in CONFIGURATION errors
const (
	HashSaltParameterKey   = "CHAINY_HASH_SALT_PARAMETER"
	IPHashSaltParameterKey = "CHAINY_IP_HASH_SALT_PARAMETER"
)

// ParameterGetter is satisfied by Cache
type ParameterGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// SaltResolver resolves Salts through the parameter cache
type SaltResolver struct {
	params  ParameterGetter
	config  SaltConfig
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewSaltResolver creates a salt resolver
func NewSaltResolver(params ParameterGetter, config SaltConfig, logger *zap.Logger, metrics *observability.Metrics) *SaltResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaltResolver{
		params:  params,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

// Resolve fetches both salts in parallel. If either fetch fails, the
// configured overrides are used when both are set; otherwise the result is a
// SALT_RESOLUTION error wrapping the fetch failure.
func (r *SaltResolver) Resolve(ctx context.Context) (Salts, error) {
	if r.config.HashSaltParameter == "" {
		return Salts{}, pipelineerrors.NewConfigurationError(HashSaltParameterKey)
	}
	if r.config.IPHashSaltParameter == "" {
		return Salts{}, pipelineerrors.NewConfigurationError(IPHashSaltParameterKey)
	}

	var salts Salts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		value, err := r.params.GetParameter(gctx, r.config.HashSaltParameter)
		if err != nil {
			return fmt.Errorf("hash salt: %w", err)
		}
		salts.HashSalt = value
		return nil
	})
	g.Go(func() error {
		value, err := r.params.GetParameter(gctx, r.config.IPHashSaltParameter)
		if err != nil {
			return fmt.Errorf("ip hash salt: %w", err)
		}
		salts.IPHashSalt = value
		return nil
	})

	err := g.Wait()
	if err == nil {
		return salts, nil
	}

	if r.config.HashSaltOverride != "" && r.config.IPHashSaltOverride != "" {
		r.logger.Warn("Falling back to configured hash salts", zap.Error(err))
		r.metrics.RecordSaltFallback()
		return Salts{
			HashSalt:   r.config.HashSaltOverride,
			IPHashSalt: r.config.IPHashSaltOverride,
		}, nil
	}

	return Salts{}, pipelineerrors.NewSaltResolutionError(err)
}
