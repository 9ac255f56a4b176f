// Package di wires the emission pipeline from configuration.
package di

import (
	"context"
	"fmt"
	"os"
	"time"

	"chainy-backend/internal/config"
	"chainy-backend/internal/events"
	"chainy-backend/internal/infrastructure/concurrency"
	"chainy-backend/internal/infrastructure/observability"
	"chainy-backend/internal/infrastructure/params"
	"chainy-backend/internal/infrastructure/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	awsS3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awsSSM "github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"
)

// MetricsNamespace prefixes every Prometheus metric
const MetricsNamespace = "chainy"

// Container holds the process-wide pipeline components. It is built once per
// process (once per Lambda instance) and shared by every invocation.
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *observability.Metrics
	Tracing   *observability.TracerProvider
	ColdStart *ColdStartTracker

	ParameterStore params.Store
	Parameters     *params.Cache
	Salts          *params.SaltResolver
	BlobStore      storage.BlobStore
	Emitter        *events.Emitter
	Dispatcher     *events.Dispatcher

	awsConfig         *aws.Config
	shutdownFunctions []func(context.Context) error
}

// Option overrides a component before the pipeline is assembled
type Option func(*Container)

// WithLogger uses logger instead of building one from configuration
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) { c.Logger = logger }
}

// WithParameterStore replaces the SSM parameter store
func WithParameterStore(store params.Store) Option {
	return func(c *Container) { c.ParameterStore = store }
}

// WithBlobStore replaces the S3 blob store
func WithBlobStore(store storage.BlobStore) Option {
	return func(c *Container) { c.BlobStore = store }
}

// NewContainer creates and initializes the container
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	c := &Container{
		Config:    cfg,
		ColdStart: NewColdStartTracker(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	return c, nil
}

// initialize sets up all dependencies in the correct order
func (c *Container) initialize(ctx context.Context) error {
	// 1. Logging
	if err := c.initializeLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 2. Metrics and tracing
	c.initializeObservability(ctx)

	// 3. Stores
	if err := c.initializeStores(ctx); err != nil {
		return fmt.Errorf("failed to initialize stores: %w", err)
	}

	// 4. Pipeline
	c.initializePipeline()

	c.Logger.Info("Dependency injection container initialized",
		zap.Strings("config_sources", c.Config.LoadedFrom),
		zap.String("bucket", c.Config.EventsBucketName),
		zap.Bool("salt_fallback", c.Config.HasSaltFallback()),
		zap.Duration("init_duration", c.ColdStart.GetTimeSinceColdStart()),
	)
	return nil
}

func (c *Container) initializeLogger() error {
	if c.Logger != nil {
		return nil
	}
	function := os.Getenv("AWS_LAMBDA_FUNCTION_NAME")
	if function == "" {
		function = "chainy-emitter"
	}
	logger, err := observability.NewLogger(c.Config.Environment, c.Config.LogLevel, function)
	if err != nil {
		return err
	}
	c.Logger = logger
	c.addShutdownFunction(func(context.Context) error {
		_ = c.Logger.Sync()
		return nil
	})
	return nil
}

func (c *Container) initializeObservability(ctx context.Context) {
	if c.Config.EnableMetrics {
		c.Metrics = observability.NewMetrics(MetricsNamespace)
	}

	if !c.Config.EnableTracing {
		return
	}
	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: "chainy-emitter",
		Environment: c.Config.Environment,
		Endpoint:    c.Config.OTLPEndpoint,
	})
	if err != nil {
		// Tracing is optional; emission continues without it
		c.Logger.Warn("Failed to initialize tracing", zap.Error(err))
		return
	}
	c.Tracing = tp
	c.addShutdownFunction(tp.Shutdown)
}

func (c *Container) initializeStores(ctx context.Context) error {
	if c.ParameterStore == nil {
		awsCfg, err := c.loadAWSConfig(ctx)
		if err != nil {
			return err
		}
		client := awsSSM.NewFromConfig(*awsCfg, func(o *awsSSM.Options) {
			o.RetryMaxAttempts = 3
		})
		c.ParameterStore = params.NewBreakerStore(
			params.NewSSMStore(client, c.Logger),
			params.DefaultBreakerConfig("ssm-parameters"),
			c.Logger,
			c.Metrics,
		)
	}

	if c.BlobStore == nil {
		awsCfg, err := c.loadAWSConfig(ctx)
		if err != nil {
			return err
		}
		client := awsS3.NewFromConfig(*awsCfg, func(o *awsS3.Options) {
			o.RetryMaxAttempts = 3
		})
		c.BlobStore = storage.NewS3Store(client, c.Logger)
	}
	return nil
}

// loadAWSConfig loads the shared AWS configuration once
func (c *Container) loadAWSConfig(ctx context.Context) (*aws.Config, error) {
	if c.awsConfig != nil {
		return c.awsConfig, nil
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(c.Config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	c.awsConfig = &awsCfg
	c.Logger.Debug("AWS config loaded",
		zap.String("region", awsCfg.Region),
		zap.Duration("duration", time.Since(start)),
	)
	return c.awsConfig, nil
}

func (c *Container) initializePipeline() {
	c.Parameters = params.NewCache(c.ParameterStore,
		params.WithTTL(c.Config.ParameterCacheTTL),
		params.WithLogger(c.Logger),
		params.WithMetrics(c.Metrics),
	)

	c.Salts = params.NewSaltResolver(c.Parameters, params.SaltConfig{
		HashSaltParameter:   c.Config.HashSaltParameter,
		IPHashSaltParameter: c.Config.IPHashSaltParameter,
		HashSaltOverride:    c.Config.HashSalt,
		IPHashSaltOverride:  c.Config.IPHashSalt,
	}, c.Logger, c.Metrics)

	emitterOpts := []events.EmitterOption{
		events.WithLogger(c.Logger),
		events.WithMetrics(c.Metrics),
	}
	if c.Tracing != nil {
		emitterOpts = append(emitterOpts, events.WithTracer(c.Tracing.Tracer()))
	}
	c.Emitter = events.NewEmitter(events.EmitterConfig{
		BucketName:  c.Config.EventsBucketName,
		Environment: c.Config.Environment,
	}, c.Salts, c.BlobStore, emitterOpts...)

	maxInFlight := c.Config.MaxInFlight
	if maxInFlight == 0 {
		maxInFlight = concurrency.MaxInFlight(concurrency.DetectEnvironment())
	}
	c.Dispatcher = events.NewDispatcher(c.Emitter, maxInFlight, c.Logger)
}

// Flush waits for in-flight emissions and exports buffered spans. Lambda
// freezes the process as soon as the handler returns.
func (c *Container) Flush(ctx context.Context) {
	c.Dispatcher.Wait()
	if c.Tracing != nil {
		if err := c.Tracing.ForceFlush(ctx); err != nil {
			c.Logger.Warn("Failed to flush spans", zap.Error(err))
		}
	}
}

// addShutdownFunction adds a function to be called during container shutdown
func (c *Container) addShutdownFunction(fn func(context.Context) error) {
	c.shutdownFunctions = append(c.shutdownFunctions, fn)
}

// Shutdown waits for in-flight emissions and releases resources in reverse
// order of creation
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Dispatcher != nil {
		c.Dispatcher.Wait()
	}

	var errs []error
	for i := len(c.shutdownFunctions) - 1; i >= 0; i-- {
		if err := c.shutdownFunctions[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}
	return nil
}
