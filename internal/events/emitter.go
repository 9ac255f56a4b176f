package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	pipelineerrors "chainy-backend/internal/errors"
	"chainy-backend/internal/infrastructure/observability"
	"chainy-backend/internal/infrastructure/params"
	"chainy-backend/internal/infrastructure/storage"
	"chainy-backend/internal/partition"
	"chainy-backend/internal/sanitize"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// BucketNameKey is reported when no events bucket is configured
const BucketNameKey = "CHAINY_EVENTS_BUCKET_NAME"

// SaltSource resolves the salts for one emission
type SaltSource interface {
	Resolve(ctx context.Context) (params.Salts, error)
}

// EmitterConfig is the static destination of every emission
type EmitterConfig struct {
	BucketName  string
	Environment string
}

// Emitter sanitizes a domain event and writes it as one JSON line
type Emitter struct {
	config EmitterConfig
	salts  SaltSource
	store  storage.BlobStore
	now    func() time.Time

	logger  *zap.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// EmitterOption configures an Emitter
type EmitterOption func(*Emitter)

// WithClock injects the time source used for the key and emitted_at
func WithClock(now func() time.Time) EmitterOption {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the emitter logger
func WithLogger(logger *zap.Logger) EmitterOption {
	return func(e *Emitter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records emission outcomes
func WithMetrics(metrics *observability.Metrics) EmitterOption {
	return func(e *Emitter) {
		e.metrics = metrics
	}
}

// WithTracer overrides the global pipeline tracer
func WithTracer(tracer trace.Tracer) EmitterOption {
	return func(e *Emitter) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// NewEmitter creates an Emitter
func NewEmitter(config EmitterConfig, salts SaltSource, store storage.BlobStore, opts ...EmitterOption) *Emitter {
	if config.Environment == "" {
		config.Environment = "unknown"
	}
	e := &Emitter{
		config: config,
		salts:  salts,
		store:  store,
		now:    time.Now,
		logger: zap.NewNop(),
		tracer: observability.Tracer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit persists one sanitized event. Raw identifying values in detail never
// reach the store. A failed write is returned and not retried.
func (e *Emitter) Emit(ctx context.Context, eventType, code string, detail map[string]any) (err error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "events.Emit",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(observability.EventAttributes(eventType, code, e.config.Environment)...),
	)
	defer func() {
		e.finish(span, eventType, code, time.Since(start), err)
	}()

	if err = validate(eventType, code); err != nil {
		return err
	}
	if e.config.BucketName == "" {
		return pipelineerrors.NewConfigurationError(BucketNameKey)
	}

	salts, err := e.salts.Resolve(ctx)
	if err != nil {
		return err
	}

	ts := e.now()
	key := partition.BuildKey(eventType, code, ts)
	span.SetAttributes(
		observability.AttrStorageBucket.String(e.config.BucketName),
		observability.AttrStorageKey.String(key),
	)

	body, err := e.encode(eventType, code, ts, sanitize.Sanitize(detail, salts.HashSalt, salts.IPHashSalt))
	if err != nil {
		return err
	}

	return e.store.Put(ctx, e.config.BucketName, key, body, storage.ContentTypeJSON)
}

// encode builds the stored payload and serializes it as one JSON line.
// Encode terminates the line with \n.
func (e *Emitter) encode(eventType, code string, ts time.Time, sanitized map[string]any) ([]byte, error) {
	payload := make(map[string]any, len(sanitized)+4)
	for k, v := range sanitized {
		payload[k] = v
	}
	payload[KeyEventType] = eventType
	payload[KeyCode] = code
	payload[KeyEnvironment] = e.config.Environment
	payload[KeyEmittedAt] = ts.UTC().Format(EmittedAtLayout)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, pipelineerrors.NewValidationError(fmt.Sprintf("event detail is not serializable: %v", err))
	}
	return buf.Bytes(), nil
}

func (e *Emitter) finish(span trace.Span, eventType, code string, duration time.Duration, err error) {
	defer span.End()

	if err == nil {
		span.SetStatus(codes.Ok, "")
		e.metrics.RecordEmission(eventType, observability.StatusSuccess, "", duration)
		e.logger.Debug("Event emitted",
			zap.String("event_type", eventType),
			zap.String("code", code),
			zap.Duration("duration", duration),
		)
		return
	}

	errorType := string(pipelineerrors.TypeOf(err))
	span.RecordError(err)
	span.SetStatus(codes.Error, errorType)
	e.metrics.RecordEmission(eventType, observability.StatusFailure, errorType, duration)
	e.logger.Error("Event emission failed", append([]zap.Field{
		zap.String("event_type", eventType),
		zap.String("code", code),
		zap.Duration("duration", duration),
	}, pipelineerrors.LogFields(err)...)...)
}
