package main

import (
	"context"

	"chainy-backend/internal/di"
	pipelineerrors "chainy-backend/internal/errors"
	"chainy-backend/internal/events"
	"chainy-backend/internal/infrastructure/observability"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"
)

// Response reports the outcome of one invocation
type Response struct {
	DispatchID string `json:"dispatchId"`
	Status     string `json:"status"`
	ErrorType  string `json:"errorType,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Handler serves emitter invocations
type Handler struct {
	container  *di.Container
	propagator *observability.TracePropagator
}

// NewHandler creates a Handler over container
func NewHandler(container *di.Container) *Handler {
	return &Handler{
		container:  container,
		propagator: observability.NewTracePropagator(),
	}
}

// Handle emits req and waits for the write to finish before returning, so the
// runtime is not frozen mid-write. Emission failures are reported in the
// response and never as an invocation error, so asynchronous invocations are
// not retried.
func (h *Handler) Handle(ctx context.Context, req events.RawEventRequest) (Response, error) {
	logger := h.container.Logger.With(
		zap.Bool("cold_start", h.container.ColdStart.MarkInvocation()),
	)
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With(zap.String("request_id", lc.AwsRequestID))
	}

	ctx = h.propagator.Extract(ctx, req.TraceContext)
	result := <-h.container.Dispatcher.Dispatch(ctx, req)
	h.container.Flush(ctx)

	resp := Response{DispatchID: result.ID.String(), Status: "emitted"}
	if result.Err != nil {
		resp.Status = "failed"
		resp.Error = result.Err.Error()
		resp.ErrorType = string(pipelineerrors.TypeOf(result.Err))
	}

	logger.Info("Invocation completed",
		zap.String("dispatch_id", resp.DispatchID),
		zap.String("event_type", req.EventType),
		zap.String("code", req.Code),
		zap.String("status", resp.Status),
		zap.String("error_type", resp.ErrorType),
		zap.Duration("duration", result.Duration),
	)
	return resp, nil
}
