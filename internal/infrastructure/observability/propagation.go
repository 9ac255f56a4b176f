package observability

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
)

// TracePropagator carries W3C trace context and baggage across the
// asynchronous invocation of the emitter
type TracePropagator struct {
	propagator propagation.TextMapPropagator
}

// NewTracePropagator creates a propagator for W3C Trace Context and Baggage
func NewTracePropagator() *TracePropagator {
	return &TracePropagator{
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
}

// TextMapPropagator returns the underlying propagator
func (p *TracePropagator) TextMapPropagator() propagation.TextMapPropagator {
	return p.propagator
}

// Inject returns the trace context of ctx as a string map. The map is empty
// when ctx carries no valid span.
func (p *TracePropagator) Inject(ctx context.Context) map[string]string {
	carrier := make(propagation.MapCarrier)
	p.propagator.Inject(ctx, carrier)
	return carrier
}

// Extract returns parent with the trace context found in carrier
func (p *TracePropagator) Extract(parent context.Context, carrier map[string]string) context.Context {
	if len(carrier) == 0 {
		return parent
	}
	return p.propagator.Extract(parent, propagation.MapCarrier(carrier))
}
