// Package observability provides the logging, metrics and tracing used by the
// emission pipeline.
//
// Metrics are Prometheus collectors on a private registry; a nil *Metrics
// records nothing, so components accept one unconditionally. Spans are
// exported over OTLP/gRPC once InitTracing has installed a provider; before
// that the global tracer is a no-op.
//
// Trace context crosses the asynchronous hop from link handlers to the
// emitter inside the request payload:
//
//	carrier := observability.NewTracePropagator().Inject(ctx)
//	req := events.RawEventRequest{EventType: "link_click", Code: code, TraceContext: carrier}
package observability
