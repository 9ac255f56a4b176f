package observability

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys
const (
	AttrEventType     = attribute.Key("event.type")
	AttrEventCode     = attribute.Key("event.code")
	AttrEnvironment   = attribute.Key("deployment.environment")
	AttrStorageKey    = attribute.Key("storage.key")
	AttrStorageBucket = attribute.Key("storage.bucket")
	AttrParameterName = attribute.Key("parameter.name")
)

// EventAttributes returns the attributes identifying one emission
func EventAttributes(eventType, code, environment string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrEventType.String(eventType),
		AttrEventCode.String(code),
		AttrEnvironment.String(environment),
	}
}
