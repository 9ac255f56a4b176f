// Package config resolves the emitter configuration once at startup.
//
// # Configuration Hierarchy
//
// Sources are applied in priority order (highest wins):
//  1. Default values in code
//  2. The YAML file named by CHAINY_CONFIG_FILE, when set
//  3. Environment variables
//
// Salt override values are secrets and are read from the environment only.
//
// # Environment Variables
//
//	CHAINY_EVENTS_BUCKET_NAME      destination bucket for event objects
//	CHAINY_ENVIRONMENT             environment tag written into every event (default "unknown")
//	CHAINY_HASH_SALT_PARAMETER     parameter name of the identifier hash salt
//	CHAINY_IP_HASH_SALT_PARAMETER  parameter name of the IP hash salt
//	CHAINY_HASH_SALT               fallback identifier hash salt
//	CHAINY_IP_HASH_SALT            fallback IP hash salt
//	CHAINY_MAX_IN_FLIGHT           concurrent emission limit (0 sizes by runtime)
//	AWS_REGION                     AWS region for SSM and S3
//	LOG_LEVEL                      zap level; defaults by environment when unset
//	PARAMETER_CACHE_TTL            parameter cache TTL as a Go duration (default 5m)
//	ENABLE_METRICS                 expose Prometheus metrics in local mode
//	ENABLE_TRACING                 export OpenTelemetry spans
//	OTEL_EXPORTER_OTLP_ENDPOINT    OTLP/gRPC collector endpoint
//	METRICS_ADDR                   listen address for /metrics (default ":9090")
//
// A missing bucket or salt parameter name is not a load error. Emission
// reports it as a CONFIGURATION error so the triggering request is never
// blocked by analytics configuration.
package config
