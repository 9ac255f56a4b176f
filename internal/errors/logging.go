package errors

import "go.uber.org/zap"

// ErrorTypeUnknown labels errors that did not originate in the pipeline
const ErrorTypeUnknown ErrorType = "UNKNOWN"

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	if pipelineErr := GetError(err); pipelineErr != nil {
		return pipelineErr.Type
	}
	return ErrorTypeUnknown
}

// LogFields returns the structured logging fields describing err
func LogFields(err error) []zap.Field {
	if err == nil {
		return nil
	}

	fields := []zap.Field{
		zap.String("error_type", string(TypeOf(err))),
		zap.Error(err),
	}
	if pipelineErr := GetError(err); pipelineErr != nil && pipelineErr.Cause != nil {
		fields = append(fields, zap.NamedError("cause", pipelineErr.Cause))
	}
	return fields
}
