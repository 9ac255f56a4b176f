package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Production-like environments get JSON
// output; anything else gets the development encoder. When level is empty it
// defaults by environment: development logs debug, staging info, production warn.
func NewLogger(environment, level, function string) (*zap.Logger, error) {
	var cfg zap.Config
	if isDeployed(environment) {
		cfg = zap.NewProductionConfig()
		// Sample to prevent log flooding on hot paths
		cfg.Sampling = &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	lvl, err := zapcore.ParseLevel(levelFor(environment, level))
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.InitialFields = map[string]interface{}{
		"function":    function,
		"environment": environment,
	}

	return cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
}

func isDeployed(environment string) bool {
	switch strings.ToLower(environment) {
	case "dev", "development", "local", "test":
		return false
	default:
		return true
	}
}

func levelFor(environment, level string) string {
	if level != "" {
		return level
	}
	switch strings.ToLower(environment) {
	case "dev", "development", "local", "test":
		return "debug"
	case "stage", "staging":
		return "info"
	default:
		return "warn"
	}
}
