// Package observability provides structured logging and Prometheus metrics
// for the editor service.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/roomgraph/internal/config"
)

// ServiceName is attached to every log entry as the "service" field.
const ServiceName = "roomgraph"

// NewLogger creates a structured logger for one binary. The logger is named
// component and every entry carries the service and component fields.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig, component string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Output != "" {
		zapCfg.OutputPaths = []string{cfg.Output}
	}
	zapCfg.InitialFields = map[string]any{
		"service":   ServiceName,
		"component": component,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named(component), nil
}

// WithGraph scopes logger to one graph document.
func WithGraph(logger *zap.Logger, graphID string) *zap.Logger {
	return logger.With(zap.String("graph", graphID))
}
