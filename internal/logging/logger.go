package logging

import (
	"go.uber.org/zap"
)

// NewLogger builds a production ready structured logger.
func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	return cfg.Build()
}

// WithOperation enriches the logger with operation and alert identifiers.
func WithOperation(logger *zap.Logger, operation, alertID string) *zap.Logger {
	fields := []zap.Field{zap.String("operation", operation)}
	if alertID != "" {
		fields = append(fields, zap.String("alert_id", alertID))
	}
	return logger.With(fields...)
}
