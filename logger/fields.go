package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
const (
	FieldRunID       = "run_id"
	FieldComponent   = "component"
	FieldSource      = "source"
	FieldSpace       = "space_id"
	FieldEnvironment = "environment_id"
	FieldContentType = "content_type"
	FieldCount       = "count"
	FieldTotal       = "total"
	FieldFile        = "file"
	FieldBytes       = "bytes"
	FieldDurationMS  = "duration_ms"
	FieldStatus      = "status"
	FieldURL         = "url"
	FieldError       = "error"
)

type contextKey string

const runIDKey contextKey = "logger_run_id"

// WithRunID adds a generation run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run ID stored by WithRunID, or "".
func RunIDFromContext(ctx context.Context) string {
	runID, _ := ctx.Value(runIDKey).(string)
	return runID
}

// FromContext returns base (or the global logger when nil) annotated with
// the fields carried by ctx.
func FromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	if runID := RunIDFromContext(ctx); runID != "" {
		return base.With(FieldRunID, runID)
	}
	return base
}
