// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// Context keys for logging
const (
	CorrelationID LogContextKey = "correlation_id"
	TraceID       LogContextKey = "trace_id"
)

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id := ctx.Value(CorrelationID); id != nil {
		return id.(string)
	}
	return ""
}

// WorkflowLogger provides structured logging for workflow transitions.
type WorkflowLogger struct {
	entity string
	logger *Logger
}

// NewWorkflowLogger creates a new WorkflowLogger for the given entity type.
func NewWorkflowLogger(entity string) *WorkflowLogger {
	return &WorkflowLogger{
		entity: entity,
		logger: GlobalLogger,
	}
}

// LogTransition logs an accepted workflow transition.
func (l *WorkflowLogger) LogTransition(ctx context.Context, id uint, from, to string, actorID uint) {
	l.logger.InfoContext(ctx, "workflow transition",
		slog.String("entity", l.entity),
		slog.Any("id", id),
		slog.String("from", from),
		slog.String("to", to),
		slog.Any("actor_id", actorID),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogRejected logs a rejected workflow transition with its reason code.
func (l *WorkflowLogger) LogRejected(ctx context.Context, id uint, target, code string, actorID uint) {
	l.logger.WarnContext(ctx, "workflow transition rejected",
		slog.String("entity", l.entity),
		slog.Any("id", id),
		slog.String("target", target),
		slog.String("code", code),
		slog.Any("actor_id", actorID),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}
