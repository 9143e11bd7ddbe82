package services

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// maxLoggedFieldErrors caps how many field errors one log line carries
const maxLoggedFieldErrors = 5

// ServiceLogger logs the outcome of service operations with a common set of attributes
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{logger: logger.With("service", service)}
}

// LogOperation logs a finished operation. Bad input is a warning and anything else failing is an error.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, resourceID uint, duration time.Duration, err error) {
	level, status := slog.LevelInfo, "success"
	switch {
	case err == nil:
	case IsValidation(err):
		level, status = slog.LevelWarn, "invalid"
	case IsNotFound(err):
		level, status = slog.LevelWarn, "not_found"
	default:
		level, status = slog.LevelError, "error"
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if resourceID != 0 {
		attrs = append(attrs, slog.Uint64("resource_id", uint64(resourceID)))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	var fieldErrs ValidationErrors
	if errors.As(err, &fieldErrs) {
		attrs = append(attrs, slog.Int("field_errors", len(fieldErrs)))
		for i, fe := range fieldErrs {
			if i == maxLoggedFieldErrors {
				break
			}
			attrs = append(attrs, slog.String("field."+fe.Field, fe.Message))
		}
	}

	l.logger.LogAttrs(ctx, level, operation+" "+status, attrs...)
}

// OperationLog times one operation from WithOperation until LogResult
type OperationLog struct {
	parent    *ServiceLogger
	ctx       context.Context
	operation string
	started   time.Time
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string) *OperationLog {
	return &OperationLog{parent: l, ctx: ctx, operation: operation, started: time.Now()}
}

func (o *OperationLog) LogResult(resourceID uint, err error) {
	o.parent.LogOperation(o.ctx, o.operation, resourceID, time.Since(o.started), err)
}
