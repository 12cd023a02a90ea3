package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/events"
	"github.com/SscSPs/finance_manager/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// Clock returns the current time. Defaults to time.Now in UTC.
	Clock func() time.Time

	// Events receives domain events and change notifications. Nil disables publishing.
	Events events.Publisher
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// Now returns the service clock's current time.
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock()
}

// Publish sends the given events in order. It is a no-op without a publisher.
func (s *BaseService) Publish(ctx context.Context, evts ...events.Event) {
	if s.Events == nil {
		return
	}
	for _, e := range evts {
		s.Events.Publish(ctx, e)
	}
}

// changed builds the change notification for an entity write.
func changed(eventType events.EventType, id int64, action string) events.Event {
	return events.New(eventType, events.ChangePayload{EntityID: id, Action: action})
}

// invalid wraps a domain validation failure so callers can match apperrors.ErrValidation.
func invalid(err error) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
}
