package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

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
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
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

// AuthorizeTenant checks the actor belongs to the tenant it is acting on.
// Super admins and the system actor may act on any tenant.
func (s *BaseService) AuthorizeTenant(ctx context.Context, actor domain.Actor, tenantID string) error {
	if actor.IsSuperAdmin || actor.IsSystem {
		return nil
	}
	if actor.TenantID == "" || actor.TenantID != tenantID {
		s.LogWarn(ctx, "Actor attempted to act on another tenant",
			slog.String("user_id", actor.UserID),
			slog.String("actor_tenant_id", actor.TenantID),
			slog.String("tenant_id", tenantID))
		return fmt.Errorf("%w: actor does not belong to tenant %s", apperrors.ErrPermission, tenantID)
	}
	return nil
}

// actorAttrs returns the log attributes identifying an actor.
func actorAttrs(actor domain.Actor) []any {
	return []any{
		slog.String("user_id", actor.UserID),
		slog.String("tenant_id", actor.TenantID),
	}
}
