package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/searchsim/pkg/domain"
)

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			logger.Debug("Session Start", "session_id", e.SessionID, "workflow", e.Workflow)
		},
		OnInfo: func(ctx context.Context, e *domain.InfoEvent) {
			logger.Debug("Session Notice", "session_id", e.SessionID, "kind", e.Kind)
		},
		OnSessionEnd: func(ctx context.Context, e *domain.SessionEvent) {
			logger.Debug("Session End", "session_id", e.SessionID, "reason", e.Reason, "total_cost", e.TotalCost)
		},
	}
}
