package cost

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/searchsim/internal/logging"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// Logger is the cost-aware ActionLogger used by every engine.
// It charges each logged action to a Tracker, writes one structured log line
// per event and forwards events to the lifecycle hooks.
type Logger struct {
	tracker   *Tracker
	memory    ports.Memory
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	sessionID string
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) LoggerOption {
	return func(l *Logger) {
		l.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) LoggerOption {
	return func(l *Logger) {
		l.hooks = hooks
	}
}

// WithSessionID stamps events with the session identifier.
func WithSessionID(id string) LoggerOption {
	return func(l *Logger) {
		l.sessionID = id
	}
}

// NewLogger creates a Logger charging actions to tracker.
// memory supplies the current action for the finished predicate.
func NewLogger(tracker *Tracker, memory ports.Memory, opts ...LoggerOption) *Logger {
	l := &Logger{
		tracker: tracker,
		memory:  memory,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.sessionID != "" {
		l.logger = l.logger.With("session_id", l.sessionID)
	}
	return l
}

var _ ports.ActionLogger = (*Logger)(nil)

// Start logs the beginning of the session.
func (l *Logger) Start(ctx context.Context) {
	l.logger.InfoContext(ctx, "session started", "cost_limit", l.tracker.Limit())
}

// LogAction charges the action and emits an action event.
// Logging STOP sets the explicit stop flag.
func (l *Logger) LogAction(ctx context.Context, action domain.Action, attrs ...slog.Attr) {
	c, ok := l.tracker.Record(action)
	if !ok {
		l.logger.WarnContext(ctx, "unrecognized action", "action", action.String())
		return
	}
	if action == domain.ActionStop {
		l.tracker.Stop()
	}

	var status string
	args := make([]any, 0, len(attrs)+3)
	args = append(args,
		slog.String("action", action.String()),
		slog.Float64("cost", c),
		slog.Float64("total_cost", l.tracker.Total()),
	)
	for _, a := range attrs {
		if a.Key == "status" {
			status = a.Value.String()
		}
		args = append(args, a)
	}
	l.logger.InfoContext(ctx, "action", args...)

	if l.hooks.OnAction != nil {
		l.hooks.OnAction(ctx, &domain.ActionEvent{
			EventBase: l.base(domain.EventAction),
			Action:    action,
			Cost:      c,
			TotalCost: l.tracker.Total(),
			Status:    status,
		})
	}
}

// LogInfo emits a non-action notice.
func (l *Logger) LogInfo(ctx context.Context, kind string, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("kind", kind))
	for _, a := range attrs {
		args = append(args, a)
	}
	l.logger.InfoContext(ctx, "info", args...)

	if l.hooks.OnInfo != nil {
		l.hooks.OnInfo(ctx, &domain.InfoEvent{EventBase: l.base(domain.EventInfo), Kind: kind})
	}
}

// QueriesExhausted marks the session as out of queries or utterances.
func (l *Logger) QueriesExhausted() {
	l.tracker.Exhaust()
}

// Stop marks an explicit stop.
func (l *Logger) Stop() {
	l.tracker.Stop()
}

// IsFinished reports whether the session must end.
func (l *Logger) IsFinished() bool {
	last := domain.ActionStart
	if l.memory != nil {
		last = l.memory.LastAction()
	}
	return l.tracker.Finished(last)
}

// Tracker exposes the underlying cost tracker.
func (l *Logger) Tracker() *Tracker {
	return l.tracker
}

func (l *Logger) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, SessionID: l.sessionID}
}
