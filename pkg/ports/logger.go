package ports

import (
	"context"
	"log/slog"

	"github.com/aretw0/searchsim/pkg/domain"
)

// ActionLogger charges actions to a session and owns the finished predicate.
type ActionLogger interface {
	// Start marks the beginning of the session.
	Start(ctx context.Context)

	// LogAction charges the action's cost and records it.
	// Unknown actions are logged and otherwise ignored.
	LogAction(ctx context.Context, action domain.Action, attrs ...slog.Attr)

	// LogInfo records a non-action notice such as OUT_OF_QUERIES.
	LogInfo(ctx context.Context, kind string, attrs ...slog.Attr)

	// QueriesExhausted tells the logger that no more queries or utterances remain.
	QueriesExhausted()

	// IsFinished reports whether the session must end. Once true it stays true.
	IsFinished() bool
}

// ActionSelector is the capability shared by every session-driving engine.
// Each call executes at most one action.
type ActionSelector interface {
	DecideAction(ctx context.Context) error
}
