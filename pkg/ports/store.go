package ports

import (
	"context"

	"github.com/aretw0/searchsim/pkg/domain"
)

// ReportStore defines the interface for persisting session reports.
type ReportStore interface {
	// Save persists the report for a given session ID.
	Save(ctx context.Context, sessionID string, report *domain.Report) error

	// Load retrieves the report for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Report, error)

	// Delete removes the report for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the stored sessions.
	List(ctx context.Context) ([]string, error)
}
