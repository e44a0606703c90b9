// Package memory provides an in-process ReportStore.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// Store keeps reports in a map. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	reports map[string]*domain.Report
}

var _ ports.ReportStore = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{reports: make(map[string]*domain.Report)}
}

// Save stores a copy of the report.
func (s *Store) Save(ctx context.Context, sessionID string, report *domain.Report) error {
	c := clone(report)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[sessionID] = c
	return nil
}

// Load returns a copy of the stored report.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(r), nil
}

// Delete removes a report. Unknown IDs are ignored.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, sessionID)
	return nil
}

// List returns the stored session IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.reports))
	for id := range s.reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func clone(r *domain.Report) *domain.Report {
	c := *r
	c.Actions = append([]domain.Action(nil), r.Actions...)
	c.Queries = append([]string(nil), r.Queries...)
	c.Utterances = append([]string(nil), r.Utterances...)
	return &c
}
