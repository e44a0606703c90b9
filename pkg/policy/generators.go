package policy

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/aretw0/searchsim/pkg/ports"
)

// ListQueries issues a fixed list of queries in order, skipping any already
// issued. It honours the session's query limit.
type ListQueries struct {
	Queries []string
}

// UpdateModel implements ports.ModelUpdater. The list never changes.
func (g *ListQueries) UpdateModel(ctx context.Context, m ports.Memory) error {
	return nil
}

// NextQuery implements ports.QueryGenerator.
func (g *ListQueries) NextQuery(ctx context.Context, m ports.Memory) (string, bool, error) {
	issued := m.IssuedQueries()
	if limit := m.QueryLimit(); limit > 0 && len(issued) >= limit {
		return "", false, nil
	}
	for _, q := range g.Queries {
		if !slices.Contains(issued, q) {
			return q, true, nil
		}
	}
	return "", false, nil
}

// ListUtterances issues a fixed list of utterances in order, skipping any
// already issued. It honours the session's utterance limit.
type ListUtterances struct {
	Utterances []string
}

// UpdateModel implements ports.ModelUpdater.
func (g *ListUtterances) UpdateModel(ctx context.Context, m ports.Memory) error {
	return nil
}

// NextUtterance implements ports.UtteranceGenerator.
func (g *ListUtterances) NextUtterance(ctx context.Context, m ports.Memory) (string, bool, error) {
	issued := m.IssuedUtterances()
	if limit := m.UtteranceLimit(); limit > 0 && len(issued) >= limit {
		return "", false, nil
	}
	for _, u := range g.Utterances {
		if !slices.Contains(issued, u) {
			return u, true, nil
		}
	}
	return "", false, nil
}

// RandomUtterances draws utterances from a pool with replacement.
// Without an utterance limit it never runs dry.
type RandomUtterances struct {
	Utterances []string
	Rand       *rand.Rand
}

// UpdateModel implements ports.ModelUpdater.
func (g *RandomUtterances) UpdateModel(ctx context.Context, m ports.Memory) error {
	return nil
}

// NextUtterance implements ports.UtteranceGenerator.
func (g *RandomUtterances) NextUtterance(ctx context.Context, m ports.Memory) (string, bool, error) {
	if limit := m.UtteranceLimit(); limit > 0 && len(m.IssuedUtterances()) >= limit {
		return "", false, nil
	}
	if len(g.Utterances) == 0 {
		return "", false, nil
	}
	return g.Utterances[g.Rand.IntN(len(g.Utterances))], true, nil
}
