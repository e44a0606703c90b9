package policy

import (
	"context"
	"math/rand/v2"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// Fixed judges every item the same way. With Relevant set it is the
// TREC-style classifier that considers everything relevant.
type Fixed[T any] struct {
	Relevant bool
}

// IsRelevant returns the fixed judgment.
func (f *Fixed[T]) IsRelevant(ctx context.Context, item T) (bool, error) {
	return f.Relevant, nil
}

// UpdateModel implements ports.ModelUpdater.
func (f *Fixed[T]) UpdateModel(ctx context.Context, m ports.Memory) error {
	return nil
}

// Random judges an item relevant with probability P.
type Random[T any] struct {
	P    float64
	Rand *rand.Rand
}

// IsRelevant draws a judgment.
func (r *Random[T]) IsRelevant(ctx context.Context, item T) (bool, error) {
	return r.Rand.Float64() < r.P, nil
}

// UpdateModel implements ports.ModelUpdater.
func (r *Random[T]) UpdateModel(ctx context.Context, m ports.Memory) error {
	return nil
}

var (
	_ ports.SnippetClassifier  = (*Fixed[domain.Result])(nil)
	_ ports.DocumentClassifier = (*Fixed[domain.Document])(nil)
	_ ports.ResponseClassifier = (*Fixed[domain.Response])(nil)
	_ ports.SnippetClassifier  = (*Random[domain.Result])(nil)
	_ ports.DocumentClassifier = (*Random[domain.Document])(nil)
	_ ports.ResponseClassifier = (*Random[domain.Response])(nil)
)
