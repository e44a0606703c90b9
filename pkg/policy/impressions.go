package policy

import (
	"context"
	"math/rand/v2"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// DefaultAttractiveness is the probability a random impression finds a page attractive.
const DefaultAttractiveness = 0.9

// RandomImpression finds a result page attractive with probability P.
type RandomImpression[T any] struct {
	P    float64
	Rand *rand.Rand
}

// IsAttractive draws an impression.
func (r *RandomImpression[T]) IsAttractive(ctx context.Context, page T) (bool, error) {
	return r.Rand.Float64() < r.P, nil
}

// FixedImpression always gives the same impression.
type FixedImpression[T any] struct {
	Attractive bool
}

// IsAttractive returns the fixed impression.
func (f *FixedImpression[T]) IsAttractive(ctx context.Context, page T) (bool, error) {
	return f.Attractive, nil
}

var (
	_ ports.SERPImpression = (*RandomImpression[*domain.ResultPage])(nil)
	_ ports.CSRPImpression = (*RandomImpression[*domain.Response])(nil)
	_ ports.SERPImpression = (*FixedImpression[*domain.ResultPage])(nil)
	_ ports.CSRPImpression = (*FixedImpression[*domain.Response])(nil)
)
