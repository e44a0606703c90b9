package policy

import (
	"context"
	"math/rand/v2"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

const (
	// DefaultQueryProbability is the chance the random decider abandons the page.
	DefaultQueryProbability = 0.25

	// DefaultContinueProbability is the chance the random response decider keeps talking.
	DefaultContinueProbability = 0.5

	// DefaultDepth is how many snippets the fixed-depth decider examines per query.
	DefaultDepth = 10
)

// RandomStopping issues a new query with probability P and otherwise
// examines the next snippet.
type RandomStopping struct {
	P    float64
	Rand *rand.Rand
}

// Decide implements ports.StoppingDecider.
func (r *RandomStopping) Decide(ctx context.Context, m ports.Memory) (domain.Action, error) {
	if r.Rand.Float64() > r.P {
		return domain.ActionSnippet, nil
	}
	return domain.ActionQuery, nil
}

// FixedDepth examines snippets until Depth results of the page were seen,
// then issues a new query.
type FixedDepth struct {
	Depth int
}

// Decide implements ports.StoppingDecider.
func (f *FixedDepth) Decide(ctx context.Context, m ports.Memory) (domain.Action, error) {
	if m.SERPPosition() >= f.Depth {
		return domain.ActionQuery, nil
	}
	return domain.ActionSnippet, nil
}

// RandomResponseStopping continues the conversation with probability P.
type RandomResponseStopping struct {
	P    float64
	Rand *rand.Rand
}

// Decide implements ports.ResponseDecider.
func (r *RandomResponseStopping) Decide(ctx context.Context, m ports.Memory) (domain.Action, error) {
	if r.Rand.Float64() < r.P {
		return domain.ActionUtterance, nil
	}
	return domain.ActionStop, nil
}

// FixedTurns stops once the given number of utterances was issued.
type FixedTurns struct {
	Turns int
}

// Decide implements ports.ResponseDecider.
func (f *FixedTurns) Decide(ctx context.Context, m ports.Memory) (domain.Action, error) {
	if len(m.IssuedUtterances()) >= f.Turns {
		return domain.ActionStop, nil
	}
	return domain.ActionUtterance, nil
}

var (
	_ ports.StoppingDecider = (*RandomStopping)(nil)
	_ ports.StoppingDecider = (*FixedDepth)(nil)
	_ ports.ResponseDecider = (*RandomResponseStopping)(nil)
	_ ports.ResponseDecider = (*FixedTurns)(nil)
)
