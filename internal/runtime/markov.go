package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/markov"
	"github.com/aretw0/searchsim/pkg/ports"
)

// MarkovSelector samples every next action from a transition chain
// conditioned on the current action. Outcomes do not influence the choice.
type MarkovSelector struct {
	exec    *Executor
	rng     *rand.Rand
	pick    func() (*markov.Chain, markov.QueryChange)
	started bool
	logger  *slog.Logger
}

var _ ports.ActionSelector = (*MarkovSelector)(nil)

// NewMarkovSelector drives the session with a single chain.
func NewMarkovSelector(exec *Executor, chain *markov.Chain, rng *rand.Rand, opts ...Option) (*MarkovSelector, error) {
	if chain == nil {
		return nil, markov.ErrMissingChain
	}
	if err := checkStates(exec, chain); err != nil {
		return nil, err
	}
	return &MarkovSelector{
		exec:   exec,
		rng:    rng,
		pick:   func() (*markov.Chain, markov.QueryChange) { return chain, "" },
		logger: newOptions(opts).logger,
	}, nil
}

// NewQueryChangeSelector drives the session with one chain per query-change
// class, picked by comparing the last two queries. Until two queries exist
// the Repetition chain is used.
func NewQueryChangeSelector(exec *Executor, chains map[markov.QueryChange]*markov.Chain, rng *rand.Rand, opts ...Option) (*MarkovSelector, error) {
	for _, class := range markov.QueryChanges {
		c, ok := chains[class]
		if !ok || c == nil {
			return nil, fmt.Errorf("%w: %s", markov.ErrMissingChain, class)
		}
		if err := checkStates(exec, c); err != nil {
			return nil, fmt.Errorf("%s chain: %w", class, err)
		}
	}

	m := exec.Memory()
	return &MarkovSelector{
		exec: exec,
		rng:  rng,
		pick: func() (*markov.Chain, markov.QueryChange) {
			// With fewer than two queries there is no change to classify yet;
			// an empty previous query would otherwise read as Addition.
			class := markov.Repetition
			if len(m.IssuedQueries()) >= 2 {
				class = markov.ClassifyQueryChange(m.PreviousQuery(), m.LastQuery())
			}
			return chains[class], class
		},
		logger: newOptions(opts).logger,
	}, nil
}

// DecideAction samples and executes one action. The first call starts from
// NONE. After STOP it does nothing.
func (s *MarkovSelector) DecideAction(ctx context.Context) error {
	current := domain.ActionNone
	if s.started {
		current = s.exec.Memory().LastAction()
	}
	s.started = true

	if current == domain.ActionStop {
		return nil
	}
	if current == domain.ActionStart {
		current = domain.ActionNone
	}

	chain, class := s.pick()
	probs, err := chain.NextStateProbabilities(current)
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "transition probabilities", "from", current.String(), "class", string(class), "probabilities", probs)

	next, err := chain.NextState(current, s.rng)
	if err != nil {
		return err
	}
	if next == domain.ActionNone || next == domain.ActionStart {
		next = domain.ActionQuery
	}

	_, err = s.exec.Execute(ctx, next)
	return err
}

func checkStates(exec *Executor, chain *markov.Chain) error {
	for _, s := range chain.States() {
		if s == domain.ActionNone || s == domain.ActionStart {
			s = domain.ActionQuery
		}
		if !exec.Handles(s) {
			return fmt.Errorf("%w: %s", ErrUnsupportedAction, s)
		}
	}
	return nil
}
