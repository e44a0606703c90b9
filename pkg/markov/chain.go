package markov

import (
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/searchsim/pkg/domain"
)

// Chain samples successor actions from a validated TransitionMatrix.
// It is read-only after construction.
type Chain struct {
	states []domain.Action
	rows   [][]float64
	index  map[domain.Action]int
}

// NewChain validates m and builds a chain from it.
func NewChain(m TransitionMatrix) (*Chain, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	c := &Chain{
		states: append([]domain.Action(nil), m.States...),
		rows:   make([][]float64, len(m.Rows)),
		index:  make(map[domain.Action]int, len(m.States)),
	}
	for i, s := range c.states {
		c.index[s] = i
		c.rows[i] = append([]float64(nil), m.Rows[i]...)
	}
	return c, nil
}

// States returns the chain's states in matrix order.
func (c *Chain) States() []domain.Action {
	return append([]domain.Action(nil), c.states...)
}

// Has reports whether the state is part of the chain.
func (c *Chain) Has(state domain.Action) bool {
	_, ok := c.index[state]
	return ok
}

func (c *Chain) row(current domain.Action) ([]float64, error) {
	i, ok := c.index[current]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownState, current)
	}
	return c.rows[i], nil
}

// NextState samples the successor of current using rng.
// A row with all its mass on one state always yields that state.
func (c *Chain) NextState(current domain.Action, rng *rand.Rand) (domain.Action, error) {
	row, err := c.row(current)
	if err != nil {
		return "", err
	}

	last := -1
	for j, p := range row {
		if p == 1 {
			return c.states[j], nil
		}
		if p > 0 {
			last = j
		}
	}

	u := rng.Float64()
	acc := 0.0
	for j, p := range row {
		acc += p
		if u < acc {
			return c.states[j], nil
		}
	}
	// Rounding left u above the accumulated mass.
	return c.states[last], nil
}

// NextStateProbabilities returns the transition row of current keyed by state.
func (c *Chain) NextStateProbabilities(current domain.Action) (map[domain.Action]float64, error) {
	row, err := c.row(current)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Action]float64, len(row))
	for j, p := range row {
		out[c.states[j]] = p
	}
	return out, nil
}
