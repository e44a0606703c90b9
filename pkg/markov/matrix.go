// Package markov models the stochastic searcher: a row-stochastic transition
// matrix over actions, a sampling chain built from it, and the query-change
// classification that selects between chains.
package markov

import (
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/searchsim/pkg/domain"
)

// Tolerance is the allowed deviation of a row sum from 1.
const Tolerance = 1e-6

var (
	// ErrInvalidMatrix is wrapped by every ValidationError.
	ErrInvalidMatrix = errors.New("invalid transition matrix")

	// ErrUnknownState is returned when a chain is asked about a state it does not contain.
	ErrUnknownState = errors.New("unknown state")

	// ErrMissingChain is returned when no chain is configured for a query-change class.
	ErrMissingChain = errors.New("missing chain")
)

// ValidationError describes why a matrix was rejected.
// Row is -1 when the problem is not tied to a single row.
type ValidationError struct {
	Row    int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidMatrix, e.Reason)
	}
	return fmt.Sprintf("%v: row %d: %s", ErrInvalidMatrix, e.Row, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidMatrix
}

// TransitionMatrix holds P(next | current). Rows[i][j] is the probability of
// moving from States[i] to States[j].
type TransitionMatrix struct {
	States []domain.Action `json:"states" yaml:"states"`
	Rows   [][]float64     `json:"matrix" yaml:"matrix"`
}

// Validate checks the matrix is square, labelled and row-stochastic.
// Rows are never normalised.
func (m TransitionMatrix) Validate() error {
	n := len(m.Rows)
	if n == 0 {
		return &ValidationError{Row: -1, Reason: "matrix is empty"}
	}
	if len(m.States) != n {
		return &ValidationError{Row: -1, Reason: fmt.Sprintf("%d states for %d rows", len(m.States), n)}
	}

	seen := make(map[domain.Action]struct{}, n)
	for _, s := range m.States {
		if _, dup := seen[s]; dup {
			return &ValidationError{Row: -1, Reason: fmt.Sprintf("duplicate state %s", s)}
		}
		seen[s] = struct{}{}
	}

	for i, row := range m.Rows {
		if len(row) != n {
			return &ValidationError{Row: i, Reason: fmt.Sprintf("has %d columns, want %d", len(row), n)}
		}
		sum := 0.0
		for j, p := range row {
			if math.IsNaN(p) || p < 0 {
				return &ValidationError{Row: i, Reason: fmt.Sprintf("column %d is not a probability: %v", j, p)}
			}
			sum += p
		}
		if math.Abs(sum-1) > Tolerance {
			return &ValidationError{Row: i, Reason: fmt.Sprintf("sums to %v", sum)}
		}
	}
	return nil
}
