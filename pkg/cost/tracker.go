// Package cost charges simulated actions against a session budget and owns
// the predicate that ends a session.
package cost

import (
	"github.com/aretw0/searchsim/pkg/domain"
)

// DefaultLimit is the session budget used when none is configured.
const DefaultLimit = 120.0

// Table maps each action to the fixed cost charged when it is executed.
type Table map[domain.Action]float64

// SearchCosts returns the default costs of the search workflow.
func SearchCosts() Table {
	return Table{
		domain.ActionStart:   0,
		domain.ActionQuery:   10,
		domain.ActionSERP:    5,
		domain.ActionSnippet: 3,
		domain.ActionDoc:     20,
		domain.ActionMark:    3,
		domain.ActionStop:    0,
		domain.ActionNone:    0,
	}
}

// ConversationalCosts returns the default costs of the conversational workflow.
func ConversationalCosts() Table {
	return Table{
		domain.ActionStart:        0,
		domain.ActionUtterance:    10,
		domain.ActionCSRP:         5,
		domain.ActionResponse:     30,
		domain.ActionMarkResponse: 3,
		domain.ActionStop:         0,
		domain.ActionNone:         0,
	}
}

// DefaultCosts returns both default tables merged.
func DefaultCosts() Table {
	t := SearchCosts()
	for a, c := range ConversationalCosts() {
		t[a] = c
	}
	return t
}

// Merge returns a copy of t with the overrides applied.
func (t Table) Merge(overrides map[domain.Action]float64) Table {
	out := make(Table, len(t)+len(overrides))
	for a, c := range t {
		out[a] = c
	}
	for a, c := range overrides {
		out[a] = c
	}
	return out
}

// Reason explains why a session finished.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonStopped   Reason = "stopped"
	ReasonExhausted Reason = "exhausted"
	ReasonBudget    Reason = "budget"
)

// Tracker accumulates the cost of a session.
// Once finished it stays finished.
type Tracker struct {
	costs Table
	limit float64
	total float64

	queriesExhausted bool
	explicitStop     bool
	reason           Reason

	lastQueryCost  float64
	lastMarkedCost float64
}

// NewTracker creates a tracker with the given cost table and budget.
// A non-positive limit selects DefaultLimit.
func NewTracker(costs Table, limit float64) *Tracker {
	if costs == nil {
		costs = DefaultCosts()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Tracker{costs: costs, limit: limit}
}

// Record charges the action's cost. It returns false for actions the table
// does not know; those are not charged.
func (t *Tracker) Record(action domain.Action) (float64, bool) {
	c, ok := t.costs[action]
	if !ok {
		return 0, false
	}
	t.total += c

	switch action {
	case domain.ActionQuery, domain.ActionUtterance:
		t.lastQueryCost = t.total
	case domain.ActionMark, domain.ActionMarkResponse:
		t.lastMarkedCost = t.total
	}
	return c, true
}

// Stop sets the explicit stop flag.
func (t *Tracker) Stop() {
	t.explicitStop = true
}

// Exhaust records that no more queries or utterances remain.
func (t *Tracker) Exhaust() {
	t.queriesExhausted = true
}

// Finished evaluates the finished predicate given the session's current action.
// The first true evaluation latches.
func (t *Tracker) Finished(last domain.Action) bool {
	if t.reason != ReasonNone {
		return true
	}
	switch {
	case t.explicitStop, last == domain.ActionStop:
		t.reason = ReasonStopped
	case t.queriesExhausted:
		t.reason = ReasonExhausted
	case t.total >= t.limit:
		t.reason = ReasonBudget
	default:
		return false
	}
	return true
}

// Reason returns why the session finished, or ReasonNone while it runs.
func (t *Tracker) Reason() Reason {
	return t.reason
}

// Total returns the accumulated cost.
func (t *Tracker) Total() float64 {
	return t.total
}

// Limit returns the session budget.
func (t *Tracker) Limit() float64 {
	return t.limit
}

// Progress returns the spent fraction of the budget, capped at 1.
func (t *Tracker) Progress() float64 {
	p := t.total / t.limit
	if p > 1 {
		return 1
	}
	return p
}

// LastQueryCost returns the total cost at the moment the latest query or
// utterance was charged.
func (t *Tracker) LastQueryCost() float64 {
	return t.lastQueryCost
}

// LastMarkedCost returns the total cost at the moment the latest item was marked.
func (t *Tracker) LastMarkedCost() float64 {
	return t.lastMarkedCost
}
