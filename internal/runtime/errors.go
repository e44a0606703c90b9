package runtime

import (
	"errors"
	"fmt"

	"github.com/aretw0/searchsim/pkg/domain"
)

// ErrUnsupportedAction is returned when an engine is built around an action
// the executor has no handler for.
var ErrUnsupportedAction = errors.New("unsupported action")

// ActionError reports a policy or back-end failure while executing an action.
// The action stays in the session log, marked as failed.
type ActionError struct {
	Action domain.Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %s failed: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// DecisionError reports a stopping decider returning an action outside its contract.
type DecisionError struct {
	Decider string
	Action  domain.Action
	Allowed []domain.Action
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("%s decider returned %s, want one of %v", e.Decider, e.Action, e.Allowed)
}
