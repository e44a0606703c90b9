package domain

import (
	"fmt"
	"strings"
)

// Action is a label from the closed set of searcher actions.
type Action string

const (
	ActionStart        Action = "START"
	ActionQuery        Action = "QUERY"
	ActionSERP         Action = "SERP"
	ActionSnippet      Action = "SNIPPET"
	ActionDoc          Action = "DOC"
	ActionMark         Action = "MARK"
	ActionUtterance    Action = "UTTERANCE"
	ActionCSRP         Action = "CSRP"
	ActionResponse     Action = "RESPONSE"
	ActionMarkResponse Action = "MARKRESPONSE"
	ActionStop         Action = "STOP"
	ActionNone         Action = "NONE"
)

// Actions lists every known action label.
var Actions = []Action{
	ActionStart, ActionQuery, ActionSERP, ActionSnippet, ActionDoc, ActionMark,
	ActionUtterance, ActionCSRP, ActionResponse, ActionMarkResponse, ActionStop, ActionNone,
}

// Known reports whether a is one of the defined labels.
func (a Action) Known() bool {
	for _, k := range Actions {
		if a == k {
			return true
		}
	}
	return false
}

func (a Action) String() string {
	return string(a)
}

// ParseAction converts a label into an Action.
// Matching is case-insensitive. "None" and the empty string map to NONE,
// and "END" (used by exported Markov models) maps to STOP.
func ParseAction(label string) (Action, error) {
	clean := strings.ToUpper(strings.TrimSpace(label))
	switch clean {
	case "", "NONE":
		return ActionNone, nil
	case "END":
		return ActionStop, nil
	}

	a := Action(clean)
	if !a.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, label)
	}
	return a, nil
}

// Outcome is the result of executing an action: unset, true or false.
type Outcome int8

const (
	OutcomeNone Outcome = iota
	OutcomeTrue
	OutcomeFalse
)

// OutcomeOf converts a boolean judgment into an Outcome.
func OutcomeOf(b bool) Outcome {
	if b {
		return OutcomeTrue
	}
	return OutcomeFalse
}

// IsTrue reports whether the outcome is set and true.
func (o Outcome) IsTrue() bool {
	return o == OutcomeTrue
}

func (o Outcome) String() string {
	switch o {
	case OutcomeTrue:
		return "true"
	case OutcomeFalse:
		return "false"
	default:
		return "none"
	}
}
