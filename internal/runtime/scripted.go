package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// ContinueFunc decides and executes the action that follows another,
// given the outcome of the action just performed.
type ContinueFunc func(ctx context.Context, outcome domain.Outcome) error

// ScriptedSelector drives a session through a fixed workflow. The next
// action depends only on the current action, its outcome and, at decision
// points, a stopping decider.
type ScriptedSelector struct {
	exec   *Executor
	table  map[domain.Action]ContinueFunc
	logger *slog.Logger
}

var _ ports.ActionSelector = (*ScriptedSelector)(nil)

// NewSearchSelector builds the search workflow:
// QUERY, SERP, SNIPPET, DOC, MARK with the stopping decider choosing between
// another snippet and a new query.
func NewSearchSelector(exec *Executor, decider ports.StoppingDecider, opts ...Option) (*ScriptedSelector, error) {
	for _, a := range []domain.Action{domain.ActionQuery, domain.ActionSERP, domain.ActionSnippet, domain.ActionDoc, domain.ActionMark} {
		if !exec.Handles(a) {
			return nil, fmt.Errorf("%w: search workflow needs %s", ErrUnsupportedAction, a)
		}
	}

	s := &ScriptedSelector{exec: exec, logger: newOptions(opts).logger}
	decide := s.searchDecider(decider)

	s.table = map[domain.Action]ContinueFunc{
		domain.ActionStart: s.always(domain.ActionQuery),
		domain.ActionNone:  s.always(domain.ActionQuery),
		domain.ActionQuery: func(ctx context.Context, o domain.Outcome) error {
			if !o.IsTrue() {
				return nil
			}
			return s.execute(ctx, domain.ActionSERP)
		},
		domain.ActionSERP:    s.branch(s.always(domain.ActionSnippet), s.always(domain.ActionQuery)),
		domain.ActionSnippet: s.branch(s.always(domain.ActionDoc), decide),
		domain.ActionDoc:     s.branch(s.always(domain.ActionMark), decide),
		domain.ActionMark:    decide,
		domain.ActionStop:    s.terminal,
	}
	return s, nil
}

// NewConversationalSelector builds the conversational workflow:
// UTTERANCE, CSRP, RESPONSE, MARKRESPONSE with the response decider choosing
// between another utterance and stopping.
func NewConversationalSelector(exec *Executor, decider ports.ResponseDecider, opts ...Option) (*ScriptedSelector, error) {
	for _, a := range []domain.Action{domain.ActionUtterance, domain.ActionCSRP, domain.ActionResponse, domain.ActionMarkResponse} {
		if !exec.Handles(a) {
			return nil, fmt.Errorf("%w: conversational workflow needs %s", ErrUnsupportedAction, a)
		}
	}

	s := &ScriptedSelector{exec: exec, logger: newOptions(opts).logger}
	decide := s.responseDecider(decider)

	s.table = map[domain.Action]ContinueFunc{
		domain.ActionStart:        s.always(domain.ActionUtterance),
		domain.ActionNone:         s.always(domain.ActionUtterance),
		domain.ActionUtterance:    s.always(domain.ActionCSRP),
		domain.ActionCSRP:         s.branch(s.always(domain.ActionResponse), s.always(domain.ActionUtterance)),
		domain.ActionResponse:     s.branch(s.always(domain.ActionMarkResponse), decide),
		domain.ActionMarkResponse: decide,
		domain.ActionStop:         s.terminal,
	}
	return s, nil
}

// DecideAction executes the action that follows the current one.
// After STOP it does nothing.
func (s *ScriptedSelector) DecideAction(ctx context.Context) error {
	current := s.exec.Memory().LastAction()
	next, ok := s.table[current]
	if !ok {
		s.logger.WarnContext(ctx, "unrecognized action", "action", current.String())
		return nil
	}
	return next(ctx, s.exec.Pending())
}

func (s *ScriptedSelector) execute(ctx context.Context, action domain.Action) error {
	_, err := s.exec.Execute(ctx, action)
	return err
}

func (s *ScriptedSelector) always(action domain.Action) ContinueFunc {
	return func(ctx context.Context, _ domain.Outcome) error {
		return s.execute(ctx, action)
	}
}

func (s *ScriptedSelector) branch(onTrue, onFalse ContinueFunc) ContinueFunc {
	return func(ctx context.Context, o domain.Outcome) error {
		if o.IsTrue() {
			return onTrue(ctx, o)
		}
		return onFalse(ctx, o)
	}
}

func (s *ScriptedSelector) terminal(context.Context, domain.Outcome) error {
	return nil
}

// searchDecider moves to a new query once the page is used up. Otherwise the
// decider picks between the next snippet and a new query.
func (s *ScriptedSelector) searchDecider(decider ports.StoppingDecider) ContinueFunc {
	allowed := []domain.Action{domain.ActionQuery, domain.ActionSnippet}
	return func(ctx context.Context, _ domain.Outcome) error {
		m := s.exec.Memory()
		if m.SERPPosition() >= m.CurrentResultsLength() {
			s.exec.actions.LogInfo(ctx, "SERP_END_REACHED")
			return s.execute(ctx, domain.ActionQuery)
		}

		next, err := decider.Decide(ctx, m)
		if err != nil {
			return fmt.Errorf("stopping decider: %w", err)
		}
		if !slices.Contains(allowed, next) {
			return &DecisionError{Decider: "stopping", Action: next, Allowed: allowed}
		}
		return s.execute(ctx, next)
	}
}

func (s *ScriptedSelector) responseDecider(decider ports.ResponseDecider) ContinueFunc {
	allowed := []domain.Action{domain.ActionUtterance, domain.ActionStop}
	return func(ctx context.Context, _ domain.Outcome) error {
		next, err := decider.Decide(ctx, s.exec.Memory())
		if err != nil {
			return fmt.Errorf("response decider: %w", err)
		}
		if !slices.Contains(allowed, next) {
			return &DecisionError{Decider: "response", Action: next, Allowed: allowed}
		}
		return s.execute(ctx, next)
	}
}
