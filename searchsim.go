package searchsim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/searchsim/internal/logging"
	"github.com/aretw0/searchsim/internal/runtime"
	"github.com/aretw0/searchsim/pkg/cost"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/memory"
	"github.com/aretw0/searchsim/pkg/ports"
)

// Simulator runs one simulated search session.
// It is not safe for concurrent use.
type Simulator struct {
	id        string
	workflow  domain.Workflow
	createdAt time.Time

	memory   *memory.Memory
	tracker  *cost.Tracker
	actions  *cost.Logger
	selector ports.ActionSelector

	store   ports.ReportStore
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	started bool
}

// New assembles a simulator for the selected workflow and checks that every
// collaborator it needs was supplied.
func New(opts ...Option) (*Simulator, error) {
	s := &settings{workflow: domain.WorkflowSearch}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.check(); err != nil {
		return nil, err
	}

	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.rng == nil {
		s.rng = NewRand(uint64(time.Now().UnixNano()))
	}
	logger := s.logger.With("session_id", s.sessionID, "workflow", string(s.workflow))

	mem := memory.New(
		memory.WithSearchEngine(s.search),
		memory.WithConversationalEngine(s.convo),
		memory.WithTopic(s.topic),
		memory.WithTop(s.top),
		memory.WithQueryLimit(s.queryLimit),
		memory.WithUtteranceLimit(s.utteranceLimit),
		memory.WithLogger(logger),
	)

	tracker := cost.NewTracker(s.costTable(), s.costLimit)
	actions := cost.NewLogger(tracker, mem,
		cost.WithLogger(s.logger.With("workflow", string(s.workflow))),
		cost.WithLifecycleHooks(s.hooks),
		cost.WithSessionID(s.sessionID),
	)

	exec := runtime.NewExecutor(mem, actions, runtime.Policies(s.policies), runtime.WithLogger(logger))

	var (
		selector ports.ActionSelector
		err      error
	)
	switch s.workflow {
	case domain.WorkflowSearch:
		selector, err = runtime.NewSearchSelector(exec, s.policies.Stopping, runtime.WithLogger(logger))
	case domain.WorkflowConversational:
		selector, err = runtime.NewConversationalSelector(exec, s.policies.ResponseStopping, runtime.WithLogger(logger))
	case domain.WorkflowMarkov:
		selector, err = runtime.NewMarkovSelector(exec, s.chain, s.rng, runtime.WithLogger(logger))
	case domain.WorkflowQueryMarkov:
		selector, err = runtime.NewQueryChangeSelector(exec, s.chains, s.rng, runtime.WithLogger(logger))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s workflow: %w", s.workflow, err)
	}

	return &Simulator{
		id:        s.sessionID,
		workflow:  s.workflow,
		createdAt: time.Now().UTC(),
		memory:    mem,
		tracker:   tracker,
		actions:   actions,
		selector:  selector,
		store:     s.store,
		hooks:     s.hooks,
		logger:    logger,
	}, nil
}

func (s *settings) check() error {
	type port struct {
		name    string
		present bool
	}
	var required []port

	p := s.policies
	switch s.workflow {
	case domain.WorkflowSearch:
		required = []port{
			{"search engine", s.search != nil},
			{"query generator", p.Queries != nil},
			{"snippet classifier", p.Snippets != nil},
			{"document classifier", p.Documents != nil},
			{"serp impression", p.SERP != nil},
			{"stopping decider", p.Stopping != nil},
		}
	case domain.WorkflowConversational:
		required = []port{
			{"conversational engine", s.convo != nil},
			{"utterance generator", p.Utterances != nil},
			{"csrp impression", p.CSRP != nil},
			{"response classifier", p.Responses != nil},
			{"response decider", p.ResponseStopping != nil},
		}
	case domain.WorkflowMarkov:
		if s.chain == nil {
			return &MissingPortError{Port: "transition chain"}
		}
		search, convo := enginesFor(s.chain.States())
		required = []port{
			{"search engine", s.search != nil || !search},
			{"conversational engine", s.convo != nil || !convo},
		}
	case domain.WorkflowQueryMarkov:
		required = []port{
			{"search engine", s.search != nil},
			{"query generator", p.Queries != nil},
			{"transition chains", len(s.chains) > 0},
		}
		for _, c := range s.chains {
			if c == nil {
				continue
			}
			if _, convo := enginesFor(c.States()); convo {
				required = append(required, port{"conversational engine", s.convo != nil})
				break
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownWorkflow, s.workflow)
	}

	for _, r := range required {
		if !r.present {
			return &MissingPortError{Port: r.name}
		}
	}
	return nil
}

// enginesFor reports which back-ends the actions of a chain reach.
func enginesFor(states []domain.Action) (search, convo bool) {
	for _, a := range states {
		switch a {
		case domain.ActionNone, domain.ActionStart, domain.ActionQuery, domain.ActionSERP,
			domain.ActionSnippet, domain.ActionDoc, domain.ActionMark:
			search = true
		case domain.ActionUtterance, domain.ActionCSRP, domain.ActionResponse, domain.ActionMarkResponse:
			convo = true
		}
	}
	return search, convo
}

func (s *settings) costTable() cost.Table {
	var base cost.Table
	switch s.workflow {
	case domain.WorkflowSearch:
		base = cost.SearchCosts()
	case domain.WorkflowConversational:
		base = cost.ConversationalCosts()
	default:
		base = cost.DefaultCosts()
	}
	return base.Merge(s.costs)
}

// ID returns the session ID.
func (s *Simulator) ID() string {
	return s.id
}

// Memory returns the session memory.
func (s *Simulator) Memory() *memory.Memory {
	return s.memory
}

// Finished reports whether the session has ended.
func (s *Simulator) Finished() bool {
	return s.actions.IsFinished()
}

// Progress returns the share of the budget spent, between 0 and 1.
func (s *Simulator) Progress() float64 {
	return s.tracker.Progress()
}

// Step executes at most one action and reports whether the session is over.
func (s *Simulator) Step(ctx context.Context) (bool, error) {
	s.start(ctx)
	if s.actions.IsFinished() {
		return true, nil
	}

	before := len(s.memory.Records())
	if err := s.selector.DecideAction(ctx); err != nil {
		return true, err
	}
	if s.actions.IsFinished() {
		return true, nil
	}
	if len(s.memory.Records()) == before {
		return true, ErrStalled
	}
	return false, nil
}

// Run drives the session until it finishes, the context is canceled or an
// action fails. The report is returned in every case; when a store is
// configured it is persisted too.
func (s *Simulator) Run(ctx context.Context) (*domain.Report, error) {
	var runErr error
	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		done, err := s.Step(ctx)
		if err != nil {
			runErr = err
			break
		}
		if done {
			break
		}
	}

	report := s.Report()
	s.finish(ctx, report, runErr)

	if s.store != nil {
		if err := s.store.Save(ctx, s.id, report); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("failed to save report: %w", err))
		}
	}
	return report, runErr
}

// Report summarises the session so far.
func (s *Simulator) Report() *domain.Report {
	r := s.memory.Report()
	r.SessionID = s.id
	r.Workflow = s.workflow
	r.CreatedAt = s.createdAt
	r.TotalCost = s.tracker.Total()
	r.CostLimit = s.tracker.Limit()
	r.Reason = string(s.tracker.Reason())
	return r
}

func (s *Simulator) start(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true
	s.actions.Start(ctx)
	if s.hooks.OnSessionStart != nil {
		s.hooks.OnSessionStart(ctx, &domain.SessionEvent{
			EventBase: s.event(domain.EventSessionStart),
			Workflow:  s.workflow,
		})
	}
}

func (s *Simulator) finish(ctx context.Context, report *domain.Report, err error) {
	reason := report.Reason
	if err != nil {
		reason = "error"
		s.logger.ErrorContext(ctx, "session aborted", "error", err, "total_cost", report.TotalCost)
	} else {
		s.logger.InfoContext(ctx, "session finished", "reason", reason, "total_cost", report.TotalCost, "actions", len(report.Actions))
	}

	if s.hooks.OnSessionEnd != nil {
		s.hooks.OnSessionEnd(ctx, &domain.SessionEvent{
			EventBase: s.event(domain.EventSessionEnd),
			Workflow:  s.workflow,
			Reason:    reason,
			TotalCost: report.TotalCost,
		})
	}
}

func (s *Simulator) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, SessionID: s.id}
}
