package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/memory"
	"github.com/aretw0/searchsim/pkg/ports"
)

// Policies bundles the decision ports of a session.
// A search session needs the first five, a conversational one the last four.
type Policies struct {
	Queries   ports.QueryGenerator
	Snippets  ports.SnippetClassifier
	Documents ports.DocumentClassifier
	SERP      ports.SERPImpression
	Stopping  ports.StoppingDecider

	Utterances       ports.UtteranceGenerator
	CSRP             ports.CSRPImpression
	Responses        ports.ResponseClassifier
	ResponseStopping ports.ResponseDecider
}

// ExecFunc performs one action and reports its outcome.
type ExecFunc func(ctx context.Context) (bool, error)

// Executor performs single actions against the session memory.
// Every engine drives the session through one Executor.
type Executor struct {
	memory   *memory.Memory
	actions  ports.ActionLogger
	policies Policies
	logger   *slog.Logger

	table   map[domain.Action]ExecFunc
	pending domain.Outcome
}

// NewExecutor builds the execution table for the policies that are present.
// STOP is always executable.
func NewExecutor(m *memory.Memory, actions ports.ActionLogger, p Policies, opts ...Option) *Executor {
	o := newOptions(opts)
	e := &Executor{
		memory:   m,
		actions:  actions,
		policies: p,
		logger:   o.logger,
	}

	e.table = map[domain.Action]ExecFunc{
		domain.ActionStop: e.stop,
	}
	if p.Queries != nil {
		e.table[domain.ActionQuery] = e.query
	}
	if p.SERP != nil {
		e.table[domain.ActionSERP] = e.serp
	}
	if p.Snippets != nil {
		e.table[domain.ActionSnippet] = e.snippet
	}
	if p.Documents != nil {
		e.table[domain.ActionDoc] = e.document
		e.table[domain.ActionMark] = e.mark
	}
	if p.Utterances != nil {
		e.table[domain.ActionUtterance] = e.utterance
	}
	if p.CSRP != nil {
		e.table[domain.ActionCSRP] = e.csrp
	}
	if p.Responses != nil {
		e.table[domain.ActionResponse] = e.response
		e.table[domain.ActionMarkResponse] = e.markResponse
	}
	return e
}

// Memory returns the session memory the executor mutates.
func (e *Executor) Memory() *memory.Memory {
	return e.memory
}

// Handles reports whether the action has a handler.
func (e *Executor) Handles(action domain.Action) bool {
	_, ok := e.table[action]
	return ok
}

// Pending returns the outcome of the latest executed action.
func (e *Executor) Pending() domain.Outcome {
	return e.pending
}

// Execute runs the handler of action and records the action with its outcome.
//
// A generator running dry records nothing and leaves a false outcome.
// Any other failure is recorded as a failed action and returned as *ActionError.
func (e *Executor) Execute(ctx context.Context, action domain.Action) (domain.Outcome, error) {
	fn, ok := e.table[action]
	if !ok {
		e.logger.WarnContext(ctx, "unrecognized action", "action", action.String())
		return domain.OutcomeNone, nil
	}

	result, err := fn(ctx)
	switch {
	case errors.Is(err, domain.ErrExhausted):
		e.pending = domain.OutcomeFalse
		return e.pending, nil
	case err != nil:
		e.pending = domain.OutcomeNone
		e.memory.Fail(action, err)
		e.logger.ErrorContext(ctx, "action failed", "action", action.String(), "error", err)
		return e.pending, &ActionError{Action: action, Err: err}
	}

	e.pending = domain.OutcomeOf(result)
	e.memory.Record(action, e.pending)
	return e.pending, nil
}

func (e *Executor) query(ctx context.Context) (bool, error) {
	gen := e.policies.Queries
	if err := gen.UpdateModel(ctx, e.memory); err != nil {
		return false, fmt.Errorf("query generator update: %w", err)
	}

	q, ok, err := gen.NextQuery(ctx, e.memory)
	if err != nil {
		return false, fmt.Errorf("query generator: %w", err)
	}
	if !ok || q == "" {
		e.actions.LogInfo(ctx, "OUT_OF_QUERIES")
		e.actions.QueriesExhausted()
		return false, domain.ErrExhausted
	}

	if err := e.memory.AddIssuedQuery(ctx, q); err != nil {
		return false, err
	}
	e.actions.LogAction(ctx, domain.ActionQuery, slog.String("query", q))
	return true, nil
}

func (e *Executor) serp(ctx context.Context) (bool, error) {
	if e.memory.CurrentResultsLength() == 0 {
		e.actions.LogAction(ctx, domain.ActionSERP, status("EMPTY_SERP"))
		return false, nil
	}

	attractive, err := e.policies.SERP.IsAttractive(ctx, e.memory.CurrentPage())
	if err != nil {
		return false, fmt.Errorf("serp impression: %w", err)
	}
	e.memory.AddSERPImpression(attractive)

	if attractive {
		e.actions.LogAction(ctx, domain.ActionSERP, status("EXAMINE_SERP"))
	} else {
		e.actions.LogAction(ctx, domain.ActionSERP, status("IGNORE_SERP"))
	}
	return attractive, nil
}

func (e *Executor) snippet(ctx context.Context) (bool, error) {
	snippet, err := e.memory.CurrentSnippet()
	if errors.Is(err, domain.ErrEndOfPage) || errors.Is(err, domain.ErrNoQueryIssued) {
		e.actions.LogAction(ctx, domain.ActionSnippet, status("NO_SNIPPET"))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	e.memory.IncrementSERPPosition()

	docID := slog.String("doc_id", snippet.DocumentID)
	if e.memory.ObservationCount(snippet.DocumentID) > 0 {
		e.actions.LogAction(ctx, domain.ActionSnippet, status("SEEN_PREVIOUSLY"), docID)
		return false, nil
	}

	relevant, err := e.policies.Snippets.IsRelevant(ctx, snippet)
	if err != nil {
		return false, fmt.Errorf("snippet classifier: %w", err)
	}
	e.memory.AddExaminedSnippet(snippet, relevant)

	if relevant {
		e.actions.LogAction(ctx, domain.ActionSnippet, status("SNIPPET_RELEVANT"), docID)
	} else {
		e.actions.LogAction(ctx, domain.ActionSnippet, status("SNIPPET_NOT_RELEVANT"), docID)
	}

	if err := e.policies.Snippets.UpdateModel(ctx, e.memory); err != nil {
		return false, fmt.Errorf("snippet classifier update: %w", err)
	}
	return relevant, nil
}

func (e *Executor) document(ctx context.Context) (bool, error) {
	if e.memory.LastQuery() == "" {
		return false, nil
	}

	doc, err := e.memory.CurrentDocument(ctx)
	if errors.Is(err, domain.ErrNothingExamined) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	e.actions.LogAction(ctx, domain.ActionDoc, status("EXAMINING_DOCUMENT"), slog.String("doc_id", doc.ID))

	relevant, err := e.policies.Documents.IsRelevant(ctx, *doc)
	if err != nil {
		return false, fmt.Errorf("document classifier: %w", err)
	}
	if relevant {
		e.memory.AddRelevantDocument(*doc)
	} else {
		e.memory.AddIrrelevantDocument(*doc)
	}

	if err := e.policies.Documents.UpdateModel(ctx, e.memory); err != nil {
		return false, fmt.Errorf("document classifier update: %w", err)
	}
	return relevant, nil
}

func (e *Executor) mark(ctx context.Context) (bool, error) {
	doc, ok := e.memory.LastDocument()
	if !ok {
		return false, nil
	}
	e.actions.LogAction(ctx, domain.ActionMark, judged(doc.Judgment), slog.String("doc_id", doc.ID))
	return true, nil
}

func (e *Executor) stop(ctx context.Context) (bool, error) {
	e.actions.LogAction(ctx, domain.ActionStop)
	return true, nil
}

func (e *Executor) utterance(ctx context.Context) (bool, error) {
	gen := e.policies.Utterances
	if err := gen.UpdateModel(ctx, e.memory); err != nil {
		return false, fmt.Errorf("utterance generator update: %w", err)
	}

	u, ok, err := gen.NextUtterance(ctx, e.memory)
	if err != nil {
		return false, fmt.Errorf("utterance generator: %w", err)
	}
	if !ok || u == "" {
		e.actions.LogInfo(ctx, "OUT_OF_UTTERANCES")
		e.actions.QueriesExhausted()
		return false, domain.ErrExhausted
	}

	if err := e.memory.AddIssuedUtterance(ctx, u); err != nil {
		return false, err
	}
	e.actions.LogAction(ctx, domain.ActionUtterance, slog.String("utterance", u))
	return true, nil
}

func (e *Executor) csrp(ctx context.Context) (bool, error) {
	resp := e.memory.CurrentResponse()
	if resp == nil {
		e.actions.LogAction(ctx, domain.ActionCSRP, status("EMPTY_CSRP"))
		return false, nil
	}

	attractive, err := e.policies.CSRP.IsAttractive(ctx, resp)
	if err != nil {
		return false, fmt.Errorf("csrp impression: %w", err)
	}
	e.memory.AddCSRPImpression(attractive)

	if attractive {
		e.actions.LogAction(ctx, domain.ActionCSRP, status("EXAMINE_CSRP"))
	} else {
		e.actions.LogAction(ctx, domain.ActionCSRP, status("INTERRUPT_CSRP"))
	}
	return attractive, nil
}

func (e *Executor) response(ctx context.Context) (bool, error) {
	resp := e.memory.CurrentResponse()
	if resp == nil {
		return false, nil
	}
	e.actions.LogAction(ctx, domain.ActionResponse, status("EXAMINING_RESPONSE"), slog.String("response_id", resp.ID))

	relevant, err := e.policies.Responses.IsRelevant(ctx, *resp)
	if err != nil {
		return false, fmt.Errorf("response classifier: %w", err)
	}
	if relevant {
		e.memory.AddRelevantResponse(*resp)
	} else {
		e.memory.AddIrrelevantResponse(*resp)
	}

	if err := e.policies.Responses.UpdateModel(ctx, e.memory); err != nil {
		return false, fmt.Errorf("response classifier update: %w", err)
	}
	return relevant, nil
}

func (e *Executor) markResponse(ctx context.Context) (bool, error) {
	resp, ok := e.memory.LastJudgedResponse()
	if !ok {
		return false, nil
	}
	e.actions.LogAction(ctx, domain.ActionMarkResponse, judged(resp.Judgment), slog.String("response_id", resp.ID))
	return true, nil
}

func status(s string) slog.Attr {
	return slog.String("status", s)
}

func judged(judgment int) slog.Attr {
	if judgment == 1 {
		return status("CONSIDERED_RELEVANT")
	}
	return status("CONSIDERED_NOT_RELEVANT")
}
