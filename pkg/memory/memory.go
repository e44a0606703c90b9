// Package memory holds the mutable record of one simulated search session.
//
// A Memory is created once per session, mutated only by the action handlers
// of the driving engine, and discarded with the session. Policies see it
// through the read-only ports.Memory view.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/searchsim/internal/logging"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// DefaultTop is the number of results requested per query when none is configured.
const DefaultTop = 10

// ActionRecord is one entry of the action log.
// A failed action keeps its error and has no outcome.
type ActionRecord struct {
	Action  domain.Action
	Outcome domain.Outcome
	Err     error
}

// Failed reports whether the action was interrupted by an error.
func (r ActionRecord) Failed() bool {
	return r.Err != nil
}

// Examined is an item the searcher looked at, with its binary judgment.
type Examined struct {
	ID       string
	Judgment int
}

// Memory is the session record: action log, issued queries and utterances,
// examined items, judgments, impressions and the SERP cursor.
type Memory struct {
	search ports.SearchEngine
	convo  ports.ConversationalEngine
	logger *slog.Logger

	topic          string
	top            int
	queryLimit     int
	utteranceLimit int

	records          []ActionRecord
	issuedQueries    []string
	issuedUtterances []string

	page         *domain.ResultPage
	position     int
	lastSnippet  *domain.Result
	lastDocument *Examined
	response     *domain.Response
	lastResponse *Examined

	observations map[string]int
	snippets     []Examined
	documents    []Examined
	responses    []Examined

	relevant            map[string]struct{}
	irrelevant          map[string]struct{}
	relevantOrder       []string
	relevantResponses   []string
	irrelevantResponses []string

	serpImpressions   []bool
	attractiveSERPs   int
	unattractiveSERPs int
	csrpImpressions   []bool
	attractiveCSRPs   int
	unattractiveCSRPs int
}

// Option configures a Memory.
type Option func(*Memory)

// WithSearchEngine sets the back-end queried when a query is issued.
func WithSearchEngine(s ports.SearchEngine) Option {
	return func(m *Memory) {
		m.search = s
	}
}

// WithConversationalEngine sets the back-end answering utterances.
func WithConversationalEngine(c ports.ConversationalEngine) Option {
	return func(m *Memory) {
		m.convo = c
	}
}

// WithTopic sets the topic text the simulated searcher is working on.
func WithTopic(topic string) Option {
	return func(m *Memory) {
		m.topic = topic
	}
}

// WithTop sets how many results are requested per query.
func WithTop(top int) Option {
	return func(m *Memory) {
		if top > 0 {
			m.top = top
		}
	}
}

// WithQueryLimit caps the number of queries generators may issue (0 = unlimited).
func WithQueryLimit(n int) Option {
	return func(m *Memory) {
		m.queryLimit = n
	}
}

// WithUtteranceLimit caps the number of utterances generators may issue (0 = unlimited).
func WithUtteranceLimit(n int) Option {
	return func(m *Memory) {
		m.utteranceLimit = n
	}
}

// WithLogger sets the logger for memory events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Memory) {
		m.logger = logger
	}
}

// New creates an empty session memory.
func New(opts ...Option) *Memory {
	m := &Memory{
		top:          DefaultTop,
		logger:       logging.NewNop(),
		observations: make(map[string]int),
		relevant:     make(map[string]struct{}),
		irrelevant:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ ports.Memory = (*Memory)(nil)

// Record appends an executed action and its outcome to the log.
func (m *Memory) Record(action domain.Action, outcome domain.Outcome) {
	m.records = append(m.records, ActionRecord{Action: action, Outcome: outcome})
}

// Fail appends an action that was interrupted by err.
// It is kept for postmortem reporting and is never treated as successful.
func (m *Memory) Fail(action domain.Action, err error) {
	m.records = append(m.records, ActionRecord{Action: action, Err: err})
}

// Records returns a copy of the action log.
func (m *Memory) Records() []ActionRecord {
	out := make([]ActionRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Actions returns the chronological action labels.
func (m *Memory) Actions() []domain.Action {
	out := make([]domain.Action, len(m.records))
	for i, r := range m.records {
		out[i] = r.Action
	}
	return out
}

// LastAction returns the current action, or START when nothing was recorded.
func (m *Memory) LastAction() domain.Action {
	if len(m.records) == 0 {
		return domain.ActionStart
	}
	return m.records[len(m.records)-1].Action
}

// LastRecord returns the current log entry.
func (m *Memory) LastRecord() (ActionRecord, bool) {
	if len(m.records) == 0 {
		return ActionRecord{}, false
	}
	return m.records[len(m.records)-1], true
}

// Topic returns the topic text.
func (m *Memory) Topic() string {
	return m.topic
}

// AddIssuedQuery issues the query to the search engine and makes its result
// page current. The SERP cursor is reset.
// The query is only remembered once the engine answered.
func (m *Memory) AddIssuedQuery(ctx context.Context, query string) error {
	if m.search == nil {
		return errors.New("memory has no search engine")
	}

	page, err := m.search.IssueQuery(ctx, query, m.top)
	if err != nil {
		return fmt.Errorf("failed to issue query %q: %w", query, err)
	}
	if page == nil {
		page = &domain.ResultPage{Query: query}
	}

	m.issuedQueries = append(m.issuedQueries, query)
	m.page = page
	m.position = 0
	m.lastSnippet = nil
	m.logger.Debug("query issued", "query", query, "results", page.Len())
	return nil
}

// IssuedQueries returns the queries issued so far, oldest first.
func (m *Memory) IssuedQueries() []string {
	return append([]string(nil), m.issuedQueries...)
}

// LastQuery returns the latest issued query, or "" before the first one.
func (m *Memory) LastQuery() string {
	if len(m.issuedQueries) == 0 {
		return ""
	}
	return m.issuedQueries[len(m.issuedQueries)-1]
}

// PreviousQuery returns the query issued before the latest one, or "".
func (m *Memory) PreviousQuery() string {
	if len(m.issuedQueries) < 2 {
		return ""
	}
	return m.issuedQueries[len(m.issuedQueries)-2]
}

// QueryLimit returns the configured query cap (0 = unlimited).
func (m *Memory) QueryLimit() int {
	return m.queryLimit
}

// AddIssuedUtterance sends the utterance to the conversational engine and
// makes its response current.
func (m *Memory) AddIssuedUtterance(ctx context.Context, utterance string) error {
	if m.convo == nil {
		return errors.New("memory has no conversational engine")
	}

	resp, err := m.convo.IssueUtterance(ctx, utterance)
	if err != nil {
		return fmt.Errorf("failed to issue utterance %q: %w", utterance, err)
	}

	m.issuedUtterances = append(m.issuedUtterances, utterance)
	m.response = resp
	m.position = 0
	m.logger.Debug("utterance issued", "utterance", utterance, "answered", resp != nil)
	return nil
}

// IssuedUtterances returns the utterances issued so far, oldest first.
func (m *Memory) IssuedUtterances() []string {
	return append([]string(nil), m.issuedUtterances...)
}

// UtteranceLimit returns the configured utterance cap (0 = unlimited).
func (m *Memory) UtteranceLimit() int {
	return m.utteranceLimit
}

// CurrentPage returns the result page of the latest query.
func (m *Memory) CurrentPage() *domain.ResultPage {
	return m.page
}

// CurrentResultsLength returns the size of the current result page.
func (m *Memory) CurrentResultsLength() int {
	return m.page.Len()
}

// SERPPosition returns the cursor into the current page.
func (m *Memory) SERPPosition() int {
	return m.position
}

// CurrentSnippet returns the result under the cursor.
func (m *Memory) CurrentSnippet() (domain.Result, error) {
	if m.page == nil {
		return domain.Result{}, domain.ErrNoQueryIssued
	}
	if m.position >= m.page.Len() {
		return domain.Result{}, domain.ErrEndOfPage
	}
	return m.page.Results[m.position], nil
}

// IncrementSERPPosition moves the cursor to the next result.
// The snippet under the cursor becomes the one a DOC action will open.
func (m *Memory) IncrementSERPPosition() {
	if m.position < m.page.Len() {
		r := m.page.Results[m.position]
		m.lastSnippet = &r
	}
	m.position++
}

// ObservationCount returns how often the item has been examined this session.
func (m *Memory) ObservationCount(id string) int {
	return m.observations[id]
}

// AddExaminedSnippet records a judged snippet and counts the observation.
func (m *Memory) AddExaminedSnippet(snippet domain.Result, relevant bool) {
	m.observations[snippet.DocumentID]++
	m.snippets = append(m.snippets, Examined{ID: snippet.DocumentID, Judgment: judgment(relevant)})
}

// ExaminedSnippets returns the IDs of judged snippets, oldest first.
func (m *Memory) ExaminedSnippets() []string {
	return ids(m.snippets)
}

// CurrentDocument fetches the document behind the last examined snippet.
func (m *Memory) CurrentDocument(ctx context.Context) (*domain.Document, error) {
	if m.page == nil {
		return nil, domain.ErrNoQueryIssued
	}
	if m.lastSnippet == nil {
		return nil, domain.ErrNothingExamined
	}

	doc, err := m.search.Document(ctx, m.lastSnippet.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", m.lastSnippet.DocumentID, err)
	}
	return doc, nil
}

// AddRelevantDocument records doc as judged relevant.
func (m *Memory) AddRelevantDocument(doc domain.Document) {
	m.judgeDocument(doc.ID, true)
	delete(m.irrelevant, doc.ID)
	if _, ok := m.relevant[doc.ID]; !ok {
		m.relevantOrder = append(m.relevantOrder, doc.ID)
	}
	m.relevant[doc.ID] = struct{}{}
}

// AddIrrelevantDocument records doc as judged not relevant.
func (m *Memory) AddIrrelevantDocument(doc domain.Document) {
	m.judgeDocument(doc.ID, false)
	if _, ok := m.relevant[doc.ID]; ok {
		delete(m.relevant, doc.ID)
		m.relevantOrder = remove(m.relevantOrder, doc.ID)
	}
	m.irrelevant[doc.ID] = struct{}{}
}

func (m *Memory) judgeDocument(id string, relevant bool) {
	e := Examined{ID: id, Judgment: judgment(relevant)}
	m.documents = append(m.documents, e)
	m.lastDocument = &e
}

// LastDocument returns the most recently judged document.
func (m *Memory) LastDocument() (Examined, bool) {
	if m.lastDocument == nil {
		return Examined{}, false
	}
	return *m.lastDocument, true
}

// RelevantDocuments returns the IDs judged relevant, in judgment order.
func (m *Memory) RelevantDocuments() []string {
	return append([]string(nil), m.relevantOrder...)
}

// IsRelevant reports whether the document is currently in the relevant set.
func (m *Memory) IsRelevant(id string) bool {
	_, ok := m.relevant[id]
	return ok
}

// IsIrrelevant reports whether the document is currently in the irrelevant set.
func (m *Memory) IsIrrelevant(id string) bool {
	_, ok := m.irrelevant[id]
	return ok
}

// CurrentResponse returns the response to the latest utterance.
func (m *Memory) CurrentResponse() *domain.Response {
	return m.response
}

// AddRelevantResponse records resp as judged relevant.
func (m *Memory) AddRelevantResponse(resp domain.Response) {
	m.judgeResponse(resp.ID, true)
	m.relevantResponses = append(m.relevantResponses, resp.ID)
}

// AddIrrelevantResponse records resp as judged not relevant.
func (m *Memory) AddIrrelevantResponse(resp domain.Response) {
	m.judgeResponse(resp.ID, false)
	m.irrelevantResponses = append(m.irrelevantResponses, resp.ID)
}

func (m *Memory) judgeResponse(id string, relevant bool) {
	m.observations[id]++
	e := Examined{ID: id, Judgment: judgment(relevant)}
	m.responses = append(m.responses, e)
	m.lastResponse = &e
}

// LastJudgedResponse returns the most recently judged response.
func (m *Memory) LastJudgedResponse() (Examined, bool) {
	if m.lastResponse == nil {
		return Examined{}, false
	}
	return *m.lastResponse, true
}

// AddSERPImpression tallies a result page impression.
func (m *Memory) AddSERPImpression(attractive bool) {
	m.serpImpressions = append(m.serpImpressions, attractive)
	if attractive {
		m.attractiveSERPs++
	} else {
		m.unattractiveSERPs++
	}
}

// AddCSRPImpression tallies a conversational result impression.
func (m *Memory) AddCSRPImpression(attractive bool) {
	m.csrpImpressions = append(m.csrpImpressions, attractive)
	if attractive {
		m.attractiveCSRPs++
	} else {
		m.unattractiveCSRPs++
	}
}

// SERPImpressions returns the attractive and unattractive SERP tallies.
func (m *Memory) SERPImpressions() (attractive, unattractive int) {
	return m.attractiveSERPs, m.unattractiveSERPs
}

// CSRPImpressions returns the attractive and unattractive CSRP tallies.
func (m *Memory) CSRPImpressions() (attractive, unattractive int) {
	return m.attractiveCSRPs, m.unattractiveCSRPs
}

// Report summarises the session so far. Cost and identity fields are left
// for the caller, which owns them.
func (m *Memory) Report() *domain.Report {
	r := &domain.Report{
		Topic:               m.topic,
		Actions:             m.Actions(),
		Queries:             m.IssuedQueries(),
		Utterances:          m.IssuedUtterances(),
		SnippetsExamined:    len(m.snippets),
		DocumentsExamined:   len(m.documents),
		ResponsesExamined:   len(m.responses),
		RelevantDocuments:   len(m.relevant),
		IrrelevantDocuments: len(m.irrelevant),
		RelevantResponses:   len(m.relevantResponses),
		AttractiveSERPs:     m.attractiveSERPs,
		UnattractiveSERPs:   m.unattractiveSERPs,
		AttractiveCSRPs:     m.attractiveCSRPs,
		UnattractiveCSRPs:   m.unattractiveCSRPs,
	}
	if last, ok := m.LastRecord(); ok && last.Failed() {
		r.Error = last.Err.Error()
	}
	return r
}

func judgment(relevant bool) int {
	if relevant {
		return 1
	}
	return 0
}

func ids(items []Examined) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.ID
	}
	return out
}

func remove(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
