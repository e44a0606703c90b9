package searchsim

import (
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/searchsim/pkg/cost"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/markov"
	"github.com/aretw0/searchsim/pkg/ports"
)

// Policies bundles the decision ports of a session. A search session needs
// the first five, a conversational one the last four. Markov sessions need
// whatever the chain's states require.
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

// Option defines a functional option for configuring the Simulator.
type Option func(*settings)

type settings struct {
	sessionID string
	workflow  domain.Workflow
	topic     string
	top       int

	queryLimit     int
	utteranceLimit int

	search   ports.SearchEngine
	convo    ports.ConversationalEngine
	policies Policies

	chain  *markov.Chain
	chains map[markov.QueryChange]*markov.Chain
	rng    *rand.Rand

	costs     cost.Table
	costLimit float64

	store  ports.ReportStore
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// WithSessionID sets the session ID. A random one is generated otherwise.
func WithSessionID(id string) Option {
	return func(s *settings) {
		s.sessionID = id
	}
}

// WithWorkflow selects the engine driving the session (default: search).
func WithWorkflow(w domain.Workflow) Option {
	return func(s *settings) {
		s.workflow = w
	}
}

// WithTopic sets the information need the searcher works on.
func WithTopic(topic string) Option {
	return func(s *settings) {
		s.topic = topic
	}
}

// WithTop sets how many results each query requests.
func WithTop(top int) Option {
	return func(s *settings) {
		s.top = top
	}
}

// WithQueryLimit caps the queries a generator may issue.
func WithQueryLimit(n int) Option {
	return func(s *settings) {
		s.queryLimit = n
	}
}

// WithUtteranceLimit caps the utterances a generator may issue.
func WithUtteranceLimit(n int) Option {
	return func(s *settings) {
		s.utteranceLimit = n
	}
}

// WithSearchEngine sets the retrieval back-end.
func WithSearchEngine(e ports.SearchEngine) Option {
	return func(s *settings) {
		s.search = e
	}
}

// WithConversationalEngine sets the back-end answering utterances.
func WithConversationalEngine(e ports.ConversationalEngine) Option {
	return func(s *settings) {
		s.convo = e
	}
}

// WithPolicies sets the decision policies.
func WithPolicies(p Policies) Option {
	return func(s *settings) {
		s.policies = p
	}
}

// WithChain sets the transition chain of the markov workflow.
func WithChain(c *markov.Chain) Option {
	return func(s *settings) {
		s.chain = c
	}
}

// WithQueryChangeChains sets one chain per query-change class for the
// query-markov workflow.
func WithQueryChangeChains(chains map[markov.QueryChange]*markov.Chain) Option {
	return func(s *settings) {
		s.chains = chains
	}
}

// WithRand sets the random source used for sampling transitions.
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		s.rng = rng
	}
}

// WithSeed seeds the random source used for sampling transitions.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rng = NewRand(seed)
	}
}

// WithCosts overrides the per-action cost table.
func WithCosts(t cost.Table) Option {
	return func(s *settings) {
		s.costs = t
	}
}

// WithCostLimit sets the session budget.
func WithCostLimit(limit float64) Option {
	return func(s *settings) {
		s.costLimit = limit
	}
}

// WithStore persists the final report of Run.
func WithStore(store ports.ReportStore) Option {
	return func(s *settings) {
		s.store = store
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the simulator.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
