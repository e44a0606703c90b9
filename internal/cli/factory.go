package cli

import (
	"fmt"

	"github.com/aretw0/searchsim"
	"github.com/aretw0/searchsim/internal/config"
	"github.com/aretw0/searchsim/pkg/adapters/corpus"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/markov"
	"github.com/aretw0/searchsim/pkg/policy"
	"github.com/aretw0/searchsim/pkg/runner"
)

// Jobs turns every configured session into runner jobs. Corpora, qrels and
// matrices are loaded once per session entry; policies are built per run.
func Jobs(cfg *config.Config, reg *policy.Registry) ([]runner.Job, error) {
	var jobs []runner.Job
	for _, s := range cfg.Sessions {
		shared, err := load(s)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", s.ID, err)
		}
		costs, err := s.CostTable()
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", s.ID, err)
		}

		for i, id := range s.SessionIDs() {
			seed := s.Seed + uint64(i)
			jobs = append(jobs, runner.Job{
				ID: id,
				Build: func() ([]searchsim.Option, error) {
					env := policy.Env{
						Rand:       searchsim.NewRand(seed),
						Queries:    s.Queries,
						Utterances: s.Utterances,
						Qrels:      shared.qrels,
					}
					policies, err := BuildPolicies(reg, s, env)
					if err != nil {
						return nil, err
					}
					return []searchsim.Option{
						searchsim.WithWorkflow(s.Workflow),
						searchsim.WithTopic(s.Topic),
						searchsim.WithTop(s.Top),
						searchsim.WithQueryLimit(s.QueryLimit),
						searchsim.WithUtteranceLimit(s.UtteranceLimit),
						searchsim.WithSearchEngine(shared.engine),
						searchsim.WithConversationalEngine(shared.engine),
						searchsim.WithPolicies(policies),
						searchsim.WithChain(shared.chain),
						searchsim.WithQueryChangeChains(shared.chains),
						searchsim.WithSeed(seed),
						searchsim.WithCosts(costs),
						searchsim.WithCostLimit(s.CostLimit),
					}, nil
				},
			})
		}
	}
	return jobs, nil
}

type resources struct {
	engine *corpus.Engine
	qrels  policy.Qrels
	chain  *markov.Chain
	chains map[markov.QueryChange]*markov.Chain
}

func load(s config.Session) (*resources, error) {
	var (
		r   resources
		err error
	)
	if r.engine, err = corpus.Load(s.Corpus); err != nil {
		return nil, err
	}
	if s.Qrels != "" {
		if r.qrels, err = policy.LoadQrels(s.Qrels, s.TopicID); err != nil {
			return nil, err
		}
	}

	switch s.Workflow {
	case domain.WorkflowMarkov:
		if r.chain, err = markov.LoadChain(s.Matrix); err != nil {
			return nil, err
		}
	case domain.WorkflowQueryMarkov:
		r.chains = make(map[markov.QueryChange]*markov.Chain)
		for class, path := range s.MatrixPaths() {
			c, err := markov.LoadChain(path)
			if err != nil {
				return nil, fmt.Errorf("%s matrix: %w", class, err)
			}
			r.chains[class] = c
		}
	}
	return &r, nil
}

// BuildPolicies instantiates the policies the session's workflow needs.
// Markov sessions get the search set, plus the conversational set when
// utterances are configured.
func BuildPolicies(reg *policy.Registry, s config.Session, env policy.Env) (searchsim.Policies, error) {
	var p searchsim.Policies

	search := s.Workflow != domain.WorkflowConversational
	conversational := s.Workflow == domain.WorkflowConversational || len(s.Utterances) > 0

	if search {
		if err := build(reg, policy.KindQueries, s.Policies.Queries, env, &p.Queries); err != nil {
			return p, err
		}
		if err := build(reg, policy.KindSnippets, s.Policies.Snippets, env, &p.Snippets); err != nil {
			return p, err
		}
		if err := build(reg, policy.KindDocuments, s.Policies.Documents, env, &p.Documents); err != nil {
			return p, err
		}
		if err := build(reg, policy.KindSERP, s.Policies.SERP, env, &p.SERP); err != nil {
			return p, err
		}
		if err := build(reg, policy.KindStopping, s.Policies.Stopping, env, &p.Stopping); err != nil {
			return p, err
		}
	}
	if conversational {
		if err := build(reg, policy.KindUtterances, s.Policies.Utterances, env, &p.Utterances); err != nil {
			return p, err
		}
		if err := build(reg, policy.KindCSRP, s.Policies.CSRP, env, &p.CSRP); err != nil {
			return p, err
		}
		if err := build(reg, policy.KindResponses, s.Policies.Responses, env, &p.Responses); err != nil {
			return p, err
		}
		if err := build(reg, policy.KindResponseStopping, s.Policies.ResponseStopping, env, &p.ResponseStopping); err != nil {
			return p, err
		}
	}
	return p, nil
}

// build creates the policy and stores it in dst if it implements the port.
func build[T any](reg *policy.Registry, kind policy.Kind, spec policy.Spec, env policy.Env, dst *T) error {
	v, err := reg.Build(kind, spec, env)
	if err != nil {
		return err
	}
	port, ok := v.(T)
	if !ok {
		return fmt.Errorf("policy %s/%s does not implement the %s port (got %T)", kind, spec.Name, kind, v)
	}
	*dst = port
	return nil
}
