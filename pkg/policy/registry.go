package policy

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/searchsim/pkg/domain"
)

// Kind names the port a policy implements.
type Kind string

const (
	KindQueries          Kind = "queries"
	KindUtterances       Kind = "utterances"
	KindSnippets         Kind = "snippets"
	KindDocuments        Kind = "documents"
	KindResponses        Kind = "responses"
	KindSERP             Kind = "serp"
	KindCSRP             Kind = "csrp"
	KindStopping         Kind = "stopping"
	KindResponseStopping Kind = "response_stopping"
)

// Spec selects a policy by name and carries its parameters.
type Spec struct {
	Name   string         `json:"name" yaml:"name" mapstructure:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

// Env is the session context handed to factories.
type Env struct {
	Rand       *rand.Rand
	Queries    []string
	Utterances []string
	Qrels      Qrels
}

// Factory builds a policy from its parameters.
type Factory func(params map[string]any, env Env) (any, error)

// Registry maps policy names to factories, per kind.
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]map[string]Factory)}
}

// Register adds a factory. An existing factory with the same name is replaced.
func (r *Registry) Register(kind Kind, name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories[kind] == nil {
		r.factories[kind] = make(map[string]Factory)
	}
	r.factories[kind][name] = f
}

// Names lists the registered names of a kind, sorted.
func (r *Registry) Names(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories[kind]))
	for n := range r.factories[kind] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Build constructs the policy named by spec.
func (r *Registry) Build(kind Kind, spec Spec, env Env) (any, error) {
	r.mu.RLock()
	f, ok := r.factories[kind][spec.Name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s policy not found: %q", kind, spec.Name)
	}
	p, err := f(spec.Params, env)
	if err != nil {
		return nil, fmt.Errorf("%s policy %q: %w", kind, spec.Name, err)
	}
	return p, nil
}

// decode fills out from params. Unknown keys are rejected.
func decode(params map[string]any, out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return d.Decode(params)
}

type listParams struct {
	Items []string `mapstructure:"items"`
}

// listItems returns the configured items, or a copy of fallback when none
// are given. The result never aliases the session's own list.
func listItems(params map[string]any, fallback []string) ([]string, error) {
	var p listParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Items == nil {
		return slices.Clone(fallback), nil
	}
	return p.Items, nil
}

type fixedParams struct {
	Relevant bool `mapstructure:"relevant"`
}

type probabilityParams struct {
	P float64 `mapstructure:"p"`
}

type qrelsParams struct {
	MinGrade int `mapstructure:"min_grade"`
}

type attractiveParams struct {
	Attractive bool `mapstructure:"attractive"`
}

type depthParams struct {
	Depth int `mapstructure:"depth"`
}

type turnsParams struct {
	Turns int `mapstructure:"turns"`
}

func checkProbability(p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("p must be within [0, 1], got %v", p)
	}
	return nil
}

// Defaults returns a registry holding every reference policy.
func Defaults() *Registry {
	r := NewRegistry()

	r.Register(KindQueries, "list", func(params map[string]any, env Env) (any, error) {
		items, err := listItems(params, env.Queries)
		if err != nil {
			return nil, err
		}
		return &ListQueries{Queries: items}, nil
	})
	r.Register(KindUtterances, "list", func(params map[string]any, env Env) (any, error) {
		items, err := listItems(params, env.Utterances)
		if err != nil {
			return nil, err
		}
		return &ListUtterances{Utterances: items}, nil
	})
	r.Register(KindUtterances, "random", func(params map[string]any, env Env) (any, error) {
		items, err := listItems(params, env.Utterances)
		if err != nil {
			return nil, err
		}
		return &RandomUtterances{Utterances: items, Rand: env.Rand}, nil
	})

	registerClassifiers[domain.Result](r, KindSnippets)
	registerClassifiers[domain.Document](r, KindDocuments)
	registerClassifiers[domain.Response](r, KindResponses)

	r.Register(KindSnippets, "qrels", func(params map[string]any, env Env) (any, error) {
		p := qrelsParams{MinGrade: 1}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		if env.Qrels == nil {
			return nil, fmt.Errorf("no qrels configured")
		}
		return &QrelsSnippets{Qrels: env.Qrels, MinGrade: p.MinGrade}, nil
	})
	r.Register(KindDocuments, "qrels", func(params map[string]any, env Env) (any, error) {
		p := qrelsParams{MinGrade: 1}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		if env.Qrels == nil {
			return nil, fmt.Errorf("no qrels configured")
		}
		return &QrelsDocuments{Qrels: env.Qrels, MinGrade: p.MinGrade}, nil
	})

	registerImpressions[*domain.ResultPage](r, KindSERP)
	registerImpressions[*domain.Response](r, KindCSRP)

	r.Register(KindStopping, "random", func(params map[string]any, env Env) (any, error) {
		p := probabilityParams{P: DefaultQueryProbability}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		if err := checkProbability(p.P); err != nil {
			return nil, err
		}
		return &RandomStopping{P: p.P, Rand: env.Rand}, nil
	})
	r.Register(KindStopping, "fixed-depth", func(params map[string]any, env Env) (any, error) {
		p := depthParams{Depth: DefaultDepth}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		if p.Depth < 1 {
			return nil, fmt.Errorf("depth must be positive, got %d", p.Depth)
		}
		return &FixedDepth{Depth: p.Depth}, nil
	})
	r.Register(KindResponseStopping, "random", func(params map[string]any, env Env) (any, error) {
		p := probabilityParams{P: DefaultContinueProbability}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		if err := checkProbability(p.P); err != nil {
			return nil, err
		}
		return &RandomResponseStopping{P: p.P, Rand: env.Rand}, nil
	})
	r.Register(KindResponseStopping, "fixed-turns", func(params map[string]any, env Env) (any, error) {
		p := turnsParams{Turns: 1}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return &FixedTurns{Turns: p.Turns}, nil
	})

	return r
}

func registerClassifiers[T any](r *Registry, kind Kind) {
	r.Register(kind, "fixed", func(params map[string]any, env Env) (any, error) {
		p := fixedParams{Relevant: true}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return &Fixed[T]{Relevant: p.Relevant}, nil
	})
	r.Register(kind, "random", func(params map[string]any, env Env) (any, error) {
		p := probabilityParams{P: 0.5}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		if err := checkProbability(p.P); err != nil {
			return nil, err
		}
		return &Random[T]{P: p.P, Rand: env.Rand}, nil
	})
}

func registerImpressions[T any](r *Registry, kind Kind) {
	r.Register(kind, "random", func(params map[string]any, env Env) (any, error) {
		p := probabilityParams{P: DefaultAttractiveness}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		if err := checkProbability(p.P); err != nil {
			return nil, err
		}
		return &RandomImpression[T]{P: p.P, Rand: env.Rand}, nil
	})
	r.Register(kind, "fixed", func(params map[string]any, env Env) (any, error) {
		p := attractiveParams{Attractive: true}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return &FixedImpression[T]{Attractive: p.Attractive}, nil
	})
}
