// Package config loads simulation files: one or more sessions, each naming
// its workflow, budget, back-end and policies.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/searchsim/pkg/cost"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/markov"
	"github.com/aretw0/searchsim/pkg/policy"
)

// DefaultTop is the result page size requested when none is configured.
const DefaultTop = 10

// Config is the content of a simulation file.
type Config struct {
	Sessions []Session `json:"sessions" yaml:"sessions"`
}

// Session describes one simulated session, or several when Repeat > 1.
type Session struct {
	ID       string          `json:"id" yaml:"id"`
	Workflow domain.Workflow `json:"workflow" yaml:"workflow"`

	// Topic is the information need; TopicID selects its qrels lines.
	Topic   string `json:"topic,omitempty" yaml:"topic,omitempty"`
	TopicID string `json:"topic_id,omitempty" yaml:"topic_id,omitempty"`

	// Repeat runs the session this many times with consecutive seeds.
	Repeat int    `json:"repeat,omitempty" yaml:"repeat,omitempty"`
	Seed   uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	Top            int                `json:"top,omitempty" yaml:"top,omitempty"`
	CostLimit      float64            `json:"cost_limit,omitempty" yaml:"cost_limit,omitempty"`
	Costs          map[string]float64 `json:"costs,omitempty" yaml:"costs,omitempty"`
	QueryLimit     int                `json:"query_limit,omitempty" yaml:"query_limit,omitempty"`
	UtteranceLimit int                `json:"utterance_limit,omitempty" yaml:"utterance_limit,omitempty"`

	Corpus string `json:"corpus" yaml:"corpus"`
	Qrels  string `json:"qrels,omitempty" yaml:"qrels,omitempty"`

	Queries    []string `json:"queries,omitempty" yaml:"queries,omitempty"`
	Utterances []string `json:"utterances,omitempty" yaml:"utterances,omitempty"`

	// Matrix is the chain of the markov workflow; Matrices holds one chain
	// per query-change class for the query-markov workflow.
	Matrix   string            `json:"matrix,omitempty" yaml:"matrix,omitempty"`
	Matrices map[string]string `json:"matrices,omitempty" yaml:"matrices,omitempty"`

	Policies Policies `json:"policies" yaml:"policies"`
}

// Policies selects one policy per port.
type Policies struct {
	Queries          policy.Spec `json:"queries" yaml:"queries"`
	Utterances       policy.Spec `json:"utterances" yaml:"utterances"`
	Snippets         policy.Spec `json:"snippets" yaml:"snippets"`
	Documents        policy.Spec `json:"documents" yaml:"documents"`
	Responses        policy.Spec `json:"responses" yaml:"responses"`
	SERP             policy.Spec `json:"serp" yaml:"serp"`
	CSRP             policy.Spec `json:"csrp" yaml:"csrp"`
	Stopping         policy.Spec `json:"stopping" yaml:"stopping"`
	ResponseStopping policy.Spec `json:"response_stopping" yaml:"response_stopping"`
}

// Load reads a simulation file (JSON by extension, YAML otherwise), fills
// in defaults and resolves paths relative to the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.ApplyDefaults()
	cfg.resolve(filepath.Dir(path))
	return &cfg, nil
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	for i := range c.Sessions {
		s := &c.Sessions[i]
		if s.ID == "" {
			s.ID = fmt.Sprintf("session-%d", i+1)
		}
		if s.Workflow == "" {
			s.Workflow = domain.WorkflowSearch
		}
		if s.Repeat == 0 {
			s.Repeat = 1
		}
		if s.Top == 0 {
			s.Top = DefaultTop
		}
		if s.CostLimit == 0 {
			s.CostLimit = cost.DefaultLimit
		}

		p := &s.Policies
		setDefault(&p.Queries, "list")
		setDefault(&p.Utterances, "list")
		setDefault(&p.Snippets, "fixed")
		setDefault(&p.Documents, "fixed")
		setDefault(&p.Responses, "fixed")
		setDefault(&p.SERP, "random")
		setDefault(&p.CSRP, "random")
		setDefault(&p.Stopping, "random")
		setDefault(&p.ResponseStopping, "random")
	}
}

func setDefault(spec *policy.Spec, name string) {
	if spec.Name == "" {
		spec.Name = name
	}
}

func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" {
			return p
		}
		p = os.ExpandEnv(p)
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range c.Sessions {
		s := &c.Sessions[i]
		s.Corpus = abs(s.Corpus)
		s.Qrels = abs(s.Qrels)
		s.Matrix = abs(s.Matrix)
		for class, p := range s.Matrices {
			s.Matrices[class] = abs(p)
		}
	}
}

// Validate checks every session and names the first offending field.
func (c *Config) Validate() error {
	if len(c.Sessions) == 0 {
		return fmt.Errorf("no sessions configured")
	}
	seen := make(map[string]bool, len(c.Sessions))
	for i, s := range c.Sessions {
		if seen[s.ID] {
			return fmt.Errorf("sessions[%d].id: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sessions[%d] (%s).%w", i, s.ID, err)
		}
	}
	return nil
}

// Validate checks a single session.
func (s *Session) Validate() error {
	switch s.Workflow {
	case domain.WorkflowSearch, domain.WorkflowConversational, domain.WorkflowMarkov, domain.WorkflowQueryMarkov:
	default:
		return fmt.Errorf("workflow: invalid workflow %q (valid: search, conversational, markov, query-markov)", s.Workflow)
	}
	if s.Repeat < 1 {
		return fmt.Errorf("repeat: must be positive, got %d", s.Repeat)
	}
	if s.Top < 0 {
		return fmt.Errorf("top: must be non-negative, got %d", s.Top)
	}
	if s.CostLimit < 0 {
		return fmt.Errorf("cost_limit: must be non-negative, got %g", s.CostLimit)
	}
	if s.Corpus == "" {
		return fmt.Errorf("corpus: required")
	}
	if _, err := s.CostTable(); err != nil {
		return err
	}

	switch s.Workflow {
	case domain.WorkflowMarkov:
		if s.Matrix == "" {
			return fmt.Errorf("matrix: required by the markov workflow")
		}
	case domain.WorkflowQueryMarkov:
		for _, class := range markov.QueryChanges {
			if _, ok := s.matrixFor(class); !ok {
				return fmt.Errorf("matrices: missing %s", class)
			}
		}
		for name := range s.Matrices {
			if _, ok := markov.ParseQueryChange(name); !ok {
				return fmt.Errorf("matrices: unknown query change %q", name)
			}
		}
	}
	return nil
}

// CostTable parses the cost overrides.
func (s *Session) CostTable() (cost.Table, error) {
	t := make(cost.Table, len(s.Costs))
	for label, c := range s.Costs {
		a, err := domain.ParseAction(label)
		if err != nil {
			return nil, fmt.Errorf("costs: %w", err)
		}
		if c < 0 {
			return nil, fmt.Errorf("costs.%s: must be non-negative, got %g", label, c)
		}
		t[a] = c
	}
	return t, nil
}

// MatrixPaths returns the artifact of every query-change class.
func (s *Session) MatrixPaths() map[markov.QueryChange]string {
	out := make(map[markov.QueryChange]string, len(markov.QueryChanges))
	for _, class := range markov.QueryChanges {
		if p, ok := s.matrixFor(class); ok {
			out[class] = p
		}
	}
	return out
}

func (s *Session) matrixFor(class markov.QueryChange) (string, bool) {
	for name, p := range s.Matrices {
		if c, ok := markov.ParseQueryChange(name); ok && c == class {
			return p, true
		}
	}
	return "", false
}

// SessionIDs expands Repeat into one ID per run.
func (s *Session) SessionIDs() []string {
	if s.Repeat <= 1 {
		return []string{s.ID}
	}
	ids := make([]string, s.Repeat)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%d", s.ID, i+1)
	}
	return ids
}
