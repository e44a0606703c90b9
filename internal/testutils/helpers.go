// Package testutils provides scripted test doubles for the simulator ports.
// Every double counts its calls so tests can assert which policies ran.
package testutils

import (
	"context"
	"fmt"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// Page builds a result page whose results carry the given document IDs, ranked from 1.
func Page(query string, docIDs ...string) *domain.ResultPage {
	page := &domain.ResultPage{Query: query}
	for i, id := range docIDs {
		page.Results = append(page.Results, domain.Result{
			Rank:       i + 1,
			DocumentID: id,
			Title:      "Title " + id,
			Snippet:    "Snippet " + id,
		})
	}
	return page
}

// Search is a SearchEngine answering from fixed pages.
// Unknown queries get an empty page.
type Search struct {
	Pages     map[string]*domain.ResultPage
	Err       error
	Queries   int
	Documents int
}

// IssueQuery implements ports.SearchEngine.
func (s *Search) IssueQuery(ctx context.Context, query string, top int) (*domain.ResultPage, error) {
	s.Queries++
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Pages[query]; ok {
		return p, nil
	}
	return &domain.ResultPage{Query: query}, nil
}

// Document implements ports.SearchEngine.
func (s *Search) Document(ctx context.Context, id string) (*domain.Document, error) {
	s.Documents++
	return &domain.Document{ID: id, Title: "Title " + id, Content: "Content " + id}, nil
}

// Conversation answers every utterance with a response derived from it.
type Conversation struct {
	Err   error
	Calls int
}

// IssueUtterance implements ports.ConversationalEngine.
func (c *Conversation) IssueUtterance(ctx context.Context, utterance string) (*domain.Response, error) {
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}
	return &domain.Response{ID: fmt.Sprintf("r%d", c.Calls), Utterance: utterance, Text: "answer to " + utterance}, nil
}

// Generator hands out a fixed list of texts, then reports exhaustion.
// It serves as both query and utterance generator.
type Generator struct {
	Texts   []string
	Err     error
	Calls   int
	Updates int
}

func (g *Generator) next() (string, bool, error) {
	g.Calls++
	if g.Err != nil {
		return "", false, g.Err
	}
	if len(g.Texts) == 0 {
		return "", false, nil
	}
	t := g.Texts[0]
	g.Texts = g.Texts[1:]
	return t, true, nil
}

// NextQuery implements ports.QueryGenerator.
func (g *Generator) NextQuery(ctx context.Context, m ports.Memory) (string, bool, error) {
	return g.next()
}

// NextUtterance implements ports.UtteranceGenerator.
func (g *Generator) NextUtterance(ctx context.Context, m ports.Memory) (string, bool, error) {
	return g.next()
}

// UpdateModel implements ports.ModelUpdater.
func (g *Generator) UpdateModel(ctx context.Context, m ports.Memory) error {
	g.Updates++
	return nil
}

// Judge returns scripted judgments; once the script is used up it repeats Default.
// It serves as every classifier and impression port.
type Judge struct {
	Script  []bool
	Default bool
	Err     error
	Calls   int
	Updates int
}

func (j *Judge) judge() (bool, error) {
	j.Calls++
	if j.Err != nil {
		return false, j.Err
	}
	if len(j.Script) == 0 {
		return j.Default, nil
	}
	v := j.Script[0]
	j.Script = j.Script[1:]
	return v, nil
}

// UpdateModel implements ports.ModelUpdater.
func (j *Judge) UpdateModel(ctx context.Context, m ports.Memory) error {
	j.Updates++
	return nil
}

// SnippetJudge adapts a Judge to ports.SnippetClassifier.
type SnippetJudge struct{ *Judge }

// IsRelevant implements ports.SnippetClassifier.
func (s SnippetJudge) IsRelevant(ctx context.Context, r domain.Result) (bool, error) {
	return s.judge()
}

// DocumentJudge adapts a Judge to ports.DocumentClassifier.
type DocumentJudge struct{ *Judge }

// IsRelevant implements ports.DocumentClassifier.
func (d DocumentJudge) IsRelevant(ctx context.Context, doc domain.Document) (bool, error) {
	return d.judge()
}

// ResponseJudge adapts a Judge to ports.ResponseClassifier.
type ResponseJudge struct{ *Judge }

// IsRelevant implements ports.ResponseClassifier.
func (r ResponseJudge) IsRelevant(ctx context.Context, resp domain.Response) (bool, error) {
	return r.judge()
}

// SERPJudge adapts a Judge to ports.SERPImpression.
type SERPJudge struct{ *Judge }

// IsAttractive implements ports.SERPImpression.
func (s SERPJudge) IsAttractive(ctx context.Context, page *domain.ResultPage) (bool, error) {
	return s.judge()
}

// CSRPJudge adapts a Judge to ports.CSRPImpression.
type CSRPJudge struct{ *Judge }

// IsAttractive implements ports.CSRPImpression.
func (c CSRPJudge) IsAttractive(ctx context.Context, resp *domain.Response) (bool, error) {
	return c.judge()
}

// Decider returns scripted actions, then Default.
type Decider struct {
	Script  []domain.Action
	Default domain.Action
	Calls   int
}

// Decide implements ports.StoppingDecider and ports.ResponseDecider.
func (d *Decider) Decide(ctx context.Context, m ports.Memory) (domain.Action, error) {
	d.Calls++
	if len(d.Script) == 0 {
		return d.Default, nil
	}
	a := d.Script[0]
	d.Script = d.Script[1:]
	return a, nil
}
