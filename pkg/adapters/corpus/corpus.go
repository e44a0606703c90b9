// Package corpus implements an in-memory search engine over a small document
// collection. Ranking is plain term overlap; it exists so simulations can run
// without an external retrieval back-end.
package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// ErrDocumentNotFound is returned for IDs outside the collection.
var ErrDocumentNotFound = errors.New("document not found")

// SnippetLength is the number of characters of content shown in a snippet.
const SnippetLength = 160

// Document is one entry of a corpus file.
type Document struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	Content string `yaml:"content" json:"content"`
	URL     string `yaml:"url,omitempty" json:"url,omitempty"`
}

// File is the structure of a corpus file.
type File struct {
	Documents []Document `yaml:"documents" json:"documents"`
}

// Engine answers queries and utterances from the collection.
// It is read-only after construction and safe for concurrent use.
type Engine struct {
	docs  []Document
	byID  map[string]int
	terms []map[string]int
}

var (
	_ ports.SearchEngine         = (*Engine)(nil)
	_ ports.ConversationalEngine = (*Engine)(nil)
)

// New indexes the documents. IDs must be unique and non-empty.
func New(docs []Document) (*Engine, error) {
	e := &Engine{
		docs:  docs,
		byID:  make(map[string]int, len(docs)),
		terms: make([]map[string]int, len(docs)),
	}
	for i, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("document %d has no id", i)
		}
		if _, dup := e.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate document id %q", d.ID)
		}
		e.byID[d.ID] = i
		tf := make(map[string]int)
		for _, t := range tokenize(d.Title + " " + d.Content) {
			tf[t]++
		}
		e.terms[i] = tf
	}
	return e, nil
}

// Load reads a corpus file (YAML or JSON, by extension) and indexes it.
func Load(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	var f File
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse corpus %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse corpus %s: %w", path, err)
		}
	}
	return New(f.Documents)
}

// Len returns the number of indexed documents.
func (e *Engine) Len() int {
	return len(e.docs)
}

// IssueQuery ranks the documents sharing at least one term with the query.
// Ties are broken by document ID so results are reproducible.
func (e *Engine) IssueQuery(ctx context.Context, query string, top int) (*domain.ResultPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type hit struct {
		idx   int
		score float64
	}
	q := tokenize(query)
	var hits []hit
	for i, tf := range e.terms {
		score := 0.0
		for _, t := range q {
			score += float64(tf[t])
		}
		if score > 0 {
			hits = append(hits, hit{i, score})
		}
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return e.docs[hits[a].idx].ID < e.docs[hits[b].idx].ID
	})
	if top > 0 && len(hits) > top {
		hits = hits[:top]
	}

	page := &domain.ResultPage{Query: query}
	for rank, h := range hits {
		d := e.docs[h.idx]
		page.Results = append(page.Results, domain.Result{
			Rank:       rank + 1,
			DocumentID: d.ID,
			Score:      h.score,
			Title:      d.Title,
			Snippet:    snippet(d.Content),
			URL:        d.URL,
		})
	}
	return page, nil
}

// Document returns the full document.
func (e *Engine) Document(ctx context.Context, id string) (*domain.Document, error) {
	i, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	d := e.docs[i]
	return &domain.Document{ID: d.ID, Title: d.Title, Content: d.Content}, nil
}

// IssueUtterance answers with the best matching document, or nil when
// nothing matches.
func (e *Engine) IssueUtterance(ctx context.Context, utterance string) (*domain.Response, error) {
	page, err := e.IssueQuery(ctx, utterance, 1)
	if err != nil {
		return nil, err
	}
	if page.Len() == 0 {
		return nil, nil
	}
	d := e.docs[e.byID[page.Results[0].DocumentID]]
	return &domain.Response{ID: d.ID, Utterance: utterance, Text: d.Content}, nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func snippet(content string) string {
	r := []rune(content)
	if len(r) <= SnippetLength {
		return content
	}
	return strings.TrimSpace(string(r[:SnippetLength])) + "..."
}
