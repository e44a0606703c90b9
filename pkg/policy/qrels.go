package policy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// Qrels holds graded relevance judgments of one topic, keyed by document ID.
type Qrels map[string]int

// ReadQrels parses TREC qrels lines ("topic iteration docid grade") and keeps
// those of the given topic. An empty topic keeps every line.
func ReadQrels(r io.Reader, topic string) (Qrels, error) {
	q := make(Qrels)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("qrels line %d: want 4 fields, got %d", line, len(fields))
		}
		if topic != "" && fields[0] != topic {
			continue
		}
		grade, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("qrels line %d: %w", line, err)
		}
		q[fields[2]] = grade
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read qrels: %w", err)
	}
	return q, nil
}

// LoadQrels reads a qrels file.
func LoadQrels(path, topic string) (Qrels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open qrels: %w", err)
	}
	defer f.Close()
	return ReadQrels(f, topic)
}

// Relevant reports whether the document is judged at or above minGrade.
// Unjudged documents are not relevant.
func (q Qrels) Relevant(docID string, minGrade int) bool {
	g, ok := q[docID]
	return ok && g >= minGrade
}

// QrelsSnippets judges snippets by the qrels of their document.
type QrelsSnippets struct {
	Qrels    Qrels
	MinGrade int
}

// IsRelevant implements ports.SnippetClassifier.
func (c *QrelsSnippets) IsRelevant(ctx context.Context, s domain.Result) (bool, error) {
	return c.Qrels.Relevant(s.DocumentID, c.MinGrade), nil
}

// UpdateModel implements ports.ModelUpdater.
func (c *QrelsSnippets) UpdateModel(ctx context.Context, m ports.Memory) error {
	return nil
}

// QrelsDocuments judges documents by their qrels.
type QrelsDocuments struct {
	Qrels    Qrels
	MinGrade int
}

// IsRelevant implements ports.DocumentClassifier.
func (c *QrelsDocuments) IsRelevant(ctx context.Context, d domain.Document) (bool, error) {
	return c.Qrels.Relevant(d.ID, c.MinGrade), nil
}

// UpdateModel implements ports.ModelUpdater.
func (c *QrelsDocuments) UpdateModel(ctx context.Context, m ports.Memory) error {
	return nil
}
