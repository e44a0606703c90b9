package corpus_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/searchsim/pkg/adapters/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const corpusYAML = `
documents:
  - id: d1
    title: Tiger conservation
    content: Wild tiger populations are recovering in some reserves.
  - id: d2
    title: Ocean acidification
    content: Carbon dioxide lowers the pH of sea water.
  - id: d3
    title: Tiger and lion
    content: Tiger and lion habitats overlap in a few places. Tiger tiger.
`

func load(t *testing.T) *corpus.Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(corpusYAML), 0o644))
	e, err := corpus.Load(path)
	require.NoError(t, err)
	return e
}

func TestEngine_IssueQuery(t *testing.T) {
	e := load(t)
	ctx := context.Background()
	require.Equal(t, 3, e.Len())

	page, err := e.IssueQuery(ctx, "Tiger", 10)
	require.NoError(t, err)
	require.Equal(t, 2, page.Len())
	assert.Equal(t, "d3", page.Results[0].DocumentID)
	assert.Equal(t, 1, page.Results[0].Rank)
	assert.Equal(t, "d1", page.Results[1].DocumentID)
	assert.Equal(t, 2, page.Results[1].Rank)

	page, err = e.IssueQuery(ctx, "tiger", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Len())

	page, err = e.IssueQuery(ctx, "volcano", 10)
	require.NoError(t, err)
	assert.Zero(t, page.Len())
}

func TestEngine_Document(t *testing.T) {
	e := load(t)

	d, err := e.Document(context.Background(), "d2")
	require.NoError(t, err)
	assert.Equal(t, "Ocean acidification", d.Title)

	_, err = e.Document(context.Background(), "d9")
	assert.ErrorIs(t, err, corpus.ErrDocumentNotFound)
}

func TestEngine_IssueUtterance(t *testing.T) {
	e := load(t)

	resp, err := e.IssueUtterance(context.Background(), "what lowers sea pH?")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "d2", resp.ID)

	resp, err = e.IssueUtterance(context.Background(), "volcano")
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestNew_Validation(t *testing.T) {
	_, err := corpus.New([]corpus.Document{{ID: "a"}, {ID: "a"}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = corpus.New([]corpus.Document{{Title: "untitled"}})
	assert.ErrorContains(t, err, "no id")
}

func TestSnippetIsTruncated(t *testing.T) {
	long := strings.Repeat("word ", 100)
	e, err := corpus.New([]corpus.Document{{ID: "a", Content: long}})
	require.NoError(t, err)

	page, err := e.IssueQuery(context.Background(), "word", 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Len())
	assert.True(t, strings.HasSuffix(page.Results[0].Snippet, "..."))
	assert.Less(t, len(page.Results[0].Snippet), len(long))
}
