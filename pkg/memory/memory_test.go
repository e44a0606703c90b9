package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/searchsim/internal/testutils"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchMemory(t *testing.T) (*memory.Memory, *testutils.Search) {
	t.Helper()
	search := &testutils.Search{Pages: map[string]*domain.ResultPage{
		"wildlife extinction": testutils.Page("wildlife extinction", "d1", "d2", "d3"),
	}}
	return memory.New(memory.WithSearchEngine(search), memory.WithTopic("wildlife")), search
}

func TestMemory_ActionLog(t *testing.T) {
	m := memory.New()
	assert.Equal(t, domain.ActionStart, m.LastAction())
	_, ok := m.LastRecord()
	assert.False(t, ok)

	m.Record(domain.ActionQuery, domain.OutcomeTrue)
	m.Record(domain.ActionSERP, domain.OutcomeFalse)
	m.Fail(domain.ActionQuery, errors.New("backend down"))

	assert.Equal(t, []domain.Action{domain.ActionQuery, domain.ActionSERP, domain.ActionQuery}, m.Actions())
	last, ok := m.LastRecord()
	require.True(t, ok)
	assert.True(t, last.Failed())
	assert.Equal(t, domain.OutcomeNone, last.Outcome)

	rep := m.Report()
	assert.Equal(t, "backend down", rep.Error)
}

func TestMemory_IssueQueryResetsCursor(t *testing.T) {
	ctx := context.Background()
	m, search := newSearchMemory(t)

	require.NoError(t, m.AddIssuedQuery(ctx, "wildlife extinction"))
	assert.Equal(t, 1, search.Queries)
	assert.Equal(t, "wildlife extinction", m.LastQuery())
	assert.Equal(t, "", m.PreviousQuery())
	assert.Equal(t, 3, m.CurrentResultsLength())

	m.IncrementSERPPosition()
	m.IncrementSERPPosition()
	assert.Equal(t, 2, m.SERPPosition())

	require.NoError(t, m.AddIssuedQuery(ctx, "unknown"))
	assert.Equal(t, 0, m.SERPPosition())
	assert.Equal(t, 0, m.CurrentResultsLength())
	assert.Equal(t, "wildlife extinction", m.PreviousQuery())
	assert.Equal(t, []string{"wildlife extinction", "unknown"}, m.IssuedQueries())
}

func TestMemory_IssueQueryFailureKeepsState(t *testing.T) {
	m, search := newSearchMemory(t)
	search.Err = errors.New("timeout")

	err := m.AddIssuedQuery(context.Background(), "wildlife extinction")
	require.Error(t, err)
	assert.ErrorIs(t, err, search.Err)
	assert.Empty(t, m.IssuedQueries())
	assert.Nil(t, m.CurrentPage())
}

func TestMemory_WithoutEngines(t *testing.T) {
	m := memory.New()
	assert.Error(t, m.AddIssuedQuery(context.Background(), "q"))
	assert.Error(t, m.AddIssuedUtterance(context.Background(), "u"))
}

func TestMemory_SnippetCursor(t *testing.T) {
	ctx := context.Background()
	m, _ := newSearchMemory(t)

	_, err := m.CurrentSnippet()
	assert.ErrorIs(t, err, domain.ErrNoQueryIssued)
	_, err = m.CurrentDocument(ctx)
	assert.ErrorIs(t, err, domain.ErrNoQueryIssued)

	require.NoError(t, m.AddIssuedQuery(ctx, "wildlife extinction"))
	_, err = m.CurrentDocument(ctx)
	assert.ErrorIs(t, err, domain.ErrNothingExamined)

	for _, want := range []string{"d1", "d2", "d3"} {
		s, err := m.CurrentSnippet()
		require.NoError(t, err)
		assert.Equal(t, want, s.DocumentID)
		m.IncrementSERPPosition()
	}

	_, err = m.CurrentSnippet()
	assert.ErrorIs(t, err, domain.ErrEndOfPage)

	doc, err := m.CurrentDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d3", doc.ID)
}

func TestMemory_ObservationCount(t *testing.T) {
	m := memory.New()
	r := domain.Result{Rank: 1, DocumentID: "d1"}

	assert.Equal(t, 0, m.ObservationCount("d1"))
	m.AddExaminedSnippet(r, true)
	m.AddExaminedSnippet(r, false)
	assert.Equal(t, 2, m.ObservationCount("d1"))
	assert.Equal(t, []string{"d1", "d1"}, m.ExaminedSnippets())
}

func TestMemory_DocumentJudgmentsAreDisjoint(t *testing.T) {
	m := memory.New()
	d1 := domain.Document{ID: "d1"}
	d2 := domain.Document{ID: "d2"}

	m.AddRelevantDocument(d1)
	m.AddRelevantDocument(d2)
	m.AddRelevantDocument(d1)
	assert.Equal(t, []string{"d1", "d2"}, m.RelevantDocuments())

	m.AddIrrelevantDocument(d1)
	assert.False(t, m.IsRelevant("d1"))
	assert.True(t, m.IsIrrelevant("d1"))
	assert.Equal(t, []string{"d2"}, m.RelevantDocuments())

	last, ok := m.LastDocument()
	require.True(t, ok)
	assert.Equal(t, memory.Examined{ID: "d1", Judgment: 0}, last)

	m.AddRelevantDocument(d1)
	assert.True(t, m.IsRelevant("d1"))
	assert.False(t, m.IsIrrelevant("d1"))

	rep := m.Report()
	assert.Equal(t, 2, rep.RelevantDocuments)
	assert.Equal(t, 0, rep.IrrelevantDocuments)
	assert.Equal(t, 5, rep.DocumentsExamined)
}

func TestMemory_Conversation(t *testing.T) {
	ctx := context.Background()
	convo := &testutils.Conversation{}
	m := memory.New(memory.WithConversationalEngine(convo), memory.WithUtteranceLimit(3))

	assert.Nil(t, m.CurrentResponse())
	require.NoError(t, m.AddIssuedUtterance(ctx, "tell me about tigers"))
	resp := m.CurrentResponse()
	require.NotNil(t, resp)
	assert.Equal(t, "tell me about tigers", resp.Utterance)
	assert.Equal(t, 3, m.UtteranceLimit())

	m.AddRelevantResponse(*resp)
	assert.Equal(t, 1, m.ObservationCount(resp.ID))
	judged, ok := m.LastJudgedResponse()
	require.True(t, ok)
	assert.Equal(t, 1, judged.Judgment)

	m.AddCSRPImpression(true)
	m.AddCSRPImpression(false)
	a, u := m.CSRPImpressions()
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, u)

	rep := m.Report()
	assert.Equal(t, []string{"tell me about tigers"}, rep.Utterances)
	assert.Equal(t, 1, rep.ResponsesExamined)
	assert.Equal(t, 1, rep.RelevantResponses)
}

func TestMemory_SERPImpressions(t *testing.T) {
	m := memory.New()
	m.AddSERPImpression(true)
	m.AddSERPImpression(true)
	m.AddSERPImpression(false)

	a, u := m.SERPImpressions()
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, u)
}
