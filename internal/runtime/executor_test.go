package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/searchsim/internal/runtime"
	"github.com/aretw0/searchsim/internal/testutils"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_UnknownActionIsNoop(t *testing.T) {
	s := newSession(t, 120)
	exec := runtime.NewExecutor(s.memory, s.logger, runtime.Policies{})

	assert.False(t, exec.Handles(domain.ActionQuery))
	assert.True(t, exec.Handles(domain.ActionStop))

	out, err := exec.Execute(context.Background(), domain.ActionQuery)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNone, out)
	assert.Empty(t, s.memory.Actions())
	assert.Zero(t, s.logger.Tracker().Total())
}

func TestExecutor_DocWithoutQuery(t *testing.T) {
	s := newSession(t, 120)
	exec := s.executor()

	out, err := exec.Execute(context.Background(), domain.ActionDoc)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFalse, out)
	assert.Zero(t, s.documents.Calls)
	assert.Zero(t, s.logger.Tracker().Total())
}

func TestExecutor_StopSetsExplicitStop(t *testing.T) {
	s := newSession(t, 120)
	out, err := s.executor().Execute(context.Background(), domain.ActionStop)
	require.NoError(t, err)

	assert.True(t, out.IsTrue())
	assert.True(t, s.logger.IsFinished())
	assert.Equal(t, domain.ActionStop, s.memory.LastAction())
}

func TestExecutor_MarkReflectsJudgment(t *testing.T) {
	s := newSession(t, 200)
	s.queries.Texts = []string{"a"}
	s.search.Pages["a"] = testutils.Page("a", "d1")
	s.snippets.Default = true
	exec := s.executor()
	ctx := context.Background()

	for _, a := range []domain.Action{domain.ActionQuery, domain.ActionSERP, domain.ActionSnippet, domain.ActionDoc} {
		_, err := exec.Execute(ctx, a)
		require.NoError(t, err)
	}
	assert.True(t, s.memory.IsIrrelevant("d1"))

	out, err := exec.Execute(ctx, domain.ActionMark)
	require.NoError(t, err)
	assert.True(t, out.IsTrue())
	assert.Equal(t, 1, s.search.Documents)
}

func TestExecutor_BackendFailure(t *testing.T) {
	s := newSession(t, 120)
	s.queries.Texts = []string{"a"}
	s.search.Err = assert.AnError

	_, err := s.executor().Execute(context.Background(), domain.ActionQuery)
	require.ErrorIs(t, err, assert.AnError)

	assert.Empty(t, s.memory.IssuedQueries())
	last, ok := s.memory.LastRecord()
	require.True(t, ok)
	assert.Equal(t, domain.ActionQuery, last.Action)
	assert.True(t, last.Failed())
	assert.Zero(t, s.logger.Tracker().Total(), "failed query is not charged")
}
