package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/searchsim/internal/runtime"
	"github.com/aretw0/searchsim/internal/testutils"
	"github.com/aretw0/searchsim/pkg/cost"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/memory"
	"github.com/aretw0/searchsim/pkg/ports"
	"github.com/stretchr/testify/require"
)

// maxSteps bounds drive so a selector that never finishes fails the test
// instead of hanging it.
const maxSteps = 200

// session wires a memory and a cost logger to scripted doubles.
// Unscripted judges answer: SERP and CSRP attractive, snippets, documents
// and responses not relevant. Deciders ask for another snippet or utterance.
type session struct {
	memory *memory.Memory
	logger *cost.Logger

	search *testutils.Search
	convo  *testutils.Conversation

	queries    *testutils.Generator
	utterances *testutils.Generator
	snippets   *testutils.Judge
	documents  *testutils.Judge
	responses  *testutils.Judge
	serp       *testutils.Judge
	csrp       *testutils.Judge
	stopping   *testutils.Decider
	respStop   *testutils.Decider

	exec *runtime.Executor
}

func newSession(t *testing.T, limit float64) *session {
	t.Helper()
	s := &session{
		search:     &testutils.Search{Pages: map[string]*domain.ResultPage{}},
		convo:      &testutils.Conversation{},
		queries:    &testutils.Generator{},
		utterances: &testutils.Generator{},
		snippets:   &testutils.Judge{},
		documents:  &testutils.Judge{},
		responses:  &testutils.Judge{},
		serp:       &testutils.Judge{Default: true},
		csrp:       &testutils.Judge{Default: true},
		stopping:   &testutils.Decider{Default: domain.ActionSnippet},
		respStop:   &testutils.Decider{Default: domain.ActionUtterance},
	}
	s.memory = memory.New(
		memory.WithSearchEngine(s.search),
		memory.WithConversationalEngine(s.convo),
		memory.WithTopic("wildlife"),
	)
	s.logger = cost.NewLogger(cost.NewTracker(cost.DefaultCosts(), limit), s.memory)
	return s
}

func (s *session) policies() runtime.Policies {
	return runtime.Policies{
		Queries:          s.queries,
		Snippets:         testutils.SnippetJudge{Judge: s.snippets},
		Documents:        testutils.DocumentJudge{Judge: s.documents},
		SERP:             testutils.SERPJudge{Judge: s.serp},
		Stopping:         s.stopping,
		Utterances:       s.utterances,
		CSRP:             testutils.CSRPJudge{Judge: s.csrp},
		Responses:        testutils.ResponseJudge{Judge: s.responses},
		ResponseStopping: s.respStop,
	}
}

// executor returns the session's executor, built on first use.
func (s *session) executor() *runtime.Executor {
	if s.exec == nil {
		s.exec = runtime.NewExecutor(s.memory, s.logger, s.policies())
	}
	return s.exec
}

func (s *session) searchSelector(t *testing.T) *runtime.ScriptedSelector {
	t.Helper()
	sel, err := runtime.NewSearchSelector(s.executor(), s.stopping)
	require.NoError(t, err)
	return sel
}

func (s *session) conversationalSelector(t *testing.T) *runtime.ScriptedSelector {
	t.Helper()
	sel, err := runtime.NewConversationalSelector(s.executor(), s.respStop)
	require.NoError(t, err)
	return sel
}

// drive decides actions until the cost logger reports the session finished.
func (s *session) drive(t *testing.T, sel ports.ActionSelector) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < maxSteps; i++ {
		if s.logger.IsFinished() {
			return
		}
		require.NoError(t, sel.DecideAction(ctx), "step %d", i)
	}
	t.Fatalf("session not finished after %d steps: %v", maxSteps, s.memory.Actions())
}

// steps decides exactly n actions.
func steps(t *testing.T, sel ports.ActionSelector, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		require.NoError(t, sel.DecideAction(ctx), "step %d", i)
	}
}
