package cost_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/searchsim/internal/logging"
	"github.com/aretw0/searchsim/pkg/cost"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_DefaultTables(t *testing.T) {
	tr := cost.NewTracker(nil, 0)
	assert.Equal(t, cost.DefaultLimit, tr.Limit())

	for _, tc := range []struct {
		action domain.Action
		want   float64
	}{
		{domain.ActionQuery, 10},
		{domain.ActionSERP, 5},
		{domain.ActionSnippet, 3},
		{domain.ActionDoc, 20},
		{domain.ActionMark, 3},
		{domain.ActionUtterance, 10},
		{domain.ActionCSRP, 5},
		{domain.ActionResponse, 30},
		{domain.ActionMarkResponse, 3},
		{domain.ActionStop, 0},
	} {
		c, ok := tr.Record(tc.action)
		require.True(t, ok, tc.action)
		assert.Equal(t, tc.want, c, tc.action)
	}
}

func TestTracker_BudgetBoundary(t *testing.T) {
	tr := cost.NewTracker(cost.Table{domain.ActionQuery: 10}, 120)

	for i := 0; i < 11; i++ {
		tr.Record(domain.ActionQuery)
		assert.False(t, tr.Finished(domain.ActionQuery), "after %d actions", i+1)
	}

	tr.Record(domain.ActionQuery)
	assert.Equal(t, 120.0, tr.Total())
	assert.True(t, tr.Finished(domain.ActionQuery), "equality with the limit finishes")
	assert.Equal(t, cost.ReasonBudget, tr.Reason())
	assert.Equal(t, 1.0, tr.Progress())
}

func TestTracker_Latches(t *testing.T) {
	tr := cost.NewTracker(nil, 120)
	assert.False(t, tr.Finished(domain.ActionSERP))

	tr.Exhaust()
	assert.True(t, tr.Finished(domain.ActionSERP))
	assert.Equal(t, cost.ReasonExhausted, tr.Reason())

	// Nothing un-finishes a session.
	assert.True(t, tr.Finished(domain.ActionQuery))
	tr.Stop()
	assert.Equal(t, cost.ReasonExhausted, tr.Reason())
}

func TestTracker_StopAction(t *testing.T) {
	tr := cost.NewTracker(nil, 120)
	assert.True(t, tr.Finished(domain.ActionStop))
	assert.Equal(t, cost.ReasonStopped, tr.Reason())
}

func TestTracker_ElapsedStamps(t *testing.T) {
	tr := cost.NewTracker(nil, 120)
	tr.Record(domain.ActionQuery)
	tr.Record(domain.ActionSERP)
	tr.Record(domain.ActionSnippet)
	tr.Record(domain.ActionDoc)
	tr.Record(domain.ActionMark)

	assert.Equal(t, 10.0, tr.LastQueryCost())
	assert.Equal(t, 41.0, tr.LastMarkedCost())
	assert.InDelta(t, 41.0/120.0, tr.Progress(), 1e-9)
}

func TestTable_Merge(t *testing.T) {
	base := cost.SearchCosts()
	merged := base.Merge(map[domain.Action]float64{domain.ActionDoc: 50})

	assert.Equal(t, 50.0, merged[domain.ActionDoc])
	assert.Equal(t, 20.0, base[domain.ActionDoc])
}

func TestLogger_UnknownActionIsIgnored(t *testing.T) {
	var buf bytes.Buffer
	l := cost.NewLogger(cost.NewTracker(cost.SearchCosts(), 10), memory.New(),
		cost.WithLogger(logging.NewWithWriter(&buf, slog.LevelDebug)))

	l.LogAction(context.Background(), domain.ActionResponse)

	assert.Contains(t, buf.String(), "unrecognized action")
	assert.Equal(t, 0.0, l.Tracker().Total())
	assert.False(t, l.IsFinished())
}

func TestLogger_StopAndHooks(t *testing.T) {
	var actions []domain.Action
	var infos []string
	hooks := domain.LifecycleHooks{
		OnAction: func(_ context.Context, e *domain.ActionEvent) {
			actions = append(actions, e.Action)
			assert.Equal(t, "s1", e.SessionID)
		},
		OnInfo: func(_ context.Context, e *domain.InfoEvent) {
			infos = append(infos, e.Kind)
		},
	}
	l := cost.NewLogger(cost.NewTracker(nil, 120), memory.New(),
		cost.WithLifecycleHooks(hooks), cost.WithSessionID("s1"))
	ctx := context.Background()

	l.Start(ctx)
	l.LogAction(ctx, domain.ActionQuery, slog.String("query", "tigers"))
	l.LogInfo(ctx, "SERP_END_REACHED")
	assert.False(t, l.IsFinished())

	l.LogAction(ctx, domain.ActionStop)
	assert.True(t, l.IsFinished())
	assert.Equal(t, cost.ReasonStopped, l.Tracker().Reason())
	assert.Equal(t, []domain.Action{domain.ActionQuery, domain.ActionStop}, actions)
	assert.Equal(t, []string{"SERP_END_REACHED"}, infos)
}

func TestLogger_LastActionStopFinishes(t *testing.T) {
	m := memory.New()
	l := cost.NewLogger(cost.NewTracker(nil, 120), m)
	assert.False(t, l.IsFinished())

	m.Record(domain.ActionStop, domain.OutcomeTrue)
	assert.True(t, l.IsFinished())
}
