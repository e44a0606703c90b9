package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/searchsim/pkg/adapters/sqlite"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

func open(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_Contract(t *testing.T) {
	ports.RunReportStoreContract(t, open(t))
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reports.db")

	s, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "s1", &domain.Report{SessionID: "s1", Workflow: domain.WorkflowSearch, TotalCost: 42}))
	require.NoError(t, s.Close())

	s, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	r, err := s.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 42.0, r.TotalCost)
}

func TestSQLiteStore_TotalCostByWorkflow(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	require.NoError(t, s.Save(ctx, "a", &domain.Report{Workflow: domain.WorkflowSearch, TotalCost: 30}))
	require.NoError(t, s.Save(ctx, "b", &domain.Report{Workflow: domain.WorkflowSearch, TotalCost: 12}))
	require.NoError(t, s.Save(ctx, "c", &domain.Report{Workflow: domain.WorkflowConversational, TotalCost: 48}))

	totals, err := s.TotalCostByWorkflow(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.Workflow]float64{
		domain.WorkflowSearch:         42,
		domain.WorkflowConversational: 48,
	}, totals)
}
