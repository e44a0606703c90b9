package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractReport(sessionID string) *domain.Report {
	return &domain.Report{
		SessionID:        sessionID,
		Workflow:         domain.WorkflowSearch,
		CreatedAt:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Actions:          []domain.Action{domain.ActionQuery, domain.ActionSERP, domain.ActionSnippet},
		Queries:          []string{"wildlife extinction"},
		SnippetsExamined: 1,
		AttractiveSERPs:  1,
		TotalCost:        18,
		CostLimit:        120,
	}
}

// RunReportStoreContract runs a suite of tests to verify that a ReportStore implementation
// adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		report := contractReport(sessionID)

		err := store.Save(ctx, sessionID, report)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.SessionID, loaded.SessionID)
		assert.Equal(t, report.Actions, loaded.Actions)
		assert.Equal(t, report.Queries, loaded.Queries)
		assert.Equal(t, report.TotalCost, loaded.TotalCost)
		assert.True(t, report.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		report := contractReport(sessionID)
		report.Error = "policy failed"
		require.NoError(t, store.Save(ctx, sessionID, report))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "policy failed", loaded.Error)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, contractReport(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractReport(id1))
		_ = store.Save(ctx, id2, contractReport(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
