package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/searchsim/pkg/adapters/memory"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunReportStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	r := &domain.Report{SessionID: "s", Actions: []domain.Action{domain.ActionQuery}}
	require.NoError(t, s.Save(ctx, "s", r))

	r.Actions[0] = domain.ActionStop
	loaded, err := s.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionQuery, loaded.Actions[0])

	loaded.Actions[0] = domain.ActionDoc
	again, err := s.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionQuery, again.Actions[0])
}
