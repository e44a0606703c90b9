package domain_test

import (
	"testing"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	cases := map[string]domain.Action{
		"QUERY":          domain.ActionQuery,
		"snippet":        domain.ActionSnippet,
		" MarkResponse ": domain.ActionMarkResponse,
		"None":           domain.ActionNone,
		"":               domain.ActionNone,
		"END":            domain.ActionStop,
	}
	for label, want := range cases {
		got, err := domain.ParseAction(label)
		require.NoError(t, err, label)
		assert.Equal(t, want, got, label)
	}
}

func TestParseAction_Unknown(t *testing.T) {
	_, err := domain.ParseAction("SCROLL")
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestOutcome(t *testing.T) {
	assert.True(t, domain.OutcomeOf(true).IsTrue())
	assert.False(t, domain.OutcomeOf(false).IsTrue())
	assert.False(t, domain.OutcomeNone.IsTrue())
	assert.Equal(t, "none", domain.OutcomeNone.String())
}

func TestResultPage_LenNil(t *testing.T) {
	var p *domain.ResultPage
	assert.Equal(t, 0, p.Len())
}
