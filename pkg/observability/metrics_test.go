package observability_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/observability"
)

// counter sums every sample of the named family whose labels match.
func counter(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)

	total := 0.0
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	h := m.Hooks(domain.WorkflowSearch)
	h.OnAction(ctx, &domain.ActionEvent{Action: domain.ActionQuery})
	h.OnAction(ctx, &domain.ActionEvent{Action: domain.ActionQuery})
	h.OnAction(ctx, &domain.ActionEvent{Action: domain.ActionSERP})
	h.OnInfo(ctx, &domain.InfoEvent{Kind: "OUT_OF_QUERIES"})
	h.OnSessionEnd(ctx, &domain.SessionEvent{Reason: "exhausted", TotalCost: 25})

	assert.Equal(t, 2.0, counter(t, reg, "searchsim_actions_total", map[string]string{"action": "QUERY"}))
	assert.Equal(t, 3.0, counter(t, reg, "searchsim_actions_total", map[string]string{"workflow": "search"}))
	assert.Equal(t, 1.0, counter(t, reg, "searchsim_info_events_total", map[string]string{"kind": "OUT_OF_QUERIES"}))
	assert.Equal(t, 1.0, counter(t, reg, "searchsim_sessions_finished_total", map[string]string{"reason": "exhausted"}))
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestCombine(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{
		OnAction: func(context.Context, *domain.ActionEvent) { order = append(order, "a") },
	}
	b := domain.LifecycleHooks{
		OnAction:     func(context.Context, *domain.ActionEvent) { order = append(order, "b") },
		OnSessionEnd: func(context.Context, *domain.SessionEvent) { order = append(order, "end") },
	}

	h := observability.Combine(a, domain.LifecycleHooks{}, b)
	h.OnAction(context.Background(), &domain.ActionEvent{})
	h.OnSessionEnd(context.Background(), &domain.SessionEvent{})

	assert.Equal(t, []string{"a", "b", "end"}, order)
	assert.Nil(t, h.OnInfo)
}
