package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/searchsim/pkg/domain"
)

// Metrics holds the simulator collectors.
type Metrics struct {
	Actions  *prometheus.CounterVec
	Infos    *prometheus.CounterVec
	Cost     *prometheus.HistogramVec
	Finished *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchsim_actions_total",
				Help: "Actions charged to simulated sessions.",
			},
			[]string{"workflow", "action"},
		),
		Infos: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchsim_info_events_total",
				Help: "Non-action notices such as OUT_OF_QUERIES.",
			},
			[]string{"workflow", "kind"},
		),
		Cost: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "searchsim_session_cost",
				Help:    "Total cost of finished sessions.",
				Buckets: prometheus.LinearBuckets(0, 20, 10),
			},
			[]string{"workflow"},
		),
		Finished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchsim_sessions_finished_total",
				Help: "Finished sessions by reason.",
			},
			[]string{"workflow", "reason"},
		),
	}

	for _, c := range []prometheus.Collector{m.Actions, m.Infos, m.Cost, m.Finished} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that feed the collectors for one workflow.
func (m *Metrics) Hooks(workflow domain.Workflow) domain.LifecycleHooks {
	w := string(workflow)
	return domain.LifecycleHooks{
		OnAction: func(_ context.Context, e *domain.ActionEvent) {
			m.Actions.WithLabelValues(w, e.Action.String()).Inc()
		},
		OnInfo: func(_ context.Context, e *domain.InfoEvent) {
			m.Infos.WithLabelValues(w, e.Kind).Inc()
		},
		OnSessionEnd: func(_ context.Context, e *domain.SessionEvent) {
			m.Cost.WithLabelValues(w).Observe(e.TotalCost)
			m.Finished.WithLabelValues(w, e.Reason).Inc()
		},
	}
}
