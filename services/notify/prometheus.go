package notifysvc

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

const namespace = "pokeayman"

// PrometheusSink counts engine events on its own registry.
type PrometheusSink struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	coins    *prometheus.CounterVec
	spins    *prometheus.CounterVec
}

var _ core.EventSink = (*PrometheusSink)(nil)

func NewPrometheusSink() *PrometheusSink {
	s := &PrometheusSink{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "events_total",
				Help:      "Total number of engine events by kind.",
			},
			[]string{"kind"},
		),
		coins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "coins_total",
				Help:      "Total number of coins moved, by direction and reason.",
			},
			[]string{"direction", "reason"},
		),
		spins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wheel",
				Name:      "spins_total",
				Help:      "Total number of charged spins by outcome.",
			},
			[]string{"outcome"},
		),
	}
	s.registry.MustRegister(s.events, s.coins, s.spins)
	return s
}

func (s *PrometheusSink) Registry() *prometheus.Registry {
	return s.registry
}

// Handler serves the registry in the prometheus exposition format.
func (s *PrometheusSink) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

func (s *PrometheusSink) Emit(_ context.Context, evt core.Event) {
	s.events.WithLabelValues(evt.Kind).Inc()

	switch evt.Kind {
	case core.EventLedgerCredited, core.EventLedgerDebited:
		amount, _ := evt.Attrs["amount"].(int64)
		reason, _ := evt.Attrs["reason"].(string)
		direction := "credit"
		if evt.Kind == core.EventLedgerDebited {
			direction = "debit"
		}
		s.coins.WithLabelValues(direction, reason).Add(float64(amount))
	case core.EventWheelSpun:
		outcome, _ := evt.Attrs["outcome"].(string)
		s.spins.WithLabelValues(outcome).Inc()
	}
}
