package metrics

import (
	"kitchen-assistant/internal/shared"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes generation and persistence counters. A nil *Collector
// is valid and records nothing.
type Collector struct {
	generations *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	persistence *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchen_generations_total",
			Help: "Generation stages by provider and outcome.",
		}, []string{"provider", "outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchen_fallbacks_total",
			Help: "Stages that fell back to a local substitute.",
		}, []string{"stage"}),
		persistence: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchen_persistence_failures_total",
			Help: "Failed writes, by store.",
		}, []string{"store"}),
	}

	for _, col := range []prometheus.Collector{c.generations, c.fallbacks, c.persistence} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveStage counts one finished stage.
func (c *Collector) ObserveStage(meta shared.StageMeta) {
	if c == nil {
		return
	}
	c.generations.WithLabelValues(meta.Provider, string(meta.Outcome)).Inc()
	if meta.Outcome == shared.OutcomeFallback {
		c.fallbacks.WithLabelValues(meta.Stage).Inc()
	}
}

// PersistenceFailed counts a failed write to the named store.
func (c *Collector) PersistenceFailed(store string) {
	if c == nil {
		return
	}
	c.persistence.WithLabelValues(store).Inc()
}
