package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics содержит счётчики хранилища прогресса
type Metrics struct {
	Toggles         prometheus.Counter
	SaveFailures    prometheus.Counter
	LoadFailures    prometheus.Counter
	OverallProgress prometheus.Gauge
}

// NewMetrics регистрирует метрики в reg. nil reg даёт незарегистрированные метрики
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Toggles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roadmap",
			Name:      "step_toggles_total",
			Help:      "Number of step toggles applied to the progress state.",
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roadmap",
			Name:      "progress_save_failures_total",
			Help:      "Number of progress snapshots that could not be persisted.",
		}),
		LoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roadmap",
			Name:      "progress_load_failures_total",
			Help:      "Number of persisted snapshots discarded as unreadable or malformed.",
		}),
		OverallProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roadmap",
			Name:      "overall_progress_percent",
			Help:      "Overall roadmap completion in percent.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Toggles, m.SaveFailures, m.LoadFailures, m.OverallProgress)
	}
	return m
}
