package presets

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ prometheus.Collector = &Metrics{}

// Metrics records the Scheduler's activity. A nil *Metrics records nothing.
type Metrics struct {
	applications *prometheus.CounterVec
	failures     *prometheus.CounterVec
	state        prometheus.Gauge
	loops        prometheus.Gauge
}

// NewMetrics creates Metrics for the given namespace. Register them with a prometheus.Registerer to export them.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preset_applications_total",
			Help:      "Number of presets applied",
		}, []string{"preset", "trigger"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "modifier_failures_total",
			Help:      "Number of modifiers that could not be applied",
		}, []string{"preset", "reason"}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduler_state",
			Help:      "State of the scheduler (0: disabled, 1: initial delay, 2: running, 3: waiting, 4: stopped)",
		}),
		loops: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduler_loops",
			Help:      "Number of completed passes through the preset order",
		}),
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.applications.Describe(ch)
	m.failures.Describe(ch)
	m.state.Describe(ch)
	m.loops.Describe(ch)
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.applications.Collect(ch)
	m.failures.Collect(ch)
	m.state.Collect(ch)
	m.loops.Collect(ch)
}

func (m *Metrics) applied(preset string, trigger Trigger) {
	if m != nil {
		m.applications.WithLabelValues(preset, trigger.String()).Inc()
	}
}

func (m *Metrics) failed(preset string, err *ModifierError) {
	if m != nil {
		m.failures.WithLabelValues(preset, err.reason()).Inc()
	}
}

func (m *Metrics) setState(state State, loops uint) {
	if m != nil {
		m.state.Set(float64(state))
		m.loops.Set(float64(loops))
	}
}
