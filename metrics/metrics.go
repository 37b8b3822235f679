// Package metrics 收集预编译合约的执行指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "precompile"

// Metrics holds the execution counters of one or more contracts
type Metrics struct {
	executions *prometheus.CounterVec
	energyUsed *prometheus.CounterVec
	inputSize  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which tests use to avoid global state.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "total_currency",
				Name:      "executions_total",
				Help:      "Total number of invocations by kind and result code",
			},
			[]string{"kind", "code"},
		),
		energyUsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "total_currency",
				Name:      "energy_used_total",
				Help:      "Energy consumed by invocations, forfeited energy included",
			},
			[]string{"kind"},
		),
		inputSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "total_currency",
				Name:      "input_size_bytes",
				Help:      "Size of invocation inputs",
				Buckets:   []float64{0, 1, 18, 113, 114, 256, 1024},
			},
			[]string{"kind"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.executions, m.energyUsed, m.inputSize} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Observe records one invocation
func (m *Metrics) Observe(kind, code string, inputSize int, energyUsed uint64) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(kind, code).Inc()
	m.energyUsed.WithLabelValues(kind).Add(float64(energyUsed))
	m.inputSize.WithLabelValues(kind).Observe(float64(inputSize))
}

// Executions exposes the execution counter for inspection
func (m *Metrics) Executions() *prometheus.CounterVec {
	return m.executions
}

// EnergyUsed exposes the energy counter for inspection
func (m *Metrics) EnergyUsed() *prometheus.CounterVec {
	return m.energyUsed
}
