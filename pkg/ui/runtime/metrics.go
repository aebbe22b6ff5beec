package runtime

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the dispatch loop. A nil *Metrics records nothing.
type Metrics struct {
	Events        *prometheus.CounterVec
	Actions       *prometheus.CounterVec
	Dropped       *prometheus.CounterVec
	InputErrors   prometheus.Counter
	RenderLatency prometheus.Histogram
	QueueDepth    prometheus.Gauge
}

// NewMetrics registers the loop metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "octyl",
				Subsystem: "loop",
				Name:      "events_total",
				Help:      "Terminal events consumed by the dispatch loop",
			},
			[]string{"kind"},
		),
		Actions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "octyl",
				Subsystem: "loop",
				Name:      "actions_total",
				Help:      "Actions applied by the dispatch loop",
			},
			[]string{"kind"},
		),
		Dropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "octyl",
				Subsystem: "loop",
				Name:      "dropped_total",
				Help:      "Events and actions dropped without effect",
			},
			[]string{"reason"},
		),
		InputErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "octyl",
			Subsystem: "input",
			Name:      "errors_total",
			Help:      "Input stream errors received",
		}),
		RenderLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "octyl",
			Subsystem: "render",
			Name:      "latency_seconds",
			Help:      "Time to compose and write one frame",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100us to ~200ms
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "octyl",
			Subsystem: "loop",
			Name:      "queue_depth",
			Help:      "Items waiting in the dispatch queue",
		}),
	}
}

func (m *Metrics) event(kind string) {
	if m != nil {
		m.Events.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) action(kind string) {
	if m != nil {
		m.Actions.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) dropped(reason string) {
	if m != nil {
		m.Dropped.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) inputError() {
	if m != nil {
		m.InputErrors.Inc()
	}
}

func (m *Metrics) rendered(d time.Duration) {
	if m != nil {
		m.RenderLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) depth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}
