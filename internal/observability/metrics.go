package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the simulator.
type Metrics struct {
	ActiveConversations prometheus.Gauge
	Conversations       *prometheus.CounterVec
	Turns               *prometheus.CounterVec
	RoleAssignments     *prometheus.CounterVec
	CoordinationWaits   prometheus.Counter
	VoiceSelections     *prometheus.CounterVec
	ProviderErrors      *prometheus.CounterVec
	TurnLatency         prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ActiveConversations: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_conversations",
			Help:      "Number of conversations currently being generated.",
		}),
		Conversations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversations_total",
			Help:      "Finished conversations by terminal state.",
		}, []string{"state"}),
		Turns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Generated turns by speaker role.",
		}, []string{"speaker"}),
		RoleAssignments: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_assignments_total",
			Help:      "Role assignments handed out by the coordinator.",
		}, []string{"role"}),
		CoordinationWaits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coordination_lock_timeouts_total",
			Help:      "Lock acquisition timeouts that degraded to the fallback role.",
		}),
		VoiceSelections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_selections_total",
			Help:      "Voice catalog selections by matching tier.",
		}, []string{"tier"}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Provider errors by provider and code.",
		}, []string{"provider", "code"}),
		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_ms",
			Help:      "Per-turn text generation latency in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 4000, 8000, 15000},
		}),
	}
}

func (m *Metrics) ObserveTurnLatency(d time.Duration) {
	m.TurnLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
