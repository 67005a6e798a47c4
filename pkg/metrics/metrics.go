package metrics

import (
	"net/http"
	"time"

	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/messages"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pongd"

// Metrics holds the collectors of one server. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	OpenConnections  prometheus.Gauge
	FloodRejections  prometheus.Counter
	MessagesReceived *prometheus.CounterVec
	QueuedParties    *prometheus.GaugeVec
	MatchesCreated   *prometheus.CounterVec
	ActiveMatches    prometheus.Gauge
	TickDuration     prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		OpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_connections",
			Help:      "Number of open websocket connections.",
		}),
		FloodRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flood_rejections_total",
			Help:      "Connections rejected because their address had too many open connections.",
		}),
		MessagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Client frames received by message type.",
		}, []string{"type"}),
		QueuedParties: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queued_parties",
			Help:      "Parties waiting in the matchmaking queue.",
		}, []string{"game_type"}),
		MatchesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_created_total",
			Help:      "Matches created by the allocator.",
		}, []string{"game_type"}),
		ActiveMatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_matches",
			Help:      "Matches that have not been closed yet.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_tick_duration_seconds",
			Help:      "Duration of one simulation tick.",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.OpenConnections,
		m.FloodRejections,
		m.MessagesReceived,
		m.QueuedParties,
		m.MatchesCreated,
		m.ActiveMatches,
		m.TickDuration,
	)
	for _, gt := range types.GameTypes {
		m.QueuedParties.WithLabelValues(string(gt)).Set(0)
	}
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the text exposition of the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ConnectionOpened() {
	if m != nil {
		m.OpenConnections.Inc()
	}
}

func (m *Metrics) ConnectionClosed() {
	if m != nil {
		m.OpenConnections.Dec()
	}
}

func (m *Metrics) FloodRejected() {
	if m != nil {
		m.FloodRejections.Inc()
	}
}

func (m *Metrics) MessageReceived(t messages.Type) {
	if m != nil {
		m.MessagesReceived.WithLabelValues(string(t)).Inc()
	}
}

func (m *Metrics) QueueSize(gt types.GameType, n int) {
	if m != nil {
		m.QueuedParties.WithLabelValues(string(gt)).Set(float64(n))
	}
}

func (m *Metrics) MatchCreated(gt types.GameType) {
	if m != nil {
		m.MatchesCreated.WithLabelValues(string(gt)).Inc()
		m.ActiveMatches.Inc()
	}
}

func (m *Metrics) MatchClosed() {
	if m != nil {
		m.ActiveMatches.Dec()
	}
}

func (m *Metrics) ObserveTick(d time.Duration) {
	if m != nil {
		m.TickDuration.Observe(d.Seconds())
	}
}
