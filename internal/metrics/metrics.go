// Package metrics holds the Prometheus collectors for bridge sessions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vax_admin"

// Metrics is the set of collectors one server reports.
type Metrics struct {
	registry *prometheus.Registry

	sessionsActive prometheus.Gauge
	pageLoads      *prometheus.CounterVec
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	commandsSent   *prometheus.CounterVec
	toastsShown    *prometheus.CounterVec
	badMessages    prometheus.Counter
}

// New registers the collectors on a fresh registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of connected page sessions",
		}),

		pageLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_loads_total",
			Help:      "Page sessions started, by page and whether an initializer ran",
		}, []string{"page", "initialized"}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Browser events dispatched, by event type",
		}, []string{"type"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_duration_seconds",
			Help:      "Time spent dispatching a browser event",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),

		commandsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_sent_total",
			Help:      "Commands sent to browsers, by op",
		}, []string{"op"}),

		toastsShown: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toasts_total",
			Help:      "Toasts shown, by icon",
		}, []string{"icon"}),

		badMessages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_messages_total",
			Help:      "Client messages that could not be decoded or addressed",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SessionOpened() { m.sessionsActive.Inc() }

func (m *Metrics) SessionClosed() { m.sessionsActive.Dec() }

func (m *Metrics) PageLoaded(page string, initialized bool) {
	label := "false"
	if initialized {
		label = "true"
	}
	m.pageLoads.WithLabelValues(page, label).Inc()
}

// ObserveEvent records one dispatched event of eventType that took d.
func (m *Metrics) ObserveEvent(eventType string, d time.Duration) {
	m.eventsTotal.WithLabelValues(eventType).Inc()
	m.eventDuration.WithLabelValues(eventType).Observe(d.Seconds())
}

func (m *Metrics) CommandSent(op string) { m.commandsSent.WithLabelValues(op).Inc() }

func (m *Metrics) ToastShown(icon string) { m.toastsShown.WithLabelValues(icon).Inc() }

func (m *Metrics) MalformedMessage() { m.badMessages.Inc() }
