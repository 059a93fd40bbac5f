package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "danger_zone"

// Metrics holds the Prometheus collectors for the zone engine and its adapters.
type Metrics struct {
	ZonesTracked    prometheus.Gauge
	ObserverInside  prometheus.Gauge
	AlarmActive     prometheus.Gauge
	LocationSamples *prometheus.CounterVec // labels: result={accepted,rejected}

	AlertsEmitted    *prometheus.CounterVec // labels: kind
	AlertsSuppressed *prometheus.CounterVec // labels: kind
	StreamDrops      prometheus.Counter

	IncidentsRejected prometheus.Counter
	FeedPolls         *prometheus.CounterVec // labels: outcome={success,error,cache}
	FeedEvents        *prometheus.CounterVec // labels: op={upsert,delete,invalid}

	WebhookDeliveries *prometheus.CounterVec // labels: outcome={success,error,circuit_open}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ZonesTracked,
		m.ObserverInside,
		m.AlarmActive,
		m.LocationSamples,
		m.AlertsEmitted,
		m.AlertsSuppressed,
		m.StreamDrops,
		m.IncidentsRejected,
		m.FeedPolls,
		m.FeedEvents,
		m.WebhookDeliveries,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ZonesTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "zones_tracked",
			Help:      "Number of danger zones currently held in memory.",
		}),
		ObserverInside: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observer_inside",
			Help:      "1 when the observer occupies a zone, 0 otherwise.",
		}),
		AlarmActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alarm_active",
			Help:      "1 while the looping alarm is running.",
		}),
		LocationSamples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_samples_total",
			Help:      "Observer location samples by result.",
		}, []string{"result"}),
		AlertsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_emitted_total",
			Help:      "Alert events emitted by kind.",
		}, []string{"kind"}),
		AlertsSuppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_suppressed_total",
			Help:      "Alert events suppressed by cooldown, by kind.",
		}, []string{"kind"}),
		StreamDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_drops_total",
			Help:      "Stream messages dropped because a subscriber was too slow.",
		}),
		IncidentsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_rejected_total",
			Help:      "Incidents excluded from zone construction due to unusable coordinates.",
		}),
		FeedPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_polls_total",
			Help:      "Incident snapshot polls by outcome.",
		}, []string{"outcome"}),
		FeedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_events_total",
			Help:      "Incident change events consumed from the push feed, by operation.",
		}, []string{"op"}),
		WebhookDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_total",
			Help:      "Webhook delivery attempts by outcome.",
		}, []string{"outcome"}),
	}
}
