package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for report intake and storage.
type Metrics struct {
	ReportsSubmitted *prometheus.CounterVec // labels: cause
	SubmissionErrors *prometheus.CounterVec // labels: stage={validate,image,store}
	ImagesStored     prometheus.Counter
	StoreDuration    *prometheus.HistogramVec // labels: op={load,save,append}
	ReportsStored    prometheus.Gauge
	ReportsByCause   *prometheus.GaugeVec   // labels: cause
	GeocodeRequests  *prometheus.CounterVec // labels: outcome={success,empty,error}
	EventsPublished  *prometheus.CounterVec // labels: outcome={success,error}
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReportsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_report",
			Name:      "reports_submitted_total",
			Help:      "Flood reports accepted, by selected cause.",
		}, []string{"cause"}),
		SubmissionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_report",
			Name:      "submission_errors_total",
			Help:      "Failed submissions by the stage that failed.",
		}, []string{"stage"}),
		ImagesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_report",
			Name:      "images_stored_total",
			Help:      "Uploaded report images written to disk.",
		}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flood_report",
			Name:      "store_duration_seconds",
			Help:      "Record store operation duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"op"}),
		ReportsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_report",
			Name:      "reports_stored",
			Help:      "Reports currently in the record store.",
		}),
		ReportsByCause: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "flood_report",
			Name:      "reports_by_cause",
			Help:      "Stored reports grouped by cause category.",
		}, []string{"cause"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_report",
			Name:      "geocode_requests_total",
			Help:      "Address geocoding lookups by outcome.",
		}, []string{"outcome"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_report",
			Name:      "events_published_total",
			Help:      "report.created events by publish outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.ReportsSubmitted,
		m.SubmissionErrors,
		m.ImagesStored,
		m.StoreDuration,
		m.ReportsStored,
		m.ReportsByCause,
		m.GeocodeRequests,
		m.EventsPublished,
	)

	return m
}

// NewForTesting registers everything on a throwaway registry.
func NewForTesting() *Metrics {
	return New(prometheus.NewRegistry())
}
