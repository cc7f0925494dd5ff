package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion
	FilesAdmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "album_files_admitted_total",
			Help: "Total number of uploaded files that passed the type and size filter",
		},
	)

	FilesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "album_files_rejected_total",
			Help: "Total number of uploaded files kept out of a collection",
		},
		[]string{"reason"}, // "not an image", "too large", "unreadable", "decode failed"
	)

	DecodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "album_decode_batch_duration_seconds",
			Help:    "Duration of decoding one batch of uploaded files",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Albums
	AlbumsBuilt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "album_builds_total",
			Help: "Total number of albums built",
		},
	)

	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "album_exports_total",
			Help: "Total number of document exports by result",
		},
		[]string{"result"}, // "ok", "partial", "failed"
	)

	ExportPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "album_export_pages",
			Help:    "Number of pages per exported document",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50, 100},
		},
	)

	ShareLinks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "album_share_links_total",
			Help: "Total number of share links generated",
		},
	)

	// Sessions
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "album_sessions_active",
			Help: "Current number of live album sessions",
		},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "album_websocket_connections",
			Help: "Current number of websocket view subscribers",
		},
	)

	// API
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "album_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
