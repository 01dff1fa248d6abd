// Package metrics provides Prometheus metrics for the document workspace.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ingestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docspace_ingestions_total",
			Help: "Total number of folder and image ingestions",
		},
		[]string{"kind", "status"},
	)

	nodesTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docspace_nodes_tracked",
			Help: "Number of nodes in the workspace tree",
		},
	)

	documentLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docspace_document_loads_total",
			Help: "Documents handed to the editor, by content source",
		},
		[]string{"source"},
	)

	imageDecodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docspace_image_decodes_total",
			Help: "Lazy image decodes on selection",
		},
		[]string{"status"},
	)

	savesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docspace_saves_total",
			Help: "Save requests by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)

	delayedChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docspace_delayed_checks_total",
			Help: "Debounce timer firings by result",
		},
		[]string{"result"},
	)

	writeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docspace_write_duration_seconds",
			Help:    "Time spent writing documents to disk",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Content sources for RecordDocumentLoad.
const (
	SourceCache = "cache"
	SourceDisk  = "disk"
	SourceEmpty = "empty"
)

// Delayed check results.
const (
	CheckStale    = "stale"
	CheckDisabled = "disabled"
	CheckFired    = "fired"
)

func RecordIngestion(kind string, err error) {
	ingestionsTotal.WithLabelValues(kind, status(err)).Inc()
}

func SetNodesTracked(n int) {
	nodesTracked.Set(float64(n))
}

func RecordDocumentLoad(source string) {
	documentLoadsTotal.WithLabelValues(source).Inc()
}

func RecordImageDecode(err error) {
	imageDecodesTotal.WithLabelValues(status(err)).Inc()
}

// RecordSave counts one pass through the save pipeline. Outcome is "written", "buffered", "aborted" or "error".
func RecordSave(trigger string, outcome string) {
	savesTotal.WithLabelValues(trigger, outcome).Inc()
}

func RecordDelayedCheck(result string) {
	delayedChecksTotal.WithLabelValues(result).Inc()
}

func RecordWrite(d time.Duration) {
	writeDuration.Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
