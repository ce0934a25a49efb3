// Package metrics provides Prometheus instrumentation for the moderation
// service: counters for scan outcomes and detected flags, histograms for
// risk scores and scan latency, and cache lookup counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesScanned counts scanned messages, labeled by outcome:
	// "clean", "flagged", or "blocked".
	MessagesScanned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_messages_scanned_total",
		Help: "Total number of messages scanned by outcome",
	}, []string{"outcome"})

	// FlagsDetected counts individual flags, labeled by category and severity.
	FlagsDetected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_flags_detected_total",
		Help: "Total number of moderation flags detected",
	}, []string{"category", "severity"})

	// RiskScore records the risk score distribution of flagged messages.
	RiskScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "moderation_risk_score",
		Help:    "Risk score distribution of flagged messages",
		Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})

	// ScanDuration records message scan latency in seconds.
	ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "moderation_scan_duration_seconds",
		Help:    "Message scan latency in seconds",
		Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
	})

	// CacheLookups counts verdict cache lookups, labeled by result:
	// "hit", "miss", or "error".
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_cache_lookups_total",
		Help: "Total number of verdict cache lookups",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		MessagesScanned,
		FlagsDetected,
		RiskScore,
		ScanDuration,
		CacheLookups,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
