package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AuditMetrics records reconciliation activity.
type AuditMetrics struct {
	scans    *prometheus.CounterVec
	closes   *prometheus.CounterVec
	variance prometheus.Histogram
}

// NewAuditMetrics registers the audit metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewAuditMetrics(reg prometheus.Registerer) *AuditMetrics {
	if reg == nil {
		return &AuditMetrics{}
	}
	scans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_scans_total",
		Help: "Audit scan requests by outcome.",
	}, []string{"result"})
	closes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_session_closes_total",
		Help: "Audit session close requests by outcome.",
	}, []string{"result"})
	variance := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "audit_variance_duration_seconds",
		Help:    "Time spent computing an audit variance report.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(scans, closes, variance)
	return &AuditMetrics{
		scans:    scans,
		closes:   closes,
		variance: variance,
	}
}

func (m *AuditMetrics) IncScan(result string) {
	if m == nil || m.scans == nil {
		return
	}
	m.scans.WithLabelValues(result).Inc()
}

func (m *AuditMetrics) IncClose(result string) {
	if m == nil || m.closes == nil {
		return
	}
	m.closes.WithLabelValues(result).Inc()
}

func (m *AuditMetrics) ObserveVariance(d time.Duration) {
	if m == nil || m.variance == nil {
		return
	}
	m.variance.Observe(d.Seconds())
}
