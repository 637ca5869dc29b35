// Package prom adapts internal/metrics.Recorder to Prometheus collectors
// using github.com/prometheus/client_golang.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vaultblock/storage/internal/metrics"
)

// Recorder is a metrics.Recorder backed by Prometheus collectors,
// partitioned by the same "owner" label BufferedContainer uses to
// partition a shared buffer across multiple wrapped containers.
type Recorder struct {
	reserveLatency *prometheus.HistogramVec
	getLatency     *prometheus.HistogramVec
	updateLatency  *prometheus.HistogramVec
	removeLatency  *prometheus.HistogramVec
	flushLatency   *prometheus.HistogramVec
	flushBytes     *prometheus.CounterVec
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	size           *prometheus.GaugeVec
}

// New constructs a Recorder and registers its collectors with reg. Passing
// a fresh prometheus.NewRegistry() (rather than the global default
// registry) is recommended for tests so repeated construction doesn't
// panic on duplicate registration.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		reserveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blockstore", Name: "reserve_latency_seconds",
			Help: "Latency of Reserve calls.",
		}, []string{"owner"}),
		getLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blockstore", Name: "get_latency_seconds",
			Help: "Latency of Get calls.",
		}, []string{"owner"}),
		updateLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blockstore", Name: "update_latency_seconds",
			Help: "Latency of Update calls.",
		}, []string{"owner"}),
		removeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blockstore", Name: "remove_latency_seconds",
			Help: "Latency of Remove calls.",
		}, []string{"owner"}),
		flushLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blockstore", Name: "flush_latency_seconds",
			Help: "Latency of buffer flush operations.",
		}, []string{"owner"}),
		flushBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockstore", Name: "flush_bytes_total",
			Help: "Total bytes flushed from the buffer to the wrapped container.",
		}, []string{"owner"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockstore", Name: "cache_hits_total",
			Help: "Total Get calls served from the buffer.",
		}, []string{"owner"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockstore", Name: "cache_misses_total",
			Help: "Total Get calls that fell through to the wrapped container.",
		}, []string{"owner"}),
		size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "blockstore", Name: "size",
			Help: "Current Size() of a container, by owner.",
		}, []string{"owner"}),
	}
	reg.MustRegister(r.reserveLatency, r.getLatency, r.updateLatency, r.removeLatency,
		r.flushLatency, r.flushBytes, r.cacheHits, r.cacheMisses, r.size)
	return r
}

var _ metrics.Recorder = (*Recorder)(nil)

func (r *Recorder) ObserveReserve(owner string, d time.Duration) {
	r.reserveLatency.WithLabelValues(owner).Observe(d.Seconds())
}

func (r *Recorder) ObserveGet(owner string, d time.Duration, hit bool) {
	r.getLatency.WithLabelValues(owner).Observe(d.Seconds())
	if hit {
		r.cacheHits.WithLabelValues(owner).Inc()
	} else {
		r.cacheMisses.WithLabelValues(owner).Inc()
	}
}

func (r *Recorder) ObserveUpdate(owner string, d time.Duration) {
	r.updateLatency.WithLabelValues(owner).Observe(d.Seconds())
}

func (r *Recorder) ObserveRemove(owner string, d time.Duration) {
	r.removeLatency.WithLabelValues(owner).Observe(d.Seconds())
}

func (r *Recorder) ObserveFlush(owner string, n int, d time.Duration) {
	r.flushLatency.WithLabelValues(owner).Observe(d.Seconds())
	r.flushBytes.WithLabelValues(owner).Add(float64(n))
}

func (r *Recorder) RecordSize(owner string, n int) {
	r.size.WithLabelValues(owner).Set(float64(n))
}
