package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "santamap"

// Prometheus implements every hook interface and records into its own
// registry. A one-shot command has no scrape endpoint, so the registry is
// written to a node-exporter textfile with [Prometheus.WriteTextfile].
type Prometheus struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec // labels: stage, outcome={ok,error}
	basemap       prometheus.Gauge
	cacheLookups  *prometheus.CounterVec // labels: type, result={hit,miss}
	cacheBytes    *prometheus.CounterVec // labels: type
	httpRequests  *prometheus.CounterVec // labels: host, code
	httpDuration  *prometheus.HistogramVec
	httpErrors    *prometheus.CounterVec // labels: host
	lastRun       prometheus.Gauge
}

// NewPrometheus creates the collectors and registers them with a fresh registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage", "outcome"}),
		basemap: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "basemap_available",
			Help:      "1 when the last run drew basemap tiles, 0 otherwise.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by key type and result.",
		}, []string{"type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_responses_total",
			Help:      "Tile server responses by host and status code.",
		}, []string{"host", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Tile request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"host"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Tile requests that failed before a response arrived.",
		}, []string{"host"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last pipeline stage completed.",
		}),
	}

	p.registry.MustRegister(
		p.stageDuration,
		p.basemap,
		p.cacheLookups,
		p.cacheBytes,
		p.httpRequests,
		p.httpDuration,
		p.httpErrors,
		p.lastRun,
	)
	return p
}

// Install registers p as the global pipeline, cache, and HTTP hooks.
func (p *Prometheus) Install() {
	SetPipelineHooks(p)
	SetCacheHooks(p)
	SetHTTPHooks(p)
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// WriteTextfile writes all metrics in the text exposition format.
// The file is replaced atomically.
func (p *Prometheus) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

func (p *Prometheus) OnStageStart(context.Context, string) {}

func (p *Prometheus) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	p.stageDuration.WithLabelValues(stage, outcome(err)).Observe(d.Seconds())
	p.lastRun.SetToCurrentTime()
}

func (p *Prometheus) OnBasemap(_ context.Context, available bool, _ string) {
	if available {
		p.basemap.Set(1)
		return
	}
	p.basemap.Set(0)
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, _, host, _ string, statusCode int, d time.Duration) {
	p.httpRequests.WithLabelValues(host, strconv.Itoa(statusCode)).Inc()
	p.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, _, host, _ string, _ error) {
	p.httpErrors.WithLabelValues(host).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
