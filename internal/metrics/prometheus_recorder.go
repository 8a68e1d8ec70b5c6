package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once                  sync.Once
	directiveInvocations  *prom.CounterVec
	linksEmitted          *prom.CounterVec
	linksSuppressed       *prom.CounterVec
	existenceCheckFailed  prom.Counter
	pageRenderDuration    prom.Histogram
	indexRebuildDuration  prom.Histogram
	indexedPages          prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.directiveInvocations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "linkonce",
			Name:      "directive_invocations_total",
			Help:      "Directive invocations by directive name",
		}, []string{"directive"})
		pr.linksEmitted = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "linkonce",
			Name:      "links_emitted_total",
			Help:      "Wiki links emitted on first encounter, by directive",
		}, []string{"directive"})
		pr.linksSuppressed = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "linkonce",
			Name:      "links_suppressed_total",
			Help:      "Duplicate links rendered as plain text, by directive",
		}, []string{"directive"})
		pr.existenceCheckFailed = prom.NewCounter(prom.CounterOpts{
			Namespace: "linkonce",
			Name:      "existence_check_failures_total",
			Help:      "Link targets that failed the page existence check",
		})
		pr.pageRenderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "linkonce",
			Name:      "page_render_duration_seconds",
			Help:      "Duration of individual page renders",
			Buckets:   prom.DefBuckets,
		})
		pr.indexRebuildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "linkonce",
			Name:      "index_rebuild_duration_seconds",
			Help:      "Duration of page index rebuilds",
			Buckets:   prom.DefBuckets,
		})
		pr.indexedPages = prom.NewGauge(prom.GaugeOpts{
			Namespace: "linkonce",
			Name:      "indexed_pages",
			Help:      "Number of pages currently in the title index",
		})
		reg.MustRegister(pr.directiveInvocations, pr.linksEmitted, pr.linksSuppressed,
			pr.existenceCheckFailed, pr.pageRenderDuration, pr.indexRebuildDuration, pr.indexedPages)
	})
	return pr
}

func (p *PrometheusRecorder) IncDirective(name string) {
	if p == nil || p.directiveInvocations == nil {
		return
	}
	p.directiveInvocations.WithLabelValues(name).Inc()
}

func (p *PrometheusRecorder) IncLinkEmitted(directive string) {
	if p == nil || p.linksEmitted == nil {
		return
	}
	p.linksEmitted.WithLabelValues(directive).Inc()
}

func (p *PrometheusRecorder) IncLinkSuppressed(directive string) {
	if p == nil || p.linksSuppressed == nil {
		return
	}
	p.linksSuppressed.WithLabelValues(directive).Inc()
}

func (p *PrometheusRecorder) IncExistenceCheckFailed() {
	if p == nil || p.existenceCheckFailed == nil {
		return
	}
	p.existenceCheckFailed.Inc()
}

func (p *PrometheusRecorder) ObservePageRenderDuration(d time.Duration) {
	if p == nil || p.pageRenderDuration == nil {
		return
	}
	p.pageRenderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveIndexRebuildDuration(d time.Duration) {
	if p == nil || p.indexRebuildDuration == nil {
		return
	}
	p.indexRebuildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetIndexedPages(n int) {
	if p == nil || p.indexedPages == nil {
		return
	}
	p.indexedPages.Set(float64(n))
}
