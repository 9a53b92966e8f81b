package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pageDuration  prom.Histogram
	pageResults   *prom.CounterVec
	redirects     prom.Counter
	bytesWritten  prom.Counter
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docrender",
			Name:      "build_duration_seconds",
			Help:      "Total site build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docrender",
			Name:      "build_outcomes_total",
			Help:      "Site builds by final status",
		}, []string{"outcome"}),
		pageDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docrender",
			Name:      "page_render_duration_seconds",
			Help:      "Duration of converting and rendering a single page",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docrender",
			Name:      "pages_total",
			Help:      "Rendered pages by result",
		}, []string{"result"}),
		redirects: prom.NewCounter(prom.CounterOpts{
			Namespace: "docrender",
			Name:      "redirects_total",
			Help:      "Redirect pages written",
		}),
		bytesWritten: prom.NewCounter(prom.CounterOpts{
			Namespace: "docrender",
			Name:      "bytes_written_total",
			Help:      "Bytes of HTML written to the output directory",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.pageDuration, pr.pageResults, pr.redirects, pr.bytesWritten)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcome) {
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObservePageRender(d time.Duration) {
	p.pageDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(result PageResult) {
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncRedirect() {
	p.redirects.Inc()
}

func (p *PrometheusRecorder) AddBytesWritten(n int) {
	if n <= 0 {
		return
	}
	p.bytesWritten.Add(float64(n))
}
