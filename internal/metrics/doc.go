// Package metrics provides build and render metrics for docrender.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing; PrometheusRecorder registers real collectors
// on a registry that the watch command can expose over HTTP:
//
//	reg := prometheus.NewRegistry()
//	builder := site.NewBuilder(cfg, lay).WithRecorder(metrics.NewPrometheusRecorder(reg))
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
