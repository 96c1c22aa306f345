// Package metrics provides build metrics for sitebuilder.
//
// Components receive a Recorder through their constructor or struct field and
// default to NoopRecorder, so metrics collection never needs nil checks:
//
//	b := &site.Builder{Recorder: metrics.NoopRecorder{}}
//
// When a metrics textfile is configured the CLI swaps in a
// PrometheusRecorder and writes its registry after each build with
// WriteTextfile, in the format node_exporter's textfile collector reads.
package metrics
