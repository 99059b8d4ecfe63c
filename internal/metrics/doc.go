// Package metrics exposes Prometheus metrics for assign runs.
//
// kringle is a short-lived CLI, so metrics are not served. They are written
// once per run with WriteTextfile for the node_exporter textfile collector.
// All methods are safe to call on a nil *Metrics, which disables collection.
package metrics
