// Package metrics records Prometheus metrics for match scoring runs.
//
// Metrics live in a Recorder's own registry rather than the global one, so a
// short-lived CLI process can export them with WriteTextfile for the node
// exporter's textfile collector, and tests can build isolated recorders.
package metrics
