// Package metrics exposes Prometheus collectors for synchronization jobs.
//
// Collectors are registered on an explicit prometheus.Registerer so tests can
// use a private registry; the HTTP server serves the default registry on
// /metrics.
package metrics
