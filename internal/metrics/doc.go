// Package metrics exposes filesystem operation counters over a Prometheus
// endpoint. The core namespace never touches it; only the protocol adapter
// and the daemon record here.
package metrics
