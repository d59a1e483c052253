// Package server exposes the dependency graph and scheduler as an HTTP
// control plane (SPEC_FULL.md §6.5): a net/http server wrapping
// internal/depgraph.Locked behind a route per graph mutation, a liveness
// setter per lifecycle kind, a GET for the scheduler's ready set, health
// probes, and a Prometheus /metrics endpoint.
package server
