// Package telemetry provides OpenTelemetry integration for the dependency
// graph and scheduler. It exposes:
//   - Counters for node/edge mutations and liveness transitions
//   - A histogram for scheduler pass duration and a gauge for ready-set size
//   - Tracer spans around the more expensive graph passes (MapEatersToFeeders,
//     WhatShouldBeStarted)
//   - A Prometheus exporter on a per-Metrics registry, reachable at /metrics
//     via Metrics.Handler()
//
// Metrics.NodeAdded / EdgeAdded / LivenessTransition / StartSpan are called
// unconditionally from internal/depgraph and internal/scheduler; Noop()
// supplies a recorder that discards everything when no explicit Metrics was
// configured, so callers never need a nil check.
package telemetry
