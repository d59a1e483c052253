// Package scheduler implements WhatShouldBeStarted (spec.md §4.3): the
// single read operation that projects a dependency graph's full topological
// order into the pruned, ordered set of vertices that are not yet live and
// have every prerequisite live.
package scheduler

import (
	"context"
	"time"

	"github.com/flumotion/depgraph/internal/tdag"
	"github.com/flumotion/depgraph/pkg/telemetry"
	"github.com/flumotion/depgraph/pkg/types"
)

// Graph is the read-only slice of internal/depgraph.Graph the scheduler
// depends on. Declared as an interface so tests can exercise the pruning
// algorithm against a fake without building a full Graph.
type Graph interface {
	Sort() []tdag.Vertex[types.Kind]
	Offspring(obj any, kind types.Kind) []tdag.Vertex[types.Kind]
	IsLive(v tdag.Vertex[types.Kind]) bool
}

// Scheduler computes WhatShouldBeStarted over a Graph.
type Scheduler struct {
	graph   Graph
	metrics *telemetry.Metrics
}

// Option configures a new Scheduler.
type Option func(*Scheduler)

// WithMetrics attaches a telemetry.Metrics recorder. Defaults to a no-op
// recorder if omitted.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// New returns a Scheduler reading from g.
func New(g Graph, opts ...Option) *Scheduler {
	s := &Scheduler{graph: g, metrics: telemetry.Noop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// WhatShouldBeStarted returns, in prerequisite order, every vertex that is
// not yet live and whose prerequisites are either already live or appear
// earlier in the returned sequence.
//
// Algorithm (spec.md §4.3):
//  1. L = Sort(), the full deterministic topological order.
//  2. Drop every vertex already live.
//  3. For every WORKER vertex that is not live, drop all its descendants —
//     nothing can start without its worker attached. The worker vertex
//     itself stays in the result.
//  4. For every JOB vertex that is not live, drop all its descendants —
//     nothing downstream of a job can start before it. The job vertex
//     itself stays in the result.
//
// Eater components are held back by ordering only: they sit behind
// COMPONENTSETUP/COMPONENTSTART edges from their feeders, so the sort places
// a feeder's vertex before the eater's. A feeder vertex that is not live
// does not by itself remove the eater from the result; only the WORKER/JOB
// pruning of steps 3-4 removes vertices that are not live.
func (s *Scheduler) WhatShouldBeStarted(ctx context.Context) []tdag.Vertex[types.Kind] {
	start := time.Now()
	_, span := s.metrics.StartSpan(ctx, "WhatShouldBeStarted")
	defer span.End()

	order := s.graph.Sort()

	removed := make(map[tdag.Vertex[types.Kind]]struct{}, len(order))
	for _, v := range order {
		if s.graph.IsLive(v) {
			removed[v] = struct{}{}
		}
	}
	s.pruneDescendants(order, types.WORKER, removed)
	s.pruneDescendants(order, types.JOB, removed)

	result := make([]tdag.Vertex[types.Kind], 0, len(order))
	for _, v := range order {
		if _, dropped := removed[v]; dropped {
			continue
		}
		result = append(result, v)
	}

	s.metrics.ScheduleDuration(time.Since(start))
	s.metrics.ReadySetSize(len(result))
	return result
}

// pruneDescendants marks the transitive descendants of every not-live
// vertex of kind k as removed; the vertex itself is kept.
func (s *Scheduler) pruneDescendants(order []tdag.Vertex[types.Kind], k types.Kind, removed map[tdag.Vertex[types.Kind]]struct{}) {
	for _, v := range order {
		if v.Kind != k {
			continue
		}
		if _, already := removed[v]; already {
			continue
		}
		if s.graph.IsLive(v) {
			continue
		}
		for _, kid := range s.graph.Offspring(v.Obj, v.Kind) {
			removed[kid] = struct{}{}
		}
	}
}
