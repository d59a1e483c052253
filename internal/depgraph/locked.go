package depgraph

import (
	"context"
	"fmt"
	"sync"

	"github.com/flumotion/depgraph/internal/scheduler"
	"github.com/flumotion/depgraph/internal/tdag"
	"github.com/flumotion/depgraph/pkg/types"
)

// Locked wraps a Graph with a single read/write lock, per spec.md §5: the
// algorithmic core stays single-threaded cooperative, and this is the thin
// concurrency-safe facade a concurrent caller (pkg/server) talks to
// instead. Mutations take the write lock; queries and WhatShouldBeStarted
// take the read lock.
type Locked struct {
	mu    sync.RWMutex
	graph *Graph
	sched *scheduler.Scheduler
}

// NewLocked wraps a freshly constructed Graph (built with the given
// options) in a Locked facade.
func NewLocked(opts ...Option) *Locked {
	g := New(opts...)
	return &Locked{graph: g, sched: scheduler.New(g)}
}

func (l *Locked) AddWorker(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.graph.AddWorker(name)
}

func (l *Locked) RemoveWorker(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.graph.RemoveWorker(name)
}

func (l *Locked) AddComponent(x types.Component) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.graph.AddComponent(x)
}

func (l *Locked) RemoveComponent(x types.Component) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.graph.RemoveComponent(x)
}

func (l *Locked) SetComponentWorker(x types.Component, w string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.graph.SetComponentWorker(x, w)
}

func (l *Locked) AddClockMaster(x types.Component) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.graph.AddClockMaster(x)
}

func (l *Locked) MapEatersToFeeders(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.graph.MapEatersToFeeders(ctx)
}

func (l *Locked) SetComponentStarted(x types.Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph.SetComponentStarted(x)
}

func (l *Locked) SetComponentNotStarted(x types.Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph.SetComponentNotStarted(x)
}

func (l *Locked) SetComponentSetup(x types.Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph.SetComponentSetup(x)
}

func (l *Locked) SetComponentNotSetup(x types.Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph.SetComponentNotSetup(x)
}

func (l *Locked) SetJobStarted(x types.Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph.SetJobStarted(x)
}

func (l *Locked) SetJobStopped(x types.Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph.SetJobStopped(x)
}

func (l *Locked) SetWorkerStarted(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph.SetWorkerStarted(name)
}

func (l *Locked) SetWorkerStopped(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph.SetWorkerStopped(name)
}

func (l *Locked) SetClockMasterStarted(x types.Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph.SetClockMasterStarted(x)
}

func (l *Locked) SetClockMasterStopped(x types.Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph.SetClockMasterStopped(x)
}

func (l *Locked) State(obj any, kind types.Kind) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.graph.State(obj, kind)
}

func (l *Locked) HasNode(obj any, kind types.Kind) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.graph.HasNode(obj, kind)
}

// Healthy reports whether the graph is reachable and responsive: it takes
// the read lock, bounded by ctx, and confirms the underlying Graph was
// constructed. Intended as a pkg/health.CheckFunc for the "graph" check
// (a stuck lock or a zero-value Locked both surface here as an error
// instead of the liveness/readiness probes silently claiming healthy).
func (l *Locked) Healthy(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.mu.RLock()
		defer l.mu.RUnlock()
		close(done)
	}()
	select {
	case <-done:
		if l.graph == nil {
			return fmt.Errorf("depgraph: graph not initialized")
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("depgraph: timed out acquiring read lock: %w", ctx.Err())
	}
}

// WhatShouldBeStarted returns the scheduler's pruned, ordered ready set
// under the read lock: scheduling only reads graph topology and liveness,
// never mutates it.
func (l *Locked) WhatShouldBeStarted(ctx context.Context) []tdag.Vertex[types.Kind] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sched.WhatShouldBeStarted(ctx)
}
