// Package depgraph implements the streaming manager's lifecycle rules over
// a typed DAG: it creates the right vertices for each worker and component,
// wires the fixed intra-component edges, infers feeder→eater edges from
// flow configuration, and tracks a per-vertex liveness flag with the
// descendant-invalidation rule described in spec.md §4.2.
package depgraph

import (
	"context"
	"fmt"

	"github.com/flumotion/depgraph/internal/tdag"
	"github.com/flumotion/depgraph/pkg/config"
	"github.com/flumotion/depgraph/pkg/logging"
	"github.com/flumotion/depgraph/pkg/telemetry"
	"github.com/flumotion/depgraph/pkg/types"
)

// Graph is the dependency graph for components and workers. It wraps a
// *tdag.TDAG[types.Kind] and maintains the liveness map alongside it; per
// spec.md §3, the liveness key set always equals the vertex set.
type Graph struct {
	dag   *tdag.TDAG[types.Kind]
	state map[tdag.Vertex[types.Kind]]bool

	cfg     *config.Config
	log     *logging.Logger
	metrics *telemetry.Metrics

	// clockMasters tracks, per flow, whether AddClockMaster has already
	// been called — used only when cfg.EnforceSingleClockMasterPerFlow is
	// set; the TDAG itself never forbids a second clock master (spec.md §9).
	clockMasters map[string]bool
}

// Option configures a new Graph.
type Option func(*Graph)

// WithConfig attaches engine configuration (clock-master enforcement,
// resource ceilings). Defaults to config.Default() if omitted.
func WithConfig(cfg *config.Config) Option {
	return func(g *Graph) { g.cfg = cfg }
}

// WithLogger attaches a structured logger. Defaults to a no-op-ish
// logging.New(logging.DefaultConfig()) if omitted.
func WithLogger(l *logging.Logger) Option {
	return func(g *Graph) { g.log = l }
}

// WithMetrics attaches a telemetry.Metrics recorder. Defaults to a
// no-op recorder if omitted.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(g *Graph) { g.metrics = m }
}

// New returns an empty dependency graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		dag:          tdag.New[types.Kind](),
		state:        make(map[tdag.Vertex[types.Kind]]bool),
		cfg:          config.Default(),
		log:          logging.New(logging.DefaultConfig()),
		metrics:      telemetry.Noop(),
		clockMasters: make(map[string]bool),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Graph) addNode(obj any, kind types.Kind) error {
	if err := g.dag.AddNode(obj, kind); err != nil {
		return err
	}
	g.state[tdag.Vertex[types.Kind]{Obj: obj, Kind: kind}] = false
	g.log.WithField("kind", kind.String()).Debug("added node")
	g.metrics.NodeAdded(kind.String())
	return nil
}

func (g *Graph) removeNode(obj any, kind types.Kind) error {
	if err := g.dag.RemoveNode(obj, kind); err != nil {
		return err
	}
	delete(g.state, tdag.Vertex[types.Kind]{Obj: obj, Kind: kind})
	g.log.WithField("kind", kind.String()).Debug("removed node")
	return nil
}

func (g *Graph) addEdge(parentObj, childObj any, parentKind, childKind types.Kind) error {
	if err := g.dag.AddEdge(parentObj, childObj, parentKind, childKind); err != nil {
		return err
	}
	g.log.WithField("parent_kind", parentKind.String()).
		WithField("child_kind", childKind.String()).
		Debug("added edge")
	g.metrics.EdgeAdded(parentKind.String(), childKind.String())
	return nil
}

// AddWorker registers a worker machine with the manager. Idempotent: a
// second call for the same name is a no-op, not an error. Fails with
// PreconditionFailed if cfg.MaxWorkers is set and already reached.
func (g *Graph) AddWorker(name string) error {
	if g.dag.HasNode(name, types.WORKER) {
		return nil
	}
	if g.cfg.MaxWorkers > 0 && len(g.dag.GetAllNodesByKind(types.WORKER)) >= g.cfg.MaxWorkers {
		return types.NewError(types.PreconditionFailed, "AddWorker", fmt.Sprintf("worker limit %d reached", g.cfg.MaxWorkers))
	}
	return g.addNode(name, types.WORKER)
}

// AddComponent creates the JOB/COMPONENTSETUP/COMPONENTSTART vertex triple
// for x, wires the two fixed intra-component edges, and — if x names a
// requested worker — attaches that worker. Fails with AlreadyExists if any
// of the three vertices already exist; on any failure, no partial state is
// left behind.
func (g *Graph) AddComponent(x types.Component) error {
	if g.dag.HasNode(x, types.JOB) || g.dag.HasNode(x, types.COMPONENTSETUP) || g.dag.HasNode(x, types.COMPONENTSTART) {
		return types.NewError(types.AlreadyExists, "AddComponent", x.Name())
	}
	if g.cfg.MaxComponentsPerFlow > 0 && g.componentsInFlow(x.Parent()) >= g.cfg.MaxComponentsPerFlow {
		return types.NewError(types.PreconditionFailed, "AddComponent", fmt.Sprintf("flow %s component limit %d reached", x.Parent(), g.cfg.MaxComponentsPerFlow))
	}

	if err := g.addNode(x, types.JOB); err != nil {
		return err
	}
	if err := g.addNode(x, types.COMPONENTSETUP); err != nil {
		g.removeNode(x, types.JOB)
		return err
	}
	if err := g.addNode(x, types.COMPONENTSTART); err != nil {
		g.removeNode(x, types.JOB)
		g.removeNode(x, types.COMPONENTSETUP)
		return err
	}
	if err := g.addEdge(x, x, types.JOB, types.COMPONENTSETUP); err != nil {
		g.removeNode(x, types.JOB)
		g.removeNode(x, types.COMPONENTSETUP)
		g.removeNode(x, types.COMPONENTSTART)
		return err
	}
	if err := g.addEdge(x, x, types.COMPONENTSETUP, types.COMPONENTSTART); err != nil {
		g.removeNode(x, types.JOB)
		g.removeNode(x, types.COMPONENTSETUP)
		g.removeNode(x, types.COMPONENTSTART)
		return err
	}

	if w := x.WorkerRequested(); w != "" {
		err := g.AddWorker(w)
		if err == nil {
			err = g.SetComponentWorker(x, w)
		}
		if err != nil {
			g.removeNode(x, types.JOB)
			g.removeNode(x, types.COMPONENTSETUP)
			g.removeNode(x, types.COMPONENTSTART)
			return err
		}
	}

	g.log.WithField("component", x.Name()).WithField("parent", x.Parent()).Info("component added")
	return nil
}

// RemoveComponent removes every vertex keyed on x that is currently
// present (up to all five kinds), along with its liveness entry.
// Idempotent with respect to absent kinds.
func (g *Graph) RemoveComponent(x types.Component) error {
	for _, k := range types.AllKinds() {
		if k == types.WORKER {
			continue
		}
		if g.dag.HasNode(x, k) {
			if err := g.removeNode(x, k); err != nil {
				return err
			}
		}
	}
	g.log.WithField("component", x.Name()).Info("component removed")
	return nil
}

// RemoveWorker removes (name, WORKER). Fails with NotFound if absent, and
// with InUse if any component's JOB vertex is still attached to it (spec.md
// §4.2: "workers outlive their jobs in the nominal order").
func (g *Graph) RemoveWorker(name string) error {
	if !g.dag.HasNode(name, types.WORKER) {
		return types.NewError(types.NotFound, "RemoveWorker", name)
	}
	offspring := g.dag.GetOffspringTyped(name, types.WORKER)
	for _, v := range offspring {
		if v.Kind == types.JOB {
			return types.NewError(types.InUse, "RemoveWorker", name)
		}
	}
	return g.removeNode(name, types.WORKER)
}

// SetComponentWorker attaches x's JOB vertex to worker w. Fails with
// NotFound if either (w, WORKER) or (x, JOB) is missing. A component may
// only be re-assigned after the existing WORKER→JOB edge is removed: while
// x's JOB vertex is attached to any worker, a further call fails with
// AlreadyExists.
func (g *Graph) SetComponentWorker(x types.Component, w string) error {
	if !g.dag.HasNode(w, types.WORKER) {
		return types.NewError(types.NotFound, "SetComponentWorker", w)
	}
	if !g.dag.HasNode(x, types.JOB) {
		return types.NewError(types.NotFound, "SetComponentWorker", x.Name())
	}
	for _, other := range g.dag.GetAllNodesByKind(types.WORKER) {
		if other == any(w) {
			continue
		}
		for _, kid := range g.dag.GetOffspringTyped(other, types.WORKER) {
			if kid.Kind == types.JOB && kid.Obj == any(x) {
				return types.NewError(types.AlreadyExists, "SetComponentWorker", x.Name())
			}
		}
	}
	return g.addEdge(w, x, types.WORKER, types.JOB)
}

// AddClockMaster appoints x as clock master for its flow. Precondition:
// (x, JOB) exists. Creates (x, CLOCKMASTER), wires the setup→clockmaster
// edge, and makes every existing COMPONENTSTART vertex sharing x.Parent()
// depend on it.
//
// The TDAG does not itself forbid a second clock master per flow — see
// spec.md §9. If cfg.EnforceSingleClockMasterPerFlow is set, a second
// appointment for the same parent fails with PreconditionFailed before any
// vertex is touched.
func (g *Graph) AddClockMaster(x types.Component) error {
	if !g.dag.HasNode(x, types.JOB) {
		return types.NewError(types.PreconditionFailed, "AddClockMaster", x.Name())
	}
	if g.cfg.EnforceSingleClockMasterPerFlow && g.clockMasters[x.Parent()] {
		return types.NewError(types.PreconditionFailed, "AddClockMaster", fmt.Sprintf("flow %s already has a clock master", x.Parent()))
	}

	if err := g.addNode(x, types.CLOCKMASTER); err != nil {
		return err
	}
	if err := g.addEdge(x, x, types.COMPONENTSETUP, types.CLOCKMASTER); err != nil {
		g.removeNode(x, types.CLOCKMASTER)
		return err
	}

	for _, obj := range g.dag.GetAllNodesByKind(types.COMPONENTSTART) {
		y, ok := obj.(types.Component)
		if !ok || y.Parent() != x.Parent() {
			continue
		}
		if err := g.addEdge(x, y, types.CLOCKMASTER, types.COMPONENTSTART); err != nil {
			if !isAlreadyExists(err) {
				return err
			}
		}
	}

	g.clockMasters[x.Parent()] = true
	g.log.WithField("component", x.Name()).WithField("parent", x.Parent()).Info("clock master appointed")
	return nil
}

// MapEatersToFeeders is a one-shot topology inference pass: for each
// component e whose config carries a "source" list, it locates the feeder
// component f named by each entry's prefix and wires
// (f,COMPONENTSETUP)→(e,COMPONENTSETUP) and (f,COMPONENTSTART)→(e,COMPONENTSTART),
// idempotently. When cfg.MapEatersToFeedersStrict is set (the default),
// every source entry is resolved before any edge is added, and the call
// fails with Unresolved naming an entry that names no known feeder, leaving
// the graph unmodified. A WouldCycle failure, by contrast, keeps the edges
// accepted before it. When unset, an unresolved entry is logged and
// skipped instead of aborting the pass — useful while a flow is still being
// assembled incrementally.
func (g *Graph) MapEatersToFeeders(ctx context.Context) error {
	ctx, span := g.metrics.StartSpan(ctx, "MapEatersToFeeders")
	defer span.End()

	setups := g.dag.GetAllNodesByKind(types.COMPONENTSETUP)

	byName := make(map[string]types.Component, len(setups))
	for _, obj := range setups {
		c, ok := obj.(types.Component)
		if !ok {
			continue
		}
		byName[c.Name()] = c
	}

	if g.cfg.MapEatersToFeedersStrict {
		for _, obj := range setups {
			e, ok := obj.(types.Component)
			if !ok {
				continue
			}
			for _, entry := range types.NormalizeSource(e.Config()) {
				if _, found := byName[types.ParseSourceEntry(entry).FeederName]; !found {
					return types.NewError(types.Unresolved, "MapEatersToFeeders", entry)
				}
			}
		}
	}

	for _, obj := range setups {
		e, ok := obj.(types.Component)
		if !ok {
			continue
		}
		sources := types.NormalizeSource(e.Config())
		if len(sources) == 0 {
			g.log.WithField("component", e.Name()).Debug("component has no eaters")
			continue
		}
		for _, entry := range sources {
			parsed := types.ParseSourceEntry(entry)
			f, found := byName[parsed.FeederName]
			if !found {
				if g.cfg.MapEatersToFeedersStrict {
					return types.NewError(types.Unresolved, "MapEatersToFeeders", entry)
				}
				g.log.WithField("component", e.Name()).WithField("source", entry).Warn("unresolved feeder, skipping")
				continue
			}

			if err := g.addEdge(f, e, types.COMPONENTSETUP, types.COMPONENTSETUP); err != nil {
				if !isAlreadyExists(err) {
					return err
				}
			}
			if err := g.addEdge(f, e, types.COMPONENTSTART, types.COMPONENTSTART); err != nil {
				if !isAlreadyExists(err) {
					return err
				}
			}
		}
	}
	return nil
}

// componentsInFlow counts distinct components already registered under
// the given flow, by its COMPONENTSETUP vertices (one per component).
func (g *Graph) componentsInFlow(flow string) int {
	n := 0
	for _, obj := range g.dag.GetAllNodesByKind(types.COMPONENTSETUP) {
		c, ok := obj.(types.Component)
		if ok && c.Parent() == flow {
			n++
		}
	}
	return n
}

func isAlreadyExists(err error) bool {
	e, ok := err.(*types.Error)
	return ok && e.Kind == types.AlreadyExists
}

// --- Liveness ---------------------------------------------------------

// setState implements the descendant-invalidation rule of spec.md §4.2:
// setting a vertex to false also sets every descendant sharing its object
// to false. Descendants with a different object are left untouched.
func (g *Graph) setState(obj any, kind types.Kind, value bool) {
	v := tdag.Vertex[types.Kind]{Obj: obj, Kind: kind}
	g.state[v] = value
	g.log.WithField("kind", kind.String()).WithField("value", value).Debug("liveness transition")
	g.metrics.LivenessTransition(kind.String(), value)

	if !value {
		for _, kid := range g.dag.GetOffspringTyped(obj, kind) {
			if kid.Obj == obj {
				g.state[kid] = false
				g.metrics.LivenessTransition(kid.Kind.String(), false)
			}
		}
	}
}

// State returns the current liveness of (obj, kind), or false if absent.
func (g *Graph) State(obj any, kind types.Kind) bool {
	return g.state[tdag.Vertex[types.Kind]{Obj: obj, Kind: kind}]
}

func (g *Graph) SetComponentStarted(x types.Component)    { g.setState(x, types.COMPONENTSTART, true) }
func (g *Graph) SetComponentNotStarted(x types.Component) { g.setState(x, types.COMPONENTSTART, false) }
func (g *Graph) SetComponentSetup(x types.Component)      { g.setState(x, types.COMPONENTSETUP, true) }
func (g *Graph) SetComponentNotSetup(x types.Component)   { g.setState(x, types.COMPONENTSETUP, false) }
func (g *Graph) SetJobStarted(x types.Component)          { g.setState(x, types.JOB, true) }
func (g *Graph) SetJobStopped(x types.Component)          { g.setState(x, types.JOB, false) }
func (g *Graph) SetWorkerStarted(name string)             { g.setState(name, types.WORKER, true) }
func (g *Graph) SetWorkerStopped(name string)              { g.setState(name, types.WORKER, false) }
func (g *Graph) SetClockMasterStarted(x types.Component)  { g.setState(x, types.CLOCKMASTER, true) }
func (g *Graph) SetClockMasterStopped(x types.Component)  { g.setState(x, types.CLOCKMASTER, false) }

// --- Read-only access for internal/scheduler ---------------------------

// Sort returns the full deterministic topological order of the graph.
func (g *Graph) Sort() []tdag.Vertex[types.Kind] {
	return g.dag.Sort()
}

// Offspring returns the transitive descendants of (obj, kind).
func (g *Graph) Offspring(obj any, kind types.Kind) []tdag.Vertex[types.Kind] {
	return g.dag.GetOffspringTyped(obj, kind)
}

// IsLive reports the liveness of a vertex.
func (g *Graph) IsLive(v tdag.Vertex[types.Kind]) bool {
	return g.state[v]
}

// HasNode reports whether (obj, kind) is present.
func (g *Graph) HasNode(obj any, kind types.Kind) bool {
	return g.dag.HasNode(obj, kind)
}
