// Package tdag implements a generic typed multi-relation directed acyclic
// graph: vertices are pairs (object, kind), edges are directed
// prerequisite→dependent links between two such pairs. Because the kind is
// part of vertex identity, the same object pair can be connected through
// several lifecycle relations simply by differing in kind — no separate
// edge label is needed.
package tdag

import "github.com/flumotion/depgraph/pkg/types"

// Vertex identifies a node by its object and kind, per spec.md §3. Obj is
// held as any since a TDAG's object population is polymorphic (worker
// names are strings, everything else is a types.Component); Kind is the
// type parameter so non-depgraph callers could instantiate a TDAG over
// their own closed kind enumeration.
type Vertex[K comparable] struct {
	Obj  any
	Kind K
}

// TDAG is a typed multi-relation DAG over vertices Vertex[K].
type TDAG[K comparable] struct {
	nodes map[Vertex[K]]struct{}
	order map[Vertex[K]]int
	seq   int

	out map[Vertex[K]]map[Vertex[K]]struct{}
	in  map[Vertex[K]]map[Vertex[K]]struct{}
}

// New returns an empty TDAG.
func New[K comparable]() *TDAG[K] {
	return &TDAG[K]{
		nodes: make(map[Vertex[K]]struct{}),
		order: make(map[Vertex[K]]int),
		out:   make(map[Vertex[K]]map[Vertex[K]]struct{}),
		in:    make(map[Vertex[K]]map[Vertex[K]]struct{}),
	}
}

// AddNode inserts (obj, kind). Fails with AlreadyExists if already present.
func (g *TDAG[K]) AddNode(obj any, kind K) error {
	v := Vertex[K]{Obj: obj, Kind: kind}
	if _, ok := g.nodes[v]; ok {
		return types.NewError(types.AlreadyExists, "AddNode", vertexIdent(v))
	}
	g.nodes[v] = struct{}{}
	g.order[v] = g.seq
	g.seq++
	g.out[v] = make(map[Vertex[K]]struct{})
	g.in[v] = make(map[Vertex[K]]struct{})
	return nil
}

// RemoveNode deletes (obj, kind) and every edge incident to it. Fails with
// NotFound if the vertex is absent.
func (g *TDAG[K]) RemoveNode(obj any, kind K) error {
	v := Vertex[K]{Obj: obj, Kind: kind}
	if _, ok := g.nodes[v]; !ok {
		return types.NewError(types.NotFound, "RemoveNode", vertexIdent(v))
	}
	for child := range g.out[v] {
		delete(g.in[child], v)
	}
	for parent := range g.in[v] {
		delete(g.out[parent], v)
	}
	delete(g.out, v)
	delete(g.in, v)
	delete(g.nodes, v)
	delete(g.order, v)
	return nil
}

// HasNode reports whether (obj, kind) is present.
func (g *TDAG[K]) HasNode(obj any, kind K) bool {
	_, ok := g.nodes[Vertex[K]{Obj: obj, Kind: kind}]
	return ok
}

// AddEdge inserts a directed edge parent→child. Fails with NotFound if
// either endpoint is absent, AlreadyExists if the exact labeled edge is
// already present, or WouldCycle if adding it would close a cycle. Never
// partially modifies the graph.
func (g *TDAG[K]) AddEdge(parentObj, childObj any, parentKind, childKind K) error {
	p := Vertex[K]{Obj: parentObj, Kind: parentKind}
	c := Vertex[K]{Obj: childObj, Kind: childKind}

	if _, ok := g.nodes[p]; !ok {
		return types.NewError(types.NotFound, "AddEdge", vertexIdent(p))
	}
	if _, ok := g.nodes[c]; !ok {
		return types.NewError(types.NotFound, "AddEdge", vertexIdent(c))
	}
	if _, ok := g.out[p][c]; ok {
		return types.NewError(types.AlreadyExists, "AddEdge", vertexIdent(p)+"->"+vertexIdent(c))
	}
	if g.reaches(c, p) {
		return types.NewError(types.WouldCycle, "AddEdge", vertexIdent(p)+"->"+vertexIdent(c))
	}

	g.out[p][c] = struct{}{}
	g.in[c][p] = struct{}{}
	return nil
}

// RemoveEdge deletes the exact labeled edge parent→child. Fails with
// NotFound if it is absent.
func (g *TDAG[K]) RemoveEdge(parentObj, childObj any, parentKind, childKind K) error {
	p := Vertex[K]{Obj: parentObj, Kind: parentKind}
	c := Vertex[K]{Obj: childObj, Kind: childKind}
	if _, ok := g.out[p][c]; !ok {
		return types.NewError(types.NotFound, "RemoveEdge", vertexIdent(p)+"->"+vertexIdent(c))
	}
	delete(g.out[p], c)
	delete(g.in[c], p)
	return nil
}

// reaches reports whether from can reach to by following forward edges —
// used to detect that adding parent→child would close a cycle, since that
// holds exactly when child can already reach parent.
func (g *TDAG[K]) reaches(from, to Vertex[K]) bool {
	if from == to {
		return true
	}
	visited := map[Vertex[K]]struct{}{from: {}}
	stack := []Vertex[K]{from}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		for next := range g.out[cur] {
			if next == to {
				return true
			}
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			stack = append(stack, next)
		}
	}
	return false
}

// GetAllNodesByKind returns the objects of every vertex of the given kind.
// Insertion order is not part of the contract.
func (g *TDAG[K]) GetAllNodesByKind(kind K) []any {
	var out []any
	for v := range g.nodes {
		if v.Kind == kind {
			out = append(out, v.Obj)
		}
	}
	return out
}

// GetOffspringTyped returns the transitive descendants of (obj, kind)
// reachable by forward traversal, excluding the start vertex itself.
func (g *TDAG[K]) GetOffspringTyped(obj any, kind K) []Vertex[K] {
	start := Vertex[K]{Obj: obj, Kind: kind}
	visited := make(map[Vertex[K]]struct{})
	stack := []Vertex[K]{start}
	var result []Vertex[K]
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		for next := range g.out[cur] {
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			result = append(result, next)
			stack = append(stack, next)
		}
	}
	return result
}

// Sort returns a deterministic topological order via Kahn's algorithm: every
// prerequisite precedes every dependent, and among vertices that become
// ready in the same round, insertion order breaks the tie.
func (g *TDAG[K]) Sort() []Vertex[K] {
	inDegree := make(map[Vertex[K]]int, len(g.nodes))
	for v := range g.nodes {
		inDegree[v] = len(g.in[v])
	}

	var ready []Vertex[K]
	for v, d := range inDegree {
		if d == 0 {
			ready = append(ready, v)
		}
	}

	result := make([]Vertex[K], 0, len(g.nodes))
	for len(ready) > 0 {
		// Pick the lowest-insertion-order vertex among the currently
		// ready set, swap-remove it, and relax its outgoing edges.
		minIdx := 0
		for i := 1; i < len(ready); i++ {
			if g.order[ready[i]] < g.order[ready[minIdx]] {
				minIdx = i
			}
		}
		cur := ready[minIdx]
		ready[minIdx] = ready[len(ready)-1]
		ready = ready[:len(ready)-1]

		result = append(result, cur)
		for next := range g.out[cur] {
			inDegree[next]--
			if inDegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}
	return result
}

func vertexIdent[K comparable](v Vertex[K]) string {
	return anyToString(v.Obj) + ":" + anyToString(v.Kind)
}

func anyToString(v any) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "<obj>"
}
