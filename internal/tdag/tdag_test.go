package tdag_test

import (
	"errors"
	"testing"

	"github.com/flumotion/depgraph/internal/tdag"
	"github.com/flumotion/depgraph/pkg/types"
)

// kind is a minimal closed enumeration used to exercise the TDAG in
// isolation from the depgraph domain layer.
type kind int

const (
	kindA kind = iota
	kindB
	kindC
)

func errKind(err error) types.ErrorKind {
	var e *types.Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func TestAddNode(t *testing.T) {
	g := tdag.New[kind]()

	if err := g.AddNode("x", kindA); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if !g.HasNode("x", kindA) {
		t.Fatal("expected node present after AddNode")
	}

	err := g.AddNode("x", kindA)
	if errKind(err) != types.AlreadyExists {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
}

func TestRemoveNode(t *testing.T) {
	g := tdag.New[kind]()
	g.AddNode("x", kindA)

	if err := g.RemoveNode("x", kindA); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if g.HasNode("x", kindA) {
		t.Fatal("expected node absent after RemoveNode")
	}

	err := g.RemoveNode("x", kindA)
	if errKind(err) != types.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestRemoveNode_RemovesIncidentEdges(t *testing.T) {
	g := tdag.New[kind]()
	g.AddNode("x", kindA)
	g.AddNode("y", kindB)
	g.AddNode("z", kindC)
	if err := g.AddEdge("x", "y", kindA, kindB); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge("y", "z", kindB, kindC); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	if err := g.RemoveNode("y", kindB); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}

	// y's incident edges must be gone; re-adding y and the x->y edge must
	// succeed as if it never existed.
	if err := g.AddNode("y", kindB); err != nil {
		t.Fatalf("AddNode after remove: %v", err)
	}
	if err := g.AddEdge("x", "y", kindA, kindB); err != nil {
		t.Fatalf("expected x->y edge to be re-addable, got: %v", err)
	}
}

func TestAddEdge_MissingEndpoints(t *testing.T) {
	g := tdag.New[kind]()
	g.AddNode("x", kindA)

	err := g.AddEdge("x", "y", kindA, kindB)
	if errKind(err) != types.NotFound {
		t.Fatalf("expected NotFound for missing child, got %v", err)
	}

	err = g.AddEdge("w", "x", kindA, kindA)
	if errKind(err) != types.NotFound {
		t.Fatalf("expected NotFound for missing parent, got %v", err)
	}
}

func TestAddEdge_Duplicate(t *testing.T) {
	g := tdag.New[kind]()
	g.AddNode("x", kindA)
	g.AddNode("y", kindB)
	if err := g.AddEdge("x", "y", kindA, kindB); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	err := g.AddEdge("x", "y", kindA, kindB)
	if errKind(err) != types.AlreadyExists {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
}

func TestAddEdge_WouldCycle(t *testing.T) {
	g := tdag.New[kind]()
	g.AddNode("x", kindA)
	g.AddNode("y", kindB)
	g.AddNode("z", kindC)
	if err := g.AddEdge("x", "y", kindA, kindB); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge("y", "z", kindB, kindC); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	err := g.AddEdge("z", "x", kindC, kindA)
	if errKind(err) != types.WouldCycle {
		t.Fatalf("expected WouldCycle, got %v", err)
	}

	// The rejected edge must not have been partially applied.
	if err := g.RemoveEdge("z", "x", kindC, kindA); errKind(err) != types.NotFound {
		t.Fatalf("expected the cyclic edge to not exist, got %v", err)
	}
}

func TestAddEdge_SelfLoopRejected(t *testing.T) {
	g := tdag.New[kind]()
	g.AddNode("x", kindA)

	err := g.AddEdge("x", "x", kindA, kindA)
	if errKind(err) != types.WouldCycle {
		t.Fatalf("expected WouldCycle for self-loop, got %v", err)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := tdag.New[kind]()
	g.AddNode("x", kindA)
	g.AddNode("y", kindB)
	g.AddEdge("x", "y", kindA, kindB)

	if err := g.RemoveEdge("x", "y", kindA, kindB); err != nil {
		t.Fatalf("RemoveEdge: %v", err)
	}

	err := g.RemoveEdge("x", "y", kindA, kindB)
	if errKind(err) != types.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetAllNodesByKind(t *testing.T) {
	g := tdag.New[kind]()
	g.AddNode("x", kindA)
	g.AddNode("y", kindA)
	g.AddNode("z", kindB)

	got := g.GetAllNodesByKind(kindA)
	if len(got) != 2 {
		t.Fatalf("expected 2 nodes of kindA, got %d", len(got))
	}
}

func TestGetOffspringTyped(t *testing.T) {
	g := tdag.New[kind]()
	g.AddNode("x", kindA)
	g.AddNode("y", kindB)
	g.AddNode("z", kindC)
	g.AddEdge("x", "y", kindA, kindB)
	g.AddEdge("y", "z", kindB, kindC)

	offspring := g.GetOffspringTyped("x", kindA)
	if len(offspring) != 2 {
		t.Fatalf("expected 2 descendants of x, got %d: %v", len(offspring), offspring)
	}

	seen := map[tdag.Vertex[kind]]bool{}
	for _, v := range offspring {
		seen[v] = true
	}
	if !seen[(tdag.Vertex[kind]{Obj: "y", Kind: kindB})] {
		t.Error("expected y in offspring of x")
	}
	if !seen[(tdag.Vertex[kind]{Obj: "z", Kind: kindC})] {
		t.Error("expected z in offspring of x")
	}

	// The start vertex itself must be excluded.
	if seen[(tdag.Vertex[kind]{Obj: "x", Kind: kindA})] {
		t.Error("expected start vertex excluded from its own offspring")
	}
}

func TestSort_TopologicalOrder(t *testing.T) {
	g := tdag.New[kind]()
	g.AddNode("x", kindA)
	g.AddNode("y", kindB)
	g.AddNode("z", kindC)
	g.AddEdge("x", "y", kindA, kindB)
	g.AddEdge("y", "z", kindB, kindC)

	order := g.Sort()
	if len(order) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(order))
	}

	pos := make(map[tdag.Vertex[kind]]int, len(order))
	for i, v := range order {
		pos[v] = i
	}
	xv := tdag.Vertex[kind]{Obj: "x", Kind: kindA}
	yv := tdag.Vertex[kind]{Obj: "y", Kind: kindB}
	zv := tdag.Vertex[kind]{Obj: "z", Kind: kindC}

	if pos[xv] >= pos[yv] || pos[yv] >= pos[zv] {
		t.Fatalf("expected x < y < z in topological order, got %v", order)
	}
}

func TestSort_InsertionOrderTiebreak(t *testing.T) {
	g := tdag.New[kind]()
	// No edges at all: every vertex is immediately ready, so Sort must
	// return them in insertion order.
	g.AddNode("first", kindA)
	g.AddNode("second", kindA)
	g.AddNode("third", kindA)

	order := g.Sort()
	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("expected %d vertices, got %d", len(want), len(order))
	}
	for i, w := range want {
		if order[i].Obj != w {
			t.Fatalf("expected insertion-order tiebreak %v, got %v", want, order)
		}
	}
}

func TestSort_Deterministic(t *testing.T) {
	build := func() *tdag.TDAG[kind] {
		g := tdag.New[kind]()
		g.AddNode("a", kindA)
		g.AddNode("b", kindA)
		g.AddNode("c", kindB)
		g.AddNode("d", kindC)
		g.AddEdge("a", "c", kindA, kindB)
		g.AddEdge("b", "c", kindA, kindB)
		g.AddEdge("c", "d", kindB, kindC)
		return g
	}

	first := build().Sort()
	second := build().Sort()

	if len(first) != len(second) {
		t.Fatalf("expected equal-length sorts, got %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected identical sort order across runs, diverged at index %d: %v vs %v", i, first, second)
		}
	}
}
