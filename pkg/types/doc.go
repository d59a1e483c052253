// Package types provides the shared vocabulary of the dependency graph
// subsystem: the closed node-Kind enumeration, the Component handle
// contract, and the core's error taxonomy.
//
// # Overview
//
// types has no dependency on internal/tdag, internal/depgraph or
// internal/scheduler — those packages depend on it, not the reverse. This
// keeps the vertex identity model (Component + Kind) and the error kinds
// reusable from the HTTP server layer without pulling in graph internals.
//
// # Node Kinds
//
// Five kinds, stable order: WORKER, JOB, COMPONENTSETUP, CLOCKMASTER,
// COMPONENTSTART. See spec.md §3 for the meaning of each.
//
// # Component Identity
//
// ComponentSpec stamps a uuid.UUID on construction so that two components
// sharing a name never compare equal — the graph's vertex identity is the
// pair (Component, Kind), and Component equality must reflect "the same
// logical component", not "a component with the same name".
package types
