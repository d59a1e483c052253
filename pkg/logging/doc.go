// Package logging provides structured logging for the dependency graph.
//
// # Overview
//
// Every TDAG/depgraph mutation and liveness transition logs one line
// through this package (spec.md §6, "Observable side-effect channel"). The
// log schema is not part of the stability contract — callers should not
// parse it.
//
// # Basic Usage
//
//	logger := logging.New(logging.DefaultConfig())
//	logger.WithComponent("src").WithFlow("f1").Info("component added")
//
// # Context Propagation
//
// A logger can be attached to a context.Context and retrieved downstream:
//
//	ctx = logger.WithContext(ctx)
//	logging.FromContext(ctx).Info("handling request")
package logging
