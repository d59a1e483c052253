// Package middleware provides net/http middleware for the dependency graph
// and scheduler's control-plane API (pkg/server).
//
// # Overview
//
// Every mutation the core accepts (AddWorker, AddComponent, SetComponentWorker,
// AddClockMaster, MapEatersToFeeders, the liveness setters) arrives over HTTP.
// This package supplies the cross-cutting concerns around those handlers:
// structured request logging, panic recovery, request body size limiting, and
// rate limiting. It deliberately does not touch depgraph semantics — the core
// stays single-threaded cooperative (spec.md §5); these middleware only guard
// the HTTP boundary in front of it.
//
// # Chain
//
//	chain := middleware.NewChain().
//		Use(middleware.Recovery(logger)).
//		Use(middleware.Logging(logger)).
//		Use(middleware.SizeLimit(middleware.DefaultSizeLimitConfig())).
//		Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//	handler = chain.Then(mux)
//
// Middleware run in the order they were Use()'d on the way in, and unwind in
// reverse on the way out — the same Chain of Responsibility shape the rest of
// this codebase's ancestor used for node-execution middleware, adapted here
// to func(http.Handler) http.Handler.
package middleware
