// Package config centralizes dependency-graph scheduler configuration.
//
// # Overview
//
// Config tunes behavior the core intentionally leaves to its caller: clock
// master uniqueness enforcement (spec.md §9), strictness of
// MapEatersToFeeders, and resource ceilings on worker/component counts.
//
// # Basic Usage
//
//	cfg := config.Default()
//	g := depgraph.New(depgraph.WithConfig(cfg))
//
// # Profiles
//
// Default, Development, Production and Testing return pre-tuned profiles;
// each is a independent Config value, safe to mutate after construction.
package config
