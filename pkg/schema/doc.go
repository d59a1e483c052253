// Package schema validates component configuration shape before it reaches
// internal/depgraph. The only field MapEatersToFeeders actually interprets
// is "source" (spec.md §4.4); this package gives callers a way to reject a
// malformed source list up front instead of discovering it as an
// Unresolved error partway through a mapping pass.
package schema
