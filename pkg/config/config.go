package config

// Config holds dependency-graph scheduler configuration. All tunables are
// centralized here, per the teacher's convention. internal/tdag never reads
// this struct; internal/depgraph.Graph reads it (via depgraph.WithConfig),
// and pkg/server passes it through to the Graph it builds.
type Config struct {
	// EnforceSingleClockMasterPerFlow rejects a second AddClockMaster call
	// for the same flow with PreconditionFailed. The data structure itself
	// never enforces this (spec.md §9 leaves it to the caller); set false
	// to match the original Flumotion behavior exactly.
	EnforceSingleClockMasterPerFlow bool

	// MapEatersToFeedersStrict aborts MapEatersToFeeders on the first
	// Unresolved source entry (the spec's default). When false, an
	// unresolved entry is logged and skipped instead of aborting the pass
	// — useful while a flow is still being assembled incrementally.
	MapEatersToFeedersStrict bool

	// MaxWorkers and MaxComponentsPerFlow bound graph size the way the
	// teacher bounds workflow size (MaxNodes/MaxEdges); 0 means unlimited.
	MaxWorkers           int
	MaxComponentsPerFlow int
}

// Default returns a Config matching the behavior described in spec.md.
func Default() *Config {
	return &Config{
		EnforceSingleClockMasterPerFlow: true,
		MapEatersToFeedersStrict:        true,
		MaxWorkers:                      0,
		MaxComponentsPerFlow:            0,
	}
}

// Development returns a Config with relaxed limits and the original's
// permissive multi-clock-master behavior, for interactive testing.
func Development() *Config {
	cfg := Default()
	cfg.EnforceSingleClockMasterPerFlow = false
	return cfg
}

// Production returns a Config with strict enforcement and resource
// ceilings suitable for a live cluster manager.
func Production() *Config {
	cfg := Default()
	cfg.MaxWorkers = 10000
	cfg.MaxComponentsPerFlow = 1000
	return cfg
}

// Testing returns a Config tuned for unit tests: strict enforcement (to
// exercise PreconditionFailed), no resource ceilings.
func Testing() *Config {
	return Default()
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxWorkers < 0 {
		return ErrInvalidMaxWorkers
	}
	if c.MaxComponentsPerFlow < 0 {
		return ErrInvalidMaxComponents
	}
	return nil
}

// Clone returns a deep copy. Config currently holds no reference types, so
// a value copy suffices, but Clone is kept so callers never need to know
// that — a future field addition won't silently break copy semantics.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
