// Package types provides the shared vocabulary of the dependency graph: the
// closed set of lifecycle node kinds and the component handle contract that
// internal/tdag, internal/depgraph and internal/scheduler are built against.
package types

import (
	"strings"

	"github.com/google/uuid"
)

// Kind is the closed enumeration of lifecycle node kinds a vertex can carry.
// Ordering is stable and matches the original depgraph's (WORKER, JOB,
// COMPONENTSETUP, CLOCKMASTER, COMPONENTSTART) tuple.
type Kind int

const (
	WORKER Kind = iota
	JOB
	COMPONENTSETUP
	CLOCKMASTER
	COMPONENTSTART
)

// kindNames mirrors the original's typeNames tuple, used for logging.
var kindNames = [...]string{"WORKER", "JOB", "COMPONENTSETUP", "CLOCKMASTER", "COMPONENTSTART"}

// String renders a Kind for logs and error messages.
func (k Kind) String() string {
	if k < WORKER || k > COMPONENTSTART {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// AllKinds returns the five kinds in enumeration order. Used by
// RemoveComponent to probe every possible vertex keyed on a component.
func AllKinds() []Kind {
	return []Kind{WORKER, JOB, COMPONENTSETUP, CLOCKMASTER, COMPONENTSTART}
}

// Component is the read-only contract the dependency graph requires of a
// component handle: a name unique within its flow, the enclosing flow
// identifier, an optional worker request, and a config map that may carry a
// "source" entry describing its feeders.
type Component interface {
	Name() string
	Parent() string
	WorkerRequested() string
	Config() map[string]any
}

// ComponentSpec is the concrete Component implementation used throughout
// this module. Its identity field (id) is what makes two ComponentSpec
// values naming the same logical component compare equal. It carries no
// config map (see ConfiguredComponent for that), so ComponentSpec remains a
// comparable struct usable as a map key.
type ComponentSpec struct {
	id     uuid.UUID
	name   string
	parent string
	worker string
}

// NewComponent stamps a fresh component identity. Two ComponentSpec values
// built from separate calls are never equal even if name/parent/worker
// match, matching the spec's "opaque reference, equality-comparable only".
func NewComponent(name, parent, workerRequested string) ComponentSpec {
	return ComponentSpec{
		id:     uuid.New(),
		name:   name,
		parent: parent,
		worker: workerRequested,
	}
}

func (c ComponentSpec) Name() string           { return c.name }
func (c ComponentSpec) Parent() string          { return c.parent }
func (c ComponentSpec) WorkerRequested() string { return c.worker }

// ID returns the stamped identity, for callers that key their own data by
// component identity.
func (c ComponentSpec) ID() uuid.UUID { return c.id }

// Config always returns nil here: ComponentSpec carries no config state of
// its own. Callers needing config-bearing components use
// ConfiguredComponent below.
func (c ComponentSpec) Config() map[string]any { return nil }

// ConfiguredComponent pairs a ComponentSpec with its config map. It is the
// Component implementation MapEatersToFeeders and pkg/schema operate on.
// config is held by pointer, not by value: a map field would make
// ConfiguredComponent non-comparable, and the graph uses Component values
// as map keys (the vertex identity). Pointer identity is irrelevant here —
// the uuid stamped in ComponentSpec is what makes two components distinct.
type ConfiguredComponent struct {
	ComponentSpec
	config *map[string]any
}

// NewConfiguredComponent builds a component carrying the given config.
func NewConfiguredComponent(name, parent, workerRequested string, config map[string]any) ConfiguredComponent {
	return ConfiguredComponent{
		ComponentSpec: NewComponent(name, parent, workerRequested),
		config:        &config,
	}
}

func (c ConfiguredComponent) Config() map[string]any {
	if c.config == nil {
		return nil
	}
	return *c.config
}

// NormalizeSource reads the "source" entry out of a component's config,
// tolerating the config-layer quirk described in spec.md §4.2: the value is
// sometimes a bare string and sometimes a slice of strings. Absent or
// malformed entries normalize to nil, meaning "no declared feeders".
func NormalizeSource(config map[string]any) []string {
	if config == nil {
		return nil
	}
	raw, ok := config["source"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// SourceEntry is a parsed "name[:feed]" source reference.
type SourceEntry struct {
	FeederName string
	FeedName   string
}

// ParseSourceEntry splits a source reference on ':'. A missing feed name
// defaults to "default", matching the original's comment ("feedName
// defaulting to default") even though the original code never used the
// feed name beyond the split itself.
func ParseSourceEntry(entry string) SourceEntry {
	parts := strings.SplitN(entry, ":", 2)
	if len(parts) == 2 {
		return SourceEntry{FeederName: parts[0], FeedName: parts[1]}
	}
	return SourceEntry{FeederName: parts[0], FeedName: "default"}
}
