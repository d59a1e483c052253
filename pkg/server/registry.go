package server

import (
	"sync"

	"github.com/flumotion/depgraph/pkg/types"
)

// componentKey identifies a component the way HTTP callers do: by flow and
// name, not by the opaque uuid-backed identity the core compares vertices
// on. registry is the bridge between the two.
type componentKey struct {
	flow string
	name string
}

// registry remembers every component handle the server has created, so a
// later request naming "flow + name" can recover the exact types.Component
// value the core holds as vertex identity.
type registry struct {
	mu         sync.RWMutex
	components map[componentKey]types.Component
}

func newRegistry() *registry {
	return &registry{components: make(map[componentKey]types.Component)}
}

func (r *registry) put(flow, name string, c types.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[componentKey{flow: flow, name: name}] = c
}

func (r *registry) get(flow, name string) (types.Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[componentKey{flow: flow, name: name}]
	return c, ok
}

func (r *registry) delete(flow, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.components, componentKey{flow: flow, name: name})
}
