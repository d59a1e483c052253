package middleware

import "net/http"

// Handler is the standard net/http handler signature middleware wrap.
type Handler = http.Handler

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Chain is an ordered sequence of middleware applied to the control-plane
// API's router. Middleware run in Use() order on the way in and unwind in
// reverse on the way out, mirroring the node-execution Chain of
// Responsibility this package used before being retargeted at HTTP.
type Chain struct {
	middlewares []Middleware
}

// NewChain returns an empty Chain.
func NewChain() *Chain {
	return &Chain{}
}

// Use appends mw to the chain and returns the Chain for call chaining.
func (c *Chain) Use(mw Middleware) *Chain {
	c.middlewares = append(c.middlewares, mw)
	return c
}

// Then wraps final with every middleware in the chain, closest-added
// middleware innermost.
func (c *Chain) Then(final http.Handler) http.Handler {
	h := final
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i](h)
	}
	return h
}

// Len returns the number of middleware in the chain.
func (c *Chain) Len() int {
	return len(c.middlewares)
}
