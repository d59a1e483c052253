package middleware

import (
	"net/http"

	"github.com/flumotion/depgraph/pkg/logging"
)

// Recovery returns middleware that recovers from a panic in an inner
// handler, logs it, and responds 500 instead of crashing the server.
func Recovery(logger *logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.
						WithField("method", r.Method).
						WithField("path", r.URL.Path).
						WithField("panic", rec).
						Error("panic recovered")
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
