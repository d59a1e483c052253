package middleware

import (
	"net/http"
	"time"

	"github.com/flumotion/depgraph/pkg/logging"
)

// statusRecorder captures the status code a handler wrote, defaulting to 200
// since http.ResponseWriter assumes that status if WriteHeader is never
// called explicitly.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging returns middleware that logs each request's method, path, status
// and duration: at Error level for 5xx responses, at Warn level for 4xx
// responses, and at Debug level for everything else.
func Logging(logger *logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r)

			entry := logger.
				WithField("method", r.Method).
				WithField("path", r.URL.Path).
				WithField("status", rec.status).
				WithField("duration_ms", time.Since(start).Milliseconds())

			if rec.status >= http.StatusInternalServerError {
				entry.Error("request failed")
			} else if rec.status >= http.StatusBadRequest {
				entry.Warn("request rejected")
			} else {
				entry.Debug("request handled")
			}
		})
	}
}
