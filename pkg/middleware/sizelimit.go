package middleware

import "net/http"

// SizeLimitConfig bounds the size of an incoming request body.
type SizeLimitConfig struct {
	// MaxBodySize is the maximum request body size in bytes.
	MaxBodySize int64
}

// DefaultSizeLimitConfig returns a 1MB body limit, generous for the small
// JSON payloads (component specs, config maps) this API accepts.
func DefaultSizeLimitConfig() SizeLimitConfig {
	return SizeLimitConfig{MaxBodySize: 1 << 20}
}

// SizeLimit returns middleware that caps request bodies at cfg.MaxBodySize
// using http.MaxBytesReader; a handler that reads past the limit gets an
// error from its Decode/ReadAll call rather than exhausting memory.
func SizeLimit(cfg SizeLimitConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.MaxBodySize > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBodySize)
			}
			next.ServeHTTP(w, r)
		})
	}
}
