package middleware

import "errors"

// Sentinel errors surfaced by middleware that reject a request outright.
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrBodyTooLarge      = errors.New("request body too large")
)
