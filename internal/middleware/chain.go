package middleware

import "net/http"

// DefaultMaxBodyBytes caps analysis request bodies.
const DefaultMaxBodyBytes = 1 << 20

// Stack returns the middleware applied to every route, outermost first:
// CORS → RequestID → Logging → Metrics → Recover → MaxBytes.
func Stack(maxBodyBytes int64) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		CORS,
		RequestID,
		Logging,
		Metrics,
		Recover,
		MaxBytes(maxBodyBytes),
	}
}
