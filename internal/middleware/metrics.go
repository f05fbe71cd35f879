package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhimana06/llmapp04/internal/metrics"
)

// Metrics records request count by method, route, and status code.
// Under a chi router the route pattern is used so path parameters do not
// create one series per value.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		metrics.RequestsTotal.WithLabelValues(r.Method, routeLabel(r), strconv.Itoa(sw.status)).Inc()
	})
}

func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return "unmatched"
}
