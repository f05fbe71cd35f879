package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhimana06/llmapp04/internal/backend"
	"github.com/abhimana06/llmapp04/internal/handler"
	"github.com/abhimana06/llmapp04/internal/middleware"
	"github.com/abhimana06/llmapp04/internal/proxy"
)

// SetupMux wires handlers with the full middleware chain.
func SetupMux(fwd *proxy.Forwarder) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Stack(middleware.DefaultMaxBodyBytes)...)

	r.Get("/", handler.Index())
	r.Post("/api/ai/{analysisType}", handler.Analyze(fwd))
	r.Get("/api/health", handler.Health(fwd))
	r.Get("/api/types", handler.Types())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(handler.NotFound())
	r.MethodNotAllowed(handler.MethodNotAllowed())
	return r
}

// SetupBackendMux wires the analysis backend: the same middleware chain in
// front of the model-backed analysis routes.
func SetupBackendMux(svc *backend.Service, modelURL string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Stack(middleware.DefaultMaxBodyBytes)...)

	r.Post("/api/ai/{analysisType}", handler.AnalyzeText(svc))
	r.Get("/api/health", handler.ModelHealth(svc, modelURL))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(handler.NotFound())
	r.MethodNotAllowed(handler.MethodNotAllowed())
	return r
}
