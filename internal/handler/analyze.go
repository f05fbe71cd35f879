package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhimana06/llmapp04/internal/proxy"
)

// Analyze relays the request body to the backend endpoint named by the
// {analysisType} path parameter and writes whatever the forwarder decided.
// The body is passed through untouched; only its size is bounded.
func Analyze(fwd *proxy.Forwarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "could not read request body")
			return
		}

		fwd.Forward(r.Context(), chi.URLParam(r, "analysisType"), body).Respond(w)
	}
}
