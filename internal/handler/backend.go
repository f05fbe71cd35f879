package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/abhimana06/llmapp04/internal/analysis"
	"github.com/abhimana06/llmapp04/internal/backend"
	"github.com/abhimana06/llmapp04/internal/metrics"
)

const maxTextLength = 10000

// AnalyzeText serves the backend side of /api/ai/{analysisType}: it validates
// the request, runs the analysis against the model and writes the typed
// response document.
func AnalyzeText(svc *backend.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "analysisType")
		t, err := analysis.Parse(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid analysis type: "+name)
			return
		}

		var req analysis.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if req.Text == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}
		if n := utf8.RuneCountInString(req.Text); n > maxTextLength {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("text too long: %d characters (max %d)", n, maxTextLength))
			return
		}

		out, err := svc.Analyze(r.Context(), t, req.Text)
		if err != nil {
			var parseErr *analysis.ParseError
			switch {
			case errors.As(err, &parseErr):
				writeError(w, http.StatusInternalServerError, parseErr.Error())
			case backend.IsTimeout(err):
				writeError(w, http.StatusGatewayTimeout, "model request timed out")
			default:
				writeError(w, http.StatusBadGateway, fmt.Sprintf("model request failed: %v", err))
			}
			return
		}

		writeJSON(w, http.StatusOK, out)
	}
}

type modelStatus struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Available bool   `json:"available"`
}

type modelHealthResponse struct {
	Status string      `json:"status"`
	Model  modelStatus `json:"model"`
}

// ModelHealth reports the backend as up and whether its model server
// answers. An unreachable model shows up as available=false.
func ModelHealth(svc *backend.Service, modelURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		available := svc.Model.Available(r.Context())
		if available {
			metrics.ModelAvailable.Set(1)
		} else {
			metrics.ModelAvailable.Set(0)
		}

		writeJSON(w, http.StatusOK, modelHealthResponse{
			Status: "ok",
			Model:  modelStatus{Name: svc.Model.Name(), URL: modelURL, Available: available},
		})
	}
}
