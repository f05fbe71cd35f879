package handler

import (
	"net/http"

	"github.com/abhimana06/llmapp04/internal/metrics"
	"github.com/abhimana06/llmapp04/internal/proxy"
)

type backendStatus struct {
	URL       string `json:"url"`
	Available bool   `json:"available"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Backend backendStatus `json:"backend"`
}

// Health reports the proxy as up and checks the backend. An unreachable
// backend does not fail the check; it shows up as available=false.
func Health(fwd *proxy.Forwarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		available := fwd.Available(r.Context())
		if available {
			metrics.BackendAvailable.Set(1)
		} else {
			metrics.BackendAvailable.Set(0)
		}

		writeJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Backend: backendStatus{URL: fwd.BaseURL, Available: available},
		})
	}
}
