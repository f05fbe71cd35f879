package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/abhimana06/llmapp04/internal/logging"
)

// RequestID injects a 32-character hex ID into the response header and context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := generateRequestID()
		w.Header().Set("X-Request-ID", id)
		ctx := logging.ContextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func generateRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
