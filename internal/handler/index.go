package handler

import (
	_ "embed"
	"net/http"
)

//go:embed static/index.html
var indexHTML []byte

// Index serves the landing page.
func Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	}
}
