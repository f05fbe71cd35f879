package handler

import (
	"net/http"

	"github.com/abhimana06/llmapp04/internal/analysis"
)

type typeInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Types lists the analysis types the proxy accepts.
func Types() http.HandlerFunc {
	infos := make([]typeInfo, 0, len(analysis.Types))
	for _, t := range analysis.Types {
		infos = append(infos, typeInfo{Name: t.String(), Path: t.Path()})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, infos)
	}
}
