package server

import (
	"net/http"
	"sort"

	"github.com/Parlows/Video-Surveillance-Retrieval/core"
	"github.com/Parlows/Video-Surveillance-Retrieval/storage"
)

// HealthHandler reports which backends this process was wired with.
func HealthHandler(backends map[string]storage.SearchBackend) http.HandlerFunc {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		core.WriteJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"backends": names,
		})
	}
}
