package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/Parlows/Video-Surveillance-Retrieval/core"
	"github.com/Parlows/Video-Surveillance-Retrieval/embedding"
	"github.com/Parlows/Video-Surveillance-Retrieval/storage"
	"github.com/Parlows/Video-Surveillance-Retrieval/timelog"
)

// QueryHandlers serves the /query/{backend} routes. One request runs the
// fixed sequence parse -> embed -> search -> normalize -> respond; any
// step's failure short-circuits to an error response and no step is ever
// retried here.
type QueryHandlers struct {
	embedder embedding.Embedder
	backends map[string]storage.SearchBackend
	timings  timelog.Sink
	logger   *slog.Logger
}

func NewQueryHandlers(embedder embedding.Embedder, backends map[string]storage.SearchBackend, timings timelog.Sink, logger *slog.Logger) *QueryHandlers {
	return &QueryHandlers{
		embedder: embedder,
		backends: backends,
		timings:  timings,
		logger:   logger,
	}
}

// QueryHandler handles GET /query/{backend}?text=...&encoder=...&dataset=...
func (h *QueryHandlers) QueryHandler(w http.ResponseWriter, r *http.Request) {
	backendName := r.PathValue("backend")
	backend, ok := h.backends[backendName]
	if !ok {
		core.WriteError(w, http.StatusNotFound, "404", "unknown backend "+backendName)
		return
	}

	q := r.URL.Query()
	text := strings.TrimSpace(q.Get("text"))
	encoder := strings.TrimSpace(q.Get("encoder"))
	if text == "" || encoder == "" {
		core.WriteError(w, http.StatusBadRequest, "400", "text and encoder query parameters are required")
		return
	}
	// The dataset value is passed through unvalidated; an unknown kind
	// names a collection the backend will report as missing.
	dataset := core.DatasetKind(q.Get("dataset"))
	collection := storage.CollectionName(encoder, dataset)

	embStart := time.Now()
	vectors, err := h.embedder.Embed(r.Context(), text, encoder)
	if err != nil {
		h.logger.Error("embedding failed", "encoder", encoder, "err", err)
		var engErr *embedding.EngineError
		if errors.As(err, &engErr) {
			// The engine's own failure is forwarded verbatim.
			core.WriteError(w, http.StatusInternalServerError, strconv.Itoa(engErr.StatusCode), engErr.Message)
			return
		}
		core.WriteError(w, http.StatusInternalServerError, "500", "error with embedding server request")
		return
	}
	h.timings.Append("emb", time.Since(embStart))

	hits, err := backend.Search(r.Context(), collection, vectors[0], storage.DefaultLimit, storage.OutputFields(dataset))
	if err != nil {
		h.logger.Error("search failed", "backend", backendName, "collection", collection, "err", err)
		core.WriteError(w, http.StatusInternalServerError, "500", "error with database server request")
		return
	}

	results := storage.Normalize(hits, dataset)
	core.WriteJSON(w, http.StatusOK, core.QueryResponse{Results: results})
}
