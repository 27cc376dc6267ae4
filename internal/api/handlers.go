package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/spelldeck-api/internal/api/shared"
	"github.com/phrazzld/spelldeck-api/internal/platform/logger"
)

// Root handles GET /.
func Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Message: "SpellDeck API is running"})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		logger.FromContext(r.Context()).Error("failed to write health check response", "error", err)
	}
}

// Handlers groups the endpoint handlers.
type Handlers struct {
	Batch  *BatchHandler
	Word   *WordHandler
	Models *ModelsHandler
}

// Mount registers every endpoint on r.
func (h Handlers) Mount(r chi.Router) {
	r.Get("/", Root)
	r.Get("/health", Health)
	r.Get("/models", h.Models.ListLocal)
	r.Get("/openrouter-models", h.Models.ListRemote)
	r.Post("/generate-word", h.Word.GenerateWord)

	r.Route("/api", func(r chi.Router) {
		r.Post("/batch/upload", h.Batch.Upload)
		r.Get("/batch/{jobID}/status", h.Batch.Status)
		r.Get("/download/{jobID}/{filename}", h.Batch.Download)
	})
}
