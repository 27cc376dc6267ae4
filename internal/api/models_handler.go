package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/spelldeck-api/internal/api/shared"
	"github.com/phrazzld/spelldeck-api/internal/platform/openai"
	"github.com/phrazzld/spelldeck-api/internal/redact"
)

// LocalModelLister lists the models of a local Ollama server.
type LocalModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// RemoteModelLister lists the models of an OpenAI-compatible gateway.
type RemoteModelLister interface {
	ListModels(ctx context.Context, apiKey string) ([]openai.Model, error)
}

// ModelsHandler serves model discovery for the client's provider pickers.
// Both listings degrade to an empty array when the upstream is unavailable.
type ModelsHandler struct {
	local     LocalModelLister
	remote    RemoteModelLister
	remoteKey string
	logger    *slog.Logger
}

// NewModelsHandler creates a ModelsHandler. remoteKey is sent with remote
// listings and may be empty. A nil lister always yields an empty list.
func NewModelsHandler(
	local LocalModelLister,
	remote RemoteModelLister,
	remoteKey string,
	logger *slog.Logger,
) *ModelsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelsHandler{
		local:     local,
		remote:    remote,
		remoteKey: remoteKey,
		logger:    logger.With(slog.String("component", "models_handler")),
	}
}

// ListLocal handles GET /models.
func (h *ModelsHandler) ListLocal(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	if h.local != nil {
		found, err := h.local.ListModels(r.Context())
		if err != nil {
			h.logger.WarnContext(r.Context(), "ollama model listing unavailable", "error", redact.Error(err))
		} else if found != nil {
			names = found
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, names)
}

// ListRemote handles GET /openrouter-models.
func (h *ModelsHandler) ListRemote(w http.ResponseWriter, r *http.Request) {
	models := []OpenRouterModel{}
	if h.remote != nil {
		found, err := h.remote.ListModels(r.Context(), h.remoteKey)
		if err != nil {
			h.logger.WarnContext(r.Context(), "openrouter model listing unavailable", "error", redact.Error(err))
		}
		for _, m := range found {
			name := m.Name
			if name == "" {
				name = m.ID
			}
			models = append(models, OpenRouterModel{ID: m.ID, Name: name})
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, models)
}
