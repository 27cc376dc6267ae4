package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/spelldeck-api/internal/api/shared"
	"github.com/phrazzld/spelldeck-api/internal/service"
	"github.com/phrazzld/spelldeck-api/internal/slides"
)

// generatedPrefix starts the file name of single-word decks.
const generatedPrefix = "Generated_"

// WordHandler handles single-word deck generation.
type WordHandler struct {
	service   service.BatchService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewWordHandler creates a WordHandler.
func NewWordHandler(svc service.BatchService, logger *slog.Logger) *WordHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WordHandler{
		service:   svc,
		validator: newValidator(),
		logger:    logger.With(slog.String("component", "word_handler")),
	}
}

// GenerateWord handles POST /generate-word. It responds with the rendered
// deck as an attachment named Generated_<word>.pptx.
func (h *WordHandler) GenerateWord(w http.ResponseWriter, r *http.Request) {
	var req GenerateWordRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	record, err := h.service.GenerateWord(r.Context(), req.toWordRequest())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	base := slides.SafeBaseName(record.Word)
	if base == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Word has no filename-safe characters")
		return
	}

	var buf bytes.Buffer
	if err := slides.WritePPTX(&buf, slides.BuildDeck(record)); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithAttachment(w, r, generatedPrefix+base+slides.Extension,
		shared.PresentationContentType, time.Time{}, bytes.NewReader(buf.Bytes()))
}
