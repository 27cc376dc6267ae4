package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/spelldeck-api/internal/api/shared"
	"github.com/phrazzld/spelldeck-api/internal/artifact"
	"github.com/phrazzld/spelldeck-api/internal/generation"
	"github.com/phrazzld/spelldeck-api/internal/platform/logger"
	"github.com/phrazzld/spelldeck-api/internal/service"
)

const (
	// multipartMemory is how much of a multipart form is buffered in memory
	// before the remainder spills to temporary files.
	multipartMemory = 8 << 20

	// multipartOverhead allows for the boundaries and text fields that
	// accompany the uploaded file.
	multipartOverhead = 64 << 10
)

// BatchHandler handles batch upload, status and download requests.
type BatchHandler struct {
	service        service.BatchService
	tempDir        string
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewBatchHandler creates a BatchHandler. Uploads are staged under tempDir
// (the OS default when empty) and limited to maxUploadBytes.
func NewBatchHandler(
	svc service.BatchService,
	tempDir string,
	maxUploadBytes int64,
	logger *slog.Logger,
) *BatchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchHandler{
		service:        svc,
		tempDir:        tempDir,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "batch_handler")),
	}
}

// Upload handles POST /api/batch/upload.
func (h *BatchHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleAPIError(w, r, fmt.Errorf("%w: %v", artifact.ErrUploadTooLarge, err))
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "No file uploaded", err)
		return
	}
	defer func() { _ = file.Close() }()

	upload, err := artifact.StageUpload(h.tempDir, header.Filename, file, h.maxUploadBytes)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	opts := generation.Options{
		Provider: generation.Provider(strings.ToLower(shared.TrimmedFormValue(r, "provider"))),
		APIKey:   shared.TrimmedFormValue(r, "api_key"),
		Model:    shared.TrimmedFormValue(r, "model"),
	}

	jobID, err := h.service.SubmitBatch(r.Context(), upload, opts)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("batch upload accepted", "job_id", jobID, "size_bytes", header.Size)
	shared.RespondWithJSON(w, r, http.StatusOK, UploadResponse{JobID: jobID})
}

// Status handles GET /api/batch/{jobID}/status.
func (h *BatchHandler) Status(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.GetJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, job)
}

// Download handles GET /api/download/{jobID}/{filename}.
func (h *BatchHandler) Download(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	filename := chi.URLParam(r, "filename")

	path, err := h.service.ArtifactPath(r.Context(), jobID, filename)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %v", service.ErrArtifactNotFound, err)
		}
		HandleAPIError(w, r, err)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithAttachment(w, r, filename, shared.PresentationContentType, info.ModTime(), f)
}
