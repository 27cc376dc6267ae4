package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/spelldeck-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loggedRequest returns a request whose context carries a trace ID and a
// debug-level test logger.
func loggedRequest(t *testing.T, method, target string) (*http.Request, *logger.TestLogBuffer) {
	t.Helper()
	log, buf := logger.GetTestLogger(t)
	ctx := logger.WithLogger(SetTraceID(context.Background()), log)
	return httptest.NewRequest(method, target, nil).WithContext(ctx), buf
}

func lastLogEntry(t *testing.T, buf *logger.TestLogBuffer) map[string]any {
	t.Helper()
	entries, err := buf.Entries()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	return entries[len(entries)-1]
}

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	RespondWithJSON(rec, req, http.StatusOK, map[string]string{"message": "SpellDeck API is running"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"SpellDeck API is running"}`, rec.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Run("with trace ID", func(t *testing.T) {
		req, _ := loggedRequest(t, http.MethodGet, "/api/batch/x/status")
		rec := httptest.NewRecorder()

		RespondWithError(rec, req, http.StatusNotFound, "Job not found")

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Job not found", resp.Error)
		assert.Equal(t, GetTraceID(req.Context()), resp.TraceID)
	})

	t.Run("without trace ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		RespondWithError(rec, req, http.StatusBadRequest, "No file uploaded")

		assert.JSONEq(t, `{"error":"No file uploaded"}`, rec.Body.String())
	})
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		elevate   bool
		wantLevel string
	}{
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "bad gateway", status: http.StatusBadGateway, wantLevel: "ERROR"},
		{name: "client error", status: http.StatusBadRequest, wantLevel: "DEBUG"},
		{name: "elevated client error", status: http.StatusRequestEntityTooLarge, elevate: true, wantLevel: "WARN"},
		{name: "rate limited", status: http.StatusTooManyRequests, wantLevel: "WARN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, buf := loggedRequest(t, http.MethodPost, "/api/batch/upload")
			rec := httptest.NewRecorder()
			err := errors.New("provider rejected api_key=abcdef1234567890")

			var opts []ResponseOption
			if tc.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(rec, req, tc.status, "Request failed", err, opts...)

			assert.Equal(t, tc.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "abcdef1234567890")

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Request failed", resp.Error)
			assert.NotEmpty(t, resp.TraceID)

			entry := lastLogEntry(t, buf)
			assert.Equal(t, tc.wantLevel, entry["level"])
			assert.Equal(t, "API error response", entry["msg"])
			assert.Equal(t, "provider rejected [REDACTED_KEY]", entry["error"])
			assert.NotContains(t, buf.String(), "abcdef1234567890")
		})
	}
}

func TestRespondWithAttachment(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/download/job/Apple.pptx", nil)
	rec := httptest.NewRecorder()

	RespondWithAttachment(rec, req, "Apple.pptx", PresentationContentType, time.Time{},
		bytes.NewReader([]byte("PK\x03\x04deck")))

	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, PresentationContentType, res.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=Apple.pptx`, res.Header.Get("Content-Disposition"))
	assert.Equal(t, "PK\x03\x04deck", string(body))
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="Ice Cream.pptx"`, ContentDisposition("Ice Cream.pptx"))
	assert.Equal(t, `attachment; filename*=utf-8''Caf%C3%A9.pptx`, ContentDisposition("Café.pptx"))
}
