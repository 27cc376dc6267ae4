package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wordBody struct {
	Word string `json:"word" validate:"required,max=10"`
}

type selfValidating struct {
	called bool
}

func (s *selfValidating) Validate() error {
	s.called = true
	return nil
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
		anyErr  bool
	}{
		{name: "valid body", body: `{"word":"Apple"}`, want: "Apple"},
		{name: "empty body", body: "", wantErr: ErrEmptyBody},
		{name: "malformed body", body: `{"word":`, anyErr: true},
		{name: "oversized body", body: `{"word":"` + strings.Repeat("a", MaxJSONBodyBytes) + `"}`, anyErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/generate-word", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			var got wordBody
			err := DecodeJSON(rec, req, &got)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.want, got.Word)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Run("struct tags", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(&wordBody{Word: "Apple"}))
		assert.Error(t, ValidateRequest(&wordBody{}))
		assert.Error(t, ValidateRequest(&wordBody{Word: "Pneumonoultramicroscopic"}))
	})

	t.Run("validate method", func(t *testing.T) {
		v := &selfValidating{}
		assert.NoError(t, ValidateRequest(v))
		assert.True(t, v.called)
	})
}

func TestTrimmedFormValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/batch/upload",
		strings.NewReader("provider=+ollama+&model="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	assert.Equal(t, "ollama", TrimmedFormValue(req, "provider"))
	assert.Empty(t, TrimmedFormValue(req, "model"))
	assert.Empty(t, TrimmedFormValue(req, "api_key"))
}
