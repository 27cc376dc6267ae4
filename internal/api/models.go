package api

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/spelldeck-api/internal/generation"
	"github.com/phrazzld/spelldeck-api/internal/service"
)

// StatusResponse is the body of the root liveness endpoint.
type StatusResponse struct {
	Message string `json:"message"`
}

// UploadResponse is returned once a batch has been accepted.
type UploadResponse struct {
	JobID string `json:"job_id"`
}

// OpenRouterModel is one entry of the OpenRouter model listing.
type OpenRouterModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GenerateWordRequest defines the payload for the single-word deck endpoint.
// Content fields are optional; missing ones are filled by the language model.
type GenerateWordRequest struct {
	Word       string `json:"word"       validate:"required,max=100"`
	Definition string `json:"definition" validate:"max=2000"`
	Sentence   string `json:"sentence"   validate:"max=2000"`
	Etymology  string `json:"etymology"  validate:"max=2000"`
	Morphology string `json:"morphology" validate:"max=2000"`
	Synonyms   string `json:"synonyms"   validate:"max=1000"`
	Antonyms   string `json:"antonyms"   validate:"max=1000"`

	Provider string `json:"provider" validate:"max=50"`
	APIKey   string `json:"api_key"  validate:"max=512"`
	Model    string `json:"model"    validate:"max=200"`
}

// toWordRequest converts the payload to the service request.
func (req *GenerateWordRequest) toWordRequest() service.WordRequest {
	return service.WordRequest{
		Word:       req.Word,
		Definition: req.Definition,
		Sentence:   req.Sentence,
		Etymology:  req.Etymology,
		Morphology: req.Morphology,
		Synonyms:   req.Synonyms,
		Antonyms:   req.Antonyms,
		Options: generation.Options{
			Provider: generation.Provider(strings.ToLower(strings.TrimSpace(req.Provider))),
			APIKey:   req.APIKey,
			Model:    req.Model,
		},
	}
}

// newValidator returns a validator that reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
