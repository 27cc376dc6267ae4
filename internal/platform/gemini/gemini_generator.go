package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/spelldeck-api/internal/generation"
	"google.golang.org/genai"
)

// contentFunc performs one GenerateContent call with the given credential.
type contentFunc func(
	ctx context.Context,
	apiKey, model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error)

// GeminiBackend implements generation.Backend using Google's Gemini API.
// The credential arrives with each request, so a client is created per call.
type GeminiBackend struct {
	logger   *slog.Logger
	generate contentFunc
}

var _ generation.Backend = (*GeminiBackend)(nil)

// NewGeminiBackend creates a backend that talks to the Gemini API.
func NewGeminiBackend(logger *slog.Logger) (*GeminiBackend, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}
	return &GeminiBackend{
		logger:   logger.With(slog.String("component", "gemini")),
		generate: generateWithClient,
	}, nil
}

func generateWithClient(
	ctx context.Context,
	apiKey, model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}
	return client.Models.GenerateContent(ctx, model, contents, cfg)
}

// Complete implements generation.Backend.
func (g *GeminiBackend) Complete(ctx context.Context, req generation.Request) (string, error) {
	if req.APIKey == "" {
		return "", fmt.Errorf("%w: gemini", generation.ErrMissingCredential)
	}
	if req.Model == "" {
		return "", fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	g.logger.DebugContext(ctx, "Making Gemini API call",
		"model", req.Model,
		"prompt_length", len(req.Prompt))

	resp, err := g.generate(ctx, req.APIKey, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", classifyError(ctx, err)
	}
	return responseText(resp)
}

// responseText extracts the text of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return text, nil
}

// classifyError maps API failures onto the generation error taxonomy.
func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, generation.ErrInvalidConfig) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return fmt.Errorf("%w: gemini API error %d: %s", generation.ErrTransientFailure, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("%w: gemini API error %d: %s", generation.ErrGenerationFailed, apiErr.Code, apiErr.Message)
	}

	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
		return ctxErr
	}
	return fmt.Errorf("%w: gemini request failed: %v", generation.ErrTransientFailure, err)
}
