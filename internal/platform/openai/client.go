package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/spelldeck-api/internal/generation"
)

// Config describes one OpenAI-compatible endpoint.
type Config struct {
	// Name identifies the endpoint in logs, e.g. "openrouter"
	Name string
	// BaseURL is the API root, e.g. https://openrouter.ai/api/v1
	BaseURL string
	// JSONMode requests response_format json_object
	JSONMode bool
	// Headers are added to every request
	Headers map[string]string
	// Timeout bounds a single HTTP exchange; zero means no client timeout
	Timeout time.Duration
}

// Client sends chat completion requests to an OpenAI-compatible endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

var _ generation.Backend = (*Client)(nil)

// NewClient creates a Client. A nil httpClient gets a default client using cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		log:        logger.With(slog.String("component", "openai_client"), slog.String("endpoint", cfg.Name)),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Complete implements generation.Backend using the chat/completions endpoint.
func (c *Client) Complete(ctx context.Context, req generation.Request) (string, error) {
	if strings.TrimSpace(req.Model) == "" {
		return "", fmt.Errorf("%w: model cannot be empty", generation.ErrInvalidConfig)
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body := chatRequest{Model: req.Model, Messages: messages}
	if c.cfg.JSONMode {
		body.ResponseFormat = map[string]string{"type": "json_object"}
	}

	start := time.Now()
	raw, err := c.do(ctx, http.MethodPost, "/chat/completions", req.APIKey, body)
	if err != nil {
		return "", err
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("%w: decode chat completion: %v", generation.ErrInvalidResponse, err)
	}
	if cc.Error != nil {
		return "", fmt.Errorf("%w: provider error: %s", generation.ErrGenerationFailed, cc.Error.Message)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in chat completion", generation.ErrInvalidResponse)
	}
	if cc.Choices[0].FinishReason == "content_filter" {
		return "", generation.ErrContentBlocked
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty message content", generation.ErrInvalidResponse)
	}

	c.log.DebugContext(ctx, "chat completion received",
		"model", req.Model,
		"content_length", len(content),
		"elapsed_ms", time.Since(start).Milliseconds())
	return content, nil
}

// do sends a JSON request (or none when body is nil) and returns the raw
// 2xx response body.
func (c *Client) do(ctx context.Context, method, path, apiKey string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", generation.ErrInvalidConfig, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s request failed: %v", generation.ErrTransientFailure, c.cfg.Name, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("response body close error", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", generation.ErrTransientFailure, err)
	}
	return raw, nil
}
