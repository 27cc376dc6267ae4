package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/phrazzld/spelldeck-api/internal/generation"
)

// Model is one entry of an OpenAI-compatible model listing.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ListModels returns the models advertised by GET {base}/models.
func (c *Client) ListModels(ctx context.Context, apiKey string) ([]Model, error) {
	raw, err := c.do(ctx, http.MethodGet, "/models", apiKey, nil)
	if err != nil {
		return nil, err
	}

	var listing struct {
		Data []Model `json:"data"`
	}
	if err := json.Unmarshal(raw, &listing); err != nil {
		return nil, fmt.Errorf("%w: decode model listing: %v", generation.ErrInvalidResponse, err)
	}
	if listing.Data == nil {
		listing.Data = []Model{}
	}
	return listing.Data, nil
}
