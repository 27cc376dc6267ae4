package generation_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/spelldeck-api/internal/config"
	"github.com/phrazzld/spelldeck-api/internal/generation"
	"github.com/phrazzld/spelldeck-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBackend returns canned replies and remembers every request.
type recordingBackend struct {
	mu       sync.Mutex
	requests []generation.Request
	replies  []func() (string, error)
}

func (b *recordingBackend) Complete(_ context.Context, req generation.Request) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	if len(b.replies) == 0 {
		return appleJSON, nil
	}
	reply := b.replies[0]
	if len(b.replies) > 1 {
		b.replies = b.replies[1:]
	}
	return reply()
}

func (b *recordingBackend) calls() []generation.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]generation.Request(nil), b.requests...)
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		DefaultProvider:       "openrouter",
		OpenRouterAPIKey:      "",
		OpenRouterModel:       "openai/gpt-3.5-turbo",
		GeminiAPIKey:          "server-gemini-key",
		GeminiModel:           "gemini-2.0-flash",
		OllamaModel:           "llama3",
		MaxRetries:            2,
		RetryDelaySeconds:     0,
		RequestTimeoutSeconds: 5,
	}
}

func newRouter(t *testing.T, cfg config.LLMConfig, backends map[generation.Provider]generation.Backend) *generation.Router {
	t.Helper()
	prompt, err := generation.LoadPrompt("")
	require.NoError(t, err)
	l, _ := logger.GetTestLogger(t)
	router, err := generation.NewRouter(cfg, prompt, backends, l)
	require.NoError(t, err)
	return router
}

func TestRouterFetchWordData(t *testing.T) {
	backend := &recordingBackend{}
	router := newRouter(t, testLLMConfig(), map[generation.Provider]generation.Backend{
		generation.ProviderOpenRouter: backend,
	})

	record, err := router.FetchWordData(context.Background(), " Apple ", generation.Options{
		Provider: "openrouter",
		APIKey:   "sk-or-request",
	})
	require.NoError(t, err)
	assert.Equal(t, "Apple", record.Word)
	assert.Equal(t, "A round fruit with red or green skin.", record.Definition)

	calls := backend.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "sk-or-request", calls[0].APIKey)
	assert.Equal(t, "openai/gpt-3.5-turbo", calls[0].Model, "model falls back to the configured default")
	assert.Equal(t, generation.SystemPrompt, calls[0].System)
	assert.Contains(t, calls[0].Prompt, `"Apple"`)
}

func TestRouterResolve(t *testing.T) {
	router := newRouter(t, testLLMConfig(), nil)

	t.Run("default provider", func(t *testing.T) {
		_, err := router.Resolve(generation.Options{})
		assert.ErrorIs(t, err, generation.ErrMissingCredential, "openrouter has no server key configured")
	})

	t.Run("server side credential", func(t *testing.T) {
		opts, err := router.Resolve(generation.Options{Provider: "gemini"})
		require.NoError(t, err)
		assert.Equal(t, "server-gemini-key", opts.APIKey)
		assert.Equal(t, "gemini-2.0-flash", opts.Model)
	})

	t.Run("local provider needs no credential", func(t *testing.T) {
		opts, err := router.Resolve(generation.Options{Provider: "ollama", APIKey: "ignored", Model: "mistral"})
		require.NoError(t, err)
		assert.Equal(t, generation.ProviderOllama, opts.Provider)
		assert.Empty(t, opts.APIKey)
		assert.Equal(t, "mistral", opts.Model)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := router.Resolve(generation.Options{Provider: "bogus"})
		assert.ErrorIs(t, err, generation.ErrUnknownProvider)
	})
}

func TestRouterErrors(t *testing.T) {
	t.Run("empty word", func(t *testing.T) {
		router := newRouter(t, testLLMConfig(), nil)
		_, err := router.FetchWordData(context.Background(), "  ", generation.Options{Provider: "ollama"})
		assert.ErrorIs(t, err, generation.ErrEmptyWord)
	})

	t.Run("no backend for provider", func(t *testing.T) {
		router := newRouter(t, testLLMConfig(), nil)
		_, err := router.FetchWordData(context.Background(), "Apple", generation.Options{Provider: "ollama"})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("malformed response is not retried", func(t *testing.T) {
		backend := &recordingBackend{replies: []func() (string, error){
			func() (string, error) { return "not json at all", nil },
		}}
		router := newRouter(t, testLLMConfig(), map[generation.Provider]generation.Backend{
			generation.ProviderOllama: backend,
		})

		_, err := router.FetchWordData(context.Background(), "Xyzzynotaword", generation.Options{Provider: "ollama"})
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
		assert.Len(t, backend.calls(), 1)
	})

	t.Run("transient failures are retried", func(t *testing.T) {
		backend := &recordingBackend{replies: []func() (string, error){
			func() (string, error) { return "", fmt.Errorf("%w: status 503", generation.ErrTransientFailure) },
			func() (string, error) { return appleJSON, nil },
		}}
		router := newRouter(t, testLLMConfig(), map[generation.Provider]generation.Backend{
			generation.ProviderOllama: backend,
		})

		record, err := router.FetchWordData(context.Background(), "Apple", generation.Options{Provider: "ollama"})
		require.NoError(t, err)
		assert.Equal(t, "Apple", record.Word)
		assert.Len(t, backend.calls(), 2)
	})

	t.Run("permanent backend errors surface", func(t *testing.T) {
		backendErr := errors.New("status 401: unauthorized")
		router := newRouter(t, testLLMConfig(), map[generation.Provider]generation.Backend{
			generation.ProviderOllama: generation.BackendFunc(func(context.Context, generation.Request) (string, error) {
				return "", backendErr
			}),
		})

		_, err := router.FetchWordData(context.Background(), "Apple", generation.Options{Provider: "ollama"})
		assert.ErrorIs(t, err, backendErr)
		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	})
}

func TestNewRouterValidation(t *testing.T) {
	prompt, err := generation.LoadPrompt("")
	require.NoError(t, err)
	l, _ := logger.GetTestLogger(t)

	_, err = generation.NewRouter(testLLMConfig(), prompt, nil, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = generation.NewRouter(testLLMConfig(), nil, nil, l)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg := testLLMConfig()
	cfg.DefaultProvider = "bogus"
	_, err = generation.NewRouter(cfg, prompt, nil, l)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestWithRetry(t *testing.T) {
	l, _ := logger.GetTestLogger(t)
	policy := generation.RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}
	transient := fmt.Errorf("%w: connection reset", generation.ErrTransientFailure)

	t.Run("gives up after max retries", func(t *testing.T) {
		attempts := 0
		err := generation.WithRetry(context.Background(), l, policy, func(context.Context) error {
			attempts++
			return transient
		})
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
		assert.Equal(t, 3, attempts)
	})

	t.Run("permanent errors stop immediately", func(t *testing.T) {
		attempts := 0
		err := generation.WithRetry(context.Background(), l, policy, func(context.Context) error {
			attempts++
			return generation.ErrContentBlocked
		})
		assert.ErrorIs(t, err, generation.ErrContentBlocked)
		assert.Equal(t, 1, attempts)
	})

	t.Run("cancelled context stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := generation.RetryPolicy{MaxRetries: 5, BaseDelay: time.Hour}
		attempts := 0
		err := generation.WithRetry(ctx, l, slow, func(context.Context) error {
			attempts++
			cancel()
			return transient
		})
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
		assert.Equal(t, 1, attempts)
	})
}
