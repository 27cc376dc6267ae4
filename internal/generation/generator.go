package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/spelldeck-api/internal/config"
	"github.com/phrazzld/spelldeck-api/internal/domain"
	"github.com/phrazzld/spelldeck-api/internal/redact"
)

// Options selects the provider, credential and model for one request.
// Empty fields fall back to the configured defaults.
type Options struct {
	Provider Provider
	APIKey   string
	Model    string
}

// Generator defines the interface for fetching structured word data.
// This interface serves as a boundary between the application core and
// external AI/LLM services.
type Generator interface {
	// FetchWordData asks a language model for the linguistic data of word.
	// Malformed model output is reported as ErrInvalidResponse.
	FetchWordData(ctx context.Context, word string, opts Options) (*domain.WordRecord, error)
}

// Request is a single prompt for a Backend.
type Request struct {
	Model  string
	APIKey string
	System string
	Prompt string
}

// Backend sends a prompt to one provider and returns the raw text reply.
// Errors that are worth retrying wrap ErrTransientFailure.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f BackendFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

type providerDefaults struct {
	apiKey string
	model  string
}

// Router implements Generator by dispatching each request to the Backend of
// the requested provider.
type Router struct {
	backends        map[Provider]Backend
	defaults        map[Provider]providerDefaults
	defaultProvider Provider
	prompt          *Prompt
	retry           RetryPolicy
	timeout         time.Duration
	logger          *slog.Logger
}

var _ Generator = (*Router)(nil)

// NewRouter creates a Router from the LLM configuration. backends maps each
// provider to its transport; providers without a backend are rejected at
// request time.
func NewRouter(
	cfg config.LLMConfig,
	prompt *Prompt,
	backends map[Provider]Backend,
	logger *slog.Logger,
) (*Router, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}
	if prompt == nil {
		return nil, fmt.Errorf("%w: prompt cannot be nil", ErrInvalidConfig)
	}

	defaultProvider := ProviderOpenRouter
	if cfg.DefaultProvider != "" {
		p, err := ParseProvider(cfg.DefaultProvider)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		defaultProvider = p
	}

	return &Router{
		backends: backends,
		defaults: map[Provider]providerDefaults{
			ProviderOpenRouter: {apiKey: cfg.OpenRouterAPIKey, model: cfg.OpenRouterModel},
			ProviderGemini:     {apiKey: cfg.GeminiAPIKey, model: cfg.GeminiModel},
			ProviderOllama:     {model: cfg.OllamaModel},
		},
		defaultProvider: defaultProvider,
		prompt:          prompt,
		retry: RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		},
		timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		logger:  logger.With(slog.String("component", "generation")),
	}, nil
}

// Resolve fills the empty fields of opts from the configured defaults and
// checks that a managed provider has a credential.
func (r *Router) Resolve(opts Options) (Options, error) {
	if opts.Provider == "" {
		opts.Provider = r.defaultProvider
	} else {
		p, err := ParseProvider(string(opts.Provider))
		if err != nil {
			return Options{}, err
		}
		opts.Provider = p
	}

	defaults := r.defaults[opts.Provider]
	opts.APIKey = strings.TrimSpace(opts.APIKey)
	if opts.APIKey == "" {
		opts.APIKey = defaults.apiKey
	}
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = defaults.model
	}

	if opts.Provider.IsManaged() && opts.APIKey == "" {
		return Options{}, fmt.Errorf("%w: %s", ErrMissingCredential, opts.Provider)
	}
	if !opts.Provider.IsManaged() {
		opts.APIKey = ""
	}
	return opts, nil
}

// FetchWordData implements Generator.
func (r *Router) FetchWordData(ctx context.Context, word string, opts Options) (*domain.WordRecord, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyWord
	}

	resolved, err := r.Resolve(opts)
	if err != nil {
		return nil, err
	}

	backend, ok := r.backends[resolved.Provider]
	if !ok || backend == nil {
		return nil, fmt.Errorf("%w: no backend registered for %s", ErrInvalidConfig, resolved.Provider)
	}

	prompt, err := r.prompt.Render(word)
	if err != nil {
		return nil, err
	}

	log := r.logger.With(
		slog.String("provider", resolved.Provider.String()),
		slog.String("model", resolved.Model),
		slog.String("word", word))
	start := time.Now()

	var record *domain.WordRecord
	err = WithRetry(ctx, log, r.retry, func(ctx context.Context) error {
		callCtx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		raw, err := backend.Complete(callCtx, Request{
			Model:  resolved.Model,
			APIKey: resolved.APIKey,
			System: SystemPrompt,
			Prompt: prompt,
		})
		if err != nil {
			return err
		}

		record, err = ParseRecord(raw)
		return err
	})
	if err != nil {
		log.ErrorContext(ctx, "word data generation failed",
			"elapsed_ms", time.Since(start).Milliseconds(),
			"error", redact.Error(err))
		if !isClassified(err) {
			err = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		return nil, err
	}

	record.Word = word
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	log.InfoContext(ctx, "word data generated",
		"elapsed_ms", time.Since(start).Milliseconds())
	return record, nil
}

// isClassified reports whether err already carries one of the package's
// failure sentinels or a context error.
func isClassified(err error) bool {
	for _, target := range []error{
		ErrGenerationFailed, ErrInvalidResponse, ErrContentBlocked, ErrTransientFailure,
		ErrInvalidConfig, context.Canceled, context.DeadlineExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
