package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/phrazzld/spelldeck-api/internal/artifact"
	"github.com/phrazzld/spelldeck-api/internal/config"
	"github.com/phrazzld/spelldeck-api/internal/events"
	"github.com/phrazzld/spelldeck-api/internal/generation"
	"github.com/phrazzld/spelldeck-api/internal/jobs"
	"github.com/phrazzld/spelldeck-api/internal/platform/gemini"
	"github.com/phrazzld/spelldeck-api/internal/platform/ollama"
	"github.com/phrazzld/spelldeck-api/internal/platform/openai"
	"github.com/phrazzld/spelldeck-api/internal/service"
	"github.com/phrazzld/spelldeck-api/internal/slides"
	"github.com/phrazzld/spelldeck-api/internal/task"
)

// openRouterReferer identifies the application to OpenRouter.
const openRouterReferer = "https://github.com/phrazzld/spelldeck-api"

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	jobs      *jobs.Manager
	artifacts *artifact.Store

	generator  *generation.Router
	ollama     *ollama.Client
	openRouter *openai.Client

	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner

	batchService service.BatchService
}

// newApplication creates an application with every dependency initialized
// and the task runner started. Call cleanup to stop it.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		jobs:   jobs.NewManager(logger),
	}

	var err error
	app.artifacts, err = artifact.NewStore(cfg.Storage.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open output directory: %w", err)
	}
	if cfg.Storage.TempDir != "" {
		if err := os.MkdirAll(cfg.Storage.TempDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create temp directory: %w", err)
		}
	}
	logger.Info("Artifact store ready", "root", app.artifacts.Root())

	if err := app.setupGenerator(); err != nil {
		return nil, err
	}

	app.taskRunner = task.NewTaskRunner(task.RunnerConfigFrom(cfg.Task), logger)
	app.taskRunner.SetErrorHandler(task.FailJobOnError(app.jobs, logger))
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	factory := task.NewBatchTaskFactory(app.jobs, app.artifacts, app.generator, slides.NewRenderer(), logger)
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(task.NewTaskFactoryEventHandler(
		factory,
		app.taskRunner,
		logger.With("component", "task_factory_event_handler"),
	), events.BatchRequested)

	app.batchService, err = service.NewBatchService(app.jobs, app.artifacts, app.generator, app.eventEmitter, logger)
	if err != nil {
		app.taskRunner.Stop()
		return nil, fmt.Errorf("failed to create batch service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupGenerator builds one backend per provider and the router in front of them.
func (app *application) setupGenerator() error {
	llm := app.config.LLM
	timeout := time.Duration(llm.RequestTimeoutSeconds) * time.Second

	var err error
	app.openRouter, err = openai.NewClient(openai.Config{
		Name:     string(generation.ProviderOpenRouter),
		BaseURL:  llm.OpenRouterBaseURL,
		JSONMode: true,
		Headers: map[string]string{
			"HTTP-Referer": openRouterReferer,
			"X-Title":      "SpellDeck",
		},
		Timeout: timeout,
	}, nil, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenRouter client: %w", err)
	}

	app.ollama = ollama.NewClient(llm.OllamaBaseURL, nil, app.logger)
	ollamaChat, err := openai.NewClient(openai.Config{
		Name:     string(generation.ProviderOllama),
		BaseURL:  app.ollama.ChatBaseURL(),
		JSONMode: true,
		Timeout:  timeout,
	}, &http.Client{Timeout: timeout}, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Ollama client: %w", err)
	}

	geminiBackend, err := gemini.NewGeminiBackend(app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini backend: %w", err)
	}

	prompt, err := generation.LoadPrompt(llm.PromptTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to load prompt template: %w", err)
	}

	app.generator, err = generation.NewRouter(llm, prompt, map[generation.Provider]generation.Backend{
		generation.ProviderOpenRouter: app.openRouter,
		generation.ProviderGemini:     geminiBackend,
		generation.ProviderOllama:     ollamaChat,
	}, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize word generator: %w", err)
	}

	app.logger.Info("Word generator initialized",
		"default_provider", llm.DefaultProvider,
		"max_retries", llm.MaxRetries)
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}
	app.logger.Info("Application shutdown completed", "jobs_tracked", app.jobs.Len())
}
