// Package main implements the entry point for the SpellDeck API server,
// which turns word lists into vocabulary slide decks with the help of a
// language model.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/spelldeck-api/internal/config"
	"github.com/phrazzld/spelldeck-api/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("spelldeck server failed: %v", err)
	}
}

// run loads configuration, builds the application and serves until ctx is done.
func run(ctx context.Context) error {
	cfg, l, err := initializeApp()
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"default_provider", cfg.LLM.DefaultProvider,
		"output_dir", cfg.Storage.OutputDir)
	l.Debug("LLM credentials",
		"openrouter_api_key_present", cfg.LLM.OpenRouterAPIKey != "",
		"gemini_api_key_present", cfg.LLM.GeminiAPIKey != "")

	return cfg, l, nil
}
