package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm" validate:"required"`
	Task    TaskConfig    `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel       string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb" validate:"required,gt=0"`
}

// StorageConfig controls where uploads and generated decks live on disk.
type StorageConfig struct {
	// OutputDir holds one sub-directory of generated decks per job
	OutputDir string `mapstructure:"output_dir" validate:"required"`
	// TempDir receives uploaded input files; empty means the OS default
	TempDir string `mapstructure:"temp_dir"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	DefaultProvider string `mapstructure:"default_provider" validate:"required,oneof=openrouter gemini ollama"`

	OpenRouterBaseURL string `mapstructure:"openrouter_base_url" validate:"required,url"`
	OpenRouterAPIKey  string `mapstructure:"openrouter_api_key"`
	OpenRouterModel   string `mapstructure:"openrouter_model" validate:"required"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model" validate:"required"`

	OllamaBaseURL string `mapstructure:"ollama_base_url" validate:"required,url"`
	OllamaModel   string `mapstructure:"ollama_model" validate:"required"`

	// PromptTemplatePath overrides the built-in prompt when set
	PromptTemplatePath string `mapstructure:"prompt_template_path"`

	MaxRetries            int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds     int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}

// TaskConfig contains settings for the background task runner.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
}
