package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration values for the extraction pipeline.
// Values are loaded once at startup and treated as read-only for the
// lifetime of the process.
type Config struct {
	// LLM endpoint configuration (defaults to local inference)
	OpenAIAPIKey    string // API key; optional for local endpoints
	OpenAIBaseURL   string // OpenAI-compatible endpoint URL (e.g. llama.cpp server)
	ExtractionModel string // Model used for structured extraction
	SummaryModel    string // Model used for document summaries

	// Extraction behavior
	EnableGenerative bool // Master toggle for the generative extractor
	EnableNLP        bool // Master toggle for the statistical extractor
	MaxPromptChars   int  // Text sent to the model is truncated to this length

	// Processing configuration
	MaxConcurrent     int           // Batch worker pool size
	ProcessingTimeout time.Duration // Whole-document timeout
	AITimeout         time.Duration // Per-inference-call timeout
	ExtractionTokens  int64         // Max response tokens for structured extraction
	SummaryTokens     int64         // Max response tokens for summaries

	// Output and persistence
	OutputDir     string // Directory for per-document JSON results
	DatabasePath  string // SQLite processing-history database
	LogFilePath   string // Structured log file
	RetentionDays int    // History rows older than this are purged at startup; 0 disables
}

// DefaultConfig returns configuration with sensible defaults for local
// inference. Environment variables and an optional YAML file override these.
func DefaultConfig() Config {
	return Config{
		OpenAIBaseURL:     "http://localhost:8080/v1",
		ExtractionModel:   "local",
		SummaryModel:      "local",
		EnableGenerative:  true,
		EnableNLP:         true,
		MaxPromptChars:    4000,
		MaxConcurrent:     4,
		ProcessingTimeout: 300 * time.Second,
		AITimeout:         120 * time.Second,
		ExtractionTokens:  2000,
		SummaryTokens:     500,
		OutputDir:         "results",
		DatabasePath:      filepath.Join("data", "pipeline.db"),
		LogFilePath:       "pipeline.log",
		RetentionDays:     30,
	}
}

// LoadConfig builds a Config from defaults, an optional YAML file named by
// PIPELINE_CONFIG, and environment variables, in that order (env wins).
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	if path := os.Getenv("PIPELINE_CONFIG"); path != "" {
		if err := applyConfigFile(&config, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	applyEnv(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyEnv overlays environment variables onto the config.
func applyEnv(config *Config) {
	config.OpenAIAPIKey = GetEnvOrDefault("OPENAI_API_KEY", config.OpenAIAPIKey)
	config.OpenAIBaseURL = GetEnvOrDefault("OPENAI_API_BASE_URL", config.OpenAIBaseURL)
	config.ExtractionModel = GetEnvOrDefault("EXTRACTION_MODEL", config.ExtractionModel)
	config.SummaryModel = GetEnvOrDefault("SUMMARY_MODEL", config.SummaryModel)
	config.EnableGenerative = ParseBoolEnv("ENABLE_GENERATIVE", config.EnableGenerative)
	config.EnableNLP = ParseBoolEnv("ENABLE_NLP", config.EnableNLP)
	config.MaxPromptChars = ParseIntEnv("MAX_PROMPT_CHARS", config.MaxPromptChars)
	config.MaxConcurrent = ParseIntEnv("MAX_CONCURRENT", config.MaxConcurrent)
	config.ProcessingTimeout = ParseDurationEnv("PROCESSING_TIMEOUT_SECONDS", int(config.ProcessingTimeout/time.Second))
	config.AITimeout = ParseDurationEnv("AI_TIMEOUT_SECONDS", int(config.AITimeout/time.Second))
	config.ExtractionTokens = ParseInt64Env("EXTRACTION_TOKENS", config.ExtractionTokens)
	config.SummaryTokens = ParseInt64Env("SUMMARY_TOKENS", config.SummaryTokens)
	config.OutputDir = GetEnvOrDefault("OUTPUT_DIR", config.OutputDir)
	config.DatabasePath = GetEnvOrDefault("DATABASE_PATH", config.DatabasePath)
	config.LogFilePath = GetEnvOrDefault("LOG_FILE", config.LogFilePath)
	config.RetentionDays = ParseIntEnv("RETENTION_DAYS", config.RetentionDays)
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.MaxConcurrent < 1 {
		return ErrInvalidConfigValue("MAX_CONCURRENT", fmt.Sprintf("%d", c.MaxConcurrent), "must be at least 1")
	}
	if c.MaxPromptChars < 100 {
		return ErrInvalidConfigValue("MAX_PROMPT_CHARS", fmt.Sprintf("%d", c.MaxPromptChars), "must be at least 100")
	}
	if c.RetentionDays < 0 {
		return ErrInvalidConfigValue("RETENTION_DAYS", fmt.Sprintf("%d", c.RetentionDays), "must not be negative")
	}
	if c.EnableGenerative && c.OpenAIBaseURL == "" && c.OpenAIAPIKey == "" {
		return ErrMissingAuth("openai")
	}
	return nil
}
