package core

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML configuration file layout. All fields are
// optional; zero values leave the existing config untouched.
type fileConfig struct {
	LLM struct {
		BaseURL         string `yaml:"base_url"`
		APIKey          string `yaml:"api_key"`
		ExtractionModel string `yaml:"extraction_model"`
		SummaryModel    string `yaml:"summary_model"`
	} `yaml:"llm"`
	Extraction struct {
		EnableGenerative *bool `yaml:"enable_generative"`
		EnableNLP        *bool `yaml:"enable_nlp"`
		MaxPromptChars   int   `yaml:"max_prompt_chars"`
	} `yaml:"extraction"`
	Processing struct {
		MaxConcurrent    int `yaml:"max_concurrent"`
		TimeoutSeconds   int `yaml:"timeout_seconds"`
		AITimeoutSeconds int `yaml:"ai_timeout_seconds"`
		ExtractionTokens int `yaml:"extraction_tokens"`
		SummaryTokens    int `yaml:"summary_tokens"`
	} `yaml:"processing"`
	Output struct {
		Dir           string `yaml:"dir"`
		DatabasePath  string `yaml:"database_path"`
		LogFile       string `yaml:"log_file"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"output"`
}

// applyConfigFile overlays values from a YAML file onto config.
// Unset fields in the file leave the corresponding config value unchanged.
func applyConfigFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	if fc.LLM.BaseURL != "" {
		config.OpenAIBaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.APIKey != "" {
		config.OpenAIAPIKey = fc.LLM.APIKey
	}
	if fc.LLM.ExtractionModel != "" {
		config.ExtractionModel = fc.LLM.ExtractionModel
	}
	if fc.LLM.SummaryModel != "" {
		config.SummaryModel = fc.LLM.SummaryModel
	}
	if fc.Extraction.EnableGenerative != nil {
		config.EnableGenerative = *fc.Extraction.EnableGenerative
	}
	if fc.Extraction.EnableNLP != nil {
		config.EnableNLP = *fc.Extraction.EnableNLP
	}
	if fc.Extraction.MaxPromptChars > 0 {
		config.MaxPromptChars = fc.Extraction.MaxPromptChars
	}
	if fc.Processing.MaxConcurrent > 0 {
		config.MaxConcurrent = fc.Processing.MaxConcurrent
	}
	if fc.Processing.TimeoutSeconds > 0 {
		config.ProcessingTimeout = time.Duration(fc.Processing.TimeoutSeconds) * time.Second
	}
	if fc.Processing.AITimeoutSeconds > 0 {
		config.AITimeout = time.Duration(fc.Processing.AITimeoutSeconds) * time.Second
	}
	if fc.Processing.ExtractionTokens > 0 {
		config.ExtractionTokens = int64(fc.Processing.ExtractionTokens)
	}
	if fc.Processing.SummaryTokens > 0 {
		config.SummaryTokens = int64(fc.Processing.SummaryTokens)
	}
	if fc.Output.Dir != "" {
		config.OutputDir = fc.Output.Dir
	}
	if fc.Output.DatabasePath != "" {
		config.DatabasePath = fc.Output.DatabasePath
	}
	if fc.Output.LogFile != "" {
		config.LogFilePath = fc.Output.LogFile
	}
	if fc.Output.RetentionDays > 0 {
		config.RetentionDays = fc.Output.RetentionDays
	}

	return nil
}
