package extract

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"techdoc_pipeline/core"
)

// ModelHandle wraps the shared, expensive-to-initialize connection to a
// local OpenAI-compatible model server. It is constructed once at startup,
// read-only afterwards, and safe for concurrent use across documents.
//
// Availability is probed once during construction and cached; the pipeline
// never retries model loads per document. Structured extraction and
// summary/analysis prompts can target different models with different
// token budgets. Every call is bounded by the configured inference
// timeout.
type ModelHandle struct {
	client           *openai.Client
	extractionModel  string
	summaryModel     string
	extractionTokens int64
	summaryTokens    int64
	timeout          time.Duration
	available        bool
}

// NewModelHandle creates a ModelHandle from configuration and probes the
// endpoint once. A failed probe yields a handle whose Available() is false;
// callers then take the rule-based fallback path.
func NewModelHandle(config *core.Config, logger *zap.Logger) *ModelHandle {
	clientConfig := openai.DefaultConfig(config.OpenAIAPIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	handle := &ModelHandle{
		client:           client,
		extractionModel:  config.ExtractionModel,
		summaryModel:     config.SummaryModel,
		extractionTokens: config.ExtractionTokens,
		summaryTokens:    config.SummaryTokens,
		timeout:          config.AITimeout,
	}

	if !config.EnableGenerative {
		logger.Info("generative extraction disabled by configuration")
		return handle
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.ListModels(ctx); err != nil {
		logger.Warn("model endpoint unreachable, generative extraction disabled",
			zap.String("base_url", clientConfig.BaseURL),
			zap.Error(err))
		return handle
	}

	handle.available = true
	logger.Info("model endpoint available",
		zap.String("base_url", clientConfig.BaseURL),
		zap.String("extraction_model", handle.extractionModel),
		zap.String("summary_model", handle.summaryModel))
	return handle
}

// NewUnavailableModelHandle returns a handle that always reports unavailable.
// Used in tests and when running the pipeline fully offline.
func NewUnavailableModelHandle() *ModelHandle {
	return &ModelHandle{}
}

// Available reports whether the model endpoint answered the startup probe.
func (h *ModelHandle) Available() bool {
	return h != nil && h.available
}

// callContext bounds one inference call by the configured timeout. A zero
// timeout leaves the caller's context untouched.
func (h *ModelHandle) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}

// Complete sends a single-turn structured-extraction request and returns
// the response text. Callers own prompt construction and response parsing.
func (h *ModelHandle) Complete(ctx context.Context, prompt string) (string, error) {
	return h.complete(ctx, prompt, h.extractionModel, h.extractionTokens)
}

// CompleteSummary sends a single-turn request against the summary model
// with the summary token budget. Used for document summaries and
// complexity analysis, which want shorter answers than structured
// extraction.
func (h *ModelHandle) CompleteSummary(ctx context.Context, prompt string) (string, error) {
	return h.complete(ctx, prompt, h.summaryModel, h.summaryTokens)
}

func (h *ModelHandle) complete(ctx context.Context, prompt, model string, maxTokens int64) (string, error) {
	ctx, cancel := h.callContext(ctx)
	defer cancel()

	resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   int(maxTokens),
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyModelResponse
	}
	return resp.Choices[0].Message.Content, nil
}
