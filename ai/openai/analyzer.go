package openai

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/poiesic/taskquery/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// QueryAnalyzer implements ai.QueryAnalyzer using OpenAI-compatible chat APIs.
type QueryAnalyzer struct {
	client     llms.Model
	maxRetries int
	logger     *slog.Logger
}

// newQueryAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newQueryAnalyzer(config *ai.Config) (*QueryAnalyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.AnalyzerModel),
	)
	if err != nil {
		return nil, err
	}

	return &QueryAnalyzer{
		client:     client,
		maxRetries: config.MaxRetries,
		logger:     slog.Default().With("component", "openai-analyzer"),
	}, nil
}

// NewQueryAnalyzer creates a new query analyzer using the provided configuration.
//
// Returns ai.QueryAnalyzer interface to enforce abstraction.
func NewQueryAnalyzer(config *ai.Config) (ai.QueryAnalyzer, error) {
	return newQueryAnalyzer(config)
}

// AnalyzeQuery interprets the query with the configured model. The
// response is unmarshaled after fence stripping and JSON repair; malformed
// responses are retried up to the configured budget. The returned payload
// still needs shape validation by the caller.
func (a *QueryAnalyzer) AnalyzeQuery(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildAnalyzerPrompt(req)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(req.Query),
			},
		},
	}

	var result ai.QueryAnalysis
	var lastErr error
	for attempt := 0; attempt < a.maxRetries; attempt++ {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			a.logger.Debug("no choices returned from model")
			return nil, ai.ErrNilAnalysis
		}

		responseText := stripFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			a.logger.Warn("error parsing analyzer response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		a.logger.Error("failed to parse analyzer response after retries", "err", lastErr)
		return nil, lastErr
	}

	a.logger.Debug("analyzed query",
		"keywords", len(result.Keywords),
		"confidence", result.Confidence)
	return &result, nil
}
