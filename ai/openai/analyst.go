package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/taskquery/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxAnalystTasks caps how many ranked tasks are sent to the analyst;
// anything past this adds tokens without changing the summary.
const maxAnalystTasks = 25

// ResultAnalyst implements ai.ResultAnalyst using OpenAI-compatible chat APIs.
type ResultAnalyst struct {
	client llms.Model
	logger *slog.Logger
}

func newResultAnalyst(config *ai.Config) (*ResultAnalyst, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.AnalystModel),
	)
	if err != nil {
		return nil, err
	}

	return &ResultAnalyst{
		client: client,
		logger: slog.Default().With("component", "openai-analyst"),
	}, nil
}

// NewResultAnalyst creates a new result analyst using the provided configuration.
//
// Returns ai.ResultAnalyst interface to enforce abstraction.
func NewResultAnalyst(config *ai.Config) (ai.ResultAnalyst, error) {
	return newResultAnalyst(config)
}

// AnalyzeResults writes a short narrative summary of the ranked tasks.
func (r *ResultAnalyst) AnalyzeResults(ctx context.Context, query string, taskTexts []string) (string, error) {
	if len(taskTexts) > maxAnalystTasks {
		taskTexts = taskTexts[:maxAnalystTasks]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Query: %s\n\nRanked tasks:\n", query)
	for i, text := range taskTexts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, text)
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(analystPromptTemplate),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(sb.String()),
			},
		},
	}

	response, err := r.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		r.logger.Warn("result analysis failed", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", nil
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}
