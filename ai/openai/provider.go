package openai

import (
	"log/slog"

	"github.com/poiesic/taskquery/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages query analyzer and result analyst instances.
type Provider struct {
	config   *ai.Config
	analyzer *QueryAnalyzer
	analyst  *ResultAnalyst
	logger   *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	analyzer, err := newQueryAnalyzer(config)
	if err != nil {
		return nil, err
	}

	analyst, err := newResultAnalyst(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:   config,
		analyzer: analyzer,
		analyst:  analyst,
		logger:   slog.Default().With("component", "openai-provider"),
	}, nil
}

// QueryAnalyzer returns the query analysis service.
func (p *Provider) QueryAnalyzer() ai.QueryAnalyzer {
	return p.analyzer
}

// ResultAnalyst returns the result analysis service.
func (p *Provider) ResultAnalyst() ai.ResultAnalyst {
	return p.analyst
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
