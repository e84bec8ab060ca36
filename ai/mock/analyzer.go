package mock

import (
	"context"
	"strings"

	"github.com/poiesic/taskquery/ai"
)

// MockQueryAnalyzer is a test double for ai.QueryAnalyzer.
// It allows custom behavior injection via function fields.
type MockQueryAnalyzer struct {
	// AnalyzeQueryFunc is called by AnalyzeQuery if set.
	// If nil, uses default naive keyword splitting.
	AnalyzeQueryFunc func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error)

	callCount int
}

// NewMockQueryAnalyzer creates a mock query analyzer with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnalyzer().
func NewMockQueryAnalyzer() *MockQueryAnalyzer {
	return &MockQueryAnalyzer{}
}

// AnalyzeQuery returns a naive analysis of the query.
// Default behavior: every lowercased word becomes a keyword, no filters,
// full confidence.
func (m *MockQueryAnalyzer) AnalyzeQuery(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
	m.callCount++

	if m.AnalyzeQueryFunc != nil {
		return m.AnalyzeQueryFunc(ctx, req)
	}

	words := strings.Fields(strings.ToLower(req.Query))
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()[]{}")
		if w != "" {
			keywords = append(keywords, w)
		}
	}

	return &ai.QueryAnalysis{
		Keywords:   keywords,
		Confidence: 1.0,
		Language:   "en",
	}, nil
}

// CallCount returns the number of times AnalyzeQuery was called.
func (m *MockQueryAnalyzer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockQueryAnalyzer) Reset() {
	m.callCount = 0
	m.AnalyzeQueryFunc = nil
}
