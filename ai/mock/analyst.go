package mock

import (
	"context"
	"fmt"
)

// MockResultAnalyst is a test double for ai.ResultAnalyst.
// It allows custom behavior injection via function fields.
type MockResultAnalyst struct {
	// AnalyzeResultsFunc is called by AnalyzeResults if set.
	// If nil, returns a canned summary.
	AnalyzeResultsFunc func(ctx context.Context, query string, taskTexts []string) (string, error)

	callCount int
}

// NewMockResultAnalyst creates a mock result analyst with default behavior.
func NewMockResultAnalyst() *MockResultAnalyst {
	return &MockResultAnalyst{}
}

// AnalyzeResults returns a canned summary mentioning the result count.
func (m *MockResultAnalyst) AnalyzeResults(ctx context.Context, query string, taskTexts []string) (string, error) {
	m.callCount++

	if m.AnalyzeResultsFunc != nil {
		return m.AnalyzeResultsFunc(ctx, query, taskTexts)
	}

	return fmt.Sprintf("Found %d tasks for %q.", len(taskTexts), query), nil
}

// CallCount returns the number of times AnalyzeResults was called.
func (m *MockResultAnalyst) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockResultAnalyst) Reset() {
	m.callCount = 0
	m.AnalyzeResultsFunc = nil
}
