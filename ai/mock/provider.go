package mock

import "github.com/poiesic/taskquery/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock analyzer and analyst instances.
type MockProvider struct {
	analyzer *MockQueryAnalyzer
	analyst  *MockResultAnalyst
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockAnalyzer()/GetMockAnalyst() to access concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		analyzer: NewMockQueryAnalyzer(),
		analyst:  NewMockResultAnalyst(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(analyzer *MockQueryAnalyzer, analyst *MockResultAnalyst) ai.Provider {
	return &MockProvider{
		analyzer: analyzer,
		analyst:  analyst,
	}
}

// QueryAnalyzer returns the mock analyzer.
func (p *MockProvider) QueryAnalyzer() ai.QueryAnalyzer {
	return p.analyzer
}

// ResultAnalyst returns the mock analyst.
func (p *MockProvider) ResultAnalyst() ai.ResultAnalyst {
	return p.analyst
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockAnalyzer returns the underlying mock analyzer for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockAnalyzer() *MockQueryAnalyzer {
	return p.analyzer
}

// GetMockAnalyst returns the underlying mock analyst for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockAnalyst() *MockResultAnalyst {
	return p.analyst
}
