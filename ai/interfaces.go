package ai

import "context"

// QueryAnalyzer interprets a raw query into a structured analysis.
// Implementations must be thread-safe for concurrent use.
type QueryAnalyzer interface {
	// AnalyzeQuery interprets the request's query text. The returned
	// analysis is best-effort and must be shape-validated by the caller;
	// an error or malformed payload is recoverable (the caller falls back
	// to heuristic parsing).
	AnalyzeQuery(ctx context.Context, req AnalyzeRequest) (*QueryAnalysis, error)
}

// ResultAnalyst produces a narrative summary of a ranked result list.
// Implementations must be thread-safe for concurrent use.
type ResultAnalyst interface {
	// AnalyzeResults summarizes the ranked task texts for the given query.
	// Failure is recoverable: the caller returns the ranked list without
	// narrative text.
	AnalyzeResults(ctx context.Context, query string, taskTexts []string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management.
type Provider interface {
	// QueryAnalyzer returns the query analysis service.
	// The returned QueryAnalyzer is safe for concurrent use.
	QueryAnalyzer() QueryAnalyzer

	// ResultAnalyst returns the result analysis service.
	// The returned ResultAnalyst is safe for concurrent use.
	ResultAnalyst() ResultAnalyst

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
