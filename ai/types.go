package ai

import (
	"errors"
	"fmt"
)

// AnalyzeRequest carries a query and the vocabulary context the analyzer
// needs to recognize property phrases.
type AnalyzeRequest struct {
	Query         string
	Languages     []string // Languages to consider for keyword expansion
	MaxExpansions int      // Equivalents per keyword per language
	PropertyTerms []string // Known property phrases (merged vocabulary)
	Statuses      []string // Configured status category names
}

// AnalyzedFilters is the structured-filter portion of an analyzer payload.
// Values are strings as produced by the model; the query package converts
// them to typed filters.
type AnalyzedFilters struct {
	// Priority: "", "1".."4", "any", "none".
	Priority string `json:"priority,omitempty"`
	// Due: "", "today", "tomorrow", "overdue", "none", "any", an ISO date
	// "2026-01-31", or an operator form like "<=2026-01-31".
	Due string `json:"due,omitempty"`
	// Status: "" or a configured category name.
	Status string   `json:"status,omitempty"`
	Folder string   `json:"folder,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// QueryAnalysis is the best-effort structured interpretation returned by
// the language-understanding collaborator. It is plain data and must pass
// Validate before use.
type QueryAnalysis struct {
	Keywords    []string            `json:"keywords"`
	Expansions  map[string][]string `json:"expansions,omitempty"` // keyword -> cross-language equivalents
	Filters     AnalyzedFilters     `json:"filters"`
	TimeContext string              `json:"time_context,omitempty"`
	IsVague     *bool               `json:"is_vague,omitempty"`
	VagueReason string              `json:"vague_reason,omitempty"`
	Confidence  float64             `json:"confidence"`
	Language    string              `json:"language,omitempty"`
}

// Shape validation errors
var (
	// ErrNilAnalysis indicates an absent payload.
	ErrNilAnalysis = errors.New("analysis payload is nil")

	// ErrMalformedAnalysis indicates a payload that fails shape validation.
	ErrMalformedAnalysis = errors.New("malformed analysis payload")
)

// Validate shape-checks an analyzer payload. It does not interpret filter
// values beyond their enumerable forms; detailed parsing happens in the
// query package. A payload failing validation must be discarded in favor
// of the heuristic fallback.
func (a *QueryAnalysis) Validate() error {
	if a == nil {
		return ErrNilAnalysis
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrMalformedAnalysis, a.Confidence)
	}
	switch a.Filters.Priority {
	case "", "1", "2", "3", "4", "any", "none":
	default:
		return fmt.Errorf("%w: priority %q", ErrMalformedAnalysis, a.Filters.Priority)
	}
	for kw, equivalents := range a.Expansions {
		if kw == "" {
			return fmt.Errorf("%w: expansion for empty keyword", ErrMalformedAnalysis)
		}
		for _, eq := range equivalents {
			if eq == "" {
				return fmt.Errorf("%w: empty expansion for %q", ErrMalformedAnalysis, kw)
			}
		}
	}
	for _, kw := range a.Keywords {
		if kw == "" {
			return fmt.Errorf("%w: empty keyword", ErrMalformedAnalysis)
		}
	}
	if a.IsVague != nil && *a.IsVague && a.VagueReason == "" {
		// An explicit vagueness flag only takes precedence over the
		// heuristic ratio when it comes with reasoning.
		return fmt.Errorf("%w: vague flag without reasoning", ErrMalformedAnalysis)
	}
	if a.TimeContext != "" && a.Filters.Due != "" {
		return fmt.Errorf("%w: time expression resolved to both due filter and time context", ErrMalformedAnalysis)
	}
	return nil
}
