package query

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/taskquery/ai"
	"github.com/poiesic/taskquery/core"
)

// Interpreter turns raw query text into a core.ParsedQuery. It always
// computes a heuristic parse; when an analyzer is configured its payload
// is merged over the heuristic result. Interpretation never fails.
type Interpreter struct {
	analyzer ai.QueryAnalyzer // nil means heuristic-only
	logger   *slog.Logger
	now      func() time.Time
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) InterpreterOption {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// WithNow overrides the clock, used by tests for stable relative dates.
func WithNow(now func() time.Time) InterpreterOption {
	return func(i *Interpreter) {
		i.now = now
	}
}

// NewInterpreter creates an Interpreter. A nil analyzer is valid and
// yields heuristic-only interpretation.
func NewInterpreter(analyzer ai.QueryAnalyzer, opts ...InterpreterOption) *Interpreter {
	i := &Interpreter{
		analyzer: analyzer,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret parses raw under cfg. The result always satisfies
// core.ValidateParsedQuery: core keywords are a subset of the expanded
// list and a time expression lands in exactly one of the due-date filter
// or the time context.
func (i *Interpreter) Interpret(ctx context.Context, raw string, cfg *Config) *core.ParsedQuery {
	cfg.Normalize()
	now := i.now()
	vocab := buildVocabulary(cfg)

	pq := heuristicParse(raw, cfg, vocab, now)

	if i.analyzer == nil {
		return pq
	}

	analysis, err := i.consultAnalyzer(ctx, raw, cfg, vocab)
	if err != nil {
		i.logger.Warn("query analysis failed, using heuristic parse",
			"query", raw, "error", err)
		return pq
	}
	return i.merge(pq, analysis, cfg, now)
}

// consultAnalyzer calls the collaborator with a bounded timeout and
// shape-validates the payload.
func (i *Interpreter) consultAnalyzer(ctx context.Context, raw string, cfg *Config, vocab vocabulary) (*ai.QueryAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.AnalyzerTimeout)
	defer cancel()

	analysis, err := i.analyzer.AnalyzeQuery(ctx, ai.AnalyzeRequest{
		Query:         raw,
		Languages:     cfg.Languages,
		MaxExpansions: cfg.MaxExpansions,
		PropertyTerms: vocab.terms(),
		Statuses:      cfg.Statuses.Categories(),
	})
	if err != nil {
		return nil, err
	}
	if err := analysis.Validate(); err != nil {
		return nil, err
	}
	return analysis, nil
}

// merge layers a validated analyzer payload over the heuristic parse.
// Analyzer keywords replace the heuristic ones when present; filters are
// unioned with analyzer precedence per filter kind; an analyzer due
// filter displaces any heuristic time context. Unusable fragments of the
// payload degrade to their heuristic counterparts rather than failing.
func (i *Interpreter) merge(pq *core.ParsedQuery, a *ai.QueryAnalysis, cfg *Config, now time.Time) *core.ParsedQuery {
	merged := *pq
	merged.UsedFallback = false
	merged.Confidence = a.Confidence
	if a.Language != "" {
		merged.DetectedLanguage = a.Language
	}

	if len(a.Keywords) > 0 {
		merged.CoreKeywords = nil
		for _, kw := range a.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || stopWords[kw] {
				continue
			}
			merged.CoreKeywords = appendUnique(merged.CoreKeywords, kw)
		}
		if len(merged.CoreKeywords) == 0 {
			merged.CoreKeywords = pq.CoreKeywords
		}
	}

	merged.Filters = i.mergeFilters(pq.Filters, a.Filters, now)

	if a.TimeContext != "" && merged.Filters.DueDate == nil {
		merged.TimeContext = a.TimeContext
	}
	if merged.Filters.DueDate != nil {
		merged.TimeContext = ""
	}

	if a.IsVague != nil {
		merged.IsVague = *a.IsVague
		merged.VagueReason = a.VagueReason
	} else {
		merged.IsVague, merged.VagueReason = assessVagueness(&merged, cfg)
	}

	merged.ExpandedKeywords = expandKeywords(merged.CoreKeywords, lowercaseKeys(a.Expansions), cfg)
	return &merged
}

// mergeFilters unions heuristic and analyzer filters. For each kind the
// analyzer value wins when present and parsable; otherwise the heuristic
// value stands. Tags accumulate from both sides.
func (i *Interpreter) mergeFilters(h core.Filters, a ai.AnalyzedFilters, now time.Time) core.Filters {
	out := h

	if a.Priority != "" {
		if f := priorityFilterFromValue(a.Priority); f != nil {
			out.Priority = f
		}
	}
	if a.Due != "" {
		if f, err := parseDueValue(a.Due, now); err == nil {
			out.DueDate = f
		} else {
			i.logger.Debug("ignoring unparsable analyzer due value",
				"value", a.Due, "error", err)
		}
	}
	if a.Status != "" {
		out.Status = &core.StatusFilter{Categories: []string{strings.ToLower(a.Status)}}
	}
	if a.Folder != "" {
		out.Folder = a.Folder
	}
	for _, tag := range a.Tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, "#")))
		if tag == "" {
			continue
		}
		out.Tags = appendUnique(out.Tags, tag)
	}
	return out
}

func lowercaseKeys(m map[string][]string) map[string][]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}
