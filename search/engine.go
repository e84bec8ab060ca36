package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/taskquery/ai"
	"github.com/poiesic/taskquery/core"
	"github.com/poiesic/taskquery/query"
	"github.com/poiesic/taskquery/storage"
)

// Diagnostics explains one pipeline pass. The caller never receives a
// bare empty result: counts, the threshold, and the best near-miss
// scores are always populated.
type Diagnostics struct {
	CandidateCount      int
	AfterPropertyFilter int
	AfterKeywordFilter  int
	AfterQualityGate    int
	AppliedFilters      []string
	KeywordStepSkipped  bool
	Threshold           float64
	MaxPossibleScore    float64
	SafetyFloorApplied  bool
	UsedFallbackParser  bool
	NearMisses          []float64
	Reason              string
}

// Result is the outcome of one search.
type Result struct {
	Query *core.ParsedQuery

	// Tasks is the ranked display list.
	Tasks []*core.ScoredTask

	// AnalysisTasks is the list in the analysis ordering; identical to
	// Tasks when no separate analysis sort spec is configured.
	AnalysisTasks []*core.ScoredTask

	// Analysis is the analyst's narrative summary, empty when the
	// analyst is disabled or failed.
	Analysis string

	Diagnostics Diagnostics
}

// Engine orchestrates the query pipeline. Stage order is fixed: property
// filtering, keyword filtering, scoring, quality gating, ranking. Only
// total unavailability of the task repository is fatal; every
// collaborator failure degrades to a still-useful result.
type Engine struct {
	repo        storage.TaskRepository
	interpreter *query.Interpreter
	analyst     ai.ResultAnalyst
	pool        *ants.Pool
	cfg         *Config
	queryCfg    *query.Config
	logger      *slog.Logger
	now         func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithConfig sets the pipeline configuration.
func WithConfig(cfg *Config) EngineOption {
	return func(e *Engine) {
		if cfg != nil {
			e.cfg = cfg
		}
	}
}

// WithQueryConfig sets the interpretation configuration.
func WithQueryConfig(cfg *query.Config) EngineOption {
	return func(e *Engine) {
		if cfg != nil {
			e.queryCfg = cfg
		}
	}
}

// WithClock overrides the engine clock, used by tests for stable
// relative-date behavior.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an Engine over a task repository and an AI provider.
// A nil provider is valid: interpretation is heuristic-only and the
// analyst is unavailable.
func NewEngine(repo storage.TaskRepository, provider ai.Provider, opts ...EngineOption) (*Engine, error) {
	if repo == nil {
		return nil, ErrTaskRepositoryRequired
	}

	e := &Engine{
		repo:   repo,
		cfg:    DefaultConfig(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if e.queryCfg == nil {
		e.queryCfg = query.NewConfig(query.WithStatuses(e.cfg.Statuses))
	}
	if err := e.queryCfg.Validate(); err != nil {
		return nil, err
	}

	var analyzer ai.QueryAnalyzer
	if provider != nil {
		analyzer = provider.QueryAnalyzer()
		e.analyst = provider.ResultAnalyst()
	}
	e.interpreter = query.NewInterpreter(analyzer,
		query.WithLogger(e.logger),
		query.WithNow(e.now),
	)

	pool, err := ants.NewPool(e.cfg.PoolSize)
	if err != nil {
		return nil, err
	}
	e.pool = pool

	return e, nil
}

// Release frees the scoring pool. The engine must not be used after.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Search runs the full pipeline for a raw query.
func (e *Engine) Search(ctx context.Context, rawQuery string) (*Result, error) {
	return e.SearchWithMonitor(ctx, rawQuery, nil)
}

// SearchWithMonitor runs the pipeline with stage observation hooks.
func (e *Engine) SearchWithMonitor(ctx context.Context, rawQuery string, monitor SearchMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(rawQuery)
	now := e.now()

	pq := e.interpreter.Interpret(ctx, rawQuery, e.queryCfg)
	monitor.AfterInterpret(pq)

	// Snapshot from the task source. The prefilter is a cheap narrowing
	// hint, never trusted as exact; the stages below are authoritative.
	// Only this fetch is fatal.
	candidates, err := e.repo.FindCandidates(ctx, e.prefilter(pq, now))
	if err != nil {
		e.logger.Error("task source unavailable", "query", rawQuery, "error", err)
		return nil, err
	}

	result := &Result{
		Query: pq,
		Diagnostics: Diagnostics{
			CandidateCount:     len(candidates),
			UsedFallbackParser: pq.UsedFallback,
		},
	}

	filtered := applyFilters(candidates, pq, e.cfg, e.queryCfg.IsGeneric, now)
	result.Diagnostics.AfterPropertyFilter = filtered.afterProperty
	result.Diagnostics.AfterKeywordFilter = len(filtered.tasks)
	result.Diagnostics.AppliedFilters = filtered.applied
	result.Diagnostics.KeywordStepSkipped = filtered.keywordStepSkipped
	monitor.AfterPropertyFilter(filtered.tasks, filtered.applied)
	monitor.AfterKeywordFilter(filtered.tasks, filtered.keywordStepSkipped)

	displaySpec := e.cfg.SortSpec.Resolve(pq.HasKeywords())
	analysisSpec := displaySpec
	if len(e.cfg.AnalysisSortSpec) > 0 {
		analysisSpec = e.cfg.AnalysisSortSpec.Resolve(pq.HasKeywords())
	}

	act := resolveActivation(pq, displaySpec, analysisSpec)
	scored := scoreTasks(filtered.tasks, pq, e.cfg, act, e.pool, now)
	monitor.AfterScoring(scored)

	gated := applyQualityGate(scored, pq, e.cfg, act)
	result.Diagnostics.AfterQualityGate = len(gated.tasks)
	result.Diagnostics.Threshold = gated.threshold
	result.Diagnostics.MaxPossibleScore = gated.maxPossible
	result.Diagnostics.SafetyFloorApplied = gated.floorApplied
	result.Diagnostics.NearMisses = gated.nearMisses
	monitor.AfterQualityGate(gated.tasks, gated.threshold, gated.floorApplied)

	result.Tasks = Rank(gated.tasks, displaySpec, pq.HasKeywords())
	if e.cfg.MaxResults > 0 && len(result.Tasks) > e.cfg.MaxResults {
		result.Tasks = result.Tasks[:e.cfg.MaxResults]
	}
	result.AnalysisTasks = result.Tasks
	if len(e.cfg.AnalysisSortSpec) > 0 {
		result.AnalysisTasks = Rank(gated.tasks, analysisSpec, pq.HasKeywords())
		if e.cfg.MaxResults > 0 && len(result.AnalysisTasks) > e.cfg.MaxResults {
			result.AnalysisTasks = result.AnalysisTasks[:e.cfg.MaxResults]
		}
	}

	result.Diagnostics.Reason = explain(result)

	if e.cfg.AnalystEnabled && e.analyst != nil && len(result.AnalysisTasks) > 0 {
		result.Analysis = e.analyze(ctx, rawQuery, result.AnalysisTasks)
	}

	monitor.Finish(result)
	return result, nil
}

// prefilter derives the coarse storage pre-query. Tag narrowing is only
// safe when tag filtering is exact; substring mode must see everything.
// An upper-bounded due filter narrows to dated tasks; the filter stage
// above remains authoritative.
func (e *Engine) prefilter(pq *core.ParsedQuery, now time.Time) storage.Prefilter {
	var pre storage.Prefilter
	if e.cfg.TagMatchExact && len(pq.Filters.Tags) > 0 {
		pre.Tags = pq.Filters.Tags
	}
	pre.DueBefore = dueUpperBound(pq.Filters.DueDate, now)
	return pre
}

// dueUpperBound returns the exclusive instant every matching task is due
// before, or nil when the filter admits undated or unbounded tasks.
// Bounds sit on the midnight after the last matching day, so any instant
// within that day stays included for the day-granularity filter.
func dueUpperBound(f *core.DueDateFilter, now time.Time) *time.Time {
	if f == nil {
		return nil
	}
	var bound time.Time
	switch f.Mode {
	case core.DueOverdue:
		bound = dayOf(now)
	case core.DueToday:
		bound = dayOf(now).AddDate(0, 0, 1)
	case core.DueTomorrow:
		bound = dayOf(now).AddDate(0, 0, 2)
	case core.DueOn:
		bound = dayOf(f.Date).AddDate(0, 0, 1)
	case core.DueRange:
		switch f.Op {
		case core.OpBefore:
			bound = dayOf(f.End)
		case core.OpOnOrBefore, core.OpBetween:
			bound = dayOf(f.End).AddDate(0, 0, 1)
		default:
			return nil
		}
	default:
		return nil
	}
	return &bound
}

// analyze calls the result analyst with a bounded timeout. Failure keeps
// the ranked list intact.
func (e *Engine) analyze(ctx context.Context, rawQuery string, tasks []*core.ScoredTask) string {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.AnalystTimeout)
	defer cancel()

	texts := make([]string, len(tasks))
	for i, st := range tasks {
		texts[i] = st.Task.Text
	}

	analysis, err := e.analyst.AnalyzeResults(ctx, rawQuery, texts)
	if err != nil {
		e.logger.Warn("result analysis failed, returning ranked list without narrative",
			"query", rawQuery, "error", err)
		return ""
	}
	return analysis
}

// explain produces the human-readable reason carried in diagnostics.
func explain(result *Result) string {
	d := result.Diagnostics
	switch {
	case d.CandidateCount == 0:
		return "no tasks in the index matched the candidate pre-query"
	case len(result.Tasks) == 0 && d.AfterPropertyFilter == 0:
		return "property filters excluded every candidate"
	case len(result.Tasks) == 0 && d.AfterKeywordFilter == 0:
		return "no candidate text contained any query keyword"
	case d.SafetyFloorApplied:
		return "quality threshold excluded most candidates; returning best available"
	default:
		return ""
	}
}
