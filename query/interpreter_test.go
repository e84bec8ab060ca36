package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/taskquery/ai"
	"github.com/poiesic/taskquery/ai/mock"
	"github.com/poiesic/taskquery/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterpreter(analyzer ai.QueryAnalyzer) *Interpreter {
	return NewInterpreter(analyzer, WithNow(func() time.Time { return testNow }))
}

func interpret(t *testing.T, i *Interpreter, raw string, opts ...ConfigOption) *core.ParsedQuery {
	t.Helper()
	cfg := NewConfig(opts...)
	require.NoError(t, cfg.Validate())
	pq := i.Interpret(context.Background(), raw, cfg)
	require.NotNil(t, pq)
	require.NoError(t, core.ValidateParsedQuery(pq))
	return pq
}

func TestInterpret_HeuristicOnly(t *testing.T) {
	i := newTestInterpreter(nil)
	pq := interpret(t, i, "urgent kubernetes upgrade #infra")
	assert.True(t, pq.UsedFallback)
	require.NotNil(t, pq.Filters.Priority)
	assert.Equal(t, []int{1}, pq.Filters.Priority.Levels)
	assert.Equal(t, []string{"infra"}, pq.Filters.Tags)
	assert.Equal(t, []string{"kubernetes", "upgrade"}, pq.CoreKeywords)
}

func TestInterpret_AnalyzerMerge(t *testing.T) {
	t.Run("analyzer keywords and filters win", func(t *testing.T) {
		analyzer := &mock.MockQueryAnalyzer{
			AnalyzeQueryFunc: func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
				return &ai.QueryAnalysis{
					Keywords: []string{"invoice", "billing"},
					Filters: ai.AnalyzedFilters{
						Priority: "2",
						Due:      "overdue",
						Tags:     []string{"#finance"},
					},
					Confidence: 0.9,
					Language:   "en",
				}, nil
			},
		}
		i := newTestInterpreter(analyzer)
		pq := interpret(t, i, "unpaid bills")

		assert.False(t, pq.UsedFallback)
		assert.Equal(t, []string{"invoice", "billing"}, pq.CoreKeywords)
		require.NotNil(t, pq.Filters.Priority)
		assert.Equal(t, []int{2}, pq.Filters.Priority.Levels)
		require.NotNil(t, pq.Filters.DueDate)
		assert.Equal(t, core.DueOverdue, pq.Filters.DueDate.Mode)
		assert.Equal(t, []string{"finance"}, pq.Filters.Tags)
		assert.InDelta(t, 0.9, pq.Confidence, 0.001)
	})

	t.Run("heuristic filters survive analyzer silence", func(t *testing.T) {
		analyzer := &mock.MockQueryAnalyzer{
			AnalyzeQueryFunc: func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
				return &ai.QueryAnalysis{
					Keywords:   []string{"migration"},
					Confidence: 0.8,
				}, nil
			},
		}
		i := newTestInterpreter(analyzer)
		pq := interpret(t, i, "p1 migration #infra")

		require.NotNil(t, pq.Filters.Priority)
		assert.Equal(t, []int{1}, pq.Filters.Priority.Levels)
		assert.Equal(t, []string{"infra"}, pq.Filters.Tags)
	})

	t.Run("analyzer due filter displaces heuristic time context", func(t *testing.T) {
		analyzer := &mock.MockQueryAnalyzer{
			AnalyzeQueryFunc: func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
				return &ai.QueryAnalysis{
					Keywords:   []string{"tasks"},
					Filters:    ai.AnalyzedFilters{Due: "today"},
					Confidence: 0.9,
				}, nil
			},
		}
		i := newTestInterpreter(analyzer)
		pq := interpret(t, i, "tasks today")

		require.NotNil(t, pq.Filters.DueDate)
		assert.Equal(t, core.DueToday, pq.Filters.DueDate.Mode)
		assert.Empty(t, pq.TimeContext)
	})

	t.Run("unparsable analyzer due degrades to heuristic", func(t *testing.T) {
		analyzer := &mock.MockQueryAnalyzer{
			AnalyzeQueryFunc: func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
				return &ai.QueryAnalysis{
					Keywords:   []string{"invoices"},
					Filters:    ai.AnalyzedFilters{Due: "whenever convenient"},
					Confidence: 0.9,
				}, nil
			},
		}
		i := newTestInterpreter(analyzer)
		pq := interpret(t, i, "overdue invoices")

		require.NotNil(t, pq.Filters.DueDate)
		assert.Equal(t, core.DueOverdue, pq.Filters.DueDate.Mode)
	})

	t.Run("explicit vague flag wins", func(t *testing.T) {
		vague := true
		analyzer := &mock.MockQueryAnalyzer{
			AnalyzeQueryFunc: func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
				return &ai.QueryAnalysis{
					Keywords:    []string{"kubernetes"},
					IsVague:     &vague,
					VagueReason: "ambiguous scope",
					Confidence:  0.9,
				}, nil
			},
		}
		i := newTestInterpreter(analyzer)
		pq := interpret(t, i, "kubernetes")

		assert.True(t, pq.IsVague)
		assert.Equal(t, "ambiguous scope", pq.VagueReason)
	})

	t.Run("analyzer expansions feed the expanded list", func(t *testing.T) {
		analyzer := &mock.MockQueryAnalyzer{
			AnalyzeQueryFunc: func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
				return &ai.QueryAnalysis{
					Keywords:   []string{"doctor"},
					Expansions: map[string][]string{"doctor": {"dentist"}},
					Confidence: 0.9,
				}, nil
			},
		}
		i := newTestInterpreter(analyzer)
		pq := interpret(t, i, "doctor appointment")

		assert.Contains(t, pq.ExpandedKeywords, "doctor")
		assert.Contains(t, pq.ExpandedKeywords, "dentist")
	})
}

func TestInterpret_Fallback(t *testing.T) {
	t.Run("analyzer error", func(t *testing.T) {
		analyzer := &mock.MockQueryAnalyzer{
			AnalyzeQueryFunc: func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
				return nil, errors.New("connection refused")
			},
		}
		i := newTestInterpreter(analyzer)
		pq := interpret(t, i, "urgent kubernetes upgrade")

		assert.True(t, pq.UsedFallback)
		require.NotNil(t, pq.Filters.Priority)
		assert.Equal(t, []string{"kubernetes", "upgrade"}, pq.CoreKeywords)
	})

	t.Run("malformed payload", func(t *testing.T) {
		analyzer := &mock.MockQueryAnalyzer{
			AnalyzeQueryFunc: func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
				return &ai.QueryAnalysis{
					Keywords:   []string{"x"},
					Confidence: 7.5,
				}, nil
			},
		}
		i := newTestInterpreter(analyzer)
		pq := interpret(t, i, "kubernetes upgrade")

		assert.True(t, pq.UsedFallback)
		assert.Equal(t, 1, analyzer.CallCount())
	})

	t.Run("conflicting time resolution payload", func(t *testing.T) {
		analyzer := &mock.MockQueryAnalyzer{
			AnalyzeQueryFunc: func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
				return &ai.QueryAnalysis{
					Keywords:    []string{"invoices"},
					Filters:     ai.AnalyzedFilters{Due: "today"},
					TimeContext: "today",
					Confidence:  0.9,
				}, nil
			},
		}
		i := newTestInterpreter(analyzer)
		pq := interpret(t, i, "invoices today")

		assert.True(t, pq.UsedFallback)
	})

	t.Run("request carries vocabulary context", func(t *testing.T) {
		var captured ai.AnalyzeRequest
		analyzer := &mock.MockQueryAnalyzer{
			AnalyzeQueryFunc: func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
				captured = req
				return nil, errors.New("short-circuit")
			},
		}
		i := newTestInterpreter(analyzer)
		interpret(t, i, "anything", WithLanguages("en", "de"), WithMaxExpansions(3))

		assert.Equal(t, "anything", captured.Query)
		assert.Equal(t, []string{"en", "de"}, captured.Languages)
		assert.Equal(t, 3, captured.MaxExpansions)
		assert.Contains(t, captured.PropertyTerms, "urgent")
		assert.Contains(t, captured.Statuses, "done")
	})

	t.Run("timeout is bounded", func(t *testing.T) {
		analyzer := &mock.MockQueryAnalyzer{
			AnalyzeQueryFunc: func(ctx context.Context, req ai.AnalyzeRequest) (*ai.QueryAnalysis, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		i := newTestInterpreter(analyzer)
		start := time.Now()
		pq := interpret(t, i, "kubernetes", WithAnalyzerTimeout(20*time.Millisecond))

		assert.True(t, pq.UsedFallback)
		assert.Less(t, time.Since(start), 2*time.Second)
	})
}
