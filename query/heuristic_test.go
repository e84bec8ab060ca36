package query

import (
	"testing"
	"time"

	"github.com/poiesic/taskquery/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tuesday, so "this week" still has days left in it.
var testNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func parseHeuristic(t *testing.T, raw string, opts ...ConfigOption) *core.ParsedQuery {
	t.Helper()
	cfg := NewConfig(opts...)
	require.NoError(t, cfg.Validate())
	pq := heuristicParse(raw, cfg, buildVocabulary(cfg), testNow)
	require.NoError(t, core.ValidateParsedQuery(pq))
	return pq
}

func TestHeuristicParse_ExplicitSyntax(t *testing.T) {
	t.Run("tags", func(t *testing.T) {
		pq := parseHeuristic(t, "errands #home #shopping")
		assert.Equal(t, []string{"home", "shopping"}, pq.Filters.Tags)
		assert.Equal(t, []string{"errands"}, pq.CoreKeywords)
	})

	t.Run("priority shorthand", func(t *testing.T) {
		pq := parseHeuristic(t, "p1 server migration")
		require.NotNil(t, pq.Filters.Priority)
		assert.Equal(t, core.PriorityLevels, pq.Filters.Priority.Mode)
		assert.Equal(t, []int{1}, pq.Filters.Priority.Levels)
		assert.Equal(t, []string{"server", "migration"}, pq.CoreKeywords)
	})

	t.Run("priority keyword forms", func(t *testing.T) {
		pq := parseHeuristic(t, "priority:any report")
		require.NotNil(t, pq.Filters.Priority)
		assert.Equal(t, core.PriorityAny, pq.Filters.Priority.Mode)

		pq = parseHeuristic(t, "priority:none report")
		require.NotNil(t, pq.Filters.Priority)
		assert.Equal(t, core.PriorityNone, pq.Filters.Priority.Mode)
	})

	t.Run("folder", func(t *testing.T) {
		pq := parseHeuristic(t, `in:"Projects/Work" budget`)
		assert.Equal(t, "Projects/Work", pq.Filters.Folder)

		pq = parseHeuristic(t, "folder:inbox triage")
		assert.Equal(t, "inbox", pq.Filters.Folder)
	})

	t.Run("status", func(t *testing.T) {
		pq := parseHeuristic(t, "status:done quarterly taxes")
		require.NotNil(t, pq.Filters.Status)
		assert.Equal(t, []string{"done"}, pq.Filters.Status.Categories)
	})

	t.Run("due with operator", func(t *testing.T) {
		pq := parseHeuristic(t, "due:<=2026-03-20 invoices")
		require.NotNil(t, pq.Filters.DueDate)
		assert.Equal(t, core.DueRange, pq.Filters.DueDate.Mode)
		assert.Equal(t, core.OpOnOrBefore, pq.Filters.DueDate.Op)
		assert.Equal(t, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), pq.Filters.DueDate.End)
	})

	t.Run("unparsable due value becomes keyword-free no-op", func(t *testing.T) {
		pq := parseHeuristic(t, "due:whenever invoices")
		assert.Nil(t, pq.Filters.DueDate)
		assert.Equal(t, []string{"invoices"}, pq.CoreKeywords)
	})
}

func TestHeuristicParse_PropertyPhrases(t *testing.T) {
	t.Run("single word", func(t *testing.T) {
		pq := parseHeuristic(t, "urgent server tasks")
		require.NotNil(t, pq.Filters.Priority)
		assert.Equal(t, []int{1}, pq.Filters.Priority.Levels)
		assert.Contains(t, pq.CoreKeywords, "server")
		assert.NotContains(t, pq.CoreKeywords, "urgent")
	})

	t.Run("multi word beats single word", func(t *testing.T) {
		pq := parseHeuristic(t, "low priority cleanup")
		require.NotNil(t, pq.Filters.Priority)
		assert.Equal(t, []int{4}, pq.Filters.Priority.Levels)
		assert.Equal(t, []string{"cleanup"}, pq.CoreKeywords)
	})

	t.Run("status phrase", func(t *testing.T) {
		pq := parseHeuristic(t, "finished migration work")
		require.NotNil(t, pq.Filters.Status)
		assert.Equal(t, []string{"done"}, pq.Filters.Status.Categories)
	})

	t.Run("first match wins per kind", func(t *testing.T) {
		pq := parseHeuristic(t, "urgent critical deploy")
		require.NotNil(t, pq.Filters.Priority)
		assert.Equal(t, []int{1}, pq.Filters.Priority.Levels)
	})

	t.Run("user term overrides builtin", func(t *testing.T) {
		pq := parseHeuristic(t, "urgent deploy",
			WithUserPropertyTerms(map[string]string{"urgent": "priority:2"}))
		require.NotNil(t, pq.Filters.Priority)
		assert.Equal(t, []int{2}, pq.Filters.Priority.Levels)
	})
}

func TestHeuristicParse_TimeWords(t *testing.T) {
	t.Run("explicit phrasing is a filter", func(t *testing.T) {
		pq := parseHeuristic(t, "what is due today")
		require.NotNil(t, pq.Filters.DueDate)
		assert.Equal(t, core.DueToday, pq.Filters.DueDate.Mode)
		assert.Empty(t, pq.TimeContext)
	})

	t.Run("overdue is always a filter", func(t *testing.T) {
		pq := parseHeuristic(t, "overdue invoices")
		require.NotNil(t, pq.Filters.DueDate)
		assert.Equal(t, core.DueOverdue, pq.Filters.DueDate.Mode)
	})

	t.Run("bare time word with topical keywords is a filter", func(t *testing.T) {
		pq := parseHeuristic(t, "invoices today")
		require.NotNil(t, pq.Filters.DueDate)
		assert.Equal(t, core.DueToday, pq.Filters.DueDate.Mode)
		assert.Empty(t, pq.TimeContext)
	})

	t.Run("bare time word without topical keywords is context", func(t *testing.T) {
		pq := parseHeuristic(t, "tasks today")
		assert.Nil(t, pq.Filters.DueDate)
		assert.Equal(t, "today", pq.TimeContext)
	})

	t.Run("multibyte keywords around a time word", func(t *testing.T) {
		// Case mapping lengthens these letters, so the time expression
		// must be located and removed in one consistent string.
		pq := parseHeuristic(t, "ȺȺȺȺ today")
		require.NotNil(t, pq.Filters.DueDate)
		assert.Equal(t, core.DueToday, pq.Filters.DueDate.Mode)
		assert.Equal(t, []string{"ⱥⱥⱥⱥ"}, pq.CoreKeywords)
	})

	t.Run("this week keeps overdue reachable", func(t *testing.T) {
		pq := parseHeuristic(t, "invoices this week")
		require.NotNil(t, pq.Filters.DueDate)
		assert.Equal(t, core.DueRange, pq.Filters.DueDate.Mode)
		assert.Equal(t, core.OpOnOrBefore, pq.Filters.DueDate.Op)
		// Sunday of the week containing testNow (Tuesday 2026-03-10).
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), pq.Filters.DueDate.End)
	})

	t.Run("next week is a between range", func(t *testing.T) {
		pq := parseHeuristic(t, "reviews due next week")
		require.NotNil(t, pq.Filters.DueDate)
		assert.Equal(t, core.OpBetween, pq.Filters.DueDate.Op)
		assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), pq.Filters.DueDate.Start)
		assert.Equal(t, time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC), pq.Filters.DueDate.End)
	})
}

func TestHeuristicParse_Vagueness(t *testing.T) {
	t.Run("generic-only query is vague", func(t *testing.T) {
		pq := parseHeuristic(t, "my stuff")
		assert.True(t, pq.IsVague)
		assert.NotEmpty(t, pq.VagueReason)
	})

	t.Run("topical query is not vague", func(t *testing.T) {
		pq := parseHeuristic(t, "kubernetes upgrade")
		assert.False(t, pq.IsVague)
	})

	t.Run("pure filter query is not vague", func(t *testing.T) {
		pq := parseHeuristic(t, "p1 overdue")
		assert.False(t, pq.IsVague)
		assert.Empty(t, pq.CoreKeywords)
	})

	t.Run("empty query is vague", func(t *testing.T) {
		pq := parseHeuristic(t, "")
		assert.True(t, pq.IsVague)
	})

	t.Run("configured generic words count", func(t *testing.T) {
		pq := parseHeuristic(t, "chores", WithGenericWords("chores"))
		assert.True(t, pq.IsVague)
	})

	t.Run("threshold is a ratio", func(t *testing.T) {
		// 1 of 2 generic at threshold 0.7 stays precise.
		pq := parseHeuristic(t, "kubernetes tasks")
		assert.False(t, pq.IsVague)
	})
}

func TestHeuristicParse_Keywords(t *testing.T) {
	t.Run("stop words dropped", func(t *testing.T) {
		pq := parseHeuristic(t, "show me the tasks about kubernetes")
		assert.Equal(t, []string{"tasks", "kubernetes"}, pq.CoreKeywords)
	})

	t.Run("duplicates collapsed in order", func(t *testing.T) {
		pq := parseHeuristic(t, "deploy deploy server deploy")
		assert.Equal(t, []string{"deploy", "server"}, pq.CoreKeywords)
	})

	t.Run("fallback marker set", func(t *testing.T) {
		pq := parseHeuristic(t, "anything")
		assert.True(t, pq.UsedFallback)
		assert.InDelta(t, 0.5, pq.Confidence, 0.01)
	})
}
