package search

import (
	"testing"
	"time"

	"github.com/poiesic/taskquery/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday midday, UTC.
var filterNow = time.Date(2026, 5, 6, 12, 0, 0, 0, time.UTC)

func due(daysFromNow int) *time.Time {
	d := filterNow.AddDate(0, 0, daysFromNow)
	return &d
}

func testConfig(t *testing.T, opts ...ConfigOption) *Config {
	t.Helper()
	cfg := NewConfig(opts...)
	require.NoError(t, cfg.Validate())
	return cfg
}

func notGeneric(string) bool { return false }

func texts(tasks []*core.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Text
	}
	return out
}

func TestApplyFilters_PropertyAND(t *testing.T) {
	cfg := testConfig(t)
	tasks := []*core.Task{
		{Text: "deploy api", Priority: 1, DueDate: due(0), Status: " "},
		{Text: "deploy web", Priority: 1, Status: " "},
		{Text: "write docs", Priority: 2, DueDate: due(0), Status: " "},
	}
	pq := &core.ParsedQuery{Filters: core.Filters{
		Priority: &core.PriorityFilter{Mode: core.PriorityLevels, Levels: []int{1}},
		DueDate:  &core.DueDateFilter{Mode: core.DueToday},
	}}

	out := applyFilters(tasks, pq, cfg, notGeneric, filterNow)

	// Both filters must hold; keywords absent means no keyword step.
	assert.Equal(t, []string{"deploy api"}, texts(out.tasks))
	assert.ElementsMatch(t, []string{"priority", "dueDate"}, out.applied)
	assert.True(t, out.keywordStepSkipped)
}

func TestApplyFilters_DueDateModes(t *testing.T) {
	overdue := &core.Task{Text: "overdue", DueDate: due(-3)}
	today := &core.Task{Text: "today", DueDate: due(0)}
	tomorrow := &core.Task{Text: "tomorrow", DueDate: due(1)}
	later := &core.Task{Text: "later", DueDate: due(14)}
	undated := &core.Task{Text: "undated"}
	all := []*core.Task{overdue, today, tomorrow, later, undated}
	cfg := testConfig(t)

	run := func(f *core.DueDateFilter) []string {
		pq := &core.ParsedQuery{Filters: core.Filters{DueDate: f}}
		return texts(applyFilters(all, pq, cfg, notGeneric, filterNow).tasks)
	}

	t.Run("keyword modes", func(t *testing.T) {
		assert.Equal(t, []string{"overdue"}, run(&core.DueDateFilter{Mode: core.DueOverdue}))
		assert.Equal(t, []string{"today"}, run(&core.DueDateFilter{Mode: core.DueToday}))
		assert.Equal(t, []string{"tomorrow"}, run(&core.DueDateFilter{Mode: core.DueTomorrow}))
		assert.Equal(t, []string{"undated"}, run(&core.DueDateFilter{Mode: core.DueNone}))
		assert.Equal(t, []string{"overdue", "today", "tomorrow", "later"},
			run(&core.DueDateFilter{Mode: core.DueAny}))
	})

	t.Run("undated never matches a positive range", func(t *testing.T) {
		got := run(&core.DueDateFilter{Mode: core.DueRange, Op: core.OpOnOrBefore,
			End: filterNow.AddDate(0, 1, 0)})
		assert.NotContains(t, got, "undated")
		assert.Contains(t, got, "overdue")
	})

	t.Run("inclusive end of week keeps overdue", func(t *testing.T) {
		endOfWeek := filterNow.AddDate(0, 0, 4) // Sunday
		got := run(&core.DueDateFilter{Mode: core.DueRange, Op: core.OpOnOrBefore, End: endOfWeek})
		assert.Equal(t, []string{"overdue", "today", "tomorrow"}, got)
	})

	t.Run("between", func(t *testing.T) {
		got := run(&core.DueDateFilter{Mode: core.DueRange, Op: core.OpBetween,
			Start: filterNow.AddDate(0, 0, 1), End: filterNow.AddDate(0, 0, 20)})
		assert.Equal(t, []string{"tomorrow", "later"}, got)
	})
}

func TestApplyFilters_StatusMapping(t *testing.T) {
	cfg := testConfig(t)
	tasks := []*core.Task{
		{Text: "open task", Status: " "},
		{Text: "done task", Status: "x"},
		{Text: "also done", Status: "X"},
		{Text: "in progress", Status: "/"},
	}
	pq := &core.ParsedQuery{Filters: core.Filters{
		Status: &core.StatusFilter{Categories: []string{"done"}},
	}}

	out := applyFilters(tasks, pq, cfg, notGeneric, filterNow)
	assert.Equal(t, []string{"done task", "also done"}, texts(out.tasks))
}

func TestApplyFilters_TagsAndFolder(t *testing.T) {
	tasks := []*core.Task{
		{Text: "a", Tags: []string{"work", "urgent"}, Folder: "Projects/Alpha"},
		{Text: "b", Tags: []string{"homework"}, Folder: "School"},
		{Text: "c", Tags: []string{"work"}, Folder: "Projects/Beta"},
	}

	t.Run("substring by default", func(t *testing.T) {
		cfg := testConfig(t)
		pq := &core.ParsedQuery{Filters: core.Filters{Tags: []string{"work"}}}
		out := applyFilters(tasks, pq, cfg, notGeneric, filterNow)
		// "homework" contains "work" under substring matching.
		assert.Equal(t, []string{"a", "b", "c"}, texts(out.tasks))
	})

	t.Run("exact tags", func(t *testing.T) {
		cfg := testConfig(t, WithExactMatching(true, false))
		pq := &core.ParsedQuery{Filters: core.Filters{Tags: []string{"work"}}}
		out := applyFilters(tasks, pq, cfg, notGeneric, filterNow)
		assert.Equal(t, []string{"a", "c"}, texts(out.tasks))
	})

	t.Run("folder substring", func(t *testing.T) {
		cfg := testConfig(t)
		pq := &core.ParsedQuery{Filters: core.Filters{Folder: "projects"}}
		out := applyFilters(tasks, pq, cfg, notGeneric, filterNow)
		assert.Equal(t, []string{"a", "c"}, texts(out.tasks))
	})

	t.Run("multiple tags are AND", func(t *testing.T) {
		cfg := testConfig(t, WithExactMatching(true, false))
		pq := &core.ParsedQuery{Filters: core.Filters{Tags: []string{"work", "urgent"}}}
		out := applyFilters(tasks, pq, cfg, notGeneric, filterNow)
		assert.Equal(t, []string{"a"}, texts(out.tasks))
	})
}

func TestApplyFilters_KeywordStep(t *testing.T) {
	cfg := testConfig(t)
	tasks := []*core.Task{
		{Text: "Fix login bug"},
		{Text: "Fix typo in readme"},
		{Text: "Plan offsite"},
	}

	t.Run("OR across expanded keywords", func(t *testing.T) {
		pq := &core.ParsedQuery{
			CoreKeywords:     []string{"bug"},
			ExpandedKeywords: []string{"bug", "offsite"},
		}
		out := applyFilters(tasks, pq, cfg, notGeneric, filterNow)
		assert.Equal(t, []string{"Fix login bug", "Plan offsite"}, texts(out.tasks))
		assert.False(t, out.keywordStepSkipped)
	})

	t.Run("mixed query stays AND across stages", func(t *testing.T) {
		withPrio := []*core.Task{
			{Text: "Fix login bug", Priority: 2},
			{Text: "Fix payment bug"},
		}
		pq := &core.ParsedQuery{
			CoreKeywords:     []string{"bug"},
			ExpandedKeywords: []string{"bug"},
			Filters: core.Filters{
				Priority: &core.PriorityFilter{Mode: core.PriorityLevels, Levels: []int{2}},
			},
		}
		out := applyFilters(withPrio, pq, cfg, notGeneric, filterNow)
		assert.Equal(t, []string{"Fix login bug"}, texts(out.tasks))
	})

	t.Run("vague all-generic expansion skips the step", func(t *testing.T) {
		pq := &core.ParsedQuery{
			CoreKeywords:     []string{"tasks"},
			ExpandedKeywords: []string{"tasks", "todos"},
			IsVague:          true,
		}
		allGeneric := func(string) bool { return true }
		out := applyFilters(tasks, pq, cfg, allGeneric, filterNow)
		assert.True(t, out.keywordStepSkipped)
		assert.Len(t, out.tasks, 3)
	})

	t.Run("vague query with one meaningful keyword still filters", func(t *testing.T) {
		pq := &core.ParsedQuery{
			CoreKeywords:     []string{"tasks", "login"},
			ExpandedKeywords: []string{"tasks", "login"},
			IsVague:          true,
		}
		generic := func(s string) bool { return s == "tasks" }
		out := applyFilters(tasks, pq, cfg, generic, filterNow)
		assert.False(t, out.keywordStepSkipped)
		assert.Equal(t, []string{"Fix login bug"}, texts(out.tasks))
	})
}

func TestApplyFilters_PreservesInputOrder(t *testing.T) {
	cfg := testConfig(t)
	tasks := []*core.Task{
		{Text: "c bug"}, {Text: "a bug"}, {Text: "b bug"},
	}
	pq := &core.ParsedQuery{
		CoreKeywords:     []string{"bug"},
		ExpandedKeywords: []string{"bug"},
	}
	out := applyFilters(tasks, pq, cfg, notGeneric, filterNow)
	assert.Equal(t, []string{"c bug", "a bug", "b bug"}, texts(out.tasks))
}
