package search

import (
	"slices"
	"strings"
	"time"

	"github.com/poiesic/taskquery/core"
)

// filterOutcome is the result of the two filtering stages, with the
// diagnostic annotations the engine surfaces.
type filterOutcome struct {
	tasks              []*core.Task
	afterProperty      int
	applied            []string // names of the property filters that ran
	keywordStepSkipped bool
}

// applyFilters narrows the candidate snapshot: a strict AND over the
// present structured filters, then the keyword OR step. Mixed queries
// never degrade to OR across the two stages. Input order is preserved.
//
// The keyword step is skipped entirely when the query is vague and every
// expanded keyword is generic; an all-generic expansion set must not
// exclude everything the property filters accepted.
func applyFilters(tasks []*core.Task, pq *core.ParsedQuery, cfg *Config, isGeneric func(string) bool, now time.Time) filterOutcome {
	out := filterOutcome{applied: appliedFilterNames(&pq.Filters)}

	survivors := make([]*core.Task, 0, len(tasks))
	for _, task := range tasks {
		if matchesAllFilters(task, &pq.Filters, cfg, now) {
			survivors = append(survivors, task)
		}
	}
	out.afterProperty = len(survivors)

	out.keywordStepSkipped = skipKeywordStep(pq, isGeneric)
	if out.keywordStepSkipped {
		out.tasks = survivors
		return out
	}

	kept := make([]*core.Task, 0, len(survivors))
	for _, task := range survivors {
		if matchesAnyKeyword(task.Text, pq.ExpandedKeywords) {
			kept = append(kept, task)
		}
	}
	out.tasks = kept
	return out
}

// skipKeywordStep reports whether the keyword OR step must not run:
// no keywords at all, or a vague query whose expansion is all generic.
func skipKeywordStep(pq *core.ParsedQuery, isGeneric func(string) bool) bool {
	if len(pq.ExpandedKeywords) == 0 {
		return true
	}
	if !pq.IsVague {
		return false
	}
	for _, kw := range pq.ExpandedKeywords {
		if !isGeneric(kw) {
			return false
		}
	}
	return true
}

func matchesAnyKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func matchesAllFilters(task *core.Task, f *core.Filters, cfg *Config, now time.Time) bool {
	if f.Priority != nil && !matchesPriority(task, f.Priority) {
		return false
	}
	if f.DueDate != nil && !matchesDueDate(task, f.DueDate, now) {
		return false
	}
	if f.Status != nil && !matchesStatus(task, f.Status, cfg.Statuses) {
		return false
	}
	if f.Folder != "" && !matchesText(task.Folder, f.Folder, cfg.FolderMatchExact) {
		return false
	}
	for _, tag := range f.Tags {
		if !matchesAnyTag(task.Tags, tag, cfg.TagMatchExact) {
			return false
		}
	}
	return true
}

func matchesPriority(task *core.Task, f *core.PriorityFilter) bool {
	switch f.Mode {
	case core.PriorityAny:
		return task.HasPriority()
	case core.PriorityNone:
		return !task.HasPriority()
	case core.PriorityLevels:
		return task.HasPriority() && slices.Contains(f.Levels, task.Priority)
	default:
		return false
	}
}

// matchesDueDate compares at day granularity in now's location. A task
// without a due date matches only DueNone, never a positive predicate.
func matchesDueDate(task *core.Task, f *core.DueDateFilter, now time.Time) bool {
	if task.DueDate == nil {
		return f.Mode == core.DueNone
	}
	due := dayOf(task.DueDate.In(now.Location()))
	today := dayOf(now)

	switch f.Mode {
	case core.DueNone:
		return false
	case core.DueAny:
		return true
	case core.DueToday:
		return due.Equal(today)
	case core.DueTomorrow:
		return due.Equal(today.AddDate(0, 0, 1))
	case core.DueOverdue:
		return due.Before(today)
	case core.DueOn:
		return due.Equal(dayOf(f.Date))
	case core.DueRange:
		return matchesDueRange(due, f)
	default:
		return false
	}
}

func matchesDueRange(due time.Time, f *core.DueDateFilter) bool {
	start := dayOf(f.Start)
	end := dayOf(f.End)
	switch f.Op {
	case core.OpOnOrBefore:
		return !due.After(end)
	case core.OpBefore:
		return due.Before(end)
	case core.OpOnOrAfter:
		return !due.Before(start)
	case core.OpAfter:
		return due.After(start)
	case core.OpBetween:
		return !due.Before(start) && !due.After(end)
	default:
		return false
	}
}

func matchesStatus(task *core.Task, f *core.StatusFilter, statuses core.StatusMap) bool {
	category := statuses.Category(task.Status)
	for _, want := range f.Categories {
		if strings.EqualFold(category, want) {
			return true
		}
	}
	return false
}

func matchesText(value, want string, exact bool) bool {
	if exact {
		return strings.EqualFold(value, want)
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(want))
}

func matchesAnyTag(tags []string, want string, exact bool) bool {
	for _, tag := range tags {
		if matchesText(tag, want, exact) {
			return true
		}
	}
	return false
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func appliedFilterNames(f *core.Filters) []string {
	var names []string
	if f.Priority != nil {
		names = append(names, "priority")
	}
	if f.DueDate != nil {
		names = append(names, "dueDate")
	}
	if f.Status != nil {
		names = append(names, "status")
	}
	if f.Folder != "" {
		names = append(names, "folder")
	}
	if len(f.Tags) > 0 {
		names = append(names, "tags")
	}
	return names
}
