package search

import (
	"sort"
	"strings"
	"time"

	"github.com/poiesic/taskquery/core"
)

// Rank orders a scored set by a resolved sort spec. The input is copied,
// so two different specs can rank the same scored set without
// recomputing anything, and ranking is idempotent.
//
// Directions are fixed per criterion: relevance descending by composite
// score, priority ascending by level (most urgent first), due date
// ascending (overdue first, no due date always last), created
// descending, alphabetical ascending. Ties fall through to the next
// criterion; still-tied pairs keep their original relative order.
func Rank(scored []*core.ScoredTask, spec core.SortSpec, hasKeywords bool) []*core.ScoredTask {
	resolved := spec.Resolve(hasKeywords)

	ranked := make([]*core.ScoredTask, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		for _, criterion := range resolved {
			if cmp := compareBy(criterion, ranked[i], ranked[j]); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return ranked
}

// compareBy orders a before b (negative), after (positive), or tied (0)
// under one criterion's fixed direction.
func compareBy(criterion core.SortCriterion, a, b *core.ScoredTask) int {
	switch criterion {
	case core.CriterionRelevance:
		return compareFloatDesc(a.CompositeScore, b.CompositeScore)
	case core.CriterionPriority:
		return comparePriority(a.Task, b.Task)
	case core.CriterionDueDate:
		return compareDueDate(a.Task, b.Task)
	case core.CriterionCreated:
		return compareTimeDesc(a.Task.Created, b.Task.Created)
	case core.CriterionAlphabetical:
		return strings.Compare(strings.ToLower(a.Task.Text), strings.ToLower(b.Task.Text))
	default:
		return 0
	}
}

func compareFloatDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// comparePriority sorts ascending by level; tasks without a recognized
// priority sort last.
func comparePriority(a, b *core.Task) int {
	ap, bp := a.HasPriority(), b.HasPriority()
	switch {
	case ap && !bp:
		return -1
	case !ap && bp:
		return 1
	case !ap && !bp:
		return 0
	}
	return a.Priority - b.Priority
}

// compareDueDate sorts ascending by due date; tasks without a due date
// sort last irrespective of other criteria.
func compareDueDate(a, b *core.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	case a.DueDate.Before(*b.DueDate):
		return -1
	case b.DueDate.Before(*a.DueDate):
		return 1
	default:
		return 0
	}
}

func compareTimeDesc(a, b time.Time) int {
	switch {
	case a.After(b):
		return -1
	case b.After(a):
		return 1
	default:
		return 0
	}
}
