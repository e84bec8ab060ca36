package core

import (
	"fmt"
	"strings"
)

// ValidateTask checks that a task is well formed for storage.
func ValidateTask(t *Task) error {
	if t == nil {
		return ErrInvalidTask
	}
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTask, ErrEmptyTaskText)
	}
	if t.Priority < 0 || t.Priority > 4 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidTask, ErrInvalidPriority, t.Priority)
	}
	return nil
}

// ValidateParsedQuery checks the structural invariants of a parsed query:
// core keywords are a subset of expanded keywords, a single time
// expression is resolved to exactly one of the due-date filter or the
// time context, and any due-date range carries a recognized operator.
func ValidateParsedQuery(q *ParsedQuery) error {
	if q == nil {
		return ErrInvalidParsedQuery
	}

	if len(q.ExpandedKeywords) > 0 {
		expanded := make(map[string]bool, len(q.ExpandedKeywords))
		for _, kw := range q.ExpandedKeywords {
			expanded[kw] = true
		}
		for _, kw := range q.CoreKeywords {
			if !expanded[kw] {
				return fmt.Errorf("%w: %q", ErrKeywordsNotSubset, kw)
			}
		}
	}

	if q.TimeContext != "" && q.Filters.DueDate != nil {
		return ErrConflictingTimeResolution
	}

	if f := q.Filters.DueDate; f != nil && f.Mode == DueRange {
		switch f.Op {
		case OpOnOrBefore, OpBefore, OpOnOrAfter, OpAfter, OpBetween:
		default:
			return fmt.Errorf("%w: unknown range operator %d", ErrInvalidDueDateFilter, f.Op)
		}
		if f.Op == OpBetween && f.End.Before(f.Start) {
			return fmt.Errorf("%w: between range ends before it starts", ErrInvalidDueDateFilter)
		}
	}

	return nil
}
