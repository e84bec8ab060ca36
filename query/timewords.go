package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/poiesic/taskquery/core"
)

// timeResolution is one time expression found in the query text.
// A nil filter with a non-empty expression means the expression was a
// bare time word whose role (hard filter vs. prioritization hint) is
// decided later, once the remaining keyword content is known.
type timeResolution struct {
	expression string
	filter     *core.DueDateFilter
	explicit   bool // phrased as an explicit filter ("due today", "overdue")
}

// startOfDay truncates t to midnight in its location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfWeek returns the last day (Sunday, ISO weeks) of t's week at
// midnight. Relative "this week" ranges resolve to an inclusive bound on
// this day so overdue items are never excluded.
func endOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	// time.Weekday: Sunday == 0.
	daysUntilSunday := (7 - int(t.Weekday())) % 7
	return day.AddDate(0, 0, daysUntilSunday)
}

// nextWeekRange returns the Monday and Sunday of the following ISO week.
func nextWeekRange(t time.Time) (time.Time, time.Time) {
	start := endOfWeek(t).AddDate(0, 0, 1)
	return start, start.AddDate(0, 0, 6)
}

// extractTimeExpression finds the first known time expression in text and
// returns the text with the expression removed plus its resolution.
// Longer phrases are tried first so "due today" wins over "today".
func extractTimeExpression(text string, now time.Time) (string, *timeResolution) {
	type pattern struct {
		phrase   string
		explicit bool
		build    func() *core.DueDateFilter
	}

	patterns := []pattern{
		{"due before next week", true, func() *core.DueDateFilter {
			start, _ := nextWeekRange(now)
			return &core.DueDateFilter{Mode: core.DueRange, Op: core.OpBefore, End: start}
		}},
		{"due this week", true, func() *core.DueDateFilter {
			return &core.DueDateFilter{Mode: core.DueRange, Op: core.OpOnOrBefore, End: endOfWeek(now)}
		}},
		{"due next week", true, func() *core.DueDateFilter {
			start, end := nextWeekRange(now)
			return &core.DueDateFilter{Mode: core.DueRange, Op: core.OpBetween, Start: start, End: end}
		}},
		{"due today", true, func() *core.DueDateFilter {
			return &core.DueDateFilter{Mode: core.DueToday}
		}},
		{"due tomorrow", true, func() *core.DueDateFilter {
			return &core.DueDateFilter{Mode: core.DueTomorrow}
		}},
		{"overdue", true, func() *core.DueDateFilter {
			return &core.DueDateFilter{Mode: core.DueOverdue}
		}},
		{"this week", false, func() *core.DueDateFilter {
			return &core.DueDateFilter{Mode: core.DueRange, Op: core.OpOnOrBefore, End: endOfWeek(now)}
		}},
		{"next week", false, func() *core.DueDateFilter {
			start, end := nextWeekRange(now)
			return &core.DueDateFilter{Mode: core.DueRange, Op: core.OpBetween, Start: start, End: end}
		}},
		{"today", false, func() *core.DueDateFilter {
			return &core.DueDateFilter{Mode: core.DueToday}
		}},
		{"tomorrow", false, func() *core.DueDateFilter {
			return &core.DueDateFilter{Mode: core.DueTomorrow}
		}},
	}

	// Match and slice the same string: case mapping can change byte
	// length, so indexes into the lowered copy are not valid in text.
	// Downstream tokenization lowercases anyway.
	lower := strings.ToLower(text)
	for _, p := range patterns {
		idx := phraseIndex(lower, p.phrase)
		if idx < 0 {
			continue
		}
		rest := lower[:idx] + lower[idx+len(p.phrase):]
		return rest, &timeResolution{
			expression: p.phrase,
			filter:     p.build(),
			explicit:   p.explicit,
		}
	}
	return text, nil
}

// phraseIndex finds phrase in text at word boundaries, or -1.
func phraseIndex(text, phrase string) int {
	from := 0
	for {
		idx := strings.Index(text[from:], phrase)
		if idx < 0 {
			return -1
		}
		idx += from
		beforeOK := idx == 0 || !isWordChar(text[idx-1])
		end := idx + len(phrase)
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return idx
		}
		from = idx + 1
	}
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// parseDueValue resolves a due expression (from explicit "due:" syntax or
// an analyzer payload) into a filter. Accepted forms: the keywords today,
// tomorrow, overdue, none, any; an operator prefix (<=, <, >=, >, or the
// words before, by, until, after) followed by a date; or a bare date,
// parsed permissively.
func parseDueValue(value string, now time.Time) (*core.DueDateFilter, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return nil, fmt.Errorf("%w: empty", ErrUnparsableDueValue)
	}

	switch value {
	case "today":
		return &core.DueDateFilter{Mode: core.DueToday}, nil
	case "tomorrow":
		return &core.DueDateFilter{Mode: core.DueTomorrow}, nil
	case "overdue":
		return &core.DueDateFilter{Mode: core.DueOverdue}, nil
	case "none", "no-date", "nodate":
		return &core.DueDateFilter{Mode: core.DueNone}, nil
	case "any":
		return &core.DueDateFilter{Mode: core.DueAny}, nil
	case "this-week", "week":
		return &core.DueDateFilter{Mode: core.DueRange, Op: core.OpOnOrBefore, End: endOfWeek(now)}, nil
	}

	ops := []struct {
		prefix string
		op     core.RangeOp
	}{
		{"<=", core.OpOnOrBefore},
		{">=", core.OpOnOrAfter},
		{"<", core.OpBefore},
		{">", core.OpAfter},
		{"before ", core.OpBefore},
		{"by ", core.OpOnOrBefore},
		{"until ", core.OpOnOrBefore},
		{"after ", core.OpAfter},
	}
	for _, o := range ops {
		if !strings.HasPrefix(value, o.prefix) {
			continue
		}
		date, err := parseDate(strings.TrimSpace(value[len(o.prefix):]), now)
		if err != nil {
			return nil, err
		}
		f := &core.DueDateFilter{Mode: core.DueRange, Op: o.op}
		switch o.op {
		case core.OpOnOrAfter, core.OpAfter:
			f.Start = date
		default:
			f.End = date
		}
		return f, nil
	}

	date, err := parseDate(value, now)
	if err != nil {
		return nil, err
	}
	return &core.DueDateFilter{Mode: core.DueOn, Date: date}, nil
}

// parseDate resolves a date string, including the relative shortcuts the
// due keywords already cover, to midnight in now's location.
func parseDate(value string, now time.Time) (time.Time, error) {
	switch value {
	case "today":
		return startOfDay(now), nil
	case "tomorrow":
		return startOfDay(now).AddDate(0, 0, 1), nil
	case "next week":
		start, _ := nextWeekRange(now)
		return start, nil
	}
	t, err := dateparse.ParseIn(value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableDueValue, value)
	}
	return startOfDay(t), nil
}
