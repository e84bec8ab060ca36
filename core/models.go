package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Task represents a single task item extracted from a note.
// Tasks are read-only for the duration of one query pipeline pass.
type Task struct {
	Id         ID
	Text       string
	Status     string     // Raw status marker, e.g. " ", "x", "/"
	Priority   int        // 1 (most urgent) to 4, 0 = no priority
	DueDate    *time.Time // nil when the task has no due date
	Created    time.Time  // When the task was written in its note
	Tags       []string
	Folder     string // Path of the note the task lives in
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// HasPriority reports whether the task carries a recognized priority level.
func (t *Task) HasPriority() bool {
	return t.Priority >= 1 && t.Priority <= 4
}

// StatusMap maps configured status categories to their raw markers.
// Example: {"open": [" "], "done": ["x", "X"], "in-progress": ["/"]}.
type StatusMap map[string][]string

// Category returns the configured category for a raw status marker,
// or the empty string if the marker is not mapped.
func (m StatusMap) Category(marker string) string {
	for category, markers := range m {
		for _, mk := range markers {
			if mk == marker {
				return category
			}
		}
	}
	return ""
}

// Categories returns the configured category names.
func (m StatusMap) Categories() []string {
	out := make([]string, 0, len(m))
	for category := range m {
		out = append(out, category)
	}
	return out
}

// DefaultStatuses returns the default status category mapping.
func DefaultStatuses() StatusMap {
	return StatusMap{
		"open":        {" ", ""},
		"done":        {"x", "X"},
		"in-progress": {"/"},
		"cancelled":   {"-"},
	}
}

// PriorityMode selects how a PriorityFilter matches.
type PriorityMode int

const (
	// PriorityLevels matches tasks whose priority is in the Levels set.
	PriorityLevels PriorityMode = iota + 1
	// PriorityAny matches tasks that have any recognized priority.
	PriorityAny
	// PriorityNone matches tasks without a recognized priority.
	PriorityNone
)

// PriorityFilter narrows tasks by priority level.
type PriorityFilter struct {
	Mode   PriorityMode
	Levels []int // Used when Mode == PriorityLevels
}

// DueMode selects how a DueDateFilter matches.
type DueMode int

const (
	// DueToday matches tasks due on the current day.
	DueToday DueMode = iota + 1
	// DueTomorrow matches tasks due on the next day.
	DueTomorrow
	// DueOverdue matches tasks due strictly before the current day.
	DueOverdue
	// DueNone matches tasks without a due date.
	DueNone
	// DueAny matches tasks that have a due date.
	DueAny
	// DueOn matches tasks due on a specific date.
	DueOn
	// DueRange matches tasks whose due date satisfies Op against Start/End.
	DueRange
)

// RangeOp is the comparison operator of a DueRange filter.
type RangeOp int

const (
	// OpOnOrBefore matches due <= End (inclusive).
	OpOnOrBefore RangeOp = iota + 1
	// OpBefore matches due < End.
	OpBefore
	// OpOnOrAfter matches due >= Start (inclusive).
	OpOnOrAfter
	// OpAfter matches due > Start.
	OpAfter
	// OpBetween matches Start <= due <= End.
	OpBetween
)

// DueDateFilter narrows tasks by due date.
// A task lacking a due date matches only DueNone, never a positive
// keyword, date, or range.
type DueDateFilter struct {
	Mode  DueMode
	Date  time.Time // Used when Mode == DueOn
	Op    RangeOp   // Used when Mode == DueRange
	Start time.Time
	End   time.Time
}

// StatusFilter narrows tasks by status category.
// Raw markers are mapped through the configured StatusMap before comparison.
type StatusFilter struct {
	Categories []string
}

// Filters is the structured filter set of a parsed query.
// Each present filter is an independent predicate; a task must satisfy
// all of them.
type Filters struct {
	Priority *PriorityFilter
	DueDate  *DueDateFilter
	Status   *StatusFilter
	Folder   string
	Tags     []string
}

// Empty reports whether no structured filter is present.
func (f *Filters) Empty() bool {
	return f.Priority == nil && f.DueDate == nil && f.Status == nil &&
		f.Folder == "" && len(f.Tags) == 0
}

// ParsedQuery is the structured interpretation of a raw query.
// It is created once per query and immutable thereafter.
type ParsedQuery struct {
	RawQuery         string
	CoreKeywords     []string // Ordered, deduplicated
	ExpandedKeywords []string // Superset of CoreKeywords when expansion is enabled
	Filters          Filters
	IsVague          bool
	VagueReason      string
	TimeContext      string // Prioritization hint; mutually exclusive with a due-date filter for the same expression
	Confidence       float64
	DetectedLanguage string
	UsedFallback     bool // True when the heuristic parser produced this query
}

// HasKeywords reports whether the query carries any core keywords.
func (q *ParsedQuery) HasKeywords() bool {
	return len(q.CoreKeywords) > 0
}

// Normalize restores the structural invariants: every core keyword
// appears in the expanded list, and a due-date filter displaces the
// time context.
func (q *ParsedQuery) Normalize() {
	expanded := make(map[string]bool, len(q.ExpandedKeywords))
	for _, kw := range q.ExpandedKeywords {
		expanded[kw] = true
	}
	for _, kw := range q.CoreKeywords {
		if !expanded[kw] {
			q.ExpandedKeywords = append(q.ExpandedKeywords, kw)
		}
	}
	if q.Filters.DueDate != nil {
		q.TimeContext = ""
	}
}

// ScoredTask is a task annotated with the per-component and composite
// scores of one ranking pass. Scores are never cached across queries.
type ScoredTask struct {
	Task           *Task
	RelevanceScore float64 // [0, (1+coreBonus)*100]
	DueDateScore   float64
	PriorityScore  float64
	CompositeScore float64
}
