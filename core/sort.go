package core

// SortCriterion identifies one ranking criterion.
// Each criterion has a fixed, non-configurable sort direction.
type SortCriterion int

const (
	// CriterionAuto resolves to CriterionRelevance when the query has
	// keywords, CriterionDueDate otherwise. Never present after Resolve.
	CriterionAuto SortCriterion = iota + 1
	// CriterionRelevance sorts by composite score, descending.
	CriterionRelevance
	// CriterionDueDate sorts by due date ascending; tasks without a due
	// date always sort last.
	CriterionDueDate
	// CriterionPriority sorts by numeric priority level ascending, so the
	// most urgent level comes first. Tasks without a priority sort last.
	CriterionPriority
	// CriterionCreated sorts by creation time, most recent first.
	CriterionCreated
	// CriterionAlphabetical sorts by task text, ascending lexicographic.
	CriterionAlphabetical
)

// String returns the criterion name as used in configuration.
func (c SortCriterion) String() string {
	switch c {
	case CriterionAuto:
		return "auto"
	case CriterionRelevance:
		return "relevance"
	case CriterionDueDate:
		return "dueDate"
	case CriterionPriority:
		return "priority"
	case CriterionCreated:
		return "created"
	case CriterionAlphabetical:
		return "alphabetical"
	default:
		return "unknown"
	}
}

// ParseSortCriterion parses a criterion name. Returns false for unknown names.
func ParseSortCriterion(name string) (SortCriterion, bool) {
	switch name {
	case "auto":
		return CriterionAuto, true
	case "relevance":
		return CriterionRelevance, true
	case "dueDate", "duedate", "due":
		return CriterionDueDate, true
	case "priority":
		return CriterionPriority, true
	case "created":
		return CriterionCreated, true
	case "alphabetical", "alpha":
		return CriterionAlphabetical, true
	default:
		return 0, false
	}
}

// SortSpec is an ordered sequence of sort criteria. Earlier criteria
// dominate; later ones break ties.
type SortSpec []SortCriterion

// Resolve normalizes the spec: auto entries are replaced (relevance when
// the query has keywords, dueDate otherwise), unknown criteria are
// dropped, duplicates keep their first occurrence, and an empty or
// all-invalid spec becomes a single default criterion. The result never
// contains auto or duplicates.
func (s SortSpec) Resolve(hasKeywords bool) SortSpec {
	fallback := CriterionDueDate
	if hasKeywords {
		fallback = CriterionRelevance
	}

	resolved := make(SortSpec, 0, len(s))
	seen := make(map[SortCriterion]bool, len(s))
	for _, c := range s {
		if c == CriterionAuto {
			c = fallback
		}
		if !c.valid() || seen[c] {
			continue
		}
		seen[c] = true
		resolved = append(resolved, c)
	}

	if len(resolved) == 0 {
		resolved = SortSpec{fallback}
	}
	return resolved
}

func (c SortCriterion) valid() bool {
	switch c {
	case CriterionRelevance, CriterionDueDate, CriterionPriority,
		CriterionCreated, CriterionAlphabetical:
		return true
	default:
		return false
	}
}
