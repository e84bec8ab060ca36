package search

import (
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/taskquery/core"
)

// activation records which score components can vary across this query's
// result set. An inactive component contributes zero to every task score
// AND to the analytic maximum; otherwise thresholds become unsatisfiable
// for property-only queries.
type activation struct {
	relevance bool
	dueDate   bool
	priority  bool
}

// resolveActivation applies the activation rule: relevance is active only
// with core keywords; dueDate and priority are active when explicitly
// filtered or named in either resolved sort spec.
func resolveActivation(pq *core.ParsedQuery, display, analysis core.SortSpec) activation {
	act := activation{
		relevance: pq.HasKeywords(),
		dueDate:   pq.Filters.DueDate != nil,
		priority:  pq.Filters.Priority != nil,
	}
	for _, spec := range []core.SortSpec{display, analysis} {
		for _, criterion := range spec {
			switch criterion {
			case core.CriterionDueDate:
				act.dueDate = true
			case core.CriterionPriority:
				act.priority = true
			}
		}
	}
	return act
}

// scoreTasks computes per-component and composite scores for every task.
// Above the parallel cutoff the per-task work is fanned out on the pool
// and joined before returning; scoring one task never depends on another.
func scoreTasks(tasks []*core.Task, pq *core.ParsedQuery, cfg *Config, act activation, pool *ants.Pool, now time.Time) []*core.ScoredTask {
	scored := make([]*core.ScoredTask, len(tasks))

	if pool == nil || len(tasks) < cfg.ParallelCutoff {
		for i, task := range tasks {
			scored[i] = scoreTask(task, pq, cfg, act, now)
		}
		return scored
	}

	var wg sync.WaitGroup
	for i, task := range tasks {
		i, task := i, task
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			scored[i] = scoreTask(task, pq, cfg, act, now)
		})
		if err != nil {
			// Pool unavailable: score inline.
			scored[i] = scoreTask(task, pq, cfg, act, now)
			wg.Done()
		}
	}
	wg.Wait()
	return scored
}

func scoreTask(task *core.Task, pq *core.ParsedQuery, cfg *Config, act activation, now time.Time) *core.ScoredTask {
	st := &core.ScoredTask{Task: task}

	if act.relevance {
		st.RelevanceScore = relevanceScore(task.Text, pq, cfg.CoreBonus)
	}
	if act.dueDate {
		st.DueDateScore = dueDateScore(task, cfg, now)
	}
	if act.priority {
		st.PriorityScore = cfg.PriorityScores[task.Priority]
	}

	st.CompositeScore = st.RelevanceScore*cfg.WeightRelevance +
		st.DueDateScore*cfg.WeightDueDate +
		st.PriorityScore*cfg.WeightPriority
	return st
}

// relevanceScore blends the core and expanded match ratios:
// (coreRatio*coreBonus + allRatio) * 100, bounded by (1+coreBonus)*100.
func relevanceScore(text string, pq *core.ParsedQuery, coreBonus float64) float64 {
	lower := strings.ToLower(text)

	coreRatio := matchRatio(lower, pq.CoreKeywords)
	allRatio := matchRatio(lower, pq.ExpandedKeywords)

	return (coreRatio*coreBonus + allRatio) * 100
}

func matchRatio(lowerText string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(lowerText, strings.ToLower(kw)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// dueDateScore maps urgency to the configured breakpoints: overdue, due
// today, due within the soon window, due later, no due date.
func dueDateScore(task *core.Task, cfg *Config, now time.Time) float64 {
	if task.DueDate == nil {
		return cfg.DueScores.None
	}
	due := dayOf(task.DueDate.In(now.Location()))
	today := dayOf(now)

	switch {
	case due.Before(today):
		return cfg.DueScores.Overdue
	case due.Equal(today):
		return cfg.DueScores.Today
	case !due.After(today.Add(cfg.SoonWindow)):
		return cfg.DueScores.Soon
	default:
		return cfg.DueScores.Later
	}
}

// maxPossibleScore is derived analytically from the activation rule, not
// from the current result set, so the gate threshold is stable across
// queries with the same configuration.
func maxPossibleScore(cfg *Config, act activation) float64 {
	var maxScore float64
	if act.relevance {
		maxScore += (1 + cfg.CoreBonus) * 100 * cfg.WeightRelevance
	}
	if act.dueDate {
		maxScore += cfg.DueScores.Overdue * cfg.WeightDueDate
	}
	if act.priority {
		maxScore += maxPriorityScore(cfg) * cfg.WeightPriority
	}
	return maxScore
}

func maxPriorityScore(cfg *Config) float64 {
	var maxScore float64
	for _, s := range cfg.PriorityScores {
		if s > maxScore {
			maxScore = s
		}
	}
	return maxScore
}

// maxRelevanceScore is the bound of the relevance component alone,
// used by the secondary minimum-relevance gate.
func maxRelevanceScore(cfg *Config) float64 {
	return (1 + cfg.CoreBonus) * 100
}
