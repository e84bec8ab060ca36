package search

import (
	"sort"

	"github.com/poiesic/taskquery/core"
)

// maxNearMisses bounds the near-miss scores carried in diagnostics.
const maxNearMisses = 3

// gateOutcome is the quality gate's result plus the numbers the engine
// needs to explain it.
type gateOutcome struct {
	tasks        []*core.ScoredTask
	threshold    float64
	maxPossible  float64
	floorApplied bool
	nearMisses   []float64 // best excluded composite scores, descending
}

// applyQualityGate drops low-composite tasks. The threshold is a
// percentage of the analytic maximum: explicit when configured, else
// from the adaptive curve over the core keyword count. The independent
// minimum-relevance predicate composes with it. The safety floor
// guarantees min(SafetyFloor, |input|) survivors; when candidates
// existed the gate never returns an empty set.
func applyQualityGate(scored []*core.ScoredTask, pq *core.ParsedQuery, cfg *Config, act activation) gateOutcome {
	out := gateOutcome{
		maxPossible: maxPossibleScore(cfg, act),
	}
	out.threshold = out.maxPossible * thresholdPercent(pq, cfg) / 100

	minRelevance := 0.0
	if cfg.MinRelevancePercent > 0 && act.relevance {
		minRelevance = maxRelevanceScore(cfg) * cfg.MinRelevancePercent / 100
	}

	var excluded []*core.ScoredTask
	survivors := make([]*core.ScoredTask, 0, len(scored))
	for _, st := range scored {
		if st.CompositeScore >= out.threshold && st.RelevanceScore >= minRelevance {
			survivors = append(survivors, st)
		} else {
			excluded = append(excluded, st)
		}
	}

	floor := cfg.SafetyFloor
	if len(scored) < floor {
		floor = len(scored)
	}
	if take := floor - len(survivors); take > 0 {
		// Top up with the best excluded tasks by composite score.
		sort.SliceStable(excluded, func(i, j int) bool {
			return excluded[i].CompositeScore > excluded[j].CompositeScore
		})
		survivors = append(survivors, excluded[:take]...)
		excluded = excluded[take:]
		out.floorApplied = true
	}

	out.tasks = survivors
	out.nearMisses = nearMissScores(excluded)
	return out
}

// thresholdPercent resolves the gate percentage: explicit mode passes
// through; adaptive mode walks the step curve by core keyword count and
// clamps to the configured bounds.
func thresholdPercent(pq *core.ParsedQuery, cfg *Config) float64 {
	if cfg.QualityThreshold > 0 {
		return float64(cfg.QualityThreshold)
	}

	keywords := len(pq.CoreKeywords)
	pct := cfg.AdaptiveMin
	for _, step := range cfg.AdaptiveCurve {
		if keywords <= step.UpToKeywords {
			pct = step.Percent
			break
		}
	}

	if pct < cfg.AdaptiveMin {
		pct = cfg.AdaptiveMin
	}
	if pct > cfg.AdaptiveMax {
		pct = cfg.AdaptiveMax
	}
	return pct
}

func nearMissScores(excluded []*core.ScoredTask) []float64 {
	scores := make([]float64, 0, len(excluded))
	for _, st := range excluded {
		scores = append(scores, st.CompositeScore)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	if len(scores) > maxNearMisses {
		scores = scores[:maxNearMisses]
	}
	return scores
}
