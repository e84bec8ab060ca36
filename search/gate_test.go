package search

import (
	"testing"

	"github.com/poiesic/taskquery/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredWith(composites ...float64) []*core.ScoredTask {
	out := make([]*core.ScoredTask, len(composites))
	for i, c := range composites {
		out[i] = &core.ScoredTask{
			Task:           &core.Task{Text: "t"},
			CompositeScore: c,
		}
	}
	return out
}

func TestThresholdPercent(t *testing.T) {
	t.Run("explicit passes through", func(t *testing.T) {
		cfg := testConfig(t, WithQualityThreshold(75))
		pq := &core.ParsedQuery{CoreKeywords: []string{"a", "b", "c", "d", "e", "f"}}
		assert.Equal(t, 75.0, thresholdPercent(pq, cfg))
	})

	t.Run("adaptive walks the curve", func(t *testing.T) {
		cfg := testConfig(t)
		cases := map[int]float64{0: 50, 1: 50, 2: 40, 3: 40, 4: 30, 5: 30, 6: 25, 20: 25}
		for count, want := range cases {
			kws := make([]string, count)
			for i := range kws {
				kws[i] = "k"
			}
			pq := &core.ParsedQuery{CoreKeywords: kws}
			assert.Equal(t, want, thresholdPercent(pq, cfg), "keywords=%d", count)
		}
	})

	t.Run("curve clamped to bounds", func(t *testing.T) {
		cfg := testConfig(t, WithAdaptiveCurve(
			[]AdaptiveStep{{UpToKeywords: 1, Percent: 90}, {UpToKeywords: 10, Percent: 5}},
			20, 60))
		one := &core.ParsedQuery{CoreKeywords: []string{"k"}}
		many := &core.ParsedQuery{CoreKeywords: []string{"a", "b"}}
		assert.Equal(t, 60.0, thresholdPercent(one, cfg))
		assert.Equal(t, 20.0, thresholdPercent(many, cfg))
	})
}

func TestApplyQualityGate(t *testing.T) {
	pq := &core.ParsedQuery{CoreKeywords: []string{"bug"}}
	act := activation{relevance: true}

	t.Run("threshold is a percentage of the analytic max", func(t *testing.T) {
		cfg := testConfig(t, WithQualityThreshold(50), WithSafetyFloor(1))
		// Max possible: 120 * 1.0 = 120; threshold 60.
		out := applyQualityGate(scoredWith(100, 61, 59, 10), pq, cfg, act)

		assert.InDelta(t, 60, out.threshold, 0.001)
		assert.Len(t, out.tasks, 2)
		assert.Equal(t, []float64{59, 10}, out.nearMisses)
	})

	t.Run("safety floor tops up from best excluded", func(t *testing.T) {
		cfg := testConfig(t, WithQualityThreshold(90))
		out := applyQualityGate(scoredWith(50, 30, 80, 20), pq, cfg, act)

		require.Len(t, out.tasks, 3)
		assert.True(t, out.floorApplied)
		assert.Equal(t, 80.0, out.tasks[0].CompositeScore)
		assert.Equal(t, 50.0, out.tasks[1].CompositeScore)
		assert.Equal(t, 30.0, out.tasks[2].CompositeScore)
	})

	t.Run("floor bounded by input size", func(t *testing.T) {
		cfg := testConfig(t, WithQualityThreshold(90), WithSafetyFloor(5))
		out := applyQualityGate(scoredWith(10, 20), pq, cfg, act)
		assert.Len(t, out.tasks, 2)
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		cfg := testConfig(t)
		out := applyQualityGate(nil, pq, cfg, act)
		assert.Empty(t, out.tasks)
		assert.False(t, out.floorApplied)
	})

	t.Run("zero max means everything passes", func(t *testing.T) {
		cfg := testConfig(t)
		out := applyQualityGate(scoredWith(0, 0, 0), &core.ParsedQuery{}, cfg, activation{})
		assert.Len(t, out.tasks, 3)
		assert.Zero(t, out.threshold)
		assert.False(t, out.floorApplied)
	})
}

func TestApplyQualityGate_MinRelevance(t *testing.T) {
	mk := func(composite, relevance float64) *core.ScoredTask {
		return &core.ScoredTask{
			Task:           &core.Task{Text: "t"},
			CompositeScore: composite,
			RelevanceScore: relevance,
		}
	}

	t.Run("active with keywords", func(t *testing.T) {
		cfg := testConfig(t, WithQualityThreshold(1), WithMinRelevance(50), WithSafetyFloor(1))
		pq := &core.ParsedQuery{CoreKeywords: []string{"bug"}}
		// Min relevance: 50% of 120 = 60.
		scored := []*core.ScoredTask{mk(100, 90), mk(100, 30)}
		out := applyQualityGate(scored, pq, cfg, activation{relevance: true})

		require.Len(t, out.tasks, 1)
		assert.Equal(t, 90.0, out.tasks[0].RelevanceScore)
	})

	t.Run("no-op without active relevance", func(t *testing.T) {
		cfg := testConfig(t, WithQualityThreshold(1), WithMinRelevance(50), WithSafetyFloor(1))
		pq := &core.ParsedQuery{}
		scored := []*core.ScoredTask{mk(100, 0), mk(90, 0)}
		out := applyQualityGate(scored, pq, cfg, activation{dueDate: true})

		assert.Len(t, out.tasks, 2)
	})
}
