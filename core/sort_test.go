package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortSpecResolve(t *testing.T) {
	t.Run("auto resolves to relevance with keywords", func(t *testing.T) {
		resolved := SortSpec{CriterionAuto}.Resolve(true)
		assert.Equal(t, SortSpec{CriterionRelevance}, resolved)
	})

	t.Run("auto resolves to dueDate without keywords", func(t *testing.T) {
		resolved := SortSpec{CriterionAuto}.Resolve(false)
		assert.Equal(t, SortSpec{CriterionDueDate}, resolved)
	})

	t.Run("auto then explicit relevance deduplicates", func(t *testing.T) {
		// [auto, relevance, dueDate] with keywords -> [relevance, dueDate]
		spec := SortSpec{CriterionAuto, CriterionRelevance, CriterionDueDate}
		resolved := spec.Resolve(true)
		assert.Equal(t, SortSpec{CriterionRelevance, CriterionDueDate}, resolved)
	})

	t.Run("duplicates keep first occurrence", func(t *testing.T) {
		spec := SortSpec{CriterionPriority, CriterionCreated, CriterionPriority}
		resolved := spec.Resolve(true)
		assert.Equal(t, SortSpec{CriterionPriority, CriterionCreated}, resolved)
	})

	t.Run("empty spec normalizes to default", func(t *testing.T) {
		assert.Equal(t, SortSpec{CriterionRelevance}, SortSpec{}.Resolve(true))
		assert.Equal(t, SortSpec{CriterionDueDate}, SortSpec(nil).Resolve(false))
	})

	t.Run("unknown criteria dropped", func(t *testing.T) {
		spec := SortSpec{SortCriterion(99), CriterionAlphabetical}
		resolved := spec.Resolve(true)
		assert.Equal(t, SortSpec{CriterionAlphabetical}, resolved)
	})

	t.Run("all-invalid spec normalizes to default", func(t *testing.T) {
		spec := SortSpec{SortCriterion(99)}
		assert.Equal(t, SortSpec{CriterionDueDate}, spec.Resolve(false))
	})

	t.Run("never contains auto or duplicates", func(t *testing.T) {
		spec := SortSpec{CriterionAuto, CriterionAuto, CriterionDueDate, CriterionDueDate}
		resolved := spec.Resolve(false)
		seen := make(map[SortCriterion]bool)
		for _, c := range resolved {
			assert.NotEqual(t, CriterionAuto, c)
			assert.False(t, seen[c], "duplicate criterion %s", c)
			seen[c] = true
		}
	})
}

func TestParseSortCriterion(t *testing.T) {
	c, ok := ParseSortCriterion("dueDate")
	assert.True(t, ok)
	assert.Equal(t, CriterionDueDate, c)

	c, ok = ParseSortCriterion("alpha")
	assert.True(t, ok)
	assert.Equal(t, CriterionAlphabetical, c)

	_, ok = ParseSortCriterion("bogus")
	assert.False(t, ok)
}

func TestSortCriterionString(t *testing.T) {
	assert.Equal(t, "relevance", CriterionRelevance.String())
	assert.Equal(t, "auto", CriterionAuto.String())
	assert.Equal(t, "unknown", SortCriterion(42).String())
}
