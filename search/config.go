package search

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/poiesic/taskquery/core"
)

// DueScores holds the urgency breakpoints of the due-date component.
// They must be strictly ordered Overdue > Today > Soon > Later > None.
type DueScores struct {
	Overdue float64
	Today   float64
	Soon    float64
	Later   float64
	None    float64
}

// AdaptiveStep is one step of the adaptive threshold curve: queries with
// at most UpToKeywords core keywords are held to Percent of the maximum
// possible score. Broad expansions dilute match ratios, so the bar drops
// as the keyword count grows.
type AdaptiveStep struct {
	UpToKeywords int
	Percent      float64
}

// Config holds the settings for one pipeline pass. It is treated as
// immutable once handed to the engine.
type Config struct {
	// Component weights of the composite score.
	WeightRelevance float64 // Default: 1.0
	WeightDueDate   float64 // Default: 0.8
	WeightPriority  float64 // Default: 0.6

	// CoreBonus is the extra weight of core-keyword matches, in [0,1].
	// Default: 0.2
	CoreBonus float64

	// QualityThreshold selects the gate mode: 0 means adaptive, 1-100 is
	// an explicit percentage of the maximum possible score.
	QualityThreshold int

	// AdaptiveCurve maps core-keyword counts to threshold percentages.
	// Queries beyond the last step use AdaptiveMin. Steps are clamped to
	// [AdaptiveMin, AdaptiveMax].
	AdaptiveCurve []AdaptiveStep
	AdaptiveMin   float64 // Default: 25
	AdaptiveMax   float64 // Default: 50

	// MinRelevancePercent is an independent secondary gate on the
	// relevance component, as a percentage of the maximum relevance
	// score. 0 disables it. It only applies when relevance is active.
	MinRelevancePercent float64

	// SafetyFloor is the minimum number of survivors the gate returns
	// when candidates existed, threshold notwithstanding. Default: 3
	SafetyFloor int

	// SortSpec orders the displayed result. Default: [auto]
	SortSpec core.SortSpec

	// AnalysisSortSpec, when set, orders the list handed to the result
	// analyst. Empty means use the display ordering.
	AnalysisSortSpec core.SortSpec

	// DueScores are the urgency breakpoints. SoonWindow bounds "soon".
	DueScores  DueScores     // Default: 100/80/60/30/0
	SoonWindow time.Duration // Default: 7 days

	// PriorityScores maps priority levels to scores.
	// Default: {1:100, 2:75, 3:50, 4:25}
	PriorityScores map[int]float64

	// TagMatchExact and FolderMatchExact switch those filters from
	// substring to exact comparison.
	TagMatchExact    bool
	FolderMatchExact bool

	// Statuses maps raw status markers to categories for the status
	// filter. Default: core.DefaultStatuses()
	Statuses core.StatusMap

	// ParallelCutoff is the candidate count above which scoring runs on
	// the worker pool. Default: 32
	ParallelCutoff int

	// PoolSize is the scoring pool size. Default: runtime.NumCPU()
	PoolSize int

	// AnalystEnabled toggles the downstream result analyst.
	AnalystEnabled bool

	// AnalystTimeout bounds the analyst call. Default: 30s
	AnalystTimeout time.Duration

	// MaxResults truncates the ranked list. <= 0 means no limit.
	MaxResults int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithWeights sets the composite score coefficients.
func WithWeights(relevance, dueDate, priority float64) ConfigOption {
	return func(c *Config) {
		c.WeightRelevance = relevance
		c.WeightDueDate = dueDate
		c.WeightPriority = priority
	}
}

// WithCoreBonus sets the core-keyword match bonus.
func WithCoreBonus(bonus float64) ConfigOption {
	return func(c *Config) {
		c.CoreBonus = bonus
	}
}

// WithQualityThreshold sets an explicit gate percentage (1-100).
// 0 selects the adaptive curve.
func WithQualityThreshold(pct int) ConfigOption {
	return func(c *Config) {
		c.QualityThreshold = pct
	}
}

// WithAdaptiveCurve replaces the adaptive threshold curve.
func WithAdaptiveCurve(steps []AdaptiveStep, minPct, maxPct float64) ConfigOption {
	return func(c *Config) {
		c.AdaptiveCurve = steps
		c.AdaptiveMin = minPct
		c.AdaptiveMax = maxPct
	}
}

// WithMinRelevance sets the secondary relevance gate percentage.
func WithMinRelevance(pct float64) ConfigOption {
	return func(c *Config) {
		c.MinRelevancePercent = pct
	}
}

// WithSafetyFloor sets the minimum survivor count.
func WithSafetyFloor(n int) ConfigOption {
	return func(c *Config) {
		c.SafetyFloor = n
	}
}

// WithSortSpec sets the display ordering.
func WithSortSpec(spec core.SortSpec) ConfigOption {
	return func(c *Config) {
		c.SortSpec = spec
	}
}

// WithAnalysisSortSpec sets a separate ordering for the result analyst.
func WithAnalysisSortSpec(spec core.SortSpec) ConfigOption {
	return func(c *Config) {
		c.AnalysisSortSpec = spec
	}
}

// WithStatuses sets the status category mapping.
func WithStatuses(statuses core.StatusMap) ConfigOption {
	return func(c *Config) {
		c.Statuses = statuses
	}
}

// WithExactMatching switches tag and folder filters to exact comparison.
func WithExactMatching(tags, folders bool) ConfigOption {
	return func(c *Config) {
		c.TagMatchExact = tags
		c.FolderMatchExact = folders
	}
}

// WithAnalyst toggles the downstream result analyst.
func WithAnalyst(enabled bool) ConfigOption {
	return func(c *Config) {
		c.AnalystEnabled = enabled
	}
}

// WithMaxResults truncates the ranked list.
func WithMaxResults(n int) ConfigOption {
	return func(c *Config) {
		c.MaxResults = n
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		WeightRelevance: 1.0,
		WeightDueDate:   0.8,
		WeightPriority:  0.6,
		CoreBonus:       0.2,
		AdaptiveCurve: []AdaptiveStep{
			{UpToKeywords: 1, Percent: 50},
			{UpToKeywords: 3, Percent: 40},
			{UpToKeywords: 5, Percent: 30},
		},
		AdaptiveMin: 25,
		AdaptiveMax: 50,
		SafetyFloor: 3,
		SortSpec:    core.SortSpec{core.CriterionAuto},
		DueScores: DueScores{
			Overdue: 100,
			Today:   80,
			Soon:    60,
			Later:   30,
			None:    0,
		},
		SoonWindow:     7 * 24 * time.Hour,
		PriorityScores: map[int]float64{1: 100, 2: 75, 3: 50, 4: 25},
		Statuses:       core.DefaultStatuses(),
		ParallelCutoff: 32,
		PoolSize:       runtime.NumCPU(),
		AnalystTimeout: 30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.WeightRelevance <= 0 && c.WeightDueDate <= 0 && c.WeightPriority <= 0 {
		c.WeightRelevance = def.WeightRelevance
		c.WeightDueDate = def.WeightDueDate
		c.WeightPriority = def.WeightPriority
	}
	if c.CoreBonus < 0 {
		c.CoreBonus = def.CoreBonus
	}
	if len(c.AdaptiveCurve) == 0 {
		c.AdaptiveCurve = def.AdaptiveCurve
	}
	if c.AdaptiveMin <= 0 {
		c.AdaptiveMin = def.AdaptiveMin
	}
	if c.AdaptiveMax <= 0 {
		c.AdaptiveMax = def.AdaptiveMax
	}
	if c.SafetyFloor <= 0 {
		c.SafetyFloor = def.SafetyFloor
	}
	if len(c.SortSpec) == 0 {
		c.SortSpec = def.SortSpec
	}
	if c.DueScores == (DueScores{}) {
		c.DueScores = def.DueScores
	}
	if c.SoonWindow <= 0 {
		c.SoonWindow = def.SoonWindow
	}
	if len(c.PriorityScores) == 0 {
		c.PriorityScores = def.PriorityScores
	}
	if c.Statuses == nil {
		c.Statuses = def.Statuses
	}
	if c.ParallelCutoff <= 0 {
		c.ParallelCutoff = def.ParallelCutoff
	}
	if c.PoolSize <= 0 {
		c.PoolSize = def.PoolSize
	}
	if c.AnalystTimeout <= 0 {
		c.AnalystTimeout = def.AnalystTimeout
	}
	sort.SliceStable(c.AdaptiveCurve, func(i, j int) bool {
		return c.AdaptiveCurve[i].UpToKeywords < c.AdaptiveCurve[j].UpToKeywords
	})
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.QualityThreshold < 0 || c.QualityThreshold > 100 {
		return errors.New("search config: QualityThreshold must be in [0,100]")
	}
	if c.CoreBonus > 1 {
		return errors.New("search config: CoreBonus must be in [0,1]")
	}
	if c.MinRelevancePercent < 0 || c.MinRelevancePercent > 100 {
		return errors.New("search config: MinRelevancePercent must be in [0,100]")
	}
	if c.AdaptiveMin > c.AdaptiveMax {
		return fmt.Errorf("search config: AdaptiveMin %.0f exceeds AdaptiveMax %.0f",
			c.AdaptiveMin, c.AdaptiveMax)
	}
	d := c.DueScores
	if !(d.Overdue > d.Today && d.Today > d.Soon && d.Soon > d.Later && d.Later >= d.None) {
		return errors.New("search config: DueScores must be ordered overdue > today > soon > later >= none")
	}
	return nil
}
