package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/taskquery/core"
)

// Config holds the interpretation settings for one query. It is treated
// as immutable once passed to Interpret.
type Config struct {
	// Languages considered for keyword expansion, e.g. ["en", "es"].
	// Default: ["en"]
	Languages []string

	// MaxExpansions is the number of equivalents requested per keyword
	// per language. Default: 2
	MaxExpansions int

	// ExpansionEnabled toggles keyword expansion. Default: true
	ExpansionEnabled bool

	// VagueThreshold is the generic-keyword ratio at or above which a
	// query counts as vague. Default: 0.7
	VagueThreshold float64

	// GenericWords are extra generic terms merged over the built-in
	// lexicon.
	GenericWords []string

	// UserPropertyTerms maps user-defined phrases to property bindings
	// written as "priority:1", "status:done", or "due:overdue". These
	// take precedence over built-in and status-derived terms.
	UserPropertyTerms map[string]string

	// Statuses is the configured status category mapping.
	// Default: core.DefaultStatuses()
	Statuses core.StatusMap

	// AnalyzerTimeout bounds the language-understanding collaborator
	// call. Default: 10s
	AnalyzerTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithLanguages sets the expansion languages.
func WithLanguages(languages ...string) ConfigOption {
	return func(c *Config) {
		c.Languages = languages
	}
}

// WithMaxExpansions sets the equivalents-per-keyword-per-language cap.
func WithMaxExpansions(n int) ConfigOption {
	return func(c *Config) {
		c.MaxExpansions = n
	}
}

// WithExpansion toggles keyword expansion.
func WithExpansion(enabled bool) ConfigOption {
	return func(c *Config) {
		c.ExpansionEnabled = enabled
	}
}

// WithVagueThreshold sets the vagueness ratio threshold.
func WithVagueThreshold(threshold float64) ConfigOption {
	return func(c *Config) {
		c.VagueThreshold = threshold
	}
}

// WithGenericWords adds generic terms to the lexicon.
func WithGenericWords(words ...string) ConfigOption {
	return func(c *Config) {
		c.GenericWords = words
	}
}

// WithUserPropertyTerms sets the user-defined property vocabulary.
func WithUserPropertyTerms(terms map[string]string) ConfigOption {
	return func(c *Config) {
		c.UserPropertyTerms = terms
	}
}

// WithStatuses sets the status category mapping.
func WithStatuses(statuses core.StatusMap) ConfigOption {
	return func(c *Config) {
		c.Statuses = statuses
	}
}

// WithAnalyzerTimeout bounds the collaborator call.
func WithAnalyzerTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.AnalyzerTimeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Languages:        []string{"en"},
		MaxExpansions:    2,
		ExpansionEnabled: true,
		VagueThreshold:   0.7,
		Statuses:         core.DefaultStatuses(),
		AnalyzerTimeout:  10 * time.Second,
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
	if len(c.Languages) == 0 {
		c.Languages = []string{"en"}
	}
	if c.MaxExpansions <= 0 {
		c.MaxExpansions = 2
	}
	if c.VagueThreshold <= 0 {
		c.VagueThreshold = 0.7
	}
	if c.Statuses == nil {
		c.Statuses = core.DefaultStatuses()
	}
	if c.AnalyzerTimeout <= 0 {
		c.AnalyzerTimeout = 10 * time.Second
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.VagueThreshold > 1 {
		return errors.New("query config: VagueThreshold must be in (0,1]")
	}
	for term, spec := range c.UserPropertyTerms {
		if strings.TrimSpace(term) == "" {
			return errors.New("query config: empty user property term")
		}
		if _, err := parseBindingSpec(spec); err != nil {
			return fmt.Errorf("query config: term %q: %w", term, err)
		}
	}
	return nil
}

// IsGeneric reports whether a term belongs to the merged generic lexicon
// (built-in plus configured additions). Comparison is case-insensitive.
func (c *Config) IsGeneric(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if builtinGenericWords[term] {
		return true
	}
	for _, w := range c.GenericWords {
		if strings.ToLower(w) == term {
			return true
		}
	}
	return false
}
