package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// bindingKind identifies which structured filter a property phrase maps to.
type bindingKind int

const (
	bindPriority bindingKind = iota + 1
	bindStatus
	bindDue
)

// binding is the resolved meaning of a property phrase.
type binding struct {
	kind  bindingKind
	value string // "1".."4"/"any"/"none", a status category, or a due keyword
}

// vocabulary maps lowercase property phrases (possibly multi-word) to
// bindings. Matching phrases are stripped from the keyword stream and
// turned into structured filters.
type vocabulary map[string]binding

// builtinPropertyTerms is the built-in layer of the vocabulary.
// Status bindings are only kept when the configured StatusMap actually
// defines the category.
var builtinPropertyTerms = map[string]binding{
	"urgent":        {bindPriority, "1"},
	"critical":      {bindPriority, "1"},
	"high priority": {bindPriority, "1"},
	"low priority":  {bindPriority, "4"},
	"important":     {bindPriority, "any"},
	"unprioritized": {bindPriority, "none"},

	"done":        {bindStatus, "done"},
	"finished":    {bindStatus, "done"},
	"completed":   {bindStatus, "done"},
	"open":        {bindStatus, "open"},
	"unfinished":  {bindStatus, "open"},
	"pending":     {bindStatus, "open"},
	"in progress": {bindStatus, "in-progress"},
	"started":     {bindStatus, "in-progress"},
	"cancelled":   {bindStatus, "cancelled"},
	"dropped":     {bindStatus, "cancelled"},

	"overdue":     {bindDue, "overdue"},
	"late":        {bindDue, "overdue"},
	"no due date": {bindDue, "none"},
	"undated":     {bindDue, "none"},
	"scheduled":   {bindDue, "any"},
	"dated":       {bindDue, "any"},
}

// buildVocabulary merges the three vocabulary layers with fixed
// precedence: user-defined terms over built-in terms over terms derived
// from the configured status categories. The merge is an ordered map
// overwrite; later layers win.
func buildVocabulary(cfg *Config) vocabulary {
	v := make(vocabulary)

	// Layer 1: derived from status categories ("done" matches category "done").
	for _, category := range cfg.Statuses.Categories() {
		term := strings.ToLower(strings.ReplaceAll(category, "-", " "))
		v[term] = binding{bindStatus, category}
	}

	// Layer 2: built-in terms.
	for term, b := range builtinPropertyTerms {
		if b.kind == bindStatus {
			if _, ok := cfg.Statuses[b.value]; !ok {
				continue
			}
		}
		v[term] = b
	}

	// Layer 3: user-defined terms.
	for term, spec := range cfg.UserPropertyTerms {
		b, err := parseBindingSpec(spec)
		if err != nil {
			continue // Config.Validate rejects these before interpretation
		}
		v[strings.ToLower(strings.TrimSpace(term))] = b
	}

	return v
}

// parseBindingSpec parses a "kind:value" user binding spec.
func parseBindingSpec(spec string) (binding, error) {
	kind, value, ok := strings.Cut(strings.TrimSpace(spec), ":")
	if !ok {
		return binding{}, fmt.Errorf("%w: %q", ErrInvalidBinding, spec)
	}
	value = strings.TrimSpace(value)

	switch strings.TrimSpace(kind) {
	case "priority":
		switch value {
		case "any", "none":
		default:
			if n, err := strconv.Atoi(value); err != nil || n < 1 || n > 4 {
				return binding{}, fmt.Errorf("%w: priority %q", ErrInvalidBinding, value)
			}
		}
		return binding{bindPriority, value}, nil
	case "status":
		if value == "" {
			return binding{}, fmt.Errorf("%w: empty status", ErrInvalidBinding)
		}
		return binding{bindStatus, value}, nil
	case "due":
		switch value {
		case "today", "tomorrow", "overdue", "none", "any":
			return binding{bindDue, value}, nil
		}
		return binding{}, fmt.Errorf("%w: due keyword %q", ErrInvalidBinding, value)
	default:
		return binding{}, fmt.Errorf("%w: kind %q", ErrInvalidBinding, kind)
	}
}

// terms returns the vocabulary phrases sorted for stable prompt building.
func (v vocabulary) terms() []string {
	out := make([]string, 0, len(v))
	for term := range v {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// maxPhraseWords is the longest property phrase the matcher looks for.
const maxPhraseWords = 3
