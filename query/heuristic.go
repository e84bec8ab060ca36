package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/taskquery/core"
)

// builtinGenericWords are terms so common in task text that matching on
// them alone says nothing about relevance. A query whose keywords are
// mostly generic is flagged vague and its keyword filter is skipped.
var builtinGenericWords = map[string]bool{
	"task": true, "tasks": true, "todo": true, "todos": true,
	"item": true, "items": true, "thing": true, "things": true,
	"stuff": true, "note": true, "notes": true, "list": true,
	"work": true, "everything": true, "anything": true, "something": true,
	"all": true, "any": true, "some": true, "stuck": true,
}

// stopWords are dropped during tokenization. Mostly English function
// words plus a few Spanish and German ones so multilingual queries do
// not leak articles into the keyword set.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "i": true,
	"me": true, "my": true, "we": true, "our": true, "you": true,
	"your": true, "it": true, "its": true, "of": true, "to": true,
	"in": true, "on": true, "at": true, "by": true, "for": true,
	"with": true, "about": true, "from": true, "and": true, "or": true,
	"not": true, "no": true, "do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true, "what": true, "which": true,
	"who": true, "when": true, "where": true, "that": true, "this": true,
	"these": true, "those": true, "there": true, "show": true, "find": true,
	"get": true, "give": true, "need": true, "want": true, "please": true,

	"el": true, "la": true, "los": true, "las": true, "un": true,
	"una": true, "de": true, "del": true, "que": true, "con": true,
	"para": true, "por": true, "mis": true,

	"der": true, "die": true, "das": true, "ein": true, "eine": true,
	"und": true, "mit": true, "für": true, "von": true, "zu": true,
	"den": true, "dem": true, "meine": true,
}

var (
	tagPattern      = regexp.MustCompile(`(?i)#([\p{L}\p{N}_/-]+)`)
	priorityPattern = regexp.MustCompile(`(?i)\b(?:p([1-4])\b|priority:\s*([1-4]|any|none))`)
	folderPattern   = regexp.MustCompile(`(?i)\b(?:in|folder):\s*("[^"]+"|\S+)`)
	statusPattern   = regexp.MustCompile(`(?i)\bstatus:\s*(\S+)`)
	duePattern      = regexp.MustCompile(`(?i)\bdue:\s*("[^"]+"|\S+)`)
	tokenPattern    = regexp.MustCompile(`[\p{L}\p{N}_-]+`)
)

// heuristicParse is the deterministic fallback parser. It never fails:
// whatever structure it can recognize becomes filters, the rest becomes
// keywords, and unparsable fragments are simply kept as keywords.
func heuristicParse(raw string, cfg *Config, vocab vocabulary, now time.Time) *core.ParsedQuery {
	pq := &core.ParsedQuery{
		RawQuery:         raw,
		DetectedLanguage: cfg.Languages[0],
		UsedFallback:     true,
		Confidence:       0.5,
	}

	text := raw

	// Explicit filter syntax first, each matched span removed from the text.
	text = tagPattern.ReplaceAllStringFunc(text, func(m string) string {
		tag := strings.ToLower(tagPattern.FindStringSubmatch(m)[1])
		pq.Filters.Tags = append(pq.Filters.Tags, tag)
		return " "
	})

	text = priorityPattern.ReplaceAllStringFunc(text, func(m string) string {
		groups := priorityPattern.FindStringSubmatch(m)
		value := groups[1]
		if value == "" {
			value = strings.ToLower(groups[2])
		}
		pq.Filters.Priority = priorityFilterFromValue(value)
		return " "
	})

	text = folderPattern.ReplaceAllStringFunc(text, func(m string) string {
		folder := strings.Trim(folderPattern.FindStringSubmatch(m)[1], `"`)
		pq.Filters.Folder = folder
		return " "
	})

	text = statusPattern.ReplaceAllStringFunc(text, func(m string) string {
		status := strings.ToLower(statusPattern.FindStringSubmatch(m)[1])
		pq.Filters.Status = &core.StatusFilter{Categories: []string{status}}
		return " "
	})

	text = duePattern.ReplaceAllStringFunc(text, func(m string) string {
		value := strings.Trim(duePattern.FindStringSubmatch(m)[1], `"`)
		if f, err := parseDueValue(value, now); err == nil {
			pq.Filters.DueDate = f
		}
		return " "
	})

	// Natural-language time expressions. An explicit phrasing always
	// becomes a filter; a bare time word only does once we know whether
	// topical keywords remain, so its resolution is held until then.
	var bareTime *timeResolution
	if pq.Filters.DueDate == nil {
		var res *timeResolution
		text, res = extractTimeExpression(text, now)
		if res != nil {
			if res.explicit {
				pq.Filters.DueDate = res.filter
			} else {
				bareTime = res
			}
		}
	}

	// Property phrases via the vocabulary, longest n-grams first.
	words := tokenize(text)
	words = matchPropertyPhrases(words, vocab, pq, now)

	// Whatever survives is topical keywords.
	for _, w := range words {
		if stopWords[w] {
			continue
		}
		pq.CoreKeywords = appendUnique(pq.CoreKeywords, w)
	}

	if bareTime != nil && pq.Filters.DueDate == nil {
		if hasNonGeneric(pq.CoreKeywords, cfg) {
			pq.Filters.DueDate = bareTime.filter
		} else {
			pq.TimeContext = bareTime.expression
		}
	}

	pq.IsVague, pq.VagueReason = assessVagueness(pq, cfg)
	pq.ExpandedKeywords = expandKeywords(pq.CoreKeywords, nil, cfg)
	return pq
}

func priorityFilterFromValue(value string) *core.PriorityFilter {
	switch value {
	case "any":
		return &core.PriorityFilter{Mode: core.PriorityAny}
	case "none":
		return &core.PriorityFilter{Mode: core.PriorityNone}
	default:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 4 {
			return nil
		}
		return &core.PriorityFilter{Mode: core.PriorityLevels, Levels: []int{n}}
	}
}

// tokenize lowercases text and splits it into word tokens.
func tokenize(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.Trim(m, "_-")
		if m == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// matchPropertyPhrases scans the token stream for vocabulary phrases,
// longest first, converts each hit into a filter on pq, and returns the
// remaining tokens.
func matchPropertyPhrases(words []string, vocab vocabulary, pq *core.ParsedQuery, now time.Time) []string {
	var rest []string
	for i := 0; i < len(words); {
		matched := false
		max := maxPhraseWords
		if remaining := len(words) - i; remaining < max {
			max = remaining
		}
		for n := max; n >= 1; n-- {
			phrase := strings.Join(words[i:i+n], " ")
			b, ok := vocab[phrase]
			if !ok {
				continue
			}
			applyBinding(b, pq, now)
			i += n
			matched = true
			break
		}
		if !matched {
			rest = append(rest, words[i])
			i++
		}
	}
	return rest
}

// applyBinding turns a matched vocabulary binding into a filter. First
// match wins per filter kind; later phrases never overwrite.
func applyBinding(b binding, pq *core.ParsedQuery, now time.Time) {
	switch b.kind {
	case bindPriority:
		if pq.Filters.Priority == nil {
			pq.Filters.Priority = priorityFilterFromValue(b.value)
		}
	case bindStatus:
		if pq.Filters.Status == nil {
			pq.Filters.Status = &core.StatusFilter{Categories: []string{b.value}}
		}
	case bindDue:
		if pq.Filters.DueDate == nil && pq.TimeContext == "" {
			if f, err := parseDueValue(b.value, now); err == nil {
				pq.Filters.DueDate = f
			}
		}
	}
}

// assessVagueness classifies the parse. With keywords present, the
// generic-term ratio decides against the configured threshold. Without
// keywords, the query is only vague when it also carries no filters; a
// pure filter query ("p1 overdue") is precise, not vague.
func assessVagueness(pq *core.ParsedQuery, cfg *Config) (bool, string) {
	if len(pq.CoreKeywords) == 0 {
		if pq.Filters.Empty() && pq.TimeContext == "" {
			return true, "no recognizable keywords or filters"
		}
		return false, ""
	}
	generic := 0
	for _, kw := range pq.CoreKeywords {
		if cfg.IsGeneric(kw) {
			generic++
		}
	}
	ratio := float64(generic) / float64(len(pq.CoreKeywords))
	if ratio >= cfg.VagueThreshold {
		return true, "keywords are mostly generic task words"
	}
	return false, ""
}

func hasNonGeneric(keywords []string, cfg *Config) bool {
	for _, kw := range keywords {
		if !cfg.IsGeneric(kw) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
