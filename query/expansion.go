package query

import "strings"

// staticExpansions is the offline expansion table used when no
// collaborator supplied equivalents. Keyed by language, then by keyword.
var staticExpansions = map[string]map[string][]string{
	"en": {
		"buy":       {"purchase", "order"},
		"call":      {"phone", "ring"},
		"email":     {"mail", "message"},
		"fix":       {"repair", "resolve"},
		"write":     {"draft", "compose"},
		"meeting":   {"meet", "sync"},
		"review":    {"check", "inspect"},
		"clean":     {"tidy", "organize"},
		"pay":       {"payment", "invoice"},
		"plan":      {"schedule", "prepare"},
		"report":    {"summary", "writeup"},
		"doctor":    {"appointment", "medical"},
		"groceries": {"shopping", "food"},
	},
	"es": {
		"buy":     {"comprar"},
		"call":    {"llamar"},
		"email":   {"correo"},
		"fix":     {"arreglar"},
		"write":   {"escribir"},
		"meeting": {"reunión"},
		"review":  {"revisar"},
		"clean":   {"limpiar"},
		"pay":     {"pagar"},
		"report":  {"informe"},
		"doctor":  {"médico"},
	},
	"de": {
		"buy":     {"kaufen"},
		"call":    {"anrufen"},
		"email":   {"mail"},
		"fix":     {"reparieren"},
		"write":   {"schreiben"},
		"meeting": {"besprechung"},
		"review":  {"prüfen"},
		"clean":   {"aufräumen"},
		"pay":     {"bezahlen"},
		"report":  {"bericht"},
		"doctor":  {"arzt"},
	},
}

// expandKeywords builds the expanded keyword list: every core keyword,
// in order, followed by its equivalents. Analyzer-supplied equivalents
// take precedence over the static table; both are capped at
// cfg.MaxExpansions per keyword per language. Candidates that duplicate
// or substring-overlap an already accepted keyword are dropped, so the
// core keywords are always a subset of the result.
func expandKeywords(core []string, analyzerExpansions map[string][]string, cfg *Config) []string {
	expanded := make([]string, 0, len(core)*2)
	for _, kw := range core {
		expanded = appendUnique(expanded, strings.ToLower(kw))
	}
	if !cfg.ExpansionEnabled {
		return expanded
	}

	for _, kw := range core {
		kw = strings.ToLower(kw)
		if provided, ok := analyzerExpansions[kw]; ok {
			n := 0
			for _, cand := range provided {
				if n >= cfg.MaxExpansions*len(cfg.Languages) {
					break
				}
				if added, ok := appendCandidate(expanded, cand); ok {
					expanded = added
					n++
				}
			}
			continue
		}
		for _, lang := range cfg.Languages {
			table, ok := staticExpansions[lang]
			if !ok {
				continue
			}
			n := 0
			for _, cand := range table[kw] {
				if n >= cfg.MaxExpansions {
					break
				}
				if added, ok := appendCandidate(expanded, cand); ok {
					expanded = added
					n++
				}
			}
		}
	}
	return expanded
}

// appendCandidate adds cand to the list unless it is empty, an exact
// duplicate, or a substring overlap of an accepted keyword in either
// direction. The second return reports whether cand was added.
func appendCandidate(list []string, cand string) ([]string, bool) {
	cand = strings.ToLower(strings.TrimSpace(cand))
	if cand == "" {
		return list, false
	}
	for _, existing := range list {
		if cand == existing ||
			strings.Contains(existing, cand) || strings.Contains(cand, existing) {
			return list, false
		}
	}
	return append(list, cand), true
}
