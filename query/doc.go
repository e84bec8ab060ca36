// Package query turns raw, possibly multilingual query text into an
// immutable core.ParsedQuery.
//
// The Interpreter always computes a pure heuristic parse (regex filter
// syntax, stop-word stripping, property-phrase lookup, time-word
// disambiguation). When a language-understanding collaborator is
// configured it is consulted with a bounded timeout and its payload
// shape-validated; any failure falls back to the heuristic result, so
// interpretation never fails.
//
// Property phrases resolve through a three-layer vocabulary merged with
// fixed precedence: user-defined terms over built-in terms over terms
// derived from the configured status categories. Keyword expansion adds
// cross-language equivalents (from the collaborator or a static table),
// capped per keyword per language and deduplicated against exact and
// substring-overlapping terms while preserving first-seen order.
package query
