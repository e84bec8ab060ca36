// Package ai defines the boundary to the external language-model
// collaborators used by the query engine.
//
// Two services are defined: a QueryAnalyzer, which produces a best-effort
// structured interpretation of a raw query, and a ResultAnalyst, which
// writes a short narrative summary of a ranked result list. Both are
// optional at runtime: the query package carries a pure heuristic parser
// that takes over whenever the analyzer is absent, unreachable, or
// returns a malformed payload, and an analyst failure never invalidates
// an already-computed ranking.
//
// Analyzer responses cross a trust boundary. They are plain data
// (QueryAnalysis) and must pass Validate before anything downstream
// consumes them.
//
// The openai subpackage implements both services against any
// OpenAI-compatible API. The mock subpackage provides injectable test
// doubles.
package ai
