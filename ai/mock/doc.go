// Package mock provides test doubles for the ai service interfaces.
//
// Each mock exposes an injectable function field (AnalyzeQueryFunc,
// AnalyzeResultsFunc) for custom behavior and counts its calls. The
// defaults are deliberately simple: the analyzer splits the query into
// keywords, the analyst returns a canned one-liner.
package mock
