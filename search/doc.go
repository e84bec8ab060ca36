// Package search runs the query pipeline over a task snapshot: property
// filtering, keyword filtering, scoring, quality gating, ranking.
//
// Stage order is fixed. Property filters are a strict AND; the keyword
// step is an OR over the expanded keywords applied afterwards, skipped
// when a vague query produced nothing but generic terms. Scoring
// combines relevance, due-date urgency, and priority, but a component
// only contributes when the query makes it meaningful (the activation
// rule); the quality gate derives its threshold from the analytic
// maximum under the same rule, so property-only queries are never held
// to an unreachable bar. The gate's safety floor guarantees that a
// non-empty candidate set never silently ranks down to nothing.
//
// All stages are pure functions over an immutable per-call Config; the
// Engine orchestrates them and owns the only suspension points (the
// query analyzer and the optional result analyst).
package search
