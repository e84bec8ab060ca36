package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/taskquery/ai"
)

const analysisResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "keywords": {
      "type": "array",
      "items": {"type": "string"}
    },
    "expansions": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {"type": "string"}
      }
    },
    "filters": {
      "type": "object",
      "properties": {
        "priority": {"type": "string", "enum": ["", "1", "2", "3", "4", "any", "none"]},
        "due": {"type": "string"},
        "status": {"type": "string"},
        "folder": {"type": "string"},
        "tags": {"type": "array", "items": {"type": "string"}}
      },
      "additionalProperties": false
    },
    "time_context": {"type": "string"},
    "is_vague": {"type": "boolean"},
    "vague_reason": {"type": "string"},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "language": {"type": "string"}
  },
  "required": ["keywords", "filters", "confidence"],
  "additionalProperties": false
}`

const analysisPromptTemplate = `You interpret free-text queries about personal task lists into structured JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "keywords" are the content-bearing terms of the query, lowercase, in query order, without
  stop words and without property phrases. Property phrases become filters instead.
- Known property phrases: %s. Status categories: %s.
- "expansions" maps each keyword to up to %d equivalent terms per language for these
  languages: %s. Do not invent expansions for keywords you are unsure about.
- "filters.due" accepts "today", "tomorrow", "overdue", "none", "any", an ISO date like
  "2026-01-31", or an operator form like "<=2026-01-31". Use "<=" for relative ranges such
  as "this week" so overdue items stay included.
- A time expression attached to concrete content, or phrased as an explicit filter
  ("due today"), belongs in "filters.due". A time expression attached to otherwise vague
  content belongs in "time_context" instead. Never fill both for the same expression.
- Set "is_vague" to true only when the query is dominated by generic terms ("my stuff",
  "everything important"), and always give "vague_reason" when you do.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous
  text outside the object.

Example:
Input: "urgent report tasks due this week"
Output:
{
  "keywords": ["report"],
  "expansions": {"report": ["summary", "informe"]},
  "filters": {"priority": "1", "due": "<=2026-03-08"},
  "confidence": 0.9,
  "language": "en"
}

Example (vague query with a time hint):
Input: "what do I have today"
Output:
{
  "keywords": [],
  "filters": {},
  "time_context": "today",
  "is_vague": true,
  "vague_reason": "no content-bearing terms, only a time hint",
  "confidence": 0.8,
  "language": "en"
}`

// buildAnalyzerPrompt creates the system prompt with the request's
// vocabulary context embedded.
func buildAnalyzerPrompt(req ai.AnalyzeRequest) string {
	terms := strings.Join(req.PropertyTerms, ", ")
	if terms == "" {
		terms = "(none)"
	}
	statuses := strings.Join(req.Statuses, ", ")
	if statuses == "" {
		statuses = "(none)"
	}
	languages := strings.Join(req.Languages, ", ")
	if languages == "" {
		languages = "en"
	}
	return fmt.Sprintf(analysisPromptTemplate,
		analysisResponseSchema, terms, statuses, req.MaxExpansions, languages)
}

const analystPromptTemplate = `You summarize task search results in two or three plain sentences.

Given the user's query and the ranked task list, describe what was found, call out anything
overdue or urgent, and mention the total count. Do not repeat the full list. Do not use
markdown. Answer in the language of the query.`
