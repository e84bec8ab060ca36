// Package openai implements the ai service interfaces against any
// OpenAI-compatible chat API (Ollama, LocalAI, vLLM, OpenAI itself).
//
// The analyzer asks the model for a strict-JSON interpretation of the
// query and repairs common formatting mistakes before unmarshaling;
// persistent failures are returned to the caller, which falls back to
// heuristic parsing. The analyst produces a short plain-text summary of a
// ranked result list.
package openai
