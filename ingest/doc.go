// Package ingest turns markdown notes into task records. ParseNote
// extracts checkbox task lines and their inline metadata; Pipeline
// parses and stores whole note batches asynchronously.
package ingest
