// Package storage defines the persistence interfaces for task records.
//
// Tasks carry content-based IDs, so re-ingesting an unchanged note is an
// idempotent upsert. Implementations must be safe for concurrent use;
// the query pipeline reads a snapshot while ingestion writes.
package storage
