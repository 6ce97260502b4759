// Package store implements the repository Model contract on top of Bun:
// where-clauses, ordering, pagination, eager loading of relations, a
// dialect-aware upsert that reports inserts, and SUM/COUNT aggregates.
package store
