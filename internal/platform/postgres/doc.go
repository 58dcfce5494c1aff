// Package postgres implements the store interfaces on PostgreSQL,
// accessed through database/sql with the pgx driver. Progress records
// keep their document-shaped fields (learned-id list, mastery counters)
// as JSONB columns and are written with merge semantics: created_at is
// assigned once and preserved on every later upsert.
package postgres
