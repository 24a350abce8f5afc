// Package sqlite provides SQLite-backed store implementations using
// the pure-Go modernc.org/sqlite driver. A single Store owns the
// database connection; the per-entity store interfaces are wrapper
// views over it.
package sqlite
