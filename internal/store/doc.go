// Package store persists reconciliation run history to SQLite.
//
// Persistence is optional and strictly write-after: the engine itself
// is a pure function and never reads the store. A saved run is the full
// audit artifact of one invocation - counters, rendered report, and the
// per-contract outcomes in classification order - so a controller can
// revisit what was flagged on a given day without re-running anything.
//
// The database is configured for a single writer (SQLite's natural
// mode) with WAL enabled so history listings can read concurrently.
package store
