// Package database provides SQLite-based storage for topsites.
//
// This package implements the HistoryDB, which stores:
//   - Visit events (one row per recorded navigation)
//   - Aggregated site records with visit counts and last-access times
//   - User pins (grid slot assignments) and ignored sites
//   - The bookmark index consulted during grid composition
//
// HistoryDB implements the engine's HistorySource, PinStore,
// IgnoreStore, and BookmarkIndex collaborator interfaces, so one handle
// backs the entire recomputation.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Sufficient performance for a per-user browsing history
//  4. WAL mode provides good concurrent read performance
package database
