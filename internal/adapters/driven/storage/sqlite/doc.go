// Package sqlite provides a SQLite-based implementation of the content
// repository and its full-text ranker.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single database backs several ports:
//
//   - ContentStore: indexed content, unique per (content type, source ID)
//   - Ranker: FTS5 bm25 ranking with title weighted above body text
//   - ContextStore: curated context sections
//   - SchedulerStore: scheduled task state and history
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. An FTS5 external-content table mirrors title and body text and
// is kept in step by triggers.
//
// # Data Location
//
// By default, the database is stored at ~/.relevance/data/relevance.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
