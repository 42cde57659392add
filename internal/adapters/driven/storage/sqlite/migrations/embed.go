// Package migrations holds the SQLite schema for the content repository.
package migrations

import "embed"

// FS holds the NNN_name.up.sql files, applied in name order on open and
// tracked in schema_migrations.
//
//go:embed *.sql
var FS embed.FS
