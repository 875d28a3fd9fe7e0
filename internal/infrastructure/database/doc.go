// Package database owns the controller's SQLite connection and schema.
//
// The dock controller keeps two kinds of durable state in SQLite: the
// automatic-mode flag (the only controller state that survives a restart)
// and the history of connector transitions. Both live in tables created by
// the SQL files in the top-level migrations directory, which registers
// itself here through MigrationsFS.
//
// Open applies the pragmas the controller relies on (busy timeout, foreign
// keys, optional WAL) and pins the pool to a single connection, so callers
// can use the embedded *sql.DB directly.
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql. Applied versions are tracked in the
// schema_migrations table.
package database
