package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// MigrationsFS holds the migration files. The migrations package assigns
// its embedded files here at init.
var MigrationsFS fs.FS

// MigrationsDir is the directory inside MigrationsFS holding the files.
var MigrationsDir = "."

const migrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// Migration is one versioned schema change.
type Migration struct {
	Version string // YYYYMMDD_HHMMSS
	Name    string
	UpSQL   string
	DownSQL string
}

// MigrationRecord is a row of schema_migrations.
type MigrationRecord struct {
	Version   string
	AppliedAt time.Time
}

// Migrate applies every pending migration, oldest first. Each migration runs
// in its own transaction; on failure the earlier ones stay applied and a
// later call resumes from the failed one.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, migrationsTable); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	migrations, err := loadMigrations(MigrationsFS, MigrationsDir)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := db.runMigration(ctx, m.Version, m.UpSQL, true); err != nil {
			return fmt.Errorf("applying migration %s_%s: %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// MigrateDown rolls back the most recently applied migration. It is a no-op
// when nothing has been applied.
func (db *DB) MigrateDown(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, migrationsTable); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var version string
	err := db.QueryRowContext(ctx,
		"SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1",
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("finding last migration: %w", err)
	}

	migrations, err := loadMigrations(MigrationsFS, MigrationsDir)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	for _, m := range migrations {
		if m.Version != version {
			continue
		}
		if m.DownSQL == "" {
			return fmt.Errorf("migration %s has no down script", version)
		}
		if err := db.runMigration(ctx, m.Version, m.DownSQL, false); err != nil {
			return fmt.Errorf("rolling back migration %s: %w", version, err)
		}
		return nil
	}
	return fmt.Errorf("migration %s is applied but its files are missing", version)
}

// MigrationStatus reports applied and pending versions.
func (db *DB) MigrationStatus(ctx context.Context) (applied []MigrationRecord, pending []string, err error) {
	if _, err := db.ExecContext(ctx, migrationsTable); err != nil {
		return nil, nil, fmt.Errorf("creating migrations table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, nil, fmt.Errorf("querying migrations: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var rec MigrationRecord
		var at string
		if err := rows.Scan(&rec.Version, &at); err != nil {
			return nil, nil, fmt.Errorf("scanning migration: %w", err)
		}
		rec.AppliedAt, _ = time.Parse(time.RFC3339, at) //nolint:errcheck // zero time on legacy rows
		applied = append(applied, rec)
		done[rec.Version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating migrations: %w", err)
	}

	migrations, err := loadMigrations(MigrationsFS, MigrationsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading migrations: %w", err)
	}
	for _, m := range migrations {
		if !done[m.Version] {
			pending = append(pending, m.Version)
		}
	}
	return applied, pending, nil
}

func (db *DB) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("querying applied migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning applied migration: %w", err)
		}
		out[v] = true
	}
	return out, rows.Err()
}

// runMigration executes script and records (up) or forgets (down) version
// in the same transaction.
func (db *DB) runMigration(ctx context.Context, version, script string, up bool) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}

	if up {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, time.Now().UTC().Format(time.RFC3339))
	} else {
		_, err = tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = ?", version)
	}
	if err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return tx.Commit()
}

// loadMigrations reads and pairs the .up.sql/.down.sql files in dir, sorted
// by version. A nil fsys yields no migrations.
func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	if fsys == nil {
		return nil, nil
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	byVersion := make(map[string]*Migration)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, name, up, ok := parseMigrationFilename(e.Name())
		if !ok {
			continue
		}
		body, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}

		m, seen := byVersion[version]
		if !seen {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		}
		if up {
			m.UpSQL = string(body)
		} else {
			m.DownSQL = string(body)
		}
	}

	out := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" {
			return nil, fmt.Errorf("migration %s has a down script but no up script", m.Version)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// parseMigrationFilename splits "20260301_120000_dock_state.up.sql" into
// version "20260301_120000", name "dock_state" and direction.
func parseMigrationFilename(filename string) (version, name string, up, ok bool) {
	base, found := strings.CutSuffix(filename, ".sql")
	if !found {
		return "", "", false, false
	}
	switch {
	case strings.HasSuffix(base, ".up"):
		base, up = strings.TrimSuffix(base, ".up"), true
	case strings.HasSuffix(base, ".down"):
		base = strings.TrimSuffix(base, ".down")
	default:
		return "", "", false, false
	}

	parts := strings.SplitN(base, "_", 3)
	if len(parts) != 3 || len(parts[0]) != 8 || len(parts[1]) != 6 || parts[2] == "" {
		return "", "", false, false
	}
	return parts[0] + "_" + parts[1], parts[2], up, true
}
