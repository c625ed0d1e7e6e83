package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNewerSchema is returned when the database was migrated by a newer build.
var ErrNewerSchema = errors.New("database schema is newer than supported")

// Migration is one NNN_name.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner applies embedded migrations for one dialect.
type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect Dialect
}

func NewRunner(db *sql.DB, migrationFS fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, fs: migrationFS, dialect: dialect}
}

// plan is the gap between the recorded version and the embedded files.
type plan struct {
	current int
	latest  int
	pending []Migration
}

func (r *Runner) plan() (plan, error) {
	current, err := r.GetCurrentVersion()
	if err != nil {
		return plan{}, err
	}
	all, err := r.ReadMigrationFiles()
	if err != nil {
		return plan{}, err
	}

	p := plan{current: current}
	if len(all) > 0 {
		p.latest = all[len(all)-1].Version
	}
	if current > p.latest {
		return p, newerSchemaError(current, p.latest)
	}
	for _, m := range all {
		if m.Version > current {
			p.pending = append(p.pending, m)
		}
	}
	return p, nil
}

func (r *Runner) EnsureSchemaVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	return err
}

// GetCurrentVersion returns 0 for a database that has never been migrated.
func (r *Runner) GetCurrentVersion() (int, error) {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	var version int
	switch err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (r *Runner) SetVersion(version int) error {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.recordVersion(tx, version); err != nil {
		return err
	}
	return tx.Commit()
}

// recordVersion keeps schema_version at exactly one row.
func (r *Runner) recordVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	insert := r.dialect.Rebind("INSERT INTO schema_version (version) VALUES (?)")
	if _, err := tx.Exec(insert, version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

// ReadMigrationFiles returns the .sql files sorted by version. Other files
// are ignored; malformed names and duplicate versions are errors.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		version, name, err := parseFilename(e.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.fs, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

func parseFilename(file string) (int, string, error) {
	prefix, rest, ok := strings.Cut(file, "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", file)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in filename %s: %w", file, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in filename %s: version must be at least 1", file)
	}
	return version, strings.TrimSuffix(rest, ".sql"), nil
}

func (r *Runner) GetLatestVersion() (int, error) {
	all, err := r.ReadMigrationFiles()
	if err != nil || len(all) == 0 {
		return 0, err
	}
	return all[len(all)-1].Version, nil
}

// Pending reports how many migrations have not been applied yet.
func (r *Runner) Pending() (int, error) {
	p, err := r.plan()
	return len(p.pending), err
}

// ApplyMigrations runs every pending migration, each in its own transaction,
// and returns how many succeeded. A failure leaves the database at the last
// good version.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	p, err := r.plan()
	if err != nil {
		return 0, err
	}
	if len(p.pending) == 0 {
		logFn(fmt.Sprintf("Database schema is up to date (version %d)", p.current))
		return 0, nil
	}

	logFn(fmt.Sprintf("Migrating schema %s: version %d -> %d (%d pending)",
		r.dialect, p.current, p.latest, len(p.pending)))

	start := time.Now()
	for i, m := range p.pending {
		if err := r.apply(m); err != nil {
			return i, err
		}
		logFn(fmt.Sprintf("  ✓ %03d %s", m.Version, m.Name))
	}
	logFn(fmt.Sprintf("Applied %d migration(s) in %v", len(p.pending), time.Since(start).Round(time.Millisecond)))
	return len(p.pending), nil
}

func (r *Runner) apply(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if err := r.recordVersion(tx, m.Version); err != nil {
		return fmt.Errorf("migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// ValidateVersion fails when the database is ahead of this build.
func (r *Runner) ValidateVersion() error {
	_, err := r.plan()
	return err
}

func newerSchemaError(current, latest int) error {
	return fmt.Errorf("%w: version %d, this build supports up to %d; upgrade theseus", ErrNewerSchema, current, latest)
}
