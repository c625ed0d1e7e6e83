package migration

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT);")},
		"002_more.sql": {Data: []byte("ALTER TABLE things ADD COLUMN note TEXT;")},
		"README.md":    {Data: []byte("ignored")},
	}
	runner := NewRunner(db, fsys, SQLite)

	var logs []string
	applied, err := runner.ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() error = %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	if _, err := db.Exec("INSERT INTO things (name, note) VALUES ('a', 'b')"); err != nil {
		t.Errorf("migrated schema unusable: %v", err)
	}

	applied, err = runner.ApplyMigrations(nil)
	if err != nil || applied != 0 {
		t.Errorf("second run = (%d, %v), want (0, nil)", applied, err)
	}

	pending, err := runner.Pending()
	if err != nil || pending != 0 {
		t.Errorf("Pending() = (%d, %v), want (0, nil)", pending, err)
	}
}

func TestApplyMigrationsRollsBackFailure(t *testing.T) {
	db := setupTestDB(t)
	fsys := fstest.MapFS{
		"001_init.sql":   {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY);")},
		"002_broken.sql": {Data: []byte("THIS IS NOT SQL;")},
	}
	runner := NewRunner(db, fsys, SQLite)

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	version, _ := runner.GetCurrentVersion()
	if version != 1 {
		t.Errorf("version = %d, want 1 after failed second migration", version)
	}
}

func TestReadMigrationFilesErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		wantErr string
	}{
		{
			name:    "missing underscore",
			files:   fstest.MapFS{"001.sql": {Data: []byte("")}},
			wantErr: "invalid migration filename",
		},
		{
			name:    "non numeric version",
			files:   fstest.MapFS{"abc_init.sql": {Data: []byte("")}},
			wantErr: "invalid version number",
		},
		{
			name:    "zero version",
			files:   fstest.MapFS{"000_init.sql": {Data: []byte("")}},
			wantErr: "at least 1",
		},
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"001_a.sql":  {Data: []byte("")},
				"0001_b.sql": {Data: []byte("")},
			},
			wantErr: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(nil, tt.files, SQLite)
			_, err := runner.ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadMigrationFiles() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateVersionRejectsNewerSchema(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY);")},
	}, SQLite)

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion() error = %v", err)
	}
	err := runner.ValidateVersion()
	if !errors.Is(err, ErrNewerSchema) {
		t.Errorf("ValidateVersion() error = %v, want ErrNewerSchema", err)
	}
	if _, err := runner.ApplyMigrations(nil); !errors.Is(err, ErrNewerSchema) {
		t.Errorf("ApplyMigrations() error = %v, want ErrNewerSchema", err)
	}
	if _, err := runner.Pending(); !errors.Is(err, ErrNewerSchema) {
		t.Errorf("Pending() error = %v, want ErrNewerSchema", err)
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect Dialect
		in      string
		want    string
	}{
		{SQLite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{Postgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{Postgres, "SELECT '?' FROM t WHERE a = ?", "SELECT '?' FROM t WHERE a = $1"},
		{Postgres, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		if got := tt.dialect.Rebind(tt.in); got != tt.want {
			t.Errorf("%s.Rebind(%q) = %q, want %q", tt.dialect, tt.in, got, tt.want)
		}
	}
}
