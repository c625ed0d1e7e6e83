package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/theseus/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "theseus.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE tasks (id INTEGER PRIMARY KEY, title TEXT NOT NULL)`,
		`INSERT INTO tasks (title) VALUES ('pay rent'), ('call mum')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}
	return dbPath
}

// ticking returns a clock that advances one second per call.
func ticking(start time.Time) func() time.Time {
	current := start.Add(-time.Second)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func countTasks(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&n); err != nil {
		t.Fatalf("failed to count tasks in %s: %v", path, err)
	}
	return n
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local) }

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if got, want := filepath.Base(path), "theseus-20240315-093000.db"; got != want {
		t.Errorf("backup name = %q, want %q", got, want)
	}
	if filepath.Dir(path) != mgr.Dir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(path), mgr.Dir())
	}
	if n := countTasks(t, path); n != 2 {
		t.Errorf("backup has %d tasks, want 2", n)
	}

	info, err := os.Stat(mgr.Dir())
	if err != nil {
		t.Fatalf("backup directory missing: %v", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("backup directory mode = %o, want 0700", info.Mode().Perm())
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Fatal("Create() succeeded without a database")
	}
}

func TestCreateSameSecond(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local) }

	want := []string{
		"theseus-20240315-093000.db",
		"theseus-20240315-093000-1.db",
		"theseus-20240315-093000-2.db",
	}
	for i, name := range want {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
		if filepath.Base(path) != name {
			t.Errorf("Create() #%d = %s, want %s", i, filepath.Base(path), name)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("List() returned %d backups, want 3", len(backups))
	}
	// Newest first: the highest counter was written last.
	if backups[0].Name() != want[2] || backups[2].Name() != want[0] {
		t.Errorf("List() order = %s, %s, %s", backups[0].Name(), backups[1].Name(), backups[2].Name())
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	mgr.now = ticking(start)

	for i := 0; i < constants.MaxBackups+5; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("kept %d backups, want %d", len(backups), constants.MaxBackups)
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i].Timestamp.Before(backups[i-1].Timestamp) {
			t.Errorf("backup %d (%s) is not older than backup %d (%s)", i, backups[i].Name(), i-1, backups[i-1].Name())
		}
	}
	oldestKept := start.Add(5 * time.Second)
	if !backups[len(backups)-1].Timestamp.Equal(oldestKept) {
		t.Errorf("oldest kept backup = %v, want %v", backups[len(backups)-1].Timestamp, oldestKept)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if backups, err := mgr.List(); err != nil || len(backups) != 0 {
		t.Fatalf("List() before any backup = %v, %v; want empty", backups, err)
	}

	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	junk := []string{
		"notes.txt",
		"theseus-latest.db",
		"theseus-20240315-0930.db",
		"theseus-20240315-093000-x.db",
		"other-20240315-093000.db",
	}
	for _, name := range junk {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(mgr.Dir(), "theseus-20240315-093000.db.d"), 0700); err != nil {
		t.Fatal(err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("List() returned %d backups, want 1", len(backups))
	}
	if backups[0].Size == 0 {
		t.Error("backup size should be non-zero")
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		wantOK  bool
		wantSeq int
	}{
		{"theseus-20240315-093000.db", true, 0},
		{"theseus-20240315-093000-7.db", true, 7},
		{"theseus-20240315-093000-0.db", false, 0},
		{"theseus-20240315-093000_1.db", false, 0},
		{"theseus-20241345-093000.db", false, 0},
		{"theseus-20240315-093000.sqlite", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, seq, ok := parseName(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if seq != tt.wantSeq {
				t.Errorf("parseName(%q) seq = %d, want %d", tt.name, seq, tt.wantSeq)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = ticking(time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local))

	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO tasks (title) VALUES ('water plants')"); err != nil {
		t.Fatal(err)
	}
	db.Close()
	if n := countTasks(t, dbPath); n != 3 {
		t.Fatalf("precondition: %d tasks, want 3", n)
	}

	saved, err := mgr.Restore(snapshot)
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if n := countTasks(t, dbPath); n != 2 {
		t.Errorf("restored database has %d tasks, want 2", n)
	}
	if saved == "" {
		t.Fatal("Restore() should report the pre-restore snapshot")
	}
	if n := countTasks(t, saved); n != 3 {
		t.Errorf("pre-restore snapshot has %d tasks, want 3", n)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file was left behind")
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "theseus-20240315-093000.db")
	content := strings.Repeat("definitely not a sqlite database ", 8)
	if err := os.WriteFile(bogus, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(bogus); err == nil {
		t.Fatal("Restore() accepted a corrupted backup")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Fatal("Restore() accepted a missing backup")
	}
	if n := countTasks(t, dbPath); n != 2 {
		t.Errorf("database changed after failed restore: %d tasks", n)
	}
	if backups, _ := mgr.List(); len(backups) != 0 {
		t.Errorf("failed restore left %d snapshots", len(backups))
	}
}

func TestResolve(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, err := mgr.Resolve(filepath.Base(path))
	if err != nil {
		t.Fatalf("Resolve(name) failed: %v", err)
	}
	if got != path {
		t.Errorf("Resolve(name) = %s, want %s", got, path)
	}

	got, err = mgr.Resolve(path)
	if err != nil || got != path {
		t.Errorf("Resolve(abs) = %s, %v; want %s", got, err, path)
	}

	if _, err := mgr.Resolve("theseus-19990101-000000.db"); err == nil {
		t.Error("Resolve() of an unknown backup should fail")
	}
}
