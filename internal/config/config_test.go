package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:4810" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database: /tmp/theseus-test.db
debug: true
server:
  addr: ":9000"
  read_timeout: 5s
reminders:
  renewal_days: 7
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database != "/tmp/theseus-test.db" || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("unset field lost its default: %v", cfg.Server.WriteTimeout)
	}
	if cfg.Reminders.RenewalDays != 7 || !cfg.Reminders.Overdue {
		t.Errorf("reminders = %+v", cfg.Reminders)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "server: [", "parse"},
		{"empty database", "database: \"\"", "database"},
		{"negative renewal", "reminders:\n  renewal_days: -1", "renewal_days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Database = "postgres://me@localhost/theseus"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Database != cfg.Database || !got.IsPostgres() {
		t.Errorf("Database = %q", got.Database)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"THESEUS_DB_CONNECTION": "/data/theseus.db",
		"THESEUS_ADDR":          ":8080",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.Database != "/data/theseus.db" || cfg.Server.Addr != ":8080" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestResolveNamesSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("database: /tmp/from-file.db\n"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		env       map[string]string
		overrides Overrides
		wantErr   string
		wantDB    string
	}{
		{name: "file only", wantDB: "/tmp/from-file.db"},
		{name: "env wins over file", env: map[string]string{"THESEUS_DB_CONNECTION": "/tmp/env.db"}, wantDB: "/tmp/env.db"},
		{name: "flag wins over env", env: map[string]string{"THESEUS_DB_CONNECTION": "/tmp/env.db"}, overrides: Overrides{Database: "/tmp/flag.db"}, wantDB: "/tmp/flag.db"},
		{name: "bad env value", env: map[string]string{"THESEUS_ADDR": "   "}, wantErr: "environment"},
		{name: "bad flag value", overrides: Overrides{Database: "   "}, wantErr: "command-line flags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(path, func(k string) string { return tt.env[k] }, tt.overrides)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Resolve error = %v, want mention of %q", err, tt.wantErr)
				}
				if strings.Contains(err.Error(), path) {
					t.Errorf("error blames the config file: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if cfg.Database != tt.wantDB {
				t.Errorf("Database = %q, want %q", cfg.Database, tt.wantDB)
			}
		})
	}
}

func TestIsPostgresConn(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"postgres://u@h/db", true},
		{"postgresql://u@h/db", true},
		{"host=localhost dbname=theseus", true},
		{"~/.config/theseus/theseus.db", false},
		{"/tmp/x.db", false},
	}
	for _, tt := range tests {
		if got := IsPostgresConn(tt.in); got != tt.want {
			t.Errorf("IsPostgresConn(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x/y.db"); got != filepath.Join(home, "x/y.db") {
		t.Errorf("ExpandPath = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
}
