package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/theseus/internal/constants"
)

// Config is the on-disk configuration file
type Config struct {
	// Database is a SQLite path or a PostgreSQL URL/DSN without a password.
	Database  string          `yaml:"database"`
	Debug     bool            `yaml:"debug"`
	LogLevel  string          `yaml:"log_level,omitempty"`
	Server    ServerConfig    `yaml:"server"`
	Client    ClientConfig    `yaml:"client"`
	Reminders RemindersConfig `yaml:"reminders"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	CORSOrigins  []string      `yaml:"cors_origins"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type ClientConfig struct {
	// BaseURL pins the API the terminal client talks to. When empty the
	// client discovers a local server through its lockfile.
	BaseURL string        `yaml:"base_url,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

type RemindersConfig struct {
	RenewalDays int  `yaml:"renewal_days"`
	Overdue     bool `yaml:"overdue"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Database: constants.DefaultDBPath,
		Server: ServerConfig{
			Addr:         constants.DefaultAddr,
			CORSOrigins:  append([]string(nil), constants.DefaultCORSOrigins...),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Client: ClientConfig{
			Timeout: 10 * time.Second,
		},
		Reminders: RemindersConfig{
			RenewalDays: 3,
			Overdue:     true,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed
func Save(path string, cfg Config) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ApplyEnv overlays environment variables onto cfg
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(constants.EnvDBConnection); v != "" {
		c.Database = v
	}
	if v := getenv(constants.EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Overrides are command-line values that take precedence over the environment.
type Overrides struct {
	Database string
	Debug    bool
}

// Resolve loads path, then layers the environment and o on top. A validation
// error names the layer that introduced the bad value.
func Resolve(path string, getenv func(string) string, o Overrides) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}

	cfg.ApplyEnv(getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from %s/%s environment: %w",
			constants.EnvDBConnection, constants.EnvAddr, err)
	}

	if o.Database != "" {
		cfg.Database = o.Database
	}
	if o.Debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from command-line flags: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return errors.New("database must not be empty")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Client.Timeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.Reminders.RenewalDays < 0 {
		return errors.New("reminders.renewal_days must not be negative")
	}
	return nil
}

// IsPostgres reports whether the database setting is a PostgreSQL URL or DSN
func (c Config) IsPostgres() bool {
	return IsPostgresConn(c.Database)
}

// IsPostgresConn reports whether s looks like a PostgreSQL connection string
func IsPostgresConn(s string) bool {
	if strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") {
		return true
	}
	return strings.Contains(s, "host=") || strings.Contains(s, "dbname=")
}

// Dir returns the directory holding the config file, logs and the lockfile
func Dir(configFile string) string {
	return filepath.Dir(ExpandPath(configFile))
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
