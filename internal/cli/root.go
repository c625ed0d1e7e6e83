package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/theseus/internal/backup"
	"github.com/julianstephens/theseus/internal/client"
	"github.com/julianstephens/theseus/internal/config"
	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/dashboard"
	apperrors "github.com/julianstephens/theseus/internal/errors"
	"github.com/julianstephens/theseus/internal/keyring"
	"github.com/julianstephens/theseus/internal/lockfile"
	"github.com/julianstephens/theseus/internal/logger"
	"github.com/julianstephens/theseus/internal/storage"
	"github.com/julianstephens/theseus/internal/storage/postgres"
	"github.com/julianstephens/theseus/internal/storage/sqlite"
	"github.com/julianstephens/theseus/internal/tui"
)

type Context struct {
	Store  storage.Provider
	Config config.Config
	// ConfigDir holds logs, the server lockfile and the default database.
	ConfigDir string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Today is the local calendar date pinned to UTC midnight, the form every
// metrics function expects.
func (c *Context) Today() time.Time {
	n := c.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// IsSQLite reports whether the store is file backed and can be backed up.
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Local returns a dashboard source reading the store directly.
func (c *Context) Local() dashboard.LocalSource {
	return dashboard.LocalSource{Store: c.Store, Now: c.Now}
}

// Backend picks a running API server when one answers, otherwise the local
// store. The pinned client.base_url wins over lockfile discovery.
func (c *Context) Backend(ctx context.Context) (tui.Backend, string, error) {
	base := c.Config.Client.BaseURL
	if base == "" {
		base = lockfile.Discover(c.ConfigDir)
	}
	cl := client.New(base, client.WithTimeout(c.Config.Client.Timeout))
	err := cl.Ping(ctx)
	if err == nil {
		return cl, base, nil
	}
	logger.Debug("API server unreachable, using local store", "url", base, "error", err)

	if err := c.Store.Load(); err != nil {
		return nil, "", err
	}
	return c.Local(), "local", nil
}

// OpenStore builds the storage provider for the configured database. When
// the database is left at its default and the OS keyring holds a PostgreSQL
// connection string, the keyring wins.
func OpenStore(cfg config.Config) (storage.Provider, error) {
	database := cfg.Database
	fromKeyring := false
	if database == constants.DefaultDBPath {
		if connStr, err := keyring.GetConnectionString(); err == nil {
			database = connStr
			fromKeyring = true
		} else if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
	}

	if !config.IsPostgresConn(database) {
		return sqlite.NewStore(config.ExpandPath(database)), nil
	}

	if !fromKeyring {
		if _, err := postgres.ValidateConnString(database); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, apperrors.WithHint(
					errors.New("PostgreSQL connection strings with embedded credentials are not allowed"),
					fmt.Sprintf("Store it with '%s keyring set', export %s, or use a .pgpass file", constants.AppName, constants.EnvDBConnection),
				)
			}
			return nil, err
		}
	}
	return postgres.New(database), nil
}

// ParseAssignment splits a key=value flag.
func ParseAssignment(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	return key, value, nil
}
