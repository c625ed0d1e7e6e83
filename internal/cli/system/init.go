package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/config"
	"github.com/julianstephens/theseus/internal/constants"
)

type InitCmd struct {
	Force       bool   `help:"Force reset by deleting existing database before initialization."`
	WriteConfig string `help:"Also write the current configuration to this YAML file." type:"path" placeholder:"PATH"`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if !ctx.IsSQLite() {
			return fmt.Errorf("--force is only supported for SQLite databases")
		}
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			// Database exists, close it first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			for _, suffix := range []string{"-wal", "-shm"} {
				os.Remove(dbPath + suffix)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.WriteConfig != "" {
		if err := config.Save(c.WriteConfig, ctx.Config); err != nil {
			return err
		}
		fmt.Printf("Wrote configuration to: %s\n", c.WriteConfig)
	}
	return nil
}
