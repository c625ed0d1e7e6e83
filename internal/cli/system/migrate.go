package system

import (
	"fmt"

	"github.com/julianstephens/theseus/internal/cli"
)

type MigrateCmd struct {
	NoBackup bool `help:"Skip the automatic backup taken before migrating (SQLite only)."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	defer ctx.Store.Close()

	if !c.NoBackup {
		ctx.PerformAutomaticBackup()
	}

	count, err := ctx.Store.Migrate(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
