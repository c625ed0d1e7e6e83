package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/theseus/internal/backup"
	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/lockfile"
	"github.com/julianstephens/theseus/internal/migration"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *cli.Context) error
	// needsDB checks are skipped when the database cannot be loaded.
	needsDB bool
	// warnOnly failures do not fail the command.
	warnOnly bool
}

var doctorChecks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Settings", run: checkSettings, needsDB: true},
	{name: "Task data", run: checkTasks, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "API server", run: checkServer, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("%w: version %d, this build supports up to %d", migration.ErrNewerSchema, current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("%d pending migration(s) - run '%s migrate'", latest-current, constants.AppName)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.LoadSettings(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if _, err := time.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("timezone setting %q is not a valid IANA zone: %w", settings.Timezone, err)
	}
	return nil
}

// checkTasks revalidates stored tasks, catching rows written by older
// versions or edited by hand.
func checkTasks(ctx *cli.Context) error {
	tasks, err := ctx.Store.ListTasks(context.Background(), models.TaskFilter{})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	var bad []error
	for _, t := range tasks {
		if err := validation.Task(t); err != nil {
			bad = append(bad, fmt.Errorf("task %d: %w", t.ID, err))
		}
	}
	return errors.Join(bad...)
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errors.New("backups are only managed for SQLite databases")
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if now.Location() == nil {
		return errors.New("local timezone could not be determined")
	}
	return nil
}

func checkServer(ctx *cli.Context) error {
	entry, err := lockfile.Read(ctx.ConfigDir)
	if err != nil {
		return err
	}
	fmt.Printf("   Server running at %s (pid %d)\n", entry.URL(), entry.PID)
	return nil
}
