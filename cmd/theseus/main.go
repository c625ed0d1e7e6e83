package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/cli/backups"
	"github.com/julianstephens/theseus/internal/cli/settings"
	"github.com/julianstephens/theseus/internal/cli/system"
	"github.com/julianstephens/theseus/internal/cli/trackers"
	"github.com/julianstephens/theseus/internal/config"
	"github.com/julianstephens/theseus/internal/constants"
	apperrors "github.com/julianstephens/theseus/internal/errors"
	"github.com/julianstephens/theseus/internal/logger"
)

var CLI struct {
	Version    kong.VersionFlag
	ConfigFile string `help:"Path to the YAML config file." default:"${config_file}" type:"path" name:"config-file"`
	Database   string `help:"SQLite path or PostgreSQL connection string (overrides config and THESEUS_DB_CONNECTION). For PostgreSQL, credentials must NOT be embedded; use the OS keyring, .pgpass or the environment instead."`
	Debug      bool   `help:"Enable debug logging to stderr."`

	Init      system.InitCmd      `cmd:"" help:"Initialize theseus storage."`
	Migrate   system.MigrateCmd   `cmd:"" help:"Run database migrations."`
	Doctor    system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Serve     system.ServeCmd     `cmd:"" help:"Run the REST API server."`
	Tui       system.TuiCmd       `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Dashboard system.DashboardCmd `cmd:"" help:"Print the dashboard overview once."`
	Remind    system.RemindCmd    `cmd:"" help:"Send desktop reminders for overdue tasks and renewals."`
	Keyring   struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Task     trackers.TaskCmd     `cmd:"" help:"Manage tasks."`
	Habit    trackers.HabitCmd    `cmd:"" help:"Manage habits and habit tracking."`
	Sleep    trackers.SleepCmd    `cmd:"" help:"Log sleep and show the sleep score."`
	Finance  trackers.FinanceCmd  `cmd:"" help:"Record transactions and show budgets."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal life dashboard: tasks, habits, sleep, finance and more"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Resolve(CLI.ConfigFile, os.Getenv, config.Overrides{
		Database: CLI.Database,
		Debug:    CLI.Debug,
	})
	if err != nil {
		apperrors.Fatal(err)
	}

	configDir := config.Dir(CLI.ConfigFile)
	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: configDir,
		Level:     cfg.LogLevel,
		Console:   ctx.Command() == "serve",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "version", constants.Version)

	store, err := cli.OpenStore(cfg)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:     store,
		Config:    cfg,
		ConfigDir: configDir,
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
